package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solvet.dev/pkg/solvet/internal/lang"
	"solvet.dev/pkg/solvet/internal/model"
)

// baseAwareReporter proves cross-file symbols arrived: it reports contracts
// whose first base resolves in the symbol table.
func baseAwareReporter() Detector {
	det := testDetector("base-aware", model.SeverityLow, lang.KindContract)
	det.NeedsSymbols = true
	det.Check = func(node lang.Node, ctx *Context) []model.Finding {
		decl := node.(*lang.ContractDecl)
		if len(decl.Bases) == 0 {
			return nil
		}
		if _, ok := ctx.Symbols().Lookup(decl.Bases[0].Name); !ok {
			return nil
		}
		return []model.Finding{ctx.NewFinding(node, "base "+decl.Bases[0].Name+" resolved")}
	}

	return det
}

func TestImports_RelativeImportContributesSymbolsOnly(t *testing.T) {
	fs, proj := memProject(map[string]string{
		"/proj/src/Child.sol": `import "../lib/Base.sol";
contract Child is Base {}
`,
		"/proj/lib/Base.sol": `contract Base {
    function go(address t) external { t.call(""); }
}
`,
	})
	reg := MustRegistry([]Detector{baseAwareReporter(), callReporter(model.SeverityMedium)})

	engine := NewEngine(fs, reg, nil)
	report, err := engine.Run(context.Background(), Config{
		Project: proj,
		Scope:   []string{"src"},
		Flags:   DefaultFlags(),
	})
	require.NoError(t, err)
	assert.Empty(t, report.Diagnostics)

	// The imported file resolved Child's base...
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "base-aware", report.Findings[0].DetectorID)
	assert.Equal(t, "src/Child.sol", report.Findings[0].Location.File)

	// ...but its own call never became a finding, and it is not listed.
	require.Len(t, report.Files, 1)
	assert.Equal(t, "src/Child.sol", report.Files[0].Path)
}

func TestImports_RemappedImport(t *testing.T) {
	fs, proj := memProject(map[string]string{
		"/proj/src/Child.sol": `import "@oz/token/ERC20.sol";
contract Child is ERC20 {}
`,
		"/proj/lib/oz/token/ERC20.sol": `contract ERC20 {}
`,
	})
	require.NoError(t, proj.AddRemappings([]string{"@oz/=lib/oz/"}))

	reg := MustRegistry([]Detector{baseAwareReporter()})

	engine := NewEngine(fs, reg, nil)
	report, err := engine.Run(context.Background(), Config{
		Project: proj,
		Scope:   []string{"src"},
		Flags:   DefaultFlags(),
	})
	require.NoError(t, err)

	assert.Empty(t, report.Diagnostics)
	require.Len(t, report.Findings, 1)
	assert.Contains(t, report.Findings[0].Message, "ERC20")
}

func TestImports_LibraryRootFallback(t *testing.T) {
	fs, proj := memProject(map[string]string{
		"/proj/src/T.sol": `import "forge-std/Test.sol";
contract T is Test {}
`,
		"/proj/lib/forge-std/Test.sol": `contract Test {}
`,
	})
	reg := MustRegistry([]Detector{baseAwareReporter()})

	engine := NewEngine(fs, reg, nil)
	report, err := engine.Run(context.Background(), Config{
		Project: proj,
		Scope:   []string{"src"},
		Flags:   DefaultFlags(),
	})
	require.NoError(t, err)

	assert.Empty(t, report.Diagnostics)
	require.Len(t, report.Findings, 1)
}

func TestImports_UnresolvedBecomesDiagnostic(t *testing.T) {
	fs, proj := memProject(map[string]string{
		"/proj/src/Lonely.sol": `import "nowhere/Gone.sol";
contract Lonely {}
`,
	})
	reg := MustRegistry([]Detector{baseAwareReporter()})

	engine := NewEngine(fs, reg, nil)
	report, err := engine.Run(context.Background(), Config{
		Project: proj,
		Scope:   []string{"src"},
		Flags:   DefaultFlags(),
	})
	require.NoError(t, err)

	require.Len(t, report.Diagnostics, 1)
	d := report.Diagnostics[0]
	assert.Equal(t, model.DiagUnresolvedImport, d.Kind)
	assert.Equal(t, "src/Lonely.sol", d.Location.File)
	assert.Contains(t, d.Message, "nowhere/Gone.sol")
}

func TestImports_CyclicImportsTerminate(t *testing.T) {
	fs, proj := memProject(map[string]string{
		"/proj/src/A.sol": `import "./B.sol";
contract A {}
`,
		"/proj/src/B.sol": `import "./A.sol";
contract B {}
`,
	})
	reg := MustRegistry([]Detector{contractReporter()})

	engine := NewEngine(fs, reg, nil)
	report, err := engine.Run(context.Background(), Config{
		Project: proj,
		Scope:   []string{"src"},
		Flags:   DefaultFlags(),
	})
	require.NoError(t, err)

	assert.Empty(t, report.Diagnostics)
	assert.Len(t, report.Files, 2)
	assert.Len(t, report.Findings, 2)
}
