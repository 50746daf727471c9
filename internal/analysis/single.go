package analysis

import (
	"crypto/sha256"
	"encoding/hex"

	"solvet.dev/pkg/solvet/internal/model"
)

// AnalyzeSource runs a registry over a single in-memory file with every
// detector enabled. Imports are not resolved, so cross-file symbols stay
// unknown; everything declared in the file itself still linearizes. This
// is the harness detector tests are built on, and embedders can use it to
// check a lone snippet without a project on disk.
func AnalyzeSource(name, content string, reg *Registry, flags Flags) ([]model.Finding, []model.Diagnostic) {
	sum := sha256.Sum256([]byte(content))

	state := &fileState{
		src: model.SourceFile{
			Path:    model.Path(name),
			Display: name,
			Content: content,
			Hash:    hex.EncodeToString(sum[:]),
		},
		scoped: true,
	}

	state.parse()

	if state.parseErr != nil {
		return nil, []model.Diagnostic{state.parseDiagnostic()}
	}

	files := []*fileState{state}

	symbols, diags := buildSymbols(files)

	lin, linDiags := linearizeAll(symbols)
	diags = append(diags, linDiags...)

	sh := &shared{symbols: symbols, lin: lin}
	enabled := reg.enabledSet(model.SeverityNC, nil, flags)

	findings, detectDiags := detectFile(state, reg, enabled, sh, flags)
	diags = append(diags, detectDiags...)

	report := model.Report{Findings: findings, Diagnostics: diags}
	report.Sort()

	return report.Findings, report.Diagnostics
}
