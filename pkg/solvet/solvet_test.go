package solvet_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solvet.dev/pkg/solvet/pkg/solvet"
)

func TestDetectors_EnumeratesBattery(t *testing.T) {
	descriptors := solvet.Detectors()

	require.NotEmpty(t, descriptors)

	ids := map[string]bool{}
	for _, d := range descriptors {
		assert.False(t, ids[d.ID], "duplicate id %q", d.ID)
		ids[d.ID] = true
	}

	assert.True(t, ids["delegatecall-in-loop"])
	assert.True(t, ids["missing-spdx"])
}

func TestAnalyze_LocalDirectory(t *testing.T) {
	dir := t.TempDir()
	source := `// SPDX-License-Identifier: MIT
pragma solidity 0.8.19;

contract Spender {
    function drain(address target, bytes calldata payload) external {
        for (uint256 i = 0; i < 3; i++) {
            (bool ok, ) = target.delegatecall(payload);
            require(ok, "call failed");
        }
    }
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Spender.sol"), []byte(source), 0o644))

	report, err := solvet.Analyze(context.Background(), solvet.Config{
		Scope: []string{dir},
		Root:  dir,
		Flags: solvet.DefaultFlags(),
	})
	require.NoError(t, err)

	require.Len(t, report.Files, 1)

	var found bool
	for _, f := range report.Findings {
		if f.DetectorID == "delegatecall-in-loop" {
			found = true
		}
	}
	assert.True(t, found, "expected a delegatecall-in-loop finding")
}
