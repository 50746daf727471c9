package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDetectorsCmd(t *testing.T, args ...string) string {
	t.Helper()

	detectorsSeverityFlag = ""

	cmd := newDetectorsCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	require.NoError(t, cmd.Execute())

	return out.String()
}

func TestDetectorsCmd_ListsAll(t *testing.T) {
	output := runDetectorsCmd(t)

	assert.Contains(t, output, "delegatecall-in-loop")
	assert.Contains(t, output, "missing-spdx")
	assert.Contains(t, output, "fee-on-transfer")
	assert.Contains(t, output, "fot")
}

func TestDetectorsCmd_SeverityFilter(t *testing.T) {
	output := runDetectorsCmd(t, "--severity", "high")

	assert.Contains(t, output, "delegatecall-in-loop")
	assert.Contains(t, output, "msg-value-in-loop")
	assert.NotContains(t, output, "missing-spdx")

	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "-in-loop") {
			assert.Contains(t, line, "High")
		}
	}
}

func TestDetectorsCmd_RejectsUnknownSeverity(t *testing.T) {
	detectorsSeverityFlag = ""

	cmd := newDetectorsCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--severity", "catastrophic"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catastrophic")
}
