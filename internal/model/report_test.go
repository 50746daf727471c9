package model

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleFindings() []Finding {
	return []Finding{
		{DetectorID: "tx-origin-usage", Severity: SeverityMedium, Location: Location{File: "b.sol", Line: 10, Column: 4}},
		{DetectorID: "missing-spdx", Severity: SeverityNC, Location: Location{File: "a.sol", Line: 1, Column: 0}},
		{DetectorID: "delegatecall-in-loop", Severity: SeverityHigh, Location: Location{File: "b.sol", Line: 22, Column: 8}},
		{DetectorID: "split-require", Severity: SeverityGas, Location: Location{File: "a.sol", Line: 7, Column: 2}},
		{DetectorID: "block-timestamp-deadline", Severity: SeverityLow, Location: Location{File: "a.sol", Line: 7, Column: 2}},
		{DetectorID: "deprecated-transfer", Severity: SeverityMedium, Location: Location{File: "a.sol", Line: 7, Column: 2}},
		{DetectorID: "tx-origin-usage", Severity: SeverityMedium, Location: Location{File: "a.sol", Line: 7, Column: 2}},
	}
}

func TestReportSortCanonicalOrder(t *testing.T) {
	report := Report{Findings: sampleFindings()}
	report.Sort()

	gotIDs := make([]string, 0, len(report.Findings))
	for _, f := range report.Findings {
		gotIDs = append(gotIDs, f.DetectorID)
	}

	require.Equal(t, []string{
		"delegatecall-in-loop", // High before everything
		"deprecated-transfer",  // Medium, a.sol, detector id tie-break
		"tx-origin-usage",      // Medium, a.sol
		"tx-origin-usage",      // Medium, b.sol after a.sol
		"block-timestamp-deadline",
		"split-require",
		"missing-spdx",
	}, gotIDs)
}

func TestReportSortIsOrderIndependent(t *testing.T) {
	base := Report{Findings: sampleFindings()}
	base.Sort()

	want, err := json.Marshal(base)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := sampleFindings()
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		report := Report{Findings: shuffled}
		report.Sort()

		got, err := json.Marshal(report)
		require.NoError(t, err)
		require.Equal(t, string(want), string(got))
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleFindings())

	require.Equal(t, 1, summary.High)
	require.Equal(t, 3, summary.Medium)
	require.Equal(t, 1, summary.Low)
	require.Equal(t, 1, summary.Gas)
	require.Equal(t, 1, summary.NC)
	require.Equal(t, 7, summary.Total)
}

func TestSnippetAt(t *testing.T) {
	content := "line one\n  line two  \n\nline four"

	require.Equal(t, "line one", SnippetAt(content, 1))
	require.Equal(t, "line two", SnippetAt(content, 2))
	require.Equal(t, SnippetUnavailable, SnippetAt(content, 3))
	require.Equal(t, "line four", SnippetAt(content, 4))
	require.Equal(t, SnippetUnavailable, SnippetAt(content, 5))
	require.Equal(t, SnippetUnavailable, SnippetAt(content, 0))
}
