package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    Severity
		wantErr bool
	}{
		{input: "high", want: SeverityHigh},
		{input: "High", want: SeverityHigh},
		{input: " MEDIUM ", want: SeverityMedium},
		{input: "med", want: SeverityMedium},
		{input: "low", want: SeverityLow},
		{input: "gas", want: SeverityGas},
		{input: "nc", want: SeverityNC},
		{input: "non-critical", want: SeverityNC},
		{input: "info", want: SeverityNC},
		{input: "critical", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSeverity(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityRankOrder(t *testing.T) {
	require.Greater(t, SeverityHigh, SeverityMedium)
	require.Greater(t, SeverityMedium, SeverityLow)
	require.Greater(t, SeverityLow, SeverityGas)
	require.Greater(t, SeverityGas, SeverityNC)
	require.Equal(t, 0, int(SeverityNC))
	require.Equal(t, 4, int(SeverityHigh))
}

func TestSeverityJSONRoundTrip(t *testing.T) {
	for _, sev := range Severities {
		data, err := json.Marshal(sev)
		require.NoError(t, err)

		var back Severity
		require.NoError(t, json.Unmarshal(data, &back))
		require.Equal(t, sev, back)
	}
}
