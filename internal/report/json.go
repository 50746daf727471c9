package report

import (
	"encoding/json"
	"io"

	"solvet.dev/pkg/solvet/internal/model"
)

// JSON renders the report as two-space-indented JSON. Field order follows
// the model struct tags, so the output is byte-stable for a stable Report.
type JSON struct{}

func (JSON) Render(w io.Writer, r *model.Report) error {
	StampFingerprints(r)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(r)
}
