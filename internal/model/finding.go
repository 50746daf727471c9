package model

// Finding is one reported issue, tagged with the detector that produced it.
type Finding struct {
	DetectorID  string   `json:"detector_id"`
	Severity    Severity `json:"severity"`
	Location    Location `json:"location"`
	Message     string   `json:"message"`
	Fix         string   `json:"fix,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`
}

// less orders findings by the canonical report key: severity (most severe
// first), then file, then start location, then detector id, then message.
func (f Finding) less(other Finding) bool {
	if f.Severity != other.Severity {
		return f.Severity > other.Severity
	}

	if f.Location.File != other.Location.File {
		return f.Location.File < other.Location.File
	}

	if f.Location.Line != other.Location.Line {
		return f.Location.Line < other.Location.Line
	}

	if f.Location.Column != other.Location.Column {
		return f.Location.Column < other.Location.Column
	}

	if f.DetectorID != other.DetectorID {
		return f.DetectorID < other.DetectorID
	}

	return f.Message < other.Message
}
