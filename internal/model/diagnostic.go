package model

// DiagnosticKind identifies the pipeline stage that produced a diagnostic.
type DiagnosticKind string

const (
	// DiagParseFailure reports a file whose syntax could not be parsed.
	DiagParseFailure DiagnosticKind = "parse-failure"
	// DiagUnresolvedImport reports an import that matched no file.
	DiagUnresolvedImport DiagnosticKind = "unresolved-import"
	// DiagDuplicateDeclaration reports a name collision within one scope.
	DiagDuplicateDeclaration DiagnosticKind = "duplicate-declaration"
	// DiagCyclicInheritance reports a cycle in the inheritance graph.
	DiagCyclicInheritance DiagnosticKind = "cyclic-inheritance"
	// DiagLinearizationConflict reports a C3 merge with no valid next element.
	DiagLinearizationConflict DiagnosticKind = "linearization-conflict"
	// DiagDetectorPanic reports a detector check that failed on one node.
	DiagDetectorPanic DiagnosticKind = "detector-panic"
)

// Diagnostic is a pipeline-level error, distinct from a Finding. Diagnostics
// never abort a run; they ride along in the Report.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	Location   Location       `json:"location"`
	Message    string         `json:"message"`
	DetectorID string         `json:"detector_id,omitempty"`
}

// less orders diagnostics by file, then line, then kind, then message.
func (d Diagnostic) less(other Diagnostic) bool {
	if d.Location.File != other.Location.File {
		return d.Location.File < other.Location.File
	}

	if d.Location.Line != other.Location.Line {
		return d.Location.Line < other.Location.Line
	}

	if d.Kind != other.Kind {
		return d.Kind < other.Kind
	}

	return d.Message < other.Message
}
