package model

// Path represents a file system path.
type Path string

// SourceFile is one loaded Solidity file. Immutable after load; the parsed
// tree lives alongside it in the analysis package so this package stays free
// of syntax dependencies.
type SourceFile struct {
	// Path is the absolute, cleaned on-disk path used for import resolution.
	Path Path
	// Display is the project-root-relative path used in reports.
	Display string
	// Content is the raw file text.
	Content string
	// Hash is the sha256 of Content, hex encoded.
	Hash string
}

// File pairs a display path with its content hash for report metadata.
type File struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}
