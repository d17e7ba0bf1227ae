package models

// Artifact is one rendered output file. Path is relative to the output
// directory and uses forward slashes.
type Artifact struct {
	Path    string
	Content string
}
