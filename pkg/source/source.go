package source

import "path/filepath"

// SourceFile is the text of one unit. Path is empty for text that did not
// come from a file.
type SourceFile struct {
	Name    string
	Path    string
	Content string
}

// NewEvalSource wraps text given with -e or through the driver API.
func NewEvalSource(content string) *SourceFile {
	return &SourceFile{Name: "<eval>", Content: content}
}

// FromFile wraps the content read from path; Name is its base name.
func FromFile(path, content string) *SourceFile {
	return &SourceFile{Name: filepath.Base(path), Path: path, Content: content}
}

// Label names the unit in diagnostics and batch headers.
func (sf *SourceFile) Label() string {
	if sf.Path == "" {
		return sf.Name
	}
	return sf.Path
}
