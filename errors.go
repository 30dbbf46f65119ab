package rawchunk

import "fmt"

// FormatError reports a recognized tile-entity or entity record that is
// missing a field required for its kind, or whose payload cannot be decoded.
// It aborts the decode of the whole chunk; no partial record is emitted.
//
// This is distinct from structural absence (an optional tag simply not
// present), which decodes to defaults or skips the record.
type FormatError struct {
	Kind string
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rawchunk: invalid %s record at %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("rawchunk: %s record missing required tag %s", e.Kind, e.Path)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func missingTag(kind, path string) error {
	return &FormatError{Kind: kind, Path: path}
}
