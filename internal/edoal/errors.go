package edoal

import (
	"errors"
	"fmt"
)

// AlignmentFormatError reports a document that cannot be loaded as an
// alignment: unreadable, not well-formed XML, no single Alignment element,
// or missing ontology references.
type AlignmentFormatError struct {
	// Path is the file the document came from, empty for in-memory input.
	Path    string
	Message string
	Err     error
}

func (e *AlignmentFormatError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("alignment format error: %s: %v", msg, e.Err)
	}
	return "alignment format error: " + msg
}

func (e *AlignmentFormatError) Unwrap() error {
	return e.Err
}

// IsFormatError reports whether err is (or wraps) an AlignmentFormatError.
func IsFormatError(err error) bool {
	var fe *AlignmentFormatError
	return errors.As(err, &fe)
}
