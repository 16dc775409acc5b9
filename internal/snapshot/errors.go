package snapshot

import "fmt"

// ParseError means the input was not syntactically valid JSON at all. It
// is deliberately distinct from FieldError: there is no field to point at.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid snapshot document: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FieldError pinpoints the first field that failed structural validation.
// Path is dotted, with list indices in brackets ("zombies[2].variant");
// an empty Path means the document root itself.
type FieldError struct {
	Path     string
	Expected string
}

func (e *FieldError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("expected %s", e.Expected)
	}
	return fmt.Sprintf("%s: expected %s", e.Path, e.Expected)
}
