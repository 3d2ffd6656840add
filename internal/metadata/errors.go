package metadata

import "errors"

// ErrMalformed indicates a document that is not well-formed XML, declares a
// document type, references an undeclared entity, or has an unknown root shape.
var ErrMalformed = errors.New("malformed metadata")
