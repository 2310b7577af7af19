package crochet

import "fmt"

// ResourceError is a failure to open, decode or save a file.
type ResourceError struct {
	Op   string // "open", "decode", "save", "import"
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
