package source

import "errors"

// ErrRead wraps I/O failures while reading a source directory.
var ErrRead = errors.New("read source")
