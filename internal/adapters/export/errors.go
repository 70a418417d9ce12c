package export

import "errors"

// ErrExport wraps failures while rendering an export.
var ErrExport = errors.New("export failed")
