package compositions

import "errors"

// ErrEmptyRemap indicates a remap without a source namespace.
var ErrEmptyRemap = errors.New("remap has no source namespace")
