package pathing

import "errors"

// ErrConfiguration is an error that occurs when a structure or filename
// preset is not known. Prefix presets never produce it, since an unknown
// prefix is used as a literal custom prefix.
var ErrConfiguration = errors.New("unknown preset")
