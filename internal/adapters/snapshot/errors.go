package snapshot

import "errors"

// ErrSnapshot marks an unreadable or unwritable snapshot file.
var ErrSnapshot = errors.New("snapshot")
