package travel

import "errors"

var (
	// ErrNotFound signals that no document exists under the derived key.
	ErrNotFound = errors.New("travel: document not found")
	// ErrInvalidKey signals a key outside the "<kind>_<id>" scheme.
	ErrInvalidKey = errors.New("travel: invalid document key")
)
