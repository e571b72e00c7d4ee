package board

import "github.com/pkg/errors"

// ErrInvalidCoordinate is returned for coordinates outside [1, 8].
var ErrInvalidCoordinate = errors.New("invalid coordinate")
