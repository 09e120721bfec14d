package orm

import "github.com/iov-one/treasury/errors"

// Orm reserves 100~109 error codes

// ErrInvalidIndex is returned when an index specified is invalid
var ErrInvalidIndex = errors.ErrInput.Extend(100, "invalid index")
