package dustbin

import "errors"

var (
	ErrDustbinNotFound = errors.New("dustbin not found")
	ErrInvalidStatus   = errors.New("invalid dustbin status")
)
