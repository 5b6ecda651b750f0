package directory

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	ErrItemNotFound = errors.New("item not found")
)
