package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrInvalidInterval = errors.New("end date must be after start date")

	ErrPastStart = errors.New("start date cannot be in the past")

	ErrItemUnavailable = errors.New("item is not available for booking")

	ErrDurationExceeded = errors.New("booking exceeds the item's maximum duration")

	ErrIntervalConflict = errors.New("booking dates conflict with an existing booking")
)
