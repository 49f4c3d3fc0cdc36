package protocol

import "errors"

var (
	ErrUnknownField      = errors.New("protocol: unknown field id")
	ErrPayloadTooShort   = errors.New("protocol: payload too short")
	ErrInvalidDateTime   = errors.New("protocol: invalid date time")
	ErrInvalidSchedule   = errors.New("protocol: invalid schedule")
	ErrInvalidSetting    = errors.New("protocol: invalid setting")
	ErrValueOutOfRange   = errors.New("protocol: value out of range")
	ErrInvalidFieldValue = errors.New("protocol: cannot parse field value string")
	ErrDatatypeMismatch  = errors.New("protocol: value datatype mismatch")
)
