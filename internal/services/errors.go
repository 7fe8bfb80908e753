package services

import "errors"

// Common service errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrVehicleUnavailable = errors.New("vehicle is not available")
	ErrInvalidPaymentType = errors.New("invalid payment type")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrDuplicate          = errors.New("duplicate record")
)
