package domain

import "errors"

var (
	ErrNotFound            = errors.New("entity not found")
	ErrForbidden           = errors.New("actor is not allowed to perform this operation")
	ErrConflict            = errors.New("equipment availability conflict")
	ErrInvalidTransition   = errors.New("illegal order status transition")
	ErrInvalidRange        = errors.New("invalid rental date range")
	ErrGatewayVerification = errors.New("gateway signature verification failed")
	ErrTransient           = errors.New("transient store failure")
)
