package models

import "errors"

var (
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrValidation      = errors.New("validation failed")
)

// Fixed, user-facing messages. Causes are logged, never shown.
const (
	MsgFetchTicketsFailed = "Failed to fetch tickets. Please try again."
	MsgCreateTicketFailed = "Failed to create ticket. Please try again."
	MsgLoginFailed        = "Failed to log in. Please check your credentials and try again."
	MsgRegisterFailed     = "Failed to register. Please try again."
	MsgSessionExpired     = "Your session has expired. Please log in again."
)
