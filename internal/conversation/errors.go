package conversation

import "errors"

var (
	// ErrBusy is returned by Send while another send on the same session is
	// waiting for the completion backend. Nothing is appended.
	ErrBusy = errors.New("conversation: a message is already being answered")
	// ErrEmptyMessage is returned for blank user text.
	ErrEmptyMessage = errors.New("conversation: message is empty")
	// ErrMessageTooLong is returned when user text exceeds the configured limit.
	ErrMessageTooLong = errors.New("conversation: message is too long")
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("conversation: session not found")
)
