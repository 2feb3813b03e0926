package domain

import "errors"

// ErrInvalidExpression is the single user-facing evaluation failure.
// It never crosses the session boundary as a returned error; see Outcome.Err.
var ErrInvalidExpression = errors.New("invalid expression")

// ErrSessionNotFound is returned when a session ID cannot be found in the manager.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownCommand is returned when a host sends a command name the session does not know.
var ErrUnknownCommand = errors.New("unknown command")

// ErrInvalidArgument is returned when a command argument (view, angle mode) cannot be parsed.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrHistoryIndex is returned when a recall targets a history position that does not exist.
var ErrHistoryIndex = errors.New("history index out of range")

// ErrUnknownButton is returned when a keypad press names a label the panel does not have.
var ErrUnknownButton = errors.New("unknown button")
