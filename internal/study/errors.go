package study

import (
	"errors"
	"fmt"
)

// Common error types for study sessions
var (
	// ErrSessionComplete indicates that the session answered its card limit.
	ErrSessionComplete = errors.New("session card limit reached")

	// ErrNoPendingQuestion indicates an answer was submitted with no question asked.
	ErrNoPendingQuestion = errors.New("no question awaiting an answer")

	// ErrCardMismatch indicates the answer names a card other than the asked one.
	ErrCardMismatch = errors.New("answer does not belong to the pending question")

	// ErrInvalidAnswer indicates an answer that cannot be graded, such as a
	// choice index outside the offered choices.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrCardNotFound indicates that the card is not part of the session's deck.
	ErrCardNotFound = errors.New("card not found")

	// ErrDeckNotFound indicates that no session is registered for the deck.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrDuplicateDeck indicates that a session for the deck already exists.
	ErrDuplicateDeck = errors.New("deck already registered")

	// ErrNoDecks indicates that the registry holds no sessions.
	ErrNoDecks = errors.New("no decks registered")

	// ErrUnsupportedDriver indicates an unknown store driver in the configuration.
	ErrUnsupportedDriver = errors.New("unsupported store driver")
)

// ServiceError wraps errors from study sessions with the failing operation.
// This allows consumers to differentiate between operations using errors.As
// instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "next_question", "submit_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewNextQuestionError returns a new ServiceError for the next_question operation.
func NewNextQuestionError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "next_question", Message: message, Err: err}
}

// NewSubmitAnswerError returns a new ServiceError for the submit_answer operation.
func NewSubmitAnswerError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "submit_answer", Message: message, Err: err}
}

// NewRefreshError returns a new ServiceError for the refresh operation.
func NewRefreshError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "refresh", Message: message, Err: err}
}
