package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidQuestionType is returned when a question type is not valid.
	ErrInvalidQuestionType = errors.New("invalid question type")

	// ErrSideCountMismatch is returned when a card does not have one value per deck side.
	ErrSideCountMismatch = errors.New("card side count does not match deck sides")

	// ErrSideIndexOutOfRange is returned when a side index does not name a deck side.
	ErrSideIndexOutOfRange = errors.New("side index out of range")
)
