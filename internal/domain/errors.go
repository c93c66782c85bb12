package domain

import "errors"

var (
	// ErrGameNotFound is returned when a game ID is unknown or its state expired.
	ErrGameNotFound = errors.New("game not found")
	// ErrCatalogNotFound indicates the country catalog could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrCatalogTooSmall is returned when a catalog cannot fill one question.
	ErrCatalogTooSmall = errors.New("catalog has fewer countries than options per question")
	// ErrInvalidSettings is returned for a non-positive round length.
	ErrInvalidSettings = errors.New("invalid game settings")
	// ErrOptionOutOfRange indicates a guess for an option that is not displayed.
	ErrOptionOutOfRange = errors.New("option out of range")
	// ErrFeedbackPending is returned when a guess arrives before the last notice was dismissed.
	ErrFeedbackPending = errors.New("previous guess has not been acknowledged")
	// ErrNothingToAcknowledge is returned when no notice is pending.
	ErrNothingToAcknowledge = errors.New("nothing to acknowledge")
	// ErrCorruptState indicates stored game state violates the engine invariants.
	ErrCorruptState = errors.New("corrupt game state")
)
