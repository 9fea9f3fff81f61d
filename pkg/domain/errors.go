// Package domain holds the error taxonomy shared by every layer of the game.
package domain

import "errors"

// Error message constants. Use these with assert.Contains / strings.Contains
// when a test needs to match on message text.
const (
	// Session errors
	ErrMsgNoActiveAdventurer = "no active adventurer"

	// Combat errors
	ErrMsgTargetAlreadyResolved = "target already resolved"
	ErrMsgNotAMonster           = "point of interest is not a monster"

	// Economy errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgItemNotAvailable  = "item not available"
	ErrMsgNotAStore         = "point of interest is not a store"

	// Movement errors
	ErrMsgInvalidPosition = "invalid position"

	// Encounter errors
	ErrMsgUnknownPointOfInterest = "unknown point of interest"
	ErrMsgNoOpenEncounter        = "no open encounter"
	ErrMsgEncounterInProgress    = "another encounter is in progress"
	ErrMsgEncounterClosed        = "encounter is closed"

	// World definition errors
	ErrMsgInvalidWorld = "invalid world definition"
)

// Sentinel errors. Wrap with fmt.Errorf("%w: %s", domain.ErrXxx, detail)
// and compare with errors.Is.
var (
	ErrNoActiveAdventurer = errors.New(ErrMsgNoActiveAdventurer)

	ErrTargetAlreadyResolved = errors.New(ErrMsgTargetAlreadyResolved)
	ErrNotAMonster           = errors.New(ErrMsgNotAMonster)

	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrItemNotAvailable  = errors.New(ErrMsgItemNotAvailable)
	ErrNotAStore         = errors.New(ErrMsgNotAStore)

	ErrInvalidPosition = errors.New(ErrMsgInvalidPosition)

	ErrUnknownPointOfInterest = errors.New(ErrMsgUnknownPointOfInterest)
	ErrNoOpenEncounter        = errors.New(ErrMsgNoOpenEncounter)
	ErrEncounterInProgress    = errors.New(ErrMsgEncounterInProgress)
	ErrEncounterClosed        = errors.New(ErrMsgEncounterClosed)

	ErrInvalidWorld = errors.New(ErrMsgInvalidWorld)
)
