package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by the profile store when a player does not
	// exist.
	ErrNotFound = errors.New("player not found")

	// ErrAlreadyRegistered is returned when a player registers twice.
	ErrAlreadyRegistered = errors.New("player already registered")

	// ErrNoValidMatchup means no split with disjoint sides exists. It only
	// fires when a name collision puts the same profile on both sides of
	// every candidate split, which signals corrupted data.
	ErrNoValidMatchup = errors.New("no valid matchup for roster")
)

// RosterError reports an attempt to balance with the wrong number of
// resolvable profiles.
type RosterError struct {
	Got  int
	Want int
}

func (e *RosterError) Error() string {
	return fmt.Sprintf("roster has %d resolvable players, need %d", e.Got, e.Want)
}
