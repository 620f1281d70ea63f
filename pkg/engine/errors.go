package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is the single rejection callers see for any move the rules
// do not allow. The specific reason is wrapped alongside it for diagnostics.
var ErrInvalidMove = errors.New("invalid move")

var (
	ErrGameOver       = errors.New("game is over")
	ErrNoDice         = errors.New("no dice left to play")
	ErrOutOfRange     = errors.New("location out of range")
	ErrEmptyPoint     = errors.New("no checker on origin")
	ErrNotYourChecker = errors.New("checker belongs to the opponent")
	ErrWrongDirection = errors.New("move goes the wrong direction")
	ErrBlocked        = errors.New("destination is blocked")
	ErrBarFirst       = errors.New("checkers on the bar must enter first")
	ErrNotInHome      = errors.New("not all checkers are home")
	ErrNoMatchingDie  = errors.New("no remaining die matches the move")
)

func invalid(reason error) error {
	return fmt.Errorf("%w: %w", ErrInvalidMove, reason)
}

// diagnose explains why (from, to) is not in the legal move list. It is only
// called after the lookup failed, so it never returns nil.
func (s *GameState) diagnose(from, to Location) error {
	side := s.CurrentPlayer
	if !from.Valid() || !to.Valid() || from.Kind == OffBoard || to.Kind == OnBar {
		return ErrOutOfRange
	}

	if from.Kind == OnBar {
		switch {
		case s.BarCount(side) == 0:
			return ErrEmptyPoint
		case to.Kind != OnPoint:
			return ErrOutOfRange
		case s.blocked(side, to.Index):
			return ErrBlocked
		}
		return ErrNoMatchingDie
	}

	if s.BarCount(side) > 0 {
		return ErrBarFirst
	}

	if to.Kind == OffBoard {
		switch {
		case s.Board[from.Index] == 0:
			return ErrEmptyPoint
		case !s.owns(side, from.Index):
			return ErrNotYourChecker
		case !s.AllInHome(side):
			return ErrNotInHome
		}
		return ErrNoMatchingDie
	}

	if err := s.checkStep(from.Index, to.Index); err != nil {
		return err
	}
	return ErrNoMatchingDie
}
