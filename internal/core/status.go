package core

import "fmt"

// transitions lists the target statuses reachable from each status.
// A Winner may be re-marked or corrected to Loser; Loser and Claimed are final.
var transitions = map[Status][]Status{
	Pending: {Winner, Loser},
	Winner:  {Winner, Loser, Claimed},
	Loser:   nil,
	Claimed: nil,
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (t *Ticket) transition(to Status) error {
	if !CanTransition(t.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, to)
	}
	t.Status = to
	return nil
}

// MarkWinner records a win with the given prize, replacing any earlier prize.
func (t *Ticket) MarkWinner(prize Money) error {
	if prize.Cents < 0 {
		return ErrInvalidPrize
	}
	if err := t.transition(Winner); err != nil {
		return err
	}
	t.Prize = &prize
	return nil
}

// MarkLoser records a loss and clears the prize.
func (t *Ticket) MarkLoser() error {
	if err := t.transition(Loser); err != nil {
		return err
	}
	t.Prize = nil
	return nil
}

// MarkClaimed records that a winning ticket was cashed. The prize is kept.
func (t *Ticket) MarkClaimed() error {
	return t.transition(Claimed)
}
