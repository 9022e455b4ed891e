package daycare

import "github.com/pkg/errors"

var ErrInvalidTransition = errors.New("invalid inscription status transition")

// transitions lists the statuses an inscription may move to from each status.
var transitions = map[string][]string{
	InscriptionApplication: {InscriptionInReview, InscriptionRejected},
	InscriptionInReview:    {InscriptionActive, InscriptionRejected},
}

// NextStatuses returns the statuses reachable from status. Active and rejected are final.
func NextStatuses(status string) []string {
	return transitions[status]
}

// CanTransition reports whether an inscription may move from one status to another.
func CanTransition(from, to string) bool {
	return isOneOf(to, transitions[from])
}

// Transition validates the move of an inscription to status `to`.
func (i Inscription) Transition(to string) (Inscription, error) {
	if !CanTransition(i.Status, to) {
		return i, errors.Wrapf(ErrInvalidTransition, "%s -> %s", i.Status, to)
	}
	i.Status = to
	return i, nil
}

// IsPending reports whether the inscription still awaits a decision.
func (i Inscription) IsPending() bool {
	return i.Status == InscriptionApplication || i.Status == InscriptionInReview
}
