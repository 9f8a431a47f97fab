package services

import "errors"

// Lifecycle errors surfaced to controllers. Each maps to a distinct HTTP
// status so clients can tell precondition failures apart.
var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrRoleNotSelected     = errors.New("participant has not selected a role")
	ErrActiveMatchConflict = errors.New("participant already has an active match")
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchNotActive      = errors.New("match is not active")
	ErrNotParticipant      = errors.New("participant is not part of this match")
)

// ErrCandidateClaimed is store-internal: a matched candidate stopped being
// eligible between the selector read and the claim write. Matchmaking absorbs
// it by falling back to the waiting path.
var ErrCandidateClaimed = errors.New("candidate no longer eligible")
