package services

import (
	"context"

	"teamup_server/models"
)

// ParticipantStore is the persistence surface the matchmaking service needs
// for participant rows. Get returns nil, nil when the participant is unknown.
type ParticipantStore interface {
	GetParticipant(ctx context.Context, participantID string) (*models.Participant, error)
	PutParticipant(ctx context.Context, participant models.Participant) error
	UpdateRole(ctx context.Context, participantID, role string) error
	MarkWaiting(ctx context.Context, participantID, since string) error
	ClearWaiting(ctx context.Context, participantID string) error
	// ListWaiting returns all queued participants of the given role ordered by
	// waitingSince ascending (participantId breaks ties).
	ListWaiting(ctx context.Context, role string) ([]models.Participant, error)
}

// MatchStore persists matches and their participation links.
type MatchStore interface {
	// CreateMatch atomically writes the match, both participation rows, and
	// claims both participants (set activeMatchId, clear waitingSince). The
	// candidate's claim is conditional on them still waiting with no active
	// match; a lost race returns ErrCandidateClaimed.
	CreateMatch(ctx context.Context, match models.Match, requester, candidate models.Participation) error
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	GetParticipations(ctx context.Context, matchID string) ([]models.Participation, error)
	// CompleteMatch transitions the match active → completed exactly once and
	// releases both participants' activeMatchId in the same write. A match
	// that is no longer active returns ErrMatchNotActive.
	CompleteMatch(ctx context.Context, matchID, completedAt, artifactRef string, participantIDs []string) error
}

// ReviewStore persists at most one review per match.
type ReviewStore interface {
	PutReview(ctx context.Context, review models.Review) error
	GetReview(ctx context.Context, matchID string) (*models.Review, error)
}
