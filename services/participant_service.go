package services

import (
	"context"
	"fmt"
	"time"

	"teamup_server/models"
)

// ParticipantService is the thin profile layer in front of matchmaking:
// first-sighting creation and role selection. Identity itself is an opaque
// id supplied by the auth layer in front of this server.
type ParticipantService struct {
	Store ParticipantStore
	Now   func() time.Time
}

func (ps *ParticipantService) now() time.Time {
	if ps.Now != nil {
		return ps.Now()
	}
	return time.Now()
}

// EnsureParticipant returns the participant, creating the row on first
// sighting of an external identity.
func (ps *ParticipantService) EnsureParticipant(ctx context.Context, participantID, displayName string) (*models.Participant, error) {
	existing, err := ps.Store.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	participant := models.Participant{
		ParticipantID: participantID,
		DisplayName:   displayName,
		CreatedAt:     ps.now().UTC().Format(time.RFC3339),
	}
	if err := ps.Store.PutParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}
	return &participant, nil
}

// GetParticipant fetches a participant or ErrParticipantNotFound
func (ps *ParticipantService) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	participant, err := ps.Store.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, ErrParticipantNotFound
	}
	return participant, nil
}

// SelectRole sets the participant's role. Matching requires it; profile edits
// may change it at any time.
func (ps *ParticipantService) SelectRole(ctx context.Context, participantID, role string) error {
	if models.OppositeRole(role) == "" {
		return fmt.Errorf("unknown role %q", role)
	}
	return ps.Store.UpdateRole(ctx, participantID, role)
}
