package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"teamup_server/models"

	"github.com/google/uuid"
)

// ProjectAssigner hands out a sprint brief for a freshly created match
type ProjectAssigner interface {
	AssignProject(ctx context.Context) (*models.Project, error)
}

// ReviewGenerator produces a review for a completed match's artifact. It
// never fails; the pipeline degrades internally instead.
type ReviewGenerator interface {
	GenerateReview(ctx context.Context, match models.Match, artifactRef string) *models.Review
}

// MatchmakingService owns the queue and the match lifecycle: find-or-queue,
// cancel, complete, status. The mutex serializes the precondition read plus
// select → validate → claim so two concurrent requesters can't both take the
// same waiting candidate, and a requester claimed by a concurrent call can't
// proceed on a stale read; the store's conditional writes back that up across
// processes.
type MatchmakingService struct {
	Participants ParticipantStore
	Matches      MatchStore
	Projects     ProjectAssigner
	Reviews      ReviewGenerator
	Now          func() time.Time

	mu sync.Mutex
}

func (ms *MatchmakingService) now() time.Time {
	if ms.Now != nil {
		return ms.Now()
	}
	return time.Now()
}

func (ms *MatchmakingService) timestamp() string {
	return ms.now().UTC().Format(time.RFC3339)
}

// FindOrQueueMatch pairs the requester with the oldest waiting opposite-role
// participant, or queues the requester when nobody eligible is waiting. A
// candidate lost to a concurrent claim falls back to queueing rather than
// erroring.
func (ms *MatchmakingService) FindOrQueueMatch(ctx context.Context, participantID string) (*models.MatchmakingResult, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	// The requester's own state is read under the lock: checked outside it, a
	// requester matched by a concurrent call could pass a stale
	// no-active-match check and end up queued while holding a match.
	requester, err := ms.Participants.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, ErrParticipantNotFound
	}
	if models.OppositeRole(requester.Role) == "" {
		return nil, ErrRoleNotSelected
	}
	if requester.HasActiveMatch() {
		return nil, ErrActiveMatchConflict
	}

	candidate, err := ms.findOldestWaitingCandidate(ctx, participantID, models.OppositeRole(requester.Role))
	if err != nil {
		return nil, err
	}
	if candidate != nil {
		result, err := ms.claimCandidate(ctx, requester, candidate)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrCandidateClaimed) {
			return nil, err
		}
		log.Printf("Candidate %s claimed concurrently, queueing %s instead", candidate.ParticipantID, participantID)
	}

	return ms.joinQueue(ctx, requester)
}

// findOldestWaitingCandidate is the queue selector: oldest still-waiting
// participant of the given role, excluding the requester. Pure read.
func (ms *MatchmakingService) findOldestWaitingCandidate(ctx context.Context, requesterID, role string) (*models.Participant, error) {
	waiting, err := ms.Participants.ListWaiting(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to select waiting candidate: %w", err)
	}
	for i := range waiting {
		if waiting[i].ParticipantID == requesterID {
			continue
		}
		if !waiting[i].IsWaiting() || waiting[i].HasActiveMatch() {
			continue
		}
		return &waiting[i], nil
	}
	return nil, nil
}

func (ms *MatchmakingService) claimCandidate(ctx context.Context, requester, candidate *models.Participant) (*models.MatchmakingResult, error) {
	// Re-validate before writing: the candidate may have cancelled or been
	// matched between the selector read and now.
	current, err := ms.Participants.GetParticipant(ctx, candidate.ParticipantID)
	if err != nil {
		return nil, err
	}
	if current == nil || !current.IsWaiting() || current.HasActiveMatch() {
		return nil, ErrCandidateClaimed
	}

	project, err := ms.Projects.AssignProject(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to assign project: %w", err)
	}

	createdAt := ms.timestamp()
	match := models.Match{
		MatchID:            uuid.NewString(),
		Status:             models.MatchStatusActive,
		ConversationID:     uuid.NewString(),
		ProjectID:          project.ProjectID,
		ProjectTitle:       project.Title,
		ProjectDescription: project.Description,
		CreatedAt:          createdAt,
	}
	requesterLink := models.Participation{
		MatchID:       match.MatchID,
		ParticipantID: requester.ParticipantID,
		Role:          requester.Role,
		CreatedAt:     createdAt,
	}
	candidateLink := models.Participation{
		MatchID:       match.MatchID,
		ParticipantID: current.ParticipantID,
		Role:          current.Role,
		CreatedAt:     createdAt,
	}

	if err := ms.Matches.CreateMatch(ctx, match, requesterLink, candidateLink); err != nil {
		return nil, err
	}

	log.Printf("Matched %s (%s) with %s (%s), match %s", requester.ParticipantID, requester.Role, current.ParticipantID, current.Role, match.MatchID)
	return &models.MatchmakingResult{
		Status: models.ResultMatched,
		Matched: &models.MatchedDetails{
			MatchID:            match.MatchID,
			PartnerID:          current.ParticipantID,
			PartnerName:        current.DisplayName,
			PartnerRole:        current.Role,
			ProjectTitle:       match.ProjectTitle,
			ProjectDescription: match.ProjectDescription,
			ConversationID:     match.ConversationID,
		},
	}, nil
}

func (ms *MatchmakingService) joinQueue(ctx context.Context, requester *models.Participant) (*models.MatchmakingResult, error) {
	since := ms.timestamp()
	if err := ms.Participants.MarkWaiting(ctx, requester.ParticipantID, since); err != nil {
		return nil, err
	}

	position, err := ms.queuePosition(ctx, requester.ParticipantID, requester.Role)
	if err != nil {
		return nil, err
	}

	return &models.MatchmakingResult{
		Status: models.ResultWaiting,
		Waiting: &models.WaitingDetails{
			WaitingSince:  since,
			QueuePosition: position,
		},
	}, nil
}

// queuePosition is advisory: the requester's 1-based slot among same-role
// waiters at join time. It is not re-computed as the queue drains.
func (ms *MatchmakingService) queuePosition(ctx context.Context, participantID, role string) (int, error) {
	waiting, err := ms.Participants.ListWaiting(ctx, role)
	if err != nil {
		return 0, err
	}
	for i := range waiting {
		if waiting[i].ParticipantID == participantID {
			return i + 1, nil
		}
	}
	return len(waiting) + 1, nil
}

// CancelWaiting removes the participant from the queue. Calling it for a
// participant who isn't waiting is a no-op.
func (ms *MatchmakingService) CancelWaiting(ctx context.Context, participantID string) error {
	participant, err := ms.Participants.GetParticipant(ctx, participantID)
	if err != nil {
		return err
	}
	if participant == nil {
		return ErrParticipantNotFound
	}
	return ms.Participants.ClearWaiting(ctx, participantID)
}

// CompleteMatch transitions an active match to completed. When an artifact
// reference is supplied the review pipeline runs synchronously; a failed
// review never fails the completion.
func (ms *MatchmakingService) CompleteMatch(ctx context.Context, matchID, completerID, artifactRef string) (*models.CompletionSummary, error) {
	match, err := ms.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if match.Status != models.MatchStatusActive {
		return nil, ErrMatchNotActive
	}

	participations, err := ms.Matches.GetParticipations(ctx, matchID)
	if err != nil {
		return nil, err
	}
	participantIDs := make([]string, 0, len(participations))
	isParticipant := false
	for _, link := range participations {
		participantIDs = append(participantIDs, link.ParticipantID)
		if link.ParticipantID == completerID {
			isParticipant = true
		}
	}
	if !isParticipant {
		return nil, ErrNotParticipant
	}

	completedAt := ms.timestamp()
	if err := ms.Matches.CompleteMatch(ctx, matchID, completedAt, artifactRef, participantIDs); err != nil {
		return nil, err
	}
	match.Status = models.MatchStatusCompleted
	match.CompletedAt = completedAt
	match.ArtifactRef = artifactRef

	summary := &models.CompletionSummary{
		MatchID:     matchID,
		Status:      models.MatchStatusCompleted,
		CompletedAt: completedAt,
		ArtifactRef: artifactRef,
	}
	if artifactRef != "" && ms.Reviews != nil {
		review := ms.Reviews.GenerateReview(ctx, *match, artifactRef)
		summary.Review = models.NewReviewSummary(review)
	}
	return summary, nil
}

// GetStatus reports where a participant stands: none, waiting (with advisory
// position), or active (with partner and project details).
func (ms *MatchmakingService) GetStatus(ctx context.Context, participantID string) (*models.StatusResponse, error) {
	participant, err := ms.Participants.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, ErrParticipantNotFound
	}

	status := &models.StatusResponse{
		State: models.StateNone,
		Role:  participant.Role,
	}

	if participant.HasActiveMatch() {
		status.State = models.StateActive
		status.HasActiveMatch = true
		details, err := ms.matchDetails(ctx, participant)
		if err != nil {
			return nil, err
		}
		status.Match = details
		return status, nil
	}

	if participant.IsWaiting() {
		status.State = models.StateWaiting
		position, err := ms.queuePosition(ctx, participantID, participant.Role)
		if err != nil {
			return nil, err
		}
		status.Waiting = &models.WaitingDetails{
			WaitingSince:  participant.WaitingSince,
			QueuePosition: position,
		}
	}
	return status, nil
}

func (ms *MatchmakingService) matchDetails(ctx context.Context, participant *models.Participant) (*models.MatchedDetails, error) {
	match, err := ms.Matches.GetMatch(ctx, participant.ActiveMatchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}

	participations, err := ms.Matches.GetParticipations(ctx, match.MatchID)
	if err != nil {
		return nil, err
	}

	details := &models.MatchedDetails{
		MatchID:            match.MatchID,
		ProjectTitle:       match.ProjectTitle,
		ProjectDescription: match.ProjectDescription,
		ConversationID:     match.ConversationID,
	}
	for _, link := range participations {
		if link.ParticipantID == participant.ParticipantID {
			continue
		}
		details.PartnerID = link.ParticipantID
		details.PartnerRole = link.Role
		if partner, err := ms.Participants.GetParticipant(ctx, link.ParticipantID); err == nil && partner != nil {
			details.PartnerName = partner.DisplayName
		}
	}
	return details, nil
}
