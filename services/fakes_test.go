package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"teamup_server/models"
)

// memoryStore is an in-memory stand-in for DynamoStore used across the
// service tests. It honors the same conditional-claim semantics as the real
// store so the race-fallback paths are exercisable.
type memoryStore struct {
	mu             sync.Mutex
	participants   map[string]models.Participant
	matches        map[string]models.Match
	participations map[string][]models.Participation
	reviews        map[string]models.Review
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		participants:   make(map[string]models.Participant),
		matches:        make(map[string]models.Match),
		participations: make(map[string][]models.Participation),
		reviews:        make(map[string]models.Review),
	}
}

func (m *memoryStore) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	participant, ok := m.participants[participantID]
	if !ok {
		return nil, nil
	}
	return &participant, nil
}

func (m *memoryStore) PutParticipant(ctx context.Context, participant models.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participants[participant.ParticipantID] = participant
	return nil
}

func (m *memoryStore) UpdateRole(ctx context.Context, participantID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	participant, ok := m.participants[participantID]
	if !ok {
		return ErrParticipantNotFound
	}
	participant.Role = role
	m.participants[participantID] = participant
	return nil
}

func (m *memoryStore) MarkWaiting(ctx context.Context, participantID, since string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	participant, ok := m.participants[participantID]
	if !ok {
		return ErrParticipantNotFound
	}
	if participant.HasActiveMatch() {
		return ErrActiveMatchConflict
	}
	participant.WaitingSince = since
	m.participants[participantID] = participant
	return nil
}

func (m *memoryStore) ClearWaiting(ctx context.Context, participantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	participant, ok := m.participants[participantID]
	if !ok {
		return nil
	}
	participant.WaitingSince = ""
	m.participants[participantID] = participant
	return nil
}

func (m *memoryStore) ListWaiting(ctx context.Context, role string) ([]models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var waiting []models.Participant
	for _, participant := range m.participants {
		if participant.Role == role && participant.IsWaiting() && !participant.HasActiveMatch() {
			waiting = append(waiting, participant)
		}
	}
	sort.SliceStable(waiting, func(i, j int) bool {
		if waiting[i].WaitingSince != waiting[j].WaitingSince {
			return waiting[i].WaitingSince < waiting[j].WaitingSince
		}
		return waiting[i].ParticipantID < waiting[j].ParticipantID
	})
	return waiting, nil
}

func (m *memoryStore) CreateMatch(ctx context.Context, match models.Match, requester, candidate models.Participation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cand, ok := m.participants[candidate.ParticipantID]
	if !ok || !cand.IsWaiting() || cand.HasActiveMatch() {
		return ErrCandidateClaimed
	}
	req, ok := m.participants[requester.ParticipantID]
	if !ok || req.HasActiveMatch() {
		return ErrCandidateClaimed
	}

	m.matches[match.MatchID] = match
	m.participations[match.MatchID] = []models.Participation{requester, candidate}

	req.WaitingSince = ""
	req.ActiveMatchID = match.MatchID
	m.participants[req.ParticipantID] = req

	cand.WaitingSince = ""
	cand.ActiveMatchID = match.MatchID
	m.participants[cand.ParticipantID] = cand
	return nil
}

func (m *memoryStore) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[matchID]
	if !ok {
		return nil, nil
	}
	return &match, nil
}

func (m *memoryStore) GetParticipations(ctx context.Context, matchID string) ([]models.Participation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Participation(nil), m.participations[matchID]...), nil
}

func (m *memoryStore) CompleteMatch(ctx context.Context, matchID, completedAt, artifactRef string, participantIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	match, ok := m.matches[matchID]
	if !ok || match.Status != models.MatchStatusActive {
		return ErrMatchNotActive
	}
	match.Status = models.MatchStatusCompleted
	match.CompletedAt = completedAt
	match.ArtifactRef = artifactRef
	m.matches[matchID] = match

	for _, participantID := range participantIDs {
		if participant, ok := m.participants[participantID]; ok {
			participant.ActiveMatchID = ""
			m.participants[participantID] = participant
		}
	}
	return nil
}

func (m *memoryStore) PutReview(ctx context.Context, review models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[review.MatchID] = review
	return nil
}

func (m *memoryStore) GetReview(ctx context.Context, matchID string) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[matchID]
	if !ok {
		return nil, nil
	}
	return &review, nil
}

// stubProjects hands out a fixed brief and optional scoring context
type stubProjects struct {
	project models.Project
	context *models.Project
	err     error
}

func (s *stubProjects) AssignProject(ctx context.Context) (*models.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	project := s.project
	return &project, nil
}

func (s *stubProjects) GetScoringContext(ctx context.Context, projectID string) (*models.Project, error) {
	return s.context, s.err
}

// stubFetcher scripts the artifact fetch
type stubFetcher struct {
	text string
	err  error
}

func (s *stubFetcher) FetchArtifact(ctx context.Context, artifactRef string) (string, error) {
	return s.text, s.err
}

// stubAI scripts the completion call and records the prompt it saw
type stubAI struct {
	content string
	err     error
	prompts []string
}

func (s *stubAI) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.content, nil
}

// testClock returns a deterministic clock that advances one second per call
func testClock() func() time.Time {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	return func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
}

func testProject() models.Project {
	return models.Project{
		ProjectID:   "tmpl-test",
		Title:       "Test Brief",
		Description: "A sprint brief used in tests.",
	}
}
