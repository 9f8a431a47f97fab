package models

// Matchmaking result discriminants
const (
	ResultMatched = "matched"
	ResultWaiting = "waiting"
)

// Participant status discriminants
const (
	StateNone    = "none"
	StateWaiting = "waiting"
	StateActive  = "active"
)

// MatchedDetails is the payload returned when find-or-queue paired the caller
type MatchedDetails struct {
	MatchID            string `json:"matchId"`
	PartnerID          string `json:"partnerId"`
	PartnerName        string `json:"partnerName,omitempty"`
	PartnerRole        string `json:"partnerRole"`
	ProjectTitle       string `json:"projectTitle"`
	ProjectDescription string `json:"projectDescription"`
	ConversationID     string `json:"conversationId"`
}

// WaitingDetails is the payload returned when the caller joined the queue.
// QueuePosition is advisory only; it is computed once at join time.
type WaitingDetails struct {
	WaitingSince  string `json:"waitingSince"`
	QueuePosition int    `json:"queuePosition"`
}

// MatchmakingResult is a tagged union: Status selects which detail field is
// set. Exactly one of Matched/Waiting is non-nil.
type MatchmakingResult struct {
	Status  string          `json:"status"` // matched, waiting
	Matched *MatchedDetails `json:"matched,omitempty"`
	Waiting *WaitingDetails `json:"waiting,omitempty"`
}

// StatusResponse is the participant-facing snapshot of where they stand
type StatusResponse struct {
	State          string          `json:"state"` // none, waiting, active
	Role           string          `json:"role,omitempty"`
	HasActiveMatch bool            `json:"hasActiveMatch"`
	Waiting        *WaitingDetails `json:"waiting,omitempty"`
	Match          *MatchedDetails `json:"match,omitempty"`
}

// ReviewSummary is the client-facing shape of a persisted review
type ReviewSummary struct {
	Score           int      `json:"score"`
	Feedback        string   `json:"feedback"`
	Strengths       []string `json:"strengths,omitempty"`
	MissingElements []string `json:"missingElements,omitempty"`
}

// CompletionSummary is returned by the complete-match operation. Review is
// nil when no artifact was submitted.
type CompletionSummary struct {
	MatchID     string         `json:"matchId"`
	Status      string         `json:"status"`
	CompletedAt string         `json:"completedAt"`
	ArtifactRef string         `json:"artifactRef,omitempty"`
	Review      *ReviewSummary `json:"review,omitempty"`
}

// NewReviewSummary maps a persisted review to its client-facing shape
func NewReviewSummary(r *Review) *ReviewSummary {
	if r == nil {
		return nil
	}
	return &ReviewSummary{
		Score:           r.Score,
		Feedback:        r.Feedback,
		Strengths:       r.Strengths,
		MissingElements: r.MissingElements,
	}
}
