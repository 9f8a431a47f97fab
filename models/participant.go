package models

// Participant defines the structure for matchmaking participants.
// WaitingSince is an RFC3339 timestamp; empty means the participant is not
// queued. ActiveMatchID is empty unless the participant is in an active match;
// keeping it on the row lets the store enforce one-active-match in a
// conditional write.
type Participant struct {
	ParticipantID string `dynamodbav:"participantId" json:"participantId"`
	DisplayName   string `dynamodbav:"displayName,omitempty" json:"displayName,omitempty"`
	Role          string `dynamodbav:"role,omitempty" json:"role,omitempty"`
	WaitingSince  string `dynamodbav:"waitingSince,omitempty" json:"waitingSince,omitempty"`
	ActiveMatchID string `dynamodbav:"activeMatchId,omitempty" json:"activeMatchId,omitempty"`
	CreatedAt     string `dynamodbav:"createdAt" json:"createdAt"`
}

// IsWaiting reports whether the participant is currently queued.
func (p *Participant) IsWaiting() bool {
	return p.WaitingSince != ""
}

// HasActiveMatch reports whether the participant is in an active match.
func (p *Participant) HasActiveMatch() bool {
	return p.ActiveMatchID != ""
}

// ParticipantsTable is the DynamoDB table name for participants
const ParticipantsTable = "Participants"
