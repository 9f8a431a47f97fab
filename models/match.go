package models

// Match pairs two opposite-role participants around one project brief.
// ConversationID is assigned at creation and never changes. ExpiresAt is
// reserved for a future sprint deadline and is not enforced anywhere yet.
type Match struct {
	MatchID            string `dynamodbav:"matchId" json:"matchId"`
	Status             string `dynamodbav:"status" json:"status"` // active, completed
	ConversationID     string `dynamodbav:"conversationId" json:"conversationId"`
	ProjectID          string `dynamodbav:"projectId" json:"projectId"`
	ProjectTitle       string `dynamodbav:"projectTitle" json:"projectTitle"`
	ProjectDescription string `dynamodbav:"projectDescription" json:"projectDescription"`
	CreatedAt          string `dynamodbav:"createdAt" json:"createdAt"`
	ExpiresAt          string `dynamodbav:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	CompletedAt        string `dynamodbav:"completedAt,omitempty" json:"completedAt,omitempty"`
	ArtifactRef        string `dynamodbav:"artifactRef,omitempty" json:"artifactRef,omitempty"`
}

// Participation links a participant to a match with the role they held at
// match time. Rows are written once with the match and never updated.
type Participation struct {
	MatchID       string `dynamodbav:"matchId" json:"matchId"`
	ParticipantID string `dynamodbav:"participantId" json:"participantId"`
	Role          string `dynamodbav:"role" json:"role"`
	CreatedAt     string `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// ParticipationsTable is the DynamoDB table name for match participations
const ParticipationsTable = "Participations"
