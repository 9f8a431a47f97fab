package models

// Review is the quality assessment generated when a completed match submitted
// an artifact. Score is always within [0,100]. ArtifactText holds the fetched
// README truncated to a fixed bound; the full snapshot goes to S3 when an
// archive is configured.
type Review struct {
	MatchID         string   `dynamodbav:"matchId" json:"matchId"`
	Score           int      `dynamodbav:"score" json:"score"`
	Feedback        string   `dynamodbav:"feedback" json:"feedback"`
	Strengths       []string `dynamodbav:"strengths,omitempty" json:"strengths,omitempty"`
	MissingElements []string `dynamodbav:"missingElements,omitempty" json:"missingElements,omitempty"`
	ArtifactText    string   `dynamodbav:"artifactText,omitempty" json:"artifactText,omitempty"`
	CreatedAt       string   `dynamodbav:"createdAt" json:"createdAt"`
}

// ReviewsTable is the DynamoDB table name for match reviews
const ReviewsTable = "Reviews"
