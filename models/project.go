package models

// Project is a sprint brief template. One is bound to a match at creation and
// is read-only afterwards. The scoring context fields feed the review prompt.
type Project struct {
	ProjectID        string `dynamodbav:"projectId" json:"projectId"`
	Title            string `dynamodbav:"title" json:"title"`
	Description      string `dynamodbav:"description" json:"description"`
	Domain           string `dynamodbav:"domain,omitempty" json:"domain,omitempty"`
	Scenario         string `dynamodbav:"scenario,omitempty" json:"scenario,omitempty"`
	Constraints      string `dynamodbav:"constraints,omitempty" json:"constraints,omitempty"`
	ComplianceTarget string `dynamodbav:"complianceTarget,omitempty" json:"complianceTarget,omitempty"`
	SuccessMetric    string `dynamodbav:"successMetric,omitempty" json:"successMetric,omitempty"`
	Timeline         string `dynamodbav:"timeline,omitempty" json:"timeline,omitempty"`
}

// HasScoringContext reports whether the template carries enough context to
// build an AI scoring prompt.
func (p *Project) HasScoringContext() bool {
	return p.Domain != "" || p.Scenario != ""
}

// ProjectsTable is the DynamoDB table name for project templates
const ProjectsTable = "Projects"
