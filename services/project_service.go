package services

import (
	"context"
	"log"
	"math/rand"

	"teamup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProjectService hands out sprint brief templates. Templates live in the
// Projects table; when the table is empty (fresh deployment) the built-in
// catalog below is used so matching never fails for lack of a brief.
type ProjectService struct {
	Dynamo *DynamoService
}

var defaultProjects = []models.Project{
	{
		ProjectID:        "tmpl-fintech-kyc",
		Title:            "KYC Onboarding Flow",
		Description:      "Design and prototype a customer onboarding flow for a consumer fintech app.",
		Domain:           "fintech",
		Scenario:         "A neobank needs to onboard customers in under five minutes without manual document review.",
		Constraints:      "No third-party identity providers; must run on commodity cloud infrastructure.",
		ComplianceTarget: "KYC/AML checks equivalent to a tier-2 European bank",
		SuccessMetric:    "Onboarding completion rate above 80%",
		Timeline:         "One-week sprint",
	},
	{
		ProjectID:        "tmpl-health-triage",
		Title:            "Symptom Triage Assistant",
		Description:      "Build a triage intake tool that routes patients to the right level of care.",
		Domain:           "healthcare",
		Scenario:         "A telehealth provider wants to cut call-center load by letting patients self-triage.",
		Constraints:      "No diagnosis claims; escalation path to a human nurse is mandatory.",
		ComplianceTarget: "HIPAA-aligned handling of patient intake data",
		SuccessMetric:    "30% reduction in calls reaching the nurse line",
		Timeline:         "One-week sprint",
	},
	{
		ProjectID:        "tmpl-logistics-eta",
		Title:            "Delivery ETA Dashboard",
		Description:      "Ship a dashboard that predicts and displays delivery ETAs for a courier fleet.",
		Domain:           "logistics",
		Scenario:         "A regional courier loses customers to inaccurate delivery windows.",
		Constraints:      "GPS pings arrive at most once per minute; no paid mapping APIs.",
		ComplianceTarget: "Driver location data retained no longer than 24 hours",
		SuccessMetric:    "ETA error under 10 minutes for 90% of deliveries",
		Timeline:         "One-week sprint",
	},
	{
		ProjectID:        "tmpl-edtech-cohort",
		Title:            "Cohort Progress Tracker",
		Description:      "Create a tracker that surfaces at-risk learners in an online course cohort.",
		Domain:           "edtech",
		Scenario:         "A bootcamp's completion rate dropped below 60% and instructors find out too late.",
		Constraints:      "Works off existing LMS CSV exports; no direct LMS integration.",
		ComplianceTarget: "FERPA-safe handling of learner records",
		SuccessMetric:    "At-risk learners flagged at least two weeks before drop-off",
		Timeline:         "One-week sprint",
	},
}

// AssignProject picks a template for a new match. Selection is uniform random
// over the catalog.
func (ps *ProjectService) AssignProject(ctx context.Context) (*models.Project, error) {
	projects, err := ps.listTemplates(ctx)
	if err != nil {
		log.Printf("Falling back to built-in project catalog: %v", err)
		projects = nil
	}
	if len(projects) == 0 {
		projects = defaultProjects
	}

	project := projects[rand.Intn(len(projects))]
	return &project, nil
}

// GetScoringContext returns the template backing a match's project, or nil
// when no scoring context is known for it.
func (ps *ProjectService) GetScoringContext(ctx context.Context, projectID string) (*models.Project, error) {
	if ps.Dynamo != nil {
		item, err := ps.Dynamo.GetItem(ctx, models.ProjectsTable, map[string]types.AttributeValue{
			"projectId": StringAttr(projectID),
		})
		if err == nil && item != nil {
			var project models.Project
			if err := attributevalue.UnmarshalMap(item, &project); err == nil && project.HasScoringContext() {
				return &project, nil
			}
		}
	}

	for _, project := range defaultProjects {
		if project.ProjectID == projectID && project.HasScoringContext() {
			p := project
			return &p, nil
		}
	}
	return nil, nil
}

func (ps *ProjectService) listTemplates(ctx context.Context) ([]models.Project, error) {
	if ps.Dynamo == nil {
		return nil, nil
	}
	var projects []models.Project
	err := ps.Dynamo.ScanWithFilter(ctx, models.ProjectsTable, "", nil, nil, nil, &projects)
	if err != nil {
		return nil, err
	}
	return projects, nil
}
