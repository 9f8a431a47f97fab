package services

import (
	"context"
	"testing"
)

func TestAssignProjectUsesBuiltInCatalog(t *testing.T) {
	ps := &ProjectService{}

	project, err := ps.AssignProject(context.Background())
	if err != nil {
		t.Fatalf("AssignProject: %v", err)
	}
	if project == nil || project.ProjectID == "" || project.Title == "" {
		t.Fatalf("expected a concrete template, got %+v", project)
	}

	found := false
	for _, template := range defaultProjects {
		if template.ProjectID == project.ProjectID {
			found = true
		}
	}
	if !found {
		t.Errorf("assigned project %s is not from the built-in catalog", project.ProjectID)
	}
}

func TestGetScoringContextKnownTemplate(t *testing.T) {
	ps := &ProjectService{}

	project, err := ps.GetScoringContext(context.Background(), defaultProjects[0].ProjectID)
	if err != nil {
		t.Fatalf("GetScoringContext: %v", err)
	}
	if project == nil || project.Domain == "" || project.Scenario == "" {
		t.Fatalf("expected full scoring context, got %+v", project)
	}
}

func TestGetScoringContextUnknownTemplate(t *testing.T) {
	ps := &ProjectService{}

	project, err := ps.GetScoringContext(context.Background(), "tmpl-nope")
	if err != nil {
		t.Fatalf("GetScoringContext: %v", err)
	}
	if project != nil {
		t.Errorf("expected nil context for unknown template, got %+v", project)
	}
}
