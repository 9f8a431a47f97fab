package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"teamup_server/models"
)

// Bounds and defaults of the review pipeline. Storage and prompt truncation
// differ on purpose: the prompt bound keeps token usage down, the storage
// bound keeps the review row small.
const (
	artifactStorageLimit = 4000
	artifactPromptLimit  = 1500
	truncationMarker     = "... [truncated]"
	neutralScore         = 50
	defaultFeedback      = "No feedback provided"
)

// ScoringContextSource looks up the stored scoring context for a project
// assignment; nil, nil means no context exists.
type ScoringContextSource interface {
	GetScoringContext(ctx context.Context, projectID string) (*models.Project, error)
}

// ArtifactArchiver stores the full artifact snapshot outside the review row
type ArtifactArchiver interface {
	ArchiveArtifact(ctx context.Context, matchID, text string) error
}

// ReviewService is the review pipeline: fetch artifact → look up scoring
// context → prompt the completion endpoint → parse, clamp and persist. Every
// failure degrades into a persisted review; GenerateReview never errors.
type ReviewService struct {
	Store     ReviewStore
	Projects  ScoringContextSource
	Artifacts ArtifactFetcher
	AI        CompletionClient
	Archive   ArtifactArchiver
	Now       func() time.Time
}

// reviewOutcome enumerates the pipeline's terminal states so every fallback
// branch is a value, not a nested error handler.
type reviewOutcome struct {
	kind      outcomeKind
	score     int
	feedback  string
	strengths []string
	missing   []string
}

type outcomeKind int

const (
	outcomeDegraded outcomeKind = iota // fetch failed, empty artifact, AI failed
	outcomeNeutral                     // no scoring context stored
	outcomeScored                      // full AI scoring succeeded
)

func degraded(feedback string) reviewOutcome {
	return reviewOutcome{kind: outcomeDegraded, score: 0, feedback: feedback}
}

func (rs *ReviewService) now() time.Time {
	if rs.Now != nil {
		return rs.Now()
	}
	return time.Now()
}

// GenerateReview runs the pipeline for a completed match and always returns
// a persisted review, degraded when any stage failed.
func (rs *ReviewService) GenerateReview(ctx context.Context, match models.Match, artifactRef string) *models.Review {
	artifactText, outcome := rs.evaluate(ctx, match, artifactRef)

	review := models.Review{
		MatchID:         match.MatchID,
		Score:           clampScore(outcome.score),
		Feedback:        outcome.feedback,
		Strengths:       outcome.strengths,
		MissingElements: outcome.missing,
		ArtifactText:    truncateText(artifactText, artifactStorageLimit),
		CreatedAt:       rs.now().UTC().Format(time.RFC3339),
	}

	if err := rs.Store.PutReview(ctx, review); err != nil {
		log.Printf("Failed to persist review for match %s: %v", match.MatchID, err)
	}
	if rs.Archive != nil && artifactText != "" {
		if err := rs.Archive.ArchiveArtifact(ctx, match.MatchID, artifactText); err != nil {
			log.Printf("Failed to archive artifact for match %s: %v", match.MatchID, err)
		}
	}
	return &review
}

func (rs *ReviewService) evaluate(ctx context.Context, match models.Match, artifactRef string) (string, reviewOutcome) {
	artifactText, err := rs.Artifacts.FetchArtifact(ctx, artifactRef)
	if err != nil {
		log.Printf("Artifact fetch failed for match %s (%s): %v", match.MatchID, artifactRef, err)
		return "", degraded("The submitted artifact could not be retrieved for review.")
	}
	if strings.TrimSpace(artifactText) == "" {
		return artifactText, degraded("The submitted artifact was empty, so no review could be generated.")
	}

	project, err := rs.Projects.GetScoringContext(ctx, match.ProjectID)
	if err != nil || project == nil {
		if err != nil {
			log.Printf("Scoring context lookup failed for project %s: %v", match.ProjectID, err)
		}
		return artifactText, reviewOutcome{
			kind:     outcomeNeutral,
			score:    neutralScore,
			feedback: "No scoring context was available for this project, so the submission received a neutral assessment.",
		}
	}

	prompt := buildScoringPrompt(project, truncateText(artifactText, artifactPromptLimit))
	content, err := rs.AI.Complete(ctx, prompt)
	if err != nil {
		log.Printf("AI scoring failed for match %s: %v", match.MatchID, err)
		return artifactText, degraded("AI analysis failed")
	}

	outcome, err := parseScoringResponse(content)
	if err != nil {
		log.Printf("AI response unparseable for match %s: %v", match.MatchID, err)
		return artifactText, degraded("AI analysis failed")
	}
	return artifactText, outcome
}

// buildScoringPrompt embeds the project's scoring context and the truncated
// artifact text into a single system prompt that demands a strict JSON reply.
func buildScoringPrompt(project *models.Project, artifactText string) string {
	var b strings.Builder
	b.WriteString("You are a strict reviewer scoring a two-person sprint submission.\n\n")
	b.WriteString("Project brief:\n")
	fmt.Fprintf(&b, "- Domain: %s\n", project.Domain)
	fmt.Fprintf(&b, "- Scenario: %s\n", project.Scenario)
	fmt.Fprintf(&b, "- Constraints: %s\n", project.Constraints)
	fmt.Fprintf(&b, "- Compliance target: %s\n", project.ComplianceTarget)
	fmt.Fprintf(&b, "- Success metric: %s\n", project.SuccessMetric)
	fmt.Fprintf(&b, "- Timeline: %s\n\n", project.Timeline)
	b.WriteString("Submission README:\n")
	b.WriteString(artifactText)
	b.WriteString("\n\nRespond with a JSON object and nothing else, using exactly these keys: ")
	b.WriteString(`{"score": <integer 0-100>, "feedback": <string>, "strengths": [<string>], "missing_elements": [<string>]}`)
	return b.String()
}

// parseScoringResponse reads the model's JSON content. A malformed document is
// an error (degraded path); missing or malformed individual fields fall back
// to per-field defaults.
func parseScoringResponse(content string) (reviewOutcome, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return reviewOutcome{}, fmt.Errorf("invalid scoring JSON: %w", err)
	}

	outcome := reviewOutcome{
		kind:     outcomeScored,
		score:    neutralScore,
		feedback: defaultFeedback,
	}

	if raw, ok := fields["score"]; ok {
		var score float64
		if err := json.Unmarshal(raw, &score); err == nil {
			outcome.score = int(score)
		}
	}
	if raw, ok := fields["feedback"]; ok {
		var feedback string
		if err := json.Unmarshal(raw, &feedback); err == nil && feedback != "" {
			outcome.feedback = feedback
		}
	}
	if raw, ok := fields["strengths"]; ok {
		var strengths []string
		if err := json.Unmarshal(raw, &strengths); err == nil {
			outcome.strengths = strengths
		}
	}
	if raw, ok := fields["missing_elements"]; ok {
		var missing []string
		if err := json.Unmarshal(raw, &missing); err == nil {
			outcome.missing = missing
		}
	}
	return outcome, nil
}

// clampScore forces the score into [0,100]; out-of-range values from the API
// never propagate.
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// truncateText bounds text to limit runes, appending the truncation marker
// when anything was cut.
func truncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + truncationMarker
}
