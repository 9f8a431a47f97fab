package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrArtifactNotFound means the artifact was absent or inaccessible at every
// canonical location.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactFetcher retrieves the text of a submitted artifact
type ArtifactFetcher interface {
	FetchArtifact(ctx context.Context, artifactRef string) (string, error)
}

// artifactBranches are tried in order; a repository is "not found" only when
// every branch misses.
var artifactBranches = []string{"main", "master"}

// GitHubService fetches a repository's README over the raw content host.
// Token, when set, is sent as a bearer credential so private repositories
// work too.
type GitHubService struct {
	HTTPClient *http.Client
	Token      string
	RawBaseURL string
}

func (gs *GitHubService) httpClient() *http.Client {
	if gs.HTTPClient != nil {
		return gs.HTTPClient
	}
	return http.DefaultClient
}

func (gs *GitHubService) baseURL() string {
	if gs.RawBaseURL != "" {
		return strings.TrimSuffix(gs.RawBaseURL, "/")
	}
	return "https://raw.githubusercontent.com"
}

// repoHosts are the prefixes recognized as a host segment. Only these are
// stripped, so a dotted owner like "my.org/repo" still parses.
var repoHosts = map[string]bool{
	"github.com":                true,
	"www.github.com":            true,
	"raw.githubusercontent.com": true,
}

// ParseRepoRef extracts owner and repository name from a GitHub reference.
// Accepts full URLs, host-prefixed paths and bare "owner/name"; a trailing
// ".git", a trailing slash and any sub-path are ignored.
func ParseRepoRef(artifactRef string) (string, string, error) {
	ref := strings.TrimSpace(artifactRef)
	if idx := strings.Index(ref, "://"); idx != -1 {
		ref = ref[idx+3:]
	}
	ref = strings.TrimSuffix(ref, "/")

	parts := strings.Split(ref, "/")
	if len(parts) > 0 && repoHosts[strings.ToLower(parts[0])] {
		parts = parts[1:] // drop the host segment
	}
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository reference: %q", artifactRef)
	}

	owner := parts[0]
	name := strings.TrimSuffix(parts[1], ".git")
	if name == "" {
		return "", "", fmt.Errorf("invalid repository reference: %q", artifactRef)
	}
	return owner, name, nil
}

// FetchArtifact downloads the repository README, trying each canonical branch
// in order.
func (gs *GitHubService) FetchArtifact(ctx context.Context, artifactRef string) (string, error) {
	owner, name, err := ParseRepoRef(artifactRef)
	if err != nil {
		return "", err
	}

	for _, branch := range artifactBranches {
		url := fmt.Sprintf("%s/%s/%s/%s/README.md", gs.baseURL(), owner, name, branch)
		text, err := gs.fetchURL(ctx, url)
		if err == nil {
			return text, nil
		}
	}
	return "", ErrArtifactNotFound
}

func (gs *GitHubService) fetchURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if gs.Token != "" {
		req.Header.Set("Authorization", "Bearer "+gs.Token)
	}

	resp, err := gs.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
