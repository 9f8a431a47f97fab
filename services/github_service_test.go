package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseRepoRef(t *testing.T) {
	cases := []struct {
		ref       string
		owner     string
		name      string
		expectErr bool
	}{
		{ref: "https://github.com/acme/sprint", owner: "acme", name: "sprint"},
		{ref: "https://github.com/acme/sprint.git", owner: "acme", name: "sprint"},
		{ref: "https://github.com/acme/sprint/", owner: "acme", name: "sprint"},
		{ref: "https://github.com/acme/sprint/tree/main/docs", owner: "acme", name: "sprint"},
		{ref: "github.com/acme/sprint", owner: "acme", name: "sprint"},
		{ref: "acme/sprint", owner: "acme", name: "sprint"},
		{ref: "my.org/sprint", owner: "my.org", name: "sprint"},
		{ref: "https://github.com/my.org/sprint", owner: "my.org", name: "sprint"},
		{ref: "acme", expectErr: true},
		{ref: "", expectErr: true},
		{ref: "https://github.com/", expectErr: true},
	}

	for _, tc := range cases {
		owner, name, err := ParseRepoRef(tc.ref)
		if tc.expectErr {
			if err == nil {
				t.Errorf("ParseRepoRef(%q): expected error", tc.ref)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepoRef(%q): %v", tc.ref, err)
			continue
		}
		if owner != tc.owner || name != tc.name {
			t.Errorf("ParseRepoRef(%q) = %s/%s, want %s/%s", tc.ref, owner, name, tc.owner, tc.name)
		}
	}
}

func TestFetchArtifactPrimaryBranch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/acme/sprint/main/README.md" {
			w.Write([]byte("# Sprint"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	gs := &GitHubService{RawBaseURL: server.URL}
	text, err := gs.FetchArtifact(context.Background(), "https://github.com/acme/sprint")
	if err != nil {
		t.Fatalf("FetchArtifact: %v", err)
	}
	if text != "# Sprint" {
		t.Errorf("unexpected content %q", text)
	}
}

func TestFetchArtifactFallsBackToSecondaryBranch(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/acme/sprint/master/README.md" {
			w.Write([]byte("# Legacy layout"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	gs := &GitHubService{RawBaseURL: server.URL}
	text, err := gs.FetchArtifact(context.Background(), "acme/sprint")
	if err != nil {
		t.Fatalf("FetchArtifact: %v", err)
	}
	if text != "# Legacy layout" {
		t.Errorf("unexpected content %q", text)
	}
	if len(paths) != 2 || paths[0] != "/acme/sprint/main/README.md" {
		t.Errorf("expected main tried before master, got %v", paths)
	}
}

func TestFetchArtifactNotFoundOnBothBranches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	gs := &GitHubService{RawBaseURL: server.URL}
	if _, err := gs.FetchArtifact(context.Background(), "acme/missing"); !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("expected ErrArtifactNotFound, got %v", err)
	}
}

func TestFetchArtifactSendsToken(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.Write([]byte("private readme"))
	}))
	defer server.Close()

	gs := &GitHubService{RawBaseURL: server.URL, Token: "gh-token"}
	if _, err := gs.FetchArtifact(context.Background(), "acme/private"); err != nil {
		t.Fatalf("FetchArtifact: %v", err)
	}
	if authHeader != "Bearer gh-token" {
		t.Errorf("expected bearer credential, got %q", authHeader)
	}
}
