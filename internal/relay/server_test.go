package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dshills/gyst/internal/gitrepo"
	"github.com/dshills/gyst/internal/prompt"
	"github.com/dshills/gyst/internal/provider"
	"go.uber.org/zap"
)

type stubBackend struct {
	texts     []string
	err       error
	lastKind  prompt.Kind
	lastCount int
	lastUser  string
}

func (s *stubBackend) Generate(ctx context.Context, p prompt.Prompt, count int) ([]string, error) {
	s.lastKind = p.Task.Kind
	s.lastCount = count
	s.lastUser = p.User
	if s.err != nil {
		return nil, s.err
	}
	if count > len(s.texts) {
		count = len(s.texts)
	}
	return s.texts[:count], nil
}

func (s *stubBackend) Name() string { return "stub" }

func newTestServer(backend *stubBackend) *httptest.Server {
	return httptest.NewServer(New(backend, zap.NewNop()))
}

func sampleChanges() gitrepo.ChangeSet {
	return gitrepo.ChangeSet{
		Added:    []string{"pkg/cache/cache.go"},
		Modified: []string{"main.go"},
		Renamed:  []gitrepo.Rename{{Old: "old.go", New: "new.go"}},
		Stats:    gitrepo.DiffStats{FilesChanged: 3, Insertions: 40, Deletions: 2},
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubBackend{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q, want ok", health.Status)
	}
	if health.Version != Version {
		t.Errorf("version = %q, want %q", health.Version, Version)
	}
}

func TestCommit(t *testing.T) {
	backend := &stubBackend{texts: []string{"feat(cache): add caching layer"}}
	srv := newTestServer(backend)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/commit", commitRequest{Changes: sampleChanges(), Diff: "diff --git a b"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out commitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Message != "feat(cache): add caching layer" {
		t.Errorf("message = %q", out.Message)
	}
	if backend.lastKind != prompt.KindCommitMessage {
		t.Errorf("task kind = %v, want commit message", backend.lastKind)
	}
	if backend.lastUser == "" {
		t.Error("handler must render a prompt for the upstream call")
	}
}

func TestSuggestions_CountDefaultsToThree(t *testing.T) {
	backend := &stubBackend{texts: []string{"feat: a", "fix: b", "chore: c", "docs: d"}}
	srv := newTestServer(backend)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/commit/suggestions", commitRequest{Changes: sampleChanges(), Diff: "d"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out suggestionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Suggestions) != 3 {
		t.Errorf("len(suggestions) = %d, want 3", len(out.Suggestions))
	}
	if backend.lastCount != 3 {
		t.Errorf("backend count = %d, want default 3", backend.lastCount)
	}
}

func TestCommand(t *testing.T) {
	backend := &stubBackend{texts: []string{"COMMAND: git stash\nEXPLANATION: shelves changes"}}
	srv := newTestServer(backend)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/command", commandRequest{Description: "temporarily set aside my changes"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out commandResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Suggestion == "" {
		t.Error("empty suggestion")
	}
	if backend.lastKind != prompt.KindExplain {
		t.Errorf("task kind = %v, want explain", backend.lastKind)
	}
}

func TestCommand_EmptyDescription(t *testing.T) {
	srv := newTestServer(&stubBackend{texts: []string{"x"}})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/command", commandRequest{Description: "   "})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCommit_MalformedBody(t *testing.T) {
	srv := newTestServer(&stubBackend{texts: []string{"x"}})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/commit", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUpstreamFailureIsBadGateway(t *testing.T) {
	srv := newTestServer(&stubBackend{err: errors.New("upstream 401: bad key")})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/commit", commitRequest{Changes: sampleChanges(), Diff: "d"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	var out errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Error == "" {
		t.Error("error body must carry a message")
	}
	if out.Error != "upstream generation failed" {
		t.Errorf("error = %q leaks upstream detail", out.Error)
	}
}

// TestRelayClientRoundTrip drives the CLI's relay backend against this
// server, covering the wire format from both sides.
func TestRelayClientRoundTrip(t *testing.T) {
	backend := &stubBackend{texts: []string{"feat(core): wire it up"}}
	srv := newTestServer(backend)
	defer srv.Close()

	client := provider.NewRelay(srv.URL)
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}

	changes := sampleChanges()
	p := prompt.Build(changes, gitrepo.DiffText{Text: "diff --git a b"}, prompt.CommitMessage())
	texts, err := client.Generate(context.Background(), p, 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(texts) != 1 || texts[0] != "feat(core): wire it up" {
		t.Errorf("texts = %v", texts)
	}
	if backend.lastUser == "" {
		t.Error("server did not rebuild the prompt from the wire payload")
	}
}
