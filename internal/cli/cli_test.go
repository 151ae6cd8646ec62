package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"artigen/internal/store"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/crawl/news":
			io.WriteString(w, `{"success":true,"total_results":1,"results":[{"title":"a"}]}`)
		case "/crawl/crawl":
			io.WriteString(w, `{"success":true,"processed_count":1,"articles":[{"title":"a","content":"x"}]}`)
		case "/ai/news-filterings":
			io.WriteString(w, `{"success":true,"articles":[{"title":"a","relevance_score":0.8}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateThenPayload(t *testing.T) {
	srv := fakeBackend(t)
	dir := t.TempDir()

	out, _, err := execute(t,
		"generate", "--dir", dir, "--api", srv.URL,
		"--query", "máy in laser", "--bot", "GPT-4.1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "payload stored") {
		t.Errorf("generate output = %q", out)
	}

	out, _, err = execute(t, "payload", "--dir", dir, "--api", srv.URL)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("payload output is not JSON: %v\n%s", err, out)
	}
	var uq string
	if err := json.Unmarshal(payload["user_query"], &uq); err != nil || uq != "máy in laser" {
		t.Errorf("user_query = %s", payload["user_query"])
	}

	// Payload reads are destructive.
	if _, _, err := execute(t, "payload", "--dir", dir, "--api", srv.URL); err == nil {
		t.Error("second payload read should fail")
	}
}

func TestPayloadPeekDoesNotConsume(t *testing.T) {
	srv := fakeBackend(t)
	dir := t.TempDir()

	if _, _, err := execute(t,
		"generate", "--dir", dir, "--api", srv.URL,
		"--query", "in ấn", "--bot", "Gemini-2.5-flash"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	for i := 0; i < 2; i++ {
		out, _, err := execute(t, "payload", "--peek", "--dir", dir, "--api", srv.URL)
		if err != nil {
			t.Fatalf("peek %d: %v", i, err)
		}
		if !strings.Contains(out, "payload pending") {
			t.Errorf("peek output = %q", out)
		}
	}

	st := store.Store{Dir: dir}
	if _, ok := st.TakeHandoff(store.HandoffPipelinePayload); !ok {
		t.Error("payload gone after peeks")
	}
}

func TestGenerateJSONOutput(t *testing.T) {
	srv := fakeBackend(t)
	out, _, err := execute(t,
		"generate", "--dir", t.TempDir(), "--api", srv.URL,
		"--query", "máy in laser", "--bot", "GPT-4.1", "--json")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var payload struct {
		RunID     string `json:"run_id"`
		UserQuery string `json:"user_query"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if payload.RunID == "" || payload.UserQuery != "máy in laser" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestSuggestFallsBackOffline(t *testing.T) {
	// Point at a closed server so suggestions degrade to offline mode.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	out, errOut, err := execute(t, "suggest", "máy in", "--dir", t.TempDir(), "--api", srv.URL)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if !strings.Contains(errOut, "offline") {
		t.Errorf("stderr = %q", errOut)
	}
	if !strings.Contains(out, "máy in là gì") {
		t.Errorf("stdout = %q", out)
	}
}

func TestConfigPrintsEffectiveTOML(t *testing.T) {
	out, _, err := execute(t, "config", "--dir", t.TempDir(), "--api", "http://example.com/api")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "http://example.com/api") {
		t.Errorf("config output missing overridden base url:\n%s", out)
	}
	if !strings.Contains(out, "[api]") {
		t.Errorf("config output missing API section:\n%s", out)
	}
}

func TestGenerateRequiresQueryFlag(t *testing.T) {
	_, _, err := execute(t, "generate", "--dir", t.TempDir(), "--bot", "GPT-4.1")
	if err == nil {
		t.Fatal("expected error for missing --query")
	}
}
