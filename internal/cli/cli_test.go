package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
)

// runCLI executes one faros invocation against a test server, capturing
// stdout. Each call builds a fresh root command the way main does.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	runErr := cmd.Execute()

	w.Close()
	os.Stdout = old
	out, _ := io.ReadAll(r)
	return string(out), runErr
}

type fakeServer struct {
	mu     sync.Mutex
	tasks  []map[string]any
	shares []map[string]any
	posted int
	lastQ  map[string]string
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	fs := &fakeServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "bad credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"token_type":   "bearer",
			"user":         map[string]string{"id": "u1", "username": body["username"], "email": body["username"] + "@example.com"},
		})
	})
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "not authenticated"})
			return
		}
		fs.mu.Lock()
		fs.lastQ = map[string]string{}
		for k := range r.URL.Query() {
			fs.lastQ[k] = r.URL.Query().Get(k)
		}
		tasks := fs.tasks
		fs.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"tasks": tasks, "pages": 1})
	})
	mux.HandleFunc("POST /tasks", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		fs.mu.Lock()
		id := fmt.Sprintf("task-%d", len(fs.tasks)+1)
		task := map[string]any{
			"id":         id,
			"title":      in["title"],
			"priority":   in["priority"],
			"completed":  false,
			"tags":       in["tags"],
			"created_at": "2026-01-02T03:04:05Z",
		}
		fs.tasks = append(fs.tasks, task)
		fs.mu.Unlock()
		_ = json.NewEncoder(w).Encode(task)
	})
	mux.HandleFunc("GET /tasks/stats", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		total := len(fs.tasks)
		fs.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]int{
			"total": total, "completed": 0, "incomplete": total, "overdue": 0,
		})
	})
	mux.HandleFunc("GET /tasks/{id}/shares", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		shares := fs.shares
		fs.mu.Unlock()
		if shares == nil {
			shares = []map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(shares)
	})
	mux.HandleFunc("POST /tasks/{id}/shares", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		fs.mu.Lock()
		fs.posted++
		share := map[string]any{
			"id":                   fmt.Sprintf("share-%d", fs.posted),
			"task_id":              r.PathValue("id"),
			"shared_with_username": in["shared_with_username"],
			"permission":           in["permission"],
			"granted_at":           "2026-01-02T03:04:05Z",
		}
		fs.shares = append(fs.shares, share)
		fs.mu.Unlock()
		_ = json.NewEncoder(w).Encode(share)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fs, srv
}

func TestCLIFlow(t *testing.T) {
	fs, srv := newFakeServer(t)
	t.Setenv("FAROS_CONFIG_DIR", t.TempDir())
	t.Setenv("FAROS_API_URL", srv.URL)

	mustRun := func(args ...string) string {
		t.Helper()
		out, err := runCLI(t, args...)
		if err != nil {
			t.Fatalf("faros %v: %v\nstdout:\n%s", args, err, out)
		}
		return out
	}

	// Unauthenticated commands fail fast without touching the network.
	if _, err := runCLI(t, "tasks", "list"); err == nil {
		t.Fatal("expected tasks list to fail before login")
	}

	out := mustRun("login", "alice", "--password", "hunter2")
	if !strings.Contains(out, "logged in as alice") {
		t.Fatalf("unexpected login output: %q", out)
	}

	if _, err := runCLI(t, "login", "alice", "--password", "wrong"); err == nil {
		t.Fatal("expected bad password to fail")
	}

	out = mustRun("tasks", "create", "Ship release notes", "--priority", "high", "--tag", "docs", "--json")
	var created map[string]any
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("unmarshal create output: %v\n%s", err, out)
	}
	if created["id"] != "task-1" || created["priority"] != "high" {
		t.Fatalf("unexpected created task: %#v", created)
	}

	mustRun("tasks", "list", "--status", "pending", "--page", "2", "--json")
	fs.mu.Lock()
	q := fs.lastQ
	fs.mu.Unlock()
	if q["limit"] != "10" || q["skip"] != "10" || q["completed"] != "false" {
		t.Fatalf("unexpected list query: %#v", q)
	}
	if _, ok := q["search"]; ok {
		t.Fatalf("empty search should be omitted: %#v", q)
	}

	out = mustRun("stats", "--json")
	var stats map[string]int
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("unmarshal stats: %v\n%s", err, out)
	}
	if stats["total"] != 1 || stats["incomplete"] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	mustRun("shares", "grant", "task-1", "bob", "--permission", "edit")
	fs.mu.Lock()
	posted := fs.posted
	fs.mu.Unlock()
	if posted != 1 {
		t.Fatalf("expected one grant POST, got %d", posted)
	}

	// A second grant to the same user is rejected before any request.
	if _, err := runCLI(t, "shares", "grant", "task-1", "bob", "--permission", "view"); err == nil {
		t.Fatal("expected duplicate grant to fail")
	} else if !strings.Contains(err.Error(), "already has access") {
		t.Fatalf("unexpected duplicate grant error: %v", err)
	}
	fs.mu.Lock()
	posted = fs.posted
	fs.mu.Unlock()
	if posted != 1 {
		t.Fatalf("duplicate grant must not reach the server; POSTs=%d", posted)
	}

	mustRun("logout")
	if _, err := runCLI(t, "whoami"); err == nil {
		t.Fatal("expected whoami to fail after logout")
	}
}

func TestParseFilters(t *testing.T) {
	f, err := parseFilters("report", "high", "completed")
	if err != nil {
		t.Fatal(err)
	}
	if f.Search != "report" || string(f.Priority) != "high" || string(f.Status) != "completed" {
		t.Fatalf("unexpected filters: %#v", f)
	}
	if _, err := parseFilters("", "urgent", ""); err == nil {
		t.Fatal("expected invalid priority error")
	}
	if _, err := parseFilters("", "", "done"); err == nil {
		t.Fatal("expected invalid status error")
	}
}
