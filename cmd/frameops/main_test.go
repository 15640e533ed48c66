package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	server     *httptest.Server
	configPath string
	mux        *http.ServeMux
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[backend]
url = %q

[paths]
data_dir = %q
log_dir = %q
`, server.URL, filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{server: server, configPath: configPath, mux: mux}
}

func (env *cliTestEnv) handleJSON(pattern string, payload any) {
	env.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	})
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestCLIDashboard(t *testing.T) {
	env := setupCLITestEnv(t)
	env.handleJSON("/api/dashboard", map[string]any{
		"videos":        map[string]int{"total": 5, "extracted": 4},
		"frames":        map[string]int{"total": 200, "selected": 30},
		"training_jobs": map[string]int{"total": 1, "processing": 1},
	})

	out, err := runCLI(t, env, "dashboard")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	for _, want := range []string{"200", "selected 30", "processing 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dashboard output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIFramesFocusAndSelect(t *testing.T) {
	env := setupCLITestEnv(t)
	env.handleJSON("/api/video/7/frames", map[string]any{
		"total": 2, "page": 1, "page_size": 50,
		"frames": []map[string]any{
			{"id": 1, "frame_number": 10, "status": "extracted"},
			{"id": 2, "frame_number": 20, "status": "trained"},
		},
	})
	var patched struct {
		FrameIDs []int64 `json:"frame_ids"`
		Action   string  `json:"action"`
	}
	env.mux.HandleFunc("/api/frames/selection", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&patched)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"updated": %d, "message": "ok"}`, len(patched.FrameIDs))
	})

	out, err := runCLI(t, env, "frames", "focus", "7")
	if err != nil {
		t.Fatalf("frames focus: %v", err)
	}
	if !strings.Contains(out, "Frames Of Video 7") {
		t.Fatalf("frames screen missing title:\n%s", out)
	}

	out, err = runCLI(t, env, "frames", "select", "1")
	if err != nil {
		t.Fatalf("frames select: %v", err)
	}
	if !strings.Contains(out, "selected 1 frame(s)") {
		t.Fatalf("unexpected select output:\n%s", out)
	}
	if patched.Action != "select" || len(patched.FrameIDs) != 1 || patched.FrameIDs[0] != 1 {
		t.Fatalf("backend saw %+v, want select [1]", patched)
	}

	// The trained frame on the page must be refused.
	if _, err := runCLI(t, env, "frames", "select", "2"); err == nil {
		t.Fatal("expected error selecting a trained frame")
	}
}

func TestCLISelectionSurvivesInvocations(t *testing.T) {
	env := setupCLITestEnv(t)
	env.handleJSON("/api/video/7/frames", map[string]any{
		"total": 1, "page": 1, "page_size": 50,
		"frames": []map[string]any{
			{"id": 1, "frame_number": 10, "status": "extracted"},
		},
	})
	env.handleJSON("/api/frames/selection", map[string]any{"updated": 1, "message": "ok"})

	if _, err := runCLI(t, env, "frames", "focus", "7"); err != nil {
		t.Fatalf("frames focus: %v", err)
	}
	if _, err := runCLI(t, env, "frames", "select", "1"); err != nil {
		t.Fatalf("frames select: %v", err)
	}

	// A fresh process (fresh command tree) must still see the selection.
	out, err := runCLI(t, env, "frames", "list")
	if err != nil {
		t.Fatalf("frames list: %v", err)
	}
	if !strings.Contains(out, "1 selected") {
		t.Fatalf("selection did not survive:\n%s", out)
	}
}

func TestCLITrainingPauseGuard(t *testing.T) {
	env := setupCLITestEnv(t)
	env.handleJSON("/api/training/3/status", map[string]any{
		"job_id": 3, "status": "completed", "total_frames": 10, "processed_frames": 10,
	})

	_, err := runCLI(t, env, "training", "pause", "3")
	if err == nil || !strings.Contains(err.Error(), "cannot be paused") {
		t.Fatalf("err = %v, want pause guard", err)
	}
}

func TestCLIConfigInit(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(t.TempDir(), "frameops.toml")

	out, err := runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output missing target path:\n%s", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[backend]") {
		t.Fatal("sample config missing backend section")
	}

	if _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
}
