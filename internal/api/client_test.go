package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"frameops/internal/api"
	"frameops/internal/lifecycle"
)

type recordingRefresher struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recordingRefresher) ScheduleReload(screens []string, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, screens)
}

func (r *recordingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func newTestClient(t *testing.T, handler http.Handler) (*api.Client, *recordingRefresher) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := api.NewWithDoer(server.URL, "session-abc", server.Client(), nil)
	refresher := &recordingRefresher{}
	client.SetRefresher(refresher)
	return client, refresher
}

func TestClientStampsSessionHeader(t *testing.T) {
	var gotSession string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = r.Header.Get("X-Client-Session-Id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"videos":{"total":3},"frames":{},"training_jobs":{}}`))
	}))

	stats, err := client.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if gotSession != "session-abc" {
		t.Fatalf("session header = %q, want session-abc", gotSession)
	}
	if stats.Videos.Total != 3 {
		t.Fatalf("videos total = %d, want 3", stats.Videos.Total)
	}
}

func TestClientTransportErrorHasStatusZero(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := api.NewWithDoer(server.URL, "session-abc", http.DefaultClient, nil)

	_, err := client.Dashboard(context.Background())
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	if got := api.ErrorStatus(err); got != 0 {
		t.Fatalf("ErrorStatus = %d, want 0", got)
	}
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error %T is not *StatusError", err)
	}
	if statusErr.Unwrap() == nil {
		t.Fatal("transport error should carry its cause")
	}
}

func TestClientPrefersServerDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"video 42 not found"}`))
	}))

	_, err := client.GetVideo(context.Background(), 42)
	if !api.IsNotFound(err) {
		t.Fatalf("IsNotFound = false for %v", err)
	}
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error %T is not *StatusError", err)
	}
	if statusErr.Message != "video 42 not found" {
		t.Fatalf("message = %q, want server detail", statusErr.Message)
	}
}

func TestClientFallsBackToStatusText(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway error</html>"))
	}))

	_, err := client.Dashboard(context.Background())
	if got := api.ErrorStatus(err); got != http.StatusBadGateway {
		t.Fatalf("ErrorStatus = %d, want 502", got)
	}
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error %T is not *StatusError", err)
	}
	if statusErr.Message != http.StatusText(http.StatusBadGateway) {
		t.Fatalf("message = %q, want status text", statusErr.Message)
	}
	if len(statusErr.Body) == 0 {
		t.Fatal("raw body should be preserved")
	}
}

func TestClientRefreshesAfterSuccessfulMutation(t *testing.T) {
	client, refresher := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"updated":2,"message":"ok"}`))
	}))

	result, err := client.UpdateSelection(context.Background(), []int64{1, 2}, api.SelectionSelect)
	if err != nil {
		t.Fatalf("UpdateSelection: %v", err)
	}
	if result.Updated != 2 {
		t.Fatalf("updated = %d, want 2", result.Updated)
	}
	if refresher.count() != 1 {
		t.Fatalf("refresh calls = %d, want 1", refresher.count())
	}
	want := []string{api.ScreenFrames, api.ScreenDashboard}
	got := refresher.calls[0]
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("refresh screens = %v, want %v", got, want)
	}
}

func TestClientSkipsRefreshOnFailure(t *testing.T) {
	client, refresher := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	if _, err := client.UpdateSelection(context.Background(), []int64{1}, api.SelectionSelect); err == nil {
		t.Fatal("expected error from 409")
	}
	if refresher.count() != 0 {
		t.Fatalf("refresh calls = %d, want 0 after failure", refresher.count())
	}
}

func TestClientSkipsRefreshOnRead(t *testing.T) {
	client, refresher := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total":0,"page":1,"page_size":50,"videos":[]}`))
	}))

	if _, err := client.ListVideos(context.Background(), api.VideoListParams{Page: 1}); err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if refresher.count() != 0 {
		t.Fatalf("refresh calls = %d, want 0 after read", refresher.count())
	}
}

func TestClientDecodesTypedStatuses(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"job_id":7,"status":"paused","total_frames":10,"processed_frames":4,"progress_percent":40.0}`))
	}))

	status, err := client.TrainingJobStatus(context.Background(), 7)
	if err != nil {
		t.Fatalf("TrainingJobStatus: %v", err)
	}
	if status.Status != lifecycle.JobPaused {
		t.Fatalf("status = %q, want paused", status.Status)
	}
	if !lifecycle.CanResume(status.Status) {
		t.Fatal("paused job should be resumable")
	}
}

func TestClientValidatesUploadMetadata(t *testing.T) {
	client, refresher := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not reach the backend")
	}))

	cases := []api.UploadMetadata{
		{Category: "pump", FPS: 5},
		{AssetName: "pump-a", FPS: 5},
		{AssetName: "pump-a", Category: "pump", FPS: 0},
		{AssetName: "pump-a", Category: "pump", FPS: 11},
	}
	for _, meta := range cases {
		if _, err := client.UploadVideo(context.Background(), "ignored.mp4", meta); err == nil {
			t.Fatalf("expected validation error for %+v", meta)
		}
	}
	if refresher.count() != 0 {
		t.Fatalf("refresh calls = %d, want 0", refresher.count())
	}
}

func TestClientUploadsMultipartForm(t *testing.T) {
	videoPath := filepath.Join(t.TempDir(), "pump-a.mp4")
	if err := os.WriteFile(videoPath, []byte("fake video bytes"), 0o644); err != nil {
		t.Fatalf("write video fixture: %v", err)
	}

	type upload struct {
		contentType string
		filename    string
		fileBody    string
		fields      map[string]string
	}
	got := make(chan upload, 1)
	client, refresher := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart form: %v", err)
			return
		}
		file, header, err := r.FormFile("video")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		got <- upload{
			contentType: r.Header.Get("Content-Type"),
			filename:    header.Filename,
			fileBody:    string(body),
			fields: map[string]string{
				"asset_name": r.FormValue("asset_name"),
				"category":   r.FormValue("category"),
				"fps":        r.FormValue("fps"),
			},
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"video_id":9,"status":"uploaded","message":"ok"}`))
	}))

	result, err := client.UploadVideo(context.Background(), videoPath, api.UploadMetadata{
		AssetName: "pump-a",
		Category:  "pump",
		FPS:       2,
	})
	if err != nil {
		t.Fatalf("UploadVideo: %v", err)
	}
	if result.VideoID != 9 {
		t.Fatalf("video id = %d, want 9", result.VideoID)
	}

	sent := <-got
	if !strings.HasPrefix(sent.contentType, "multipart/form-data") {
		t.Fatalf("content type = %q, want multipart/form-data", sent.contentType)
	}
	if sent.filename != "pump-a.mp4" || sent.fileBody != "fake video bytes" {
		t.Fatalf("file part = %q (%q), want pump-a.mp4 with fixture bytes", sent.filename, sent.fileBody)
	}
	if sent.fields["asset_name"] != "pump-a" || sent.fields["category"] != "pump" || sent.fields["fps"] != "2" {
		t.Fatalf("form fields = %v", sent.fields)
	}
	if refresher.count() != 1 {
		t.Fatalf("refresh calls = %d, want 1 after upload", refresher.count())
	}
}

func TestClientExtractionAndPointPaths(t *testing.T) {
	var requests []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))

	if _, err := client.ExtractFrames(context.Background(), 7); err != nil {
		t.Fatalf("ExtractFrames: %v", err)
	}
	if _, err := client.GetQdrantPoint(context.Background(), "pt-1"); err != nil {
		t.Fatalf("GetQdrantPoint: %v", err)
	}

	want := []string{"POST /api/video/7/extract", "GET /api/qdrant/point/pt-1"}
	if len(requests) != len(want) {
		t.Fatalf("requests = %v, want %v", requests, want)
	}
	for i := range want {
		if requests[i] != want[i] {
			t.Fatalf("request[%d] = %q, want %q", i, requests[i], want[i])
		}
	}
}

func TestClientDeletesSingleFrame(t *testing.T) {
	var gotMethod, gotPath, gotPermanent string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotPermanent = r.URL.Query().Get("permanent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Frame permanently deleted from all systems"}`))
	}))

	result, err := client.DeleteFrame(context.Background(), 9, true)
	if err != nil {
		t.Fatalf("DeleteFrame: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/frames/9" {
		t.Fatalf("request = %s %s, want DELETE /api/frames/9", gotMethod, gotPath)
	}
	if gotPermanent != "true" {
		t.Fatalf("permanent query = %q, want true", gotPermanent)
	}
	if result.Message == "" {
		t.Fatal("expected deletion message")
	}
}
