package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gradstats/app/analysis"
	"gradstats/app/database"
	"gradstats/app/tasks"
)

type stubScheduler struct {
	pullRunning bool
	enqueued    []tasks.TaskInterface
	enqueueErr  error
}

func (s *stubScheduler) Start() {}
func (s *stubScheduler) Stop()  {}

func (s *stubScheduler) EnqueueTask(task tasks.TaskInterface) error {
	if s.enqueueErr != nil {
		return s.enqueueErr
	}
	s.enqueued = append(s.enqueued, task)
	return nil
}

func (s *stubScheduler) IsPullRunning() bool {
	return s.pullRunning
}

type stubApplicants struct {
	count int
}

func (s *stubApplicants) InsertApplicant(database.Applicant) (bool, error) { return true, nil }
func (s *stubApplicants) GetApplicantCount() (int, error)                 { return s.count, nil }
func (s *stubApplicants) GetKnownURLs() (map[string]struct{}, error)      { return nil, nil }

type stubTask struct {
	tasks.Task
}

func (t *stubTask) Execute(_ context.Context) error { return nil }

func testServer(scheduler *stubScheduler, cache *analysis.Cache, count int) http.Handler {
	newPull := func() tasks.TaskInterface {
		return &stubTask{Task: tasks.NewTask(tasks.TaskTypePullData)}
	}
	newRefresh := func() tasks.TaskInterface {
		return &stubTask{Task: tasks.NewTask(tasks.TaskTypeRefreshAnalysis)}
	}
	handler := NewHandler(&stubApplicants{count: count}, cache, scheduler, newPull, newRefresh)
	return NewServer(handler)
}

func TestGetAnalysisEmptyState(t *testing.T) {
	server := testServer(&stubScheduler{}, analysis.NewCache(), 0)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/analysis", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No analysis yet") {
		t.Error("Empty state should be shown before the first computation")
	}
}

func TestGetAnalysisRendersMetrics(t *testing.T) {
	cache := analysis.NewCache()
	cache.Set([]analysis.Metric{
		{Question: "How many entries applied for Fall 2026?", Answer: "1234"},
	})
	server := testServer(&stubScheduler{}, cache, 1234)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/analysis", nil))

	body := w.Body.String()
	if !strings.Contains(body, "How many entries applied for Fall 2026?") {
		t.Error("Question missing from page")
	}
	if !strings.Contains(body, "Answer: 1234") {
		t.Error("Answer missing from page")
	}
}

func TestPullDataEnqueues(t *testing.T) {
	scheduler := &stubScheduler{}
	server := testServer(scheduler, analysis.NewCache(), 0)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("POST", "/pull-data", nil))

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	if len(scheduler.enqueued) != 1 || scheduler.enqueued[0].GetType() != tasks.TaskTypePullData {
		t.Errorf("enqueued = %v", scheduler.enqueued)
	}
}

func TestPullDataBusy(t *testing.T) {
	scheduler := &stubScheduler{pullRunning: true}
	server := testServer(scheduler, analysis.NewCache(), 0)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("POST", "/pull-data", nil))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
	if len(scheduler.enqueued) != 0 {
		t.Error("Nothing should be enqueued while busy")
	}
}

func TestPullDataRaceLostReturnsConflict(t *testing.T) {
	// IsPullRunning was false, but another pull won the enqueue race.
	scheduler := &stubScheduler{enqueueErr: tasks.ErrPullInProgress}
	server := testServer(scheduler, analysis.NewCache(), 0)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("POST", "/pull-data", nil))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestUpdateAnalysis(t *testing.T) {
	scheduler := &stubScheduler{}
	server := testServer(scheduler, analysis.NewCache(), 0)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("POST", "/update-analysis", nil))

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	if len(scheduler.enqueued) != 1 || scheduler.enqueued[0].GetType() != tasks.TaskTypeRefreshAnalysis {
		t.Errorf("enqueued = %v", scheduler.enqueued)
	}
}

func TestUpdateAnalysisBusy(t *testing.T) {
	server := testServer(&stubScheduler{pullRunning: true}, analysis.NewCache(), 0)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("POST", "/update-analysis", nil))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestGetStats(t *testing.T) {
	cache := analysis.NewCache()
	cache.Set([]analysis.Metric{{Question: "q", Answer: "a"}})
	server := testServer(&stubScheduler{}, cache, 7)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/stats", nil))

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["applicants"].(float64) != 7 {
		t.Errorf("applicants = %v", body["applicants"])
	}
	if body["pull_running"].(bool) {
		t.Error("pull_running should be false")
	}
	if _, ok := body["analysis"]; !ok {
		t.Error("analysis snapshot missing")
	}
}

func TestGetHealth(t *testing.T) {
	server := testServer(&stubScheduler{}, analysis.NewCache(), 3)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["applicants"].(float64) != 3 {
		t.Errorf("applicants = %v", body["applicants"])
	}
}

func TestIndexRedirects(t *testing.T) {
	server := testServer(&stubScheduler{}, analysis.NewCache(), 0)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/analysis" {
		t.Errorf("location = %q", loc)
	}
}
