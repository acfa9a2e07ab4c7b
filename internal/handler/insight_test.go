package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/0xarg/openscope/internal/auth"
	"github.com/0xarg/openscope/internal/domain"
	"github.com/google/uuid"
)

// =============================================================================
// Mock InsightService Implementation
// =============================================================================

type mockInsightService struct {
	GenerateFunc func(ctx context.Context, req *domain.InsightRequest) (json.RawMessage, error)
	ListFunc     func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Insight, error)
}

func (m *mockInsightService) Generate(ctx context.Context, req *domain.InsightRequest) (json.RawMessage, error) {
	return m.GenerateFunc(ctx, req)
}

func (m *mockInsightService) List(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Insight, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, limit)
	}
	return nil, nil
}

func authedRequest(method, target, body string, user *domain.User) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(auth.SetUser(req.Context(), user))
}

// =============================================================================
// POST /api/insights
// =============================================================================

func TestInsightGenerate_SuccessEnvelope(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Bio: "Go developer", Skills: []string{"Go"}}

	svc := &mockInsightService{
		GenerateFunc: func(ctx context.Context, req *domain.InsightRequest) (json.RawMessage, error) {
			if req.UserID != user.ID {
				t.Errorf("expected session user ID, got %s", req.UserID)
			}
			if req.Profile == nil || req.Profile.Bio != "Go developer" {
				t.Error("expected profile from session user")
			}
			if req.Kind != domain.SubjectIssue || req.Depth != domain.DepthBasic {
				t.Errorf("unexpected kind/depth: %s/%s", req.Kind, req.Depth)
			}
			return json.RawMessage(`{"difficulty":"easy","generatedAt":"June 15, 2025","model":"gpt-4o-mini"}`), nil
		},
	}
	h := NewInsightHandler(svc, testLogger())

	body := `{
		"subjectKind": "issue",
		"depth": "basic",
		"subjectRef": "acme/widget#7",
		"issue": {"title": "Fix crash", "body": "panics on empty input", "labels": ["bug"], "comments": 2}
	}`
	rec := httptest.NewRecorder()
	h.Generate(rec, authedRequest(http.MethodPost, "/api/insights", body, user))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		AI      struct {
			Difficulty string `json:"difficulty"`
			Model      string `json:"model"`
		} `json:"ai"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.AI.Difficulty != "easy" || resp.AI.Model != "gpt-4o-mini" {
		t.Errorf("unexpected ai payload: %s", rec.Body.String())
	}
}

func TestInsightGenerate_QuotaError(t *testing.T) {
	user := &domain.User{ID: uuid.New()}
	svc := &mockInsightService{
		GenerateFunc: func(ctx context.Context, req *domain.InsightRequest) (json.RawMessage, error) {
			return nil, domain.QuotaExceeded("quota.admit", 50, 50)
		},
	}
	h := NewInsightHandler(svc, testLogger())

	body := `{"subjectKind": "issue", "depth": "basic", "issue": {"title": "t"}}`
	rec := httptest.NewRecorder()
	h.Generate(rec, authedRequest(http.MethodPost, "/api/insights", body, user))

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "AI_LIMIT_EXCEEDED") {
		t.Errorf("expected wire code in body, got %s", rec.Body.String())
	}
}

func TestInsightGenerate_InvalidBody(t *testing.T) {
	user := &domain.User{ID: uuid.New()}
	svc := &mockInsightService{
		GenerateFunc: func(ctx context.Context, req *domain.InsightRequest) (json.RawMessage, error) {
			t.Error("service should not be called for an unparseable body")
			return nil, nil
		},
	}
	h := NewInsightHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	h.Generate(rec, authedRequest(http.MethodPost, "/api/insights", "{not json", user))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// =============================================================================
// GET /api/insights
// =============================================================================

func TestInsightList(t *testing.T) {
	user := &domain.User{ID: uuid.New()}
	svc := &mockInsightService{
		GenerateFunc: func(ctx context.Context, req *domain.InsightRequest) (json.RawMessage, error) {
			return nil, nil
		},
		ListFunc: func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Insight, error) {
			if limit != 5 {
				t.Errorf("expected limit=5, got %d", limit)
			}
			return []domain.Insight{
				{
					ID:         uuid.New(),
					UserID:     userID,
					Kind:       domain.SubjectRepository,
					Depth:      domain.DepthAdvanced,
					SubjectRef: "acme/widget",
					Model:      "gpt-4o-mini",
					Payload:    json.RawMessage(`{"summary":"s"}`),
				},
			}, nil
		},
	}
	h := NewInsightHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/insights?limit=5", "", user))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Insights []struct {
			SubjectKind string          `json:"subjectKind"`
			SubjectRef  string          `json:"subjectRef"`
			AI          json.RawMessage `json:"ai"`
		} `json:"insights"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(resp.Insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(resp.Insights))
	}
	if resp.Insights[0].SubjectKind != "repository" || resp.Insights[0].SubjectRef != "acme/widget" {
		t.Errorf("unexpected record: %s", rec.Body.String())
	}
}
