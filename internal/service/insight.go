// Package service contains the business logic layer.
//
// This file implements the insight pipeline: a single linear path with no
// retries and no backtracking — admit, build prompt, call the model, charge,
// normalize, stamp, persist.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/0xarg/openscope/internal/ai"
	"github.com/0xarg/openscope/internal/domain"
	"github.com/0xarg/openscope/internal/metrics"
	"github.com/google/uuid"
)

// =============================================================================
// Interface Definitions
// =============================================================================

// InsightStore is the persistence contract for generated insights.
// *repository.Queries satisfies it.
type InsightStore interface {
	CreateInsight(ctx context.Context, in *domain.Insight) error
	ListInsightsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Insight, error)
}

// InsightService defines the insight pipeline exposed to the HTTP layer.
type InsightService interface {
	// Generate runs the full pipeline for one request and returns the result
	// payload (one of the four insight shapes, serialized).
	//
	// A quota or billing failure short-circuits with no charge and no
	// downstream call. An upstream failure after admission surfaces as an
	// internal error without charging. A malformed model response degrades
	// to a mostly-empty result — and the request stays charged.
	Generate(ctx context.Context, req *domain.InsightRequest) (json.RawMessage, error)

	// List returns the user's most recent persisted insights.
	List(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Insight, error)
}

// =============================================================================
// Implementation
// =============================================================================

type insightService struct {
	quota    QuotaService
	provider ai.Provider
	store    InsightStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewInsightService creates a new InsightService.
func NewInsightService(quota QuotaService, provider ai.Provider, store InsightStore, logger *slog.Logger) InsightService {
	return &insightService{
		quota:    quota,
		provider: provider,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate runs the insight pipeline.
func (s *insightService) Generate(ctx context.Context, req *domain.InsightRequest) (json.RawMessage, error) {
	const op = "insight.generate"

	if err := validateRequest(op, req); err != nil {
		return nil, err
	}

	// Quota gate. Rejection means no charge and no downstream call.
	if err := s.quota.Admit(ctx, req.UserID); err != nil {
		return nil, err
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	// Single blocking round trip to the model. No retries: a failure here
	// surfaces immediately and consumes no quota.
	start := s.now()
	completion, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		metrics.AIAPICalls.WithLabelValues(string(req.Kind), string(req.Depth), "error").Inc()
		s.logger.Error("AI request failed",
			"user_id", req.UserID,
			"kind", req.Kind,
			"depth", req.Depth,
			"error", err,
		)
		return nil, domain.Internal(err, op, "AI request failed")
	}
	metrics.AIAPICalls.WithLabelValues(string(req.Kind), string(req.Depth), "success").Inc()
	metrics.AIAPIDuration.WithLabelValues(string(req.Kind), string(req.Depth)).Observe(s.now().Sub(start).Seconds())
	metrics.AITokensTotal.Add(float64(completion.Usage.TotalTokens))

	// The upstream call succeeded, so the request is charged now — before
	// normalization. A degraded parse below does not refund.
	if err := s.quota.Charge(ctx, req.UserID, int64(completion.Usage.TotalTokens)); err != nil {
		// The user already got their completion; failing the request here
		// would punish them for our bookkeeping. Log loudly instead.
		s.logger.Error("failed to charge AI usage", "user_id", req.UserID, "error", err)
	}

	payload, err := s.buildResult(req, completion)
	if err != nil {
		return nil, err
	}

	insight := &domain.Insight{
		UserID:     req.UserID,
		Kind:       req.Kind,
		Depth:      req.Depth,
		SubjectRef: req.SubjectRef,
		Model:      completion.Model,
		Payload:    payload,
	}
	if err := s.store.CreateInsight(ctx, insight); err != nil {
		s.logger.Error("failed to persist insight", "user_id", req.UserID, "error", err)
	}

	return payload, nil
}

// List returns the user's most recent persisted insights.
func (s *insightService) List(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Insight, error) {
	const op = "insight.list"

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	insights, err := s.store.ListInsightsByUser(ctx, userID, limit)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list insights")
	}
	return insights, nil
}

// buildResult normalizes the raw completion into the requested shape and
// stamps generatedAt and model. Both stamps come from the pipeline, never
// from the model's own output.
func (s *insightService) buildResult(req *domain.InsightRequest, completion *ai.Completion) (json.RawMessage, error) {
	const op = "insight.normalize"

	generatedAt := s.now().Format(domain.GeneratedAtFormat)

	var result interface{}
	var parseErr error

	switch {
	case req.Kind == domain.SubjectIssue && req.Depth == domain.DepthBasic:
		var out domain.IssueBasicInsight
		parseErr = Normalize(completion.Text, &out)
		out.GeneratedAt = generatedAt
		out.Model = completion.Model
		result = out
	case req.Kind == domain.SubjectIssue && req.Depth == domain.DepthAdvanced:
		var out domain.IssueAdvancedInsight
		parseErr = Normalize(completion.Text, &out)
		out.GeneratedAt = generatedAt
		out.Model = completion.Model
		result = out
	case req.Kind == domain.SubjectRepository && req.Depth == domain.DepthBasic:
		var out domain.RepoBasicInsight
		parseErr = Normalize(completion.Text, &out)
		out.GeneratedAt = generatedAt
		out.Model = completion.Model
		result = out
	default:
		var out domain.RepoAdvancedInsight
		parseErr = Normalize(completion.Text, &out)
		out.GeneratedAt = generatedAt
		out.Model = completion.Model
		result = out
	}

	if parseErr != nil {
		// Degrade, don't fail: the result keeps its stamps and whatever
		// fields survived, everything else stays zero-valued.
		metrics.AIMalformedResponses.Inc()
		s.logger.Warn("malformed AI response, returning degraded result",
			"user_id", req.UserID,
			"kind", req.Kind,
			"depth", req.Depth,
			"error", parseErr,
		)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to serialize insight")
	}
	return payload, nil
}

func validateRequest(op string, req *domain.InsightRequest) error {
	if !req.Kind.Valid() {
		return domain.Invalid(op, "subjectKind must be 'issue' or 'repository'")
	}
	if !req.Depth.Valid() {
		return domain.Invalid(op, "depth must be 'basic' or 'advanced'")
	}
	if req.Kind == domain.SubjectIssue && req.Issue == nil {
		return domain.Invalid(op, "issue subject is required")
	}
	if req.Kind == domain.SubjectRepository && req.Repo == nil {
		return domain.Invalid(op, "repository subject is required")
	}
	return nil
}
