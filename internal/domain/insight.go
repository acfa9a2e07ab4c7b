// Package domain contains core business types and interfaces.
//
// This file defines the AI insight request/result types. Result field names
// match the wire contract consumed by the frontend, including the
// "filestoExplore" key.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SubjectKind identifies what an insight is about.
type SubjectKind string

const (
	SubjectIssue      SubjectKind = "issue"
	SubjectRepository SubjectKind = "repository"
)

// Valid checks if the subject kind is a known value.
func (k SubjectKind) Valid() bool {
	return k == SubjectIssue || k == SubjectRepository
}

// InsightDepth selects between the cheap and the thorough analysis.
type InsightDepth string

const (
	DepthBasic    InsightDepth = "basic"
	DepthAdvanced InsightDepth = "advanced"
)

// Valid checks if the depth is a known value.
func (d InsightDepth) Valid() bool {
	return d == DepthBasic || d == DepthAdvanced
}

// IssueSubject is the issue payload interpolated into issue prompts.
type IssueSubject struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Labels   []string `json:"labels"`
	Comments int      `json:"comments"`
}

// RepoSubject is the repository payload interpolated into repo prompts.
type RepoSubject struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Watchers    int      `json:"watchers"`
	OpenIssues  int      `json:"openIssues"`
}

// InsightRequest is the per-call input to the insight pipeline.
// Exactly one of Issue/Repo is set, matching Kind.
type InsightRequest struct {
	UserID     uuid.UUID
	Kind       SubjectKind
	Depth      InsightDepth
	SubjectRef string // Optional display reference, e.g. "owner/repo#123"
	Issue      *IssueSubject
	Repo       *RepoSubject
	Profile    *Profile // May be nil; prompts degrade to placeholders
}

// IssueBasicInsight is the quick triage result for an issue.
type IssueBasicInsight struct {
	Difficulty    string   `json:"difficulty"` // easy|medium|hard
	Skills        []string `json:"skills"`
	EstimatedTime string   `json:"estimatedTime"`
	GeneratedAt   string   `json:"generatedAt"`
	Model         string   `json:"model"`
}

// IssueAdvancedInsight is the deep analysis result for an issue.
type IssueAdvancedInsight struct {
	Summary        string   `json:"summary"`
	Difficulty     string   `json:"difficulty"`
	Skills         []string `json:"skills"`
	Cause          string   `json:"cause"`
	Approach       []string `json:"approach"`
	EstimatedTime  string   `json:"estimatedTime"`
	MatchScore     float64  `json:"matchScore"` // 0-100 fit against the profile
	FilesToExplore []string `json:"filestoExplore"`
	GeneratedAt    string   `json:"generatedAt"`
	Model          string   `json:"model"`
}

// RepoBasicInsight is the quick triage result for a repository.
type RepoBasicInsight struct {
	Match         float64 `json:"match"` // 0-100 fit against the profile
	ActivityLevel string  `json:"activityLevel"`
	GeneratedAt   string  `json:"generatedAt"`
	Model         string  `json:"model"`
}

// RepoAdvancedInsight is the deep analysis result for a repository.
type RepoAdvancedInsight struct {
	Summary                 string   `json:"summary"`
	ContributorFriendliness string   `json:"contributorFriendliness"` // high|medium|low
	ActivityLevel           string   `json:"activityLevel"`
	CodeQuality             float64  `json:"codeQuality"`    // 0-100
	CommunityScore          float64  `json:"communityScore"` // 0-100
	DocumentationQuality    string   `json:"documentationQuality"` // Excellent|Good|Fair|Poor
	BestFor                 []string `json:"bestFor"`
	HotAreas                []string `json:"hotAreas"`
	TechStack               []string `json:"techStack"`
	GeneratedAt             string   `json:"generatedAt"`
	Model                   string   `json:"model"`
}

// Insight is the persisted record of a generated insight.
// Payload holds one of the four result shapes, serialized as-is.
type Insight struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Kind       SubjectKind
	Depth      InsightDepth
	SubjectRef string // e.g. "owner/repo" or "owner/repo#123"
	Model      string
	Payload    json.RawMessage
	CreatedAt  time.Time
}

// GeneratedAtFormat is the human-readable date stamped onto every result by
// the pipeline (not taken from the model's own output).
const GeneratedAtFormat = "January 2, 2006"
