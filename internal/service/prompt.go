// Package service contains the business logic layer.
//
// This file renders the four insight prompt templates. Rendering is
// deterministic string interpolation: missing optional fields become literal
// placeholder text so the model never sees an empty slot, and subject content
// is embedded as plain text for a text completion call.
package service

import (
	"fmt"
	"strings"

	"github.com/0xarg/openscope/internal/domain"
)

// Placeholder text for absent optional fields.
const (
	placeholderNotProvided   = "Not provided"
	placeholderNone          = "None"
	placeholderNoDescription = "No description provided"
)

// BuildPrompt renders the template for the request's subject kind and depth.
func BuildPrompt(req *domain.InsightRequest) (string, error) {
	switch {
	case req.Kind == domain.SubjectIssue && req.Depth == domain.DepthBasic:
		return buildIssueBasicPrompt(req.Issue, req.Profile), nil
	case req.Kind == domain.SubjectIssue && req.Depth == domain.DepthAdvanced:
		return buildIssueAdvancedPrompt(req.Issue, req.Profile), nil
	case req.Kind == domain.SubjectRepository && req.Depth == domain.DepthBasic:
		return buildRepoBasicPrompt(req.Repo, req.Profile), nil
	case req.Kind == domain.SubjectRepository && req.Depth == domain.DepthAdvanced:
		return buildRepoAdvancedPrompt(req.Repo, req.Profile), nil
	default:
		return "", domain.Invalid("prompt.build", "unknown subject kind or depth")
	}
}

func buildIssueBasicPrompt(issue *domain.IssueSubject, profile *domain.Profile) string {
	return fmt.Sprintf(`You are an experienced open-source maintainer helping a developer judge whether a GitHub issue is a good contribution target.

Developer profile:
- Bio: %s
- Skills: %s

Issue:
- Title: %s
- Description: %s
- Labels: %s
- Comment count: %d

Assess the issue for this developer. Base your assessment only on the information above; do not invent details that are not given.

Return a JSON object with exactly these keys:
- "difficulty": one of "easy", "medium", "hard"
- "skills": array of strings naming the skills needed
- "estimatedTime": string, a rough time estimate (e.g. "2-4 hours")

Return ONLY the JSON object, no additional text.`,
		bioOrPlaceholder(profile),
		skillsOrPlaceholder(profile),
		issue.Title,
		textOrPlaceholder(issue.Body, placeholderNoDescription),
		listOrPlaceholder(issue.Labels, placeholderNone),
		issue.Comments,
	)
}

func buildIssueAdvancedPrompt(issue *domain.IssueSubject, profile *domain.Profile) string {
	return fmt.Sprintf(`You are an experienced open-source maintainer producing a deep analysis of a GitHub issue for a developer considering working on it.

Developer profile:
- Bio: %s
- Skills: %s

Issue:
- Title: %s
- Description: %s
- Labels: %s
- Comment count: %d

Analyze the issue for this developer. Base the analysis only on the information above; do not invent repository details, file contents, or causes beyond what the issue text supports.

Return a JSON object with exactly these keys:
- "summary": string, what the issue is about in one or two sentences
- "difficulty": one of "easy", "medium", "hard"
- "skills": array of strings naming the skills needed
- "cause": string, the likely underlying cause if it can be inferred from the text
- "approach": array of strings, concrete steps to tackle the issue
- "estimatedTime": string, a rough time estimate
- "matchScore": number from 0 to 100 rating how well the issue fits the developer profile
- "filestoExplore": array of strings naming files or areas likely worth exploring

Return ONLY the JSON object, no additional text.`,
		bioOrPlaceholder(profile),
		skillsOrPlaceholder(profile),
		issue.Title,
		textOrPlaceholder(issue.Body, placeholderNoDescription),
		listOrPlaceholder(issue.Labels, placeholderNone),
		issue.Comments,
	)
}

func buildRepoBasicPrompt(repo *domain.RepoSubject, profile *domain.Profile) string {
	return fmt.Sprintf(`You are an experienced open-source maintainer helping a developer judge whether a GitHub repository is a good place to contribute.

Developer profile:
- Bio: %s
- Skills: %s

Repository:
- Name: %s
- Description: %s
- Topics: %s
- Stars: %d
- Forks: %d
- Watchers: %d
- Open issues: %d

Assess the repository for this developer. Base your assessment only on the information above; do not invent details that are not given.

Return a JSON object with exactly these keys:
- "match": number from 0 to 100 rating how well the repository fits the developer profile
- "activityLevel": string describing how active the project appears

Return ONLY the JSON object, no additional text.`,
		bioOrPlaceholder(profile),
		skillsOrPlaceholder(profile),
		repo.Name,
		textOrPlaceholder(repo.Description, placeholderNoDescription),
		listOrPlaceholder(repo.Topics, placeholderNone),
		repo.Stars,
		repo.Forks,
		repo.Watchers,
		repo.OpenIssues,
	)
}

func buildRepoAdvancedPrompt(repo *domain.RepoSubject, profile *domain.Profile) string {
	return fmt.Sprintf(`You are an experienced open-source maintainer producing a deep analysis of a GitHub repository for a developer considering contributing to it.

Developer profile:
- Bio: %s
- Skills: %s

Repository:
- Name: %s
- Description: %s
- Topics: %s
- Stars: %d
- Forks: %d
- Watchers: %d
- Open issues: %d

Analyze the repository for this developer. Base the analysis only on the information above; do not invent details that are not given.

Return a JSON object with exactly these keys:
- "summary": string, what the project is in one or two sentences
- "contributorFriendliness": one of "high", "medium", "low"
- "activityLevel": string describing how active the project appears
- "codeQuality": number from 0 to 100
- "communityScore": number from 0 to 100
- "documentationQuality": one of "Excellent", "Good", "Fair", "Poor"
- "bestFor": array of strings describing who this project suits
- "hotAreas": array of strings naming areas with contribution opportunities
- "techStack": array of strings naming the technologies involved

Return ONLY the JSON object, no additional text.`,
		bioOrPlaceholder(profile),
		skillsOrPlaceholder(profile),
		repo.Name,
		textOrPlaceholder(repo.Description, placeholderNoDescription),
		listOrPlaceholder(repo.Topics, placeholderNone),
		repo.Stars,
		repo.Forks,
		repo.Watchers,
		repo.OpenIssues,
	)
}

// =============================================================================
// Interpolation helpers
// =============================================================================

func bioOrPlaceholder(profile *domain.Profile) string {
	if profile == nil {
		return placeholderNotProvided
	}
	return textOrPlaceholder(profile.Bio, placeholderNotProvided)
}

func skillsOrPlaceholder(profile *domain.Profile) string {
	if profile == nil {
		return placeholderNotProvided
	}
	return listOrPlaceholder(profile.Skills, placeholderNotProvided)
}

func textOrPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func listOrPlaceholder(items []string, placeholder string) string {
	if len(items) == 0 {
		return placeholder
	}
	return strings.Join(items, ", ")
}
