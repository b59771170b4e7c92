package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"project_assistant_backend/internal/util"
	"project_assistant_backend/pkg/logger"
	"project_assistant_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	ToolIdeas        = "ideas"
	DefaultIdeaCount = 5
	MaxIdeaCount     = 10
)

type ProjectIdea struct {
	Name        FlexString  `json:"name"`
	Description FlexString  `json:"description"`
	Features    FlexStrings `json:"features,omitempty"`
	Skills      FlexStrings `json:"skills,omitempty"`
	Timeline    FlexString  `json:"timeline,omitempty"`
	Difficulty  FlexString  `json:"difficulty"`
	Resources   FlexStrings `json:"resources,omitempty"`
}

type IdeasResult struct {
	Ideas  []ProjectIdea `json:"ideas"`
	Source string        `json:"source"`
}

type IdeaService struct {
	AI *AIService
}

func NewIdeaService(ai *AIService) *IdeaService {
	return &IdeaService{AI: ai}
}

var fallbackIdeas = map[string][]ProjectIdea{
	"web": {
		{Name: "Task Management App", Description: "A web app to manage daily tasks", Difficulty: "Beginner"},
		{Name: "E-commerce Website", Description: "Online store with product catalog", Difficulty: "Intermediate"},
	},
	"mobile": {
		{Name: "Expense Tracker App", Description: "Track daily expenses and budgets", Difficulty: "Beginner"},
	},
	"ai": {
		{Name: "Sentiment Analysis Tool", Description: "Analyze text sentiment from reviews", Difficulty: "Advanced"},
	},
	"data-science": {
		{Name: "Data Visualization Dashboard", Description: "Visualize data with charts and graphs", Difficulty: "Intermediate"},
	},
}

// Generate count 非正时取默认值，上限 MaxIdeaCount
func (s *IdeaService) Generate(ctx context.Context, domain, skillLevel string, count int) IdeasResult {
	if count <= 0 {
		count = DefaultIdeaCount
	}
	count = min(count, MaxIdeaCount)

	ideas, err := s.fromAI(ctx, domain, skillLevel, count)
	if err == nil && len(ideas) > 0 {
		monitoring.RecordGeneration(ToolIdeas, util.SourceAI)
		return IdeasResult{Ideas: ideas[:min(len(ideas), count)], Source: util.SourceAI}
	}
	if err != nil && !errors.Is(err, util.ErrAIUnavailable) {
		logger.Log.Warn("AI idea generation failed, using fallback", zap.Error(err))
	}

	monitoring.RecordGeneration(ToolIdeas, util.SourceFallback)
	return IdeasResult{Ideas: FallbackIdeas(domain, skillLevel, count), Source: util.SourceFallback}
}

func (s *IdeaService) fromAI(ctx context.Context, domain, skillLevel string, count int) ([]ProjectIdea, error) {
	content, err := s.AI.Chat(ctx, ideasPrompt(domain, skillLevel, count), true)
	if err != nil {
		return nil, err
	}
	raw, err := ExtractJSON(content)
	if err != nil {
		return nil, err
	}

	// 可能是 {"ideas": [...]}，也可能直接是数组
	var wrapped struct {
		Ideas []ProjectIdea `json:"ideas"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Ideas) > 0 {
		return wrapped.Ideas, nil
	}
	var list []ProjectIdea
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FallbackIdeas 未知领域返回一条以领域命名的通用项目
func FallbackIdeas(domain, skillLevel string, count int) []ProjectIdea {
	base, ok := fallbackIdeas[strings.ToLower(domain)]
	if !ok {
		base = []ProjectIdea{{
			Name:        FlexString(util.TitleCase(domain) + " Project"),
			Description: FlexString(fmt.Sprintf("A project in %s domain", domain)),
			Difficulty:  FlexString(skillLevel),
		}}
	}
	n := max(min(count, len(base)), 0)
	return append([]ProjectIdea(nil), base[:n]...)
}

func ideasPrompt(domain, skillLevel string, count int) string {
	return fmt.Sprintf(`As a project assistant, suggest %d practical %s project ideas for %s level college students.

For each idea, provide as JSON with these fields:
1. name: Project title
2. description: Brief overview (2-3 sentences)
3. features: List 3-5 key features
4. skills: List required skills
5. timeline: Estimated weeks
6. difficulty: Easy/Medium/Hard
7. resources: List of learning resources (YouTube tutorials, documentation links)

Return {"ideas": [...]}.`, count, domain, skillLevel)
}
