package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"project_assistant_backend/internal/config"
	"project_assistant_backend/internal/planner"
	"project_assistant_backend/internal/util"
	"project_assistant_backend/pkg/logger"
	"project_assistant_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	ToolPlan       = "plan"
	remotePlanPath = "/generate-project-plan"
	maxRemoteBody  = 4 << 20
)

var ErrUnusablePlan = errors.New("plan has no weekly breakdown")

// PlanSource 计划生成的一层，失败时由下一层接替
type PlanSource interface {
	Name() string
	Plan(ctx context.Context, pc planner.ProjectContext) (*planner.Plan, error)
}

// RemotePlanSource 远程计划服务
type RemotePlanSource struct {
	mu     sync.RWMutex
	cfg    config.BackendConfig
	client *http.Client
}

func NewRemotePlanSource(cfg config.BackendConfig) *RemotePlanSource {
	return &RemotePlanSource{cfg: cfg, client: &http.Client{}}
}

func (s *RemotePlanSource) Name() string { return util.SourceBackend }

func (s *RemotePlanSource) UpdateConfig(cfg config.BackendConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// remotePlanResponse 兼容直接返回计划和包在 plan 字段里两种格式
type remotePlanResponse struct {
	planner.Plan
	Inner *planner.Plan `json:"plan"`
}

func (s *RemotePlanSource) Plan(ctx context.Context, pc planner.ProjectContext) (*planner.Plan, error) {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	if cfg.BaseURL == "" {
		return nil, util.ErrBackendUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	body, err := json.Marshal(pc)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + remotePlanPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("planner backend returned status %d", resp.StatusCode)
	}

	var out remotePlanResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRemoteBody)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode planner backend response: %w", err)
	}

	plan := &out.Plan
	if out.Inner != nil {
		plan = out.Inner
	}
	if !plan.Usable() {
		return nil, ErrUnusablePlan
	}
	return plan, nil
}

// AIPlanSource 直接请求大模型生成计划
type AIPlanSource struct {
	AI *AIService
}

func NewAIPlanSource(ai *AIService) *AIPlanSource {
	return &AIPlanSource{AI: ai}
}

func (s *AIPlanSource) Name() string { return util.SourceAI }

type aiWeek struct {
	Week         FlexInt     `json:"week"`
	Focus        FlexString  `json:"focus"`
	Hours        FlexInt     `json:"hours"`
	Tasks        FlexStrings `json:"tasks"`
	Deliverables FlexStrings `json:"deliverables"`
	Milestones   FlexStrings `json:"milestones"`
}

type aiRisks []planner.Risk

func (r *aiRisks) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		// 非数组的风险描述直接忽略
		*r = nil
		return nil
	}

	out := make(aiRisks, 0, len(items))
	for _, item := range items {
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			out = append(out, planner.Risk{Risk: text, Mitigation: planner.RiskMitigation(text)})
			continue
		}
		var obj struct {
			Risk       FlexString `json:"risk"`
			Mitigation FlexString `json:"mitigation"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Risk != "" {
			mitigation := string(obj.Mitigation)
			if mitigation == "" {
				mitigation = planner.RiskMitigation(string(obj.Risk))
			}
			out = append(out, planner.Risk{Risk: string(obj.Risk), Mitigation: mitigation})
		}
	}
	*r = out
	return nil
}

type aiPlan struct {
	WeeklyPlan     []aiWeek    `json:"weekly_plan"`
	CriticalPath   FlexStrings `json:"critical_path"`
	Risks          aiRisks     `json:"risks"`
	SuccessMetrics FlexStrings `json:"success_metrics"`
}

func (s *AIPlanSource) Plan(ctx context.Context, pc planner.ProjectContext) (*planner.Plan, error) {
	var raw aiPlan
	if err := s.AI.ChatJSON(ctx, planPrompt(pc), &raw); err != nil {
		return nil, err
	}
	if len(raw.WeeklyPlan) == 0 {
		return nil, ErrUnusablePlan
	}

	weekly := make([]planner.WeekPlan, 0, min(len(raw.WeeklyPlan), pc.Weeks))
	for i, w := range raw.WeeklyPlan {
		if i >= pc.Weeks {
			break
		}
		week := int(w.Week)
		if week <= 0 {
			week = i + 1
		}
		weekly = append(weekly, planner.WeekPlan{
			Week:         week,
			Focus:        string(w.Focus),
			Hours:        max(int(w.Hours), 0),
			Tasks:        nonNil(w.Tasks),
			Deliverables: nonNil(w.Deliverables),
			Milestones:   nonNil(w.Milestones),
		})
	}

	// 汇总总是按输入重新计算，其余部分模型未给出时用本地结果补齐
	plan := planner.Assemble(pc, weekly)
	if len(raw.CriticalPath) > 0 {
		plan.CriticalPath = raw.CriticalPath
	}
	if len(raw.Risks) > 0 {
		plan.Risks = raw.Risks
	}
	if len(raw.SuccessMetrics) > 0 {
		plan.SuccessMetrics = raw.SuccessMetrics
	}
	return &plan, nil
}

func planPrompt(pc planner.ProjectContext) string {
	return fmt.Sprintf(`Create a detailed project plan for: "%s"

Project Context:
- Duration: %d weeks
- Team Size: %d person(s)
- Skill Level: %s
- Total available hours: %d hours
- Hours per week per person: %d

Description: %s

Generate a week-by-week breakdown with:
1. Week number and focus area
2. Key tasks and milestones
3. Hours allocation per week
4. Deliverables for each week
5. Success criteria
6. Risk mitigation strategies

Return as JSON with: weekly_plan (array of objects with week, focus, hours, tasks, deliverables, milestones), critical_path, risks (objects with risk and mitigation), success_metrics`,
		pc.Title, pc.Weeks, pc.TeamSize, pc.SkillLevel, pc.TotalHours, pc.HoursPerWeekPerPerson, pc.Description)
}

// LocalPlanSource 确定性的本地分配，永不失败
type LocalPlanSource struct{}

func (LocalPlanSource) Name() string { return util.SourceLocal }

func (LocalPlanSource) Plan(_ context.Context, pc planner.ProjectContext) (*planner.Plan, error) {
	plan := planner.Generate(pc)
	return &plan, nil
}

type PlanService struct {
	Sources []PlanSource
}

func NewPlanService(sources ...PlanSource) *PlanService {
	return &PlanService{Sources: sources}
}

type PlanResult struct {
	Plan    planner.Plan           `json:"plan"`
	Context planner.ProjectContext `json:"context"`
	Source  string                 `json:"source"`
	HTML    string                 `json:"html"`
	Text    string                 `json:"text"`
}

// GetPlan 按顺序尝试各层，第一个可用结果即返回
func (s *PlanService) GetPlan(ctx context.Context, pc planner.ProjectContext) (*planner.Plan, string, error) {
	var lastErr error
	for _, src := range s.Sources {
		plan, err := src.Plan(ctx, pc)
		if err == nil && !plan.Usable() {
			err = ErrUnusablePlan
		}
		if err != nil {
			lastErr = err
			if !errors.Is(err, util.ErrAIUnavailable) && !errors.Is(err, util.ErrBackendUnavailable) {
				logger.Log.Warn("plan source failed, trying next",
					zap.String("source", src.Name()),
					zap.Error(err))
			}
			continue
		}
		monitoring.RecordGeneration(ToolPlan, src.Name())
		return plan, src.Name(), nil
	}
	if lastErr == nil {
		lastErr = errors.New("no plan source configured")
	}
	return nil, "", lastErr
}

// Build 生成计划并渲染页面片段和下载文本
func (s *PlanService) Build(ctx context.Context, pc planner.ProjectContext) (*PlanResult, error) {
	plan, source, err := s.GetPlan(ctx, pc)
	if err != nil {
		return nil, err
	}

	html, err := planner.RenderHTML(pc, *plan)
	if err != nil {
		return nil, fmt.Errorf("render plan html: %w", err)
	}
	text, err := planner.RenderText(pc, *plan)
	if err != nil {
		return nil, fmt.Errorf("render plan text: %w", err)
	}

	return &PlanResult{
		Plan:    *plan,
		Context: pc,
		Source:  source,
		HTML:    html,
		Text:    text,
	}, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
