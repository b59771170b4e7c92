// Package planner 项目计划的确定性生成（无网络依赖的兜底方案）
package planner

import (
	"strings"

	"project_assistant_backend/internal/model"
)

const (
	DefaultWeeks        = 4
	DefaultTeamSize     = 1
	DefaultHoursPerWeek = 10

	MaxWeeks        = 52
	MaxTeamSize     = 10
	MaxHoursPerWeek = 40
)

// ProjectContext 一次计划请求的输入，创建后不再修改
type ProjectContext struct {
	Title                 string           `json:"title"`
	Description           string           `json:"description"`
	Weeks                 int              `json:"weeks"`
	TeamSize              int              `json:"team_size"`
	SkillLevel            model.SkillLevel `json:"skill_level"`
	HoursPerWeekPerPerson int              `json:"hours_per_week_per_person"`
	TotalHours            int              `json:"total_hours"`
}

// NewProjectContext 把表单输入收敛到合法范围。
// 周数、人数非正时取默认值；每周小时数为负取默认值，0 保留。
func NewProjectContext(title, description string, weeks, teamSize, hoursPerWeek int, skill model.SkillLevel) ProjectContext {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}
	if weeks > MaxWeeks {
		weeks = MaxWeeks
	}
	if teamSize <= 0 {
		teamSize = DefaultTeamSize
	}
	if teamSize > MaxTeamSize {
		teamSize = MaxTeamSize
	}
	if hoursPerWeek < 0 {
		hoursPerWeek = DefaultHoursPerWeek
	}
	if hoursPerWeek > MaxHoursPerWeek {
		hoursPerWeek = MaxHoursPerWeek
	}
	skill = model.SkillLevel(strings.ToLower(strings.TrimSpace(string(skill))))
	if skill == "" {
		skill = model.Intermediate
	}
	if strings.TrimSpace(description) == "" {
		description = "No detailed description provided"
	}

	return ProjectContext{
		Title:                 strings.TrimSpace(title),
		Description:           description,
		Weeks:                 weeks,
		TeamSize:              teamSize,
		SkillLevel:            skill,
		HoursPerWeekPerPerson: hoursPerWeek,
		TotalHours:            weeks * teamSize * hoursPerWeek,
	}
}

type Phase struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

type WeekPlan struct {
	Week         int      `json:"week"`
	Focus        string   `json:"focus"`
	Hours        int      `json:"hours"`
	Tasks        []string `json:"tasks"`
	Deliverables []string `json:"deliverables"`
	Milestones   []string `json:"milestones"`
}

type Summary struct {
	TotalWeeks                int      `json:"total_weeks"`
	TotalHours                int      `json:"total_hours"`
	WeeklyHoursPerPerson      int      `json:"weekly_hours_per_person"`
	SkillLevelRecommendations []string `json:"skill_level_recommendations,omitempty"`
}

type Risk struct {
	Risk       string `json:"risk"`
	Mitigation string `json:"mitigation"`
}

type Plan struct {
	WeeklyPlan     []WeekPlan `json:"weekly_plan"`
	Summary        Summary    `json:"summary"`
	CriticalPath   []string   `json:"critical_path"`
	Risks          []Risk     `json:"risks"`
	SuccessMetrics []string   `json:"success_metrics"`
}

// Usable 远程结果至少要带周计划才能替代本地方案
func (p *Plan) Usable() bool {
	return p != nil && len(p.WeeklyPlan) > 0
}
