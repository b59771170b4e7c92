package planner

import (
	"strconv"
	"strings"

	"project_assistant_backend/internal/model"
)

var phaseTasks = map[string][]string{
	PhasePlanning: {
		"Define project requirements and scope",
		"Research similar projects and technologies",
		"Create user stories and use cases",
		"Set up project management tools",
	},
	PhaseDesign: {
		"Create wireframes and mockups",
		"Design database schema",
		"Plan API endpoints (if applicable)",
		"Create UI/UX design",
	},
	PhaseDevelopment: {
		"Set up development environment",
		"Implement core features",
		"Write unit tests",
		"Code review and refactoring",
	},
	PhaseTesting: {
		"Integration testing",
		"User acceptance testing",
		"Bug fixing and optimization",
		"Performance testing",
	},
	PhaseDeployment: {
		"Prepare deployment pipeline",
		"Write technical documentation",
		"Create user manual",
		"Final testing on production",
	},
}

var (
	beginnerDevTasks = []string{"Follow tutorial for complex parts", "Seek code reviews frequently"}
	advancedDevTasks = []string{"Implement advanced features", "Optimize performance", "Add monitoring"}
)

var phaseDeliverables = map[string][]string{
	PhasePlanning:    {"Requirements document", "Project timeline", "Technology stack decision"},
	PhaseDesign:      {"Wireframes", "Database design", "API specification"},
	PhaseDevelopment: {"Working prototype", "Core features", "Test suite"},
	PhaseTesting:     {"Test reports", "Bug fixes", "Performance metrics"},
	PhaseDeployment:  {"Deployed application", "Documentation", "User guide"},
}

const (
	MilestoneKickoff    = "Project kickoff and planning complete"
	MilestoneDesignDone = "Design phase complete, development starts"
	MilestoneCore       = "Core features implemented"
	MilestoneTesting    = "Testing phase begins"
	MilestoneDelivery   = "Project completion and delivery"
)

// TasksFor 取阶段任务列表的前 min(week, len) 项。
// 开发阶段按技能等级追加额外任务后再截取。
func TasksFor(phase string, week int, skill model.SkillLevel) []string {
	base, ok := phaseTasks[phase]
	if !ok {
		return []string{"Phase tasks to be determined"}
	}

	tasks := make([]string, 0, len(base)+len(advancedDevTasks))
	tasks = append(tasks, base...)
	if phase == PhaseDevelopment {
		switch skill {
		case model.Beginner:
			tasks = append(tasks, beginnerDevTasks...)
		case model.Advanced:
			tasks = append(tasks, advancedDevTasks...)
		}
	}

	n := max(min(week, len(tasks)), 0)
	return tasks[:n]
}

// DeliverablesFor 总是返回一项
func DeliverablesFor(phase string, week int) []string {
	list, ok := phaseDeliverables[phase]
	if !ok {
		list = []string{"Deliverable"}
	}
	idx := min(max(week-1, 0), len(list)-1)
	return []string{list[idx]}
}

// MilestonesFor 稀疏表按 1, 2, T/2, T-2, T 的顺序写入，后写覆盖先写。
// 例如 T=4 时第 2 周最终为 "Testing phase begins"。
func MilestonesFor(week, totalWeeks int) []string {
	table := make(map[int]string, 5)
	table[1] = MilestoneKickoff
	table[2] = MilestoneDesignDone
	table[totalWeeks/2] = MilestoneCore
	table[totalWeeks-2] = MilestoneTesting
	table[totalWeeks] = MilestoneDelivery

	if m, ok := table[week]; ok {
		return []string{m}
	}
	return []string{}
}

var skillRecommendations = map[model.SkillLevel][]string{
	model.Beginner: {
		"Use simpler technologies (HTML, CSS, basic JavaScript)",
		"Follow step-by-step tutorials",
		"Focus on core functionality first",
		"Get frequent feedback",
	},
	model.Intermediate: {
		"Use frameworks (React, Vue, Express)",
		"Implement authentication and database",
		"Follow best practices",
		"Write tests",
	},
	model.Advanced: {
		"Use advanced features (WebSockets, real-time)",
		"Implement complex algorithms",
		"Focus on scalability",
		"Add monitoring and analytics",
	},
}

func SkillRecommendations(skill model.SkillLevel) []string {
	if recs, ok := skillRecommendations[skill]; ok {
		return append([]string(nil), recs...)
	}
	return append([]string(nil), skillRecommendations[model.Intermediate]...)
}

func CriticalPath(totalWeeks int) []string {
	return []string{
		"Week 1-2: Planning and design must be completed on time",
		"Week " + strconv.Itoa(totalWeeks/2) + ": Core features must be working",
		"Week " + strconv.Itoa(totalWeeks-1) + ": Testing must be completed",
		"Week " + strconv.Itoa(totalWeeks) + ": Final deployment and documentation",
	}
}

var baseRisks = []string{
	"Scope creep - features being added without adjusting timeline",
	"Technical challenges with new technologies",
	"Team availability and time management",
	"Integration issues with external services",
}

// mitigations 按顺序匹配，第一个命中的关键字生效
var mitigations = []struct {
	keyword    string
	mitigation string
}{
	{"Scope creep", "Use MoSCoW prioritization, have clear requirements"},
	{"Technical challenges", "Research early, have fallback solutions"},
	{"Team availability", "Regular check-ins, flexible scheduling"},
	{"Learning curve", "Allocate extra time, find tutorials and mentors"},
	{"Underestimating time", "Add 20% buffer to estimates"},
}

const defaultMitigation = "Regular progress reviews and adjustments"

func RiskMitigation(risk string) string {
	for _, m := range mitigations {
		if strings.Contains(risk, m.keyword) {
			return m.mitigation
		}
	}
	return defaultMitigation
}

func ProjectRisks(skill model.SkillLevel) []Risk {
	names := append([]string(nil), baseRisks...)
	switch skill {
	case model.Beginner:
		names = append(names, "Learning curve for new technologies", "Underestimating time requirements")
	case model.Advanced:
		names = append(names, "Over-engineering solutions", "Complexity management")
	}

	risks := make([]Risk, 0, len(names))
	for _, r := range names {
		risks = append(risks, Risk{Risk: r, Mitigation: RiskMitigation(r)})
	}
	return risks
}
