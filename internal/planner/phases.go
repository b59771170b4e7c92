package planner

import "project_assistant_backend/internal/model"

const (
	PhasePlanning    = "Planning & Research"
	PhaseDesign      = "Design & Prototyping"
	PhaseDevelopment = "Development"
	PhaseTesting     = "Testing & Debugging"
	PhaseDeployment  = "Deployment & Documentation"
)

// skillShift 规划与开发之间挪动的百分比
const skillShift = 5

var basePhases = [...]Phase{
	{Name: PhasePlanning, Percent: 15},
	{Name: PhaseDesign, Percent: 20},
	{Name: PhaseDevelopment, Percent: 40},
	{Name: PhaseTesting, Percent: 15},
	{Name: PhaseDeployment, Percent: 10},
}

// PhasesFor 返回按技能调整后的五个阶段，调整后不做归一化。
// 未知技能等级按基础权重处理。
func PhasesFor(skill model.SkillLevel) []Phase {
	phases := make([]Phase, len(basePhases))
	copy(phases, basePhases[:])

	switch skill {
	case model.Beginner:
		phases[0].Percent += skillShift
		phases[2].Percent -= skillShift
	case model.Advanced:
		phases[0].Percent -= skillShift
		phases[2].Percent += skillShift
	}
	return phases
}
