package planner

var successMetrics = []string{
	"Project completed on time",
	"All features implemented",
	"Code quality standards met",
	"Documentation complete",
}

// Assemble 在周计划外补上汇总、关键路径、风险和成功指标
func Assemble(ctx ProjectContext, weekly []WeekPlan) Plan {
	weeks := max(ctx.Weeks, 1)
	team := max(ctx.TeamSize, 1)

	return Plan{
		WeeklyPlan: weekly,
		Summary: Summary{
			TotalWeeks:                weeks,
			TotalHours:                ctx.TotalHours,
			WeeklyHoursPerPerson:      ceilDiv(ctx.TotalHours, weeks*team),
			SkillLevelRecommendations: SkillRecommendations(ctx.SkillLevel),
		},
		CriticalPath:   CriticalPath(weeks),
		Risks:          ProjectRisks(ctx.SkillLevel),
		SuccessMetrics: append([]string(nil), successMetrics...),
	}
}

// Generate 本地兜底计划
func Generate(ctx ProjectContext) Plan {
	phases := PhasesFor(ctx.SkillLevel)
	weekly := Allocate(ctx.Weeks, ctx.TotalHours, phases, ctx.SkillLevel)
	return Assemble(ctx, weekly)
}

func ceilDiv(a, b int) int {
	if b <= 0 || a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
