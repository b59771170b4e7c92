package planner

import (
	"testing"

	"project_assistant_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var phaseOrder = []string{PhasePlanning, PhaseDesign, PhaseDevelopment, PhaseTesting, PhaseDeployment}

func phaseNames(phases []Phase) []string {
	names := make([]string, 0, len(phases))
	for _, p := range phases {
		names = append(names, p.Name)
	}
	return names
}

func percents(phases []Phase) []float64 {
	out := make([]float64, 0, len(phases))
	for _, p := range phases {
		out = append(out, p.Percent)
	}
	return out
}

func TestPhasesFor(t *testing.T) {
	for _, skill := range []model.SkillLevel{model.Beginner, model.Intermediate, model.Advanced, "expert", ""} {
		t.Run(string(skill), func(t *testing.T) {
			assert.Equal(t, phaseOrder, phaseNames(PhasesFor(skill)))
		})
	}

	assert.Equal(t, []float64{20, 20, 35, 15, 10}, percents(PhasesFor(model.Beginner)))
	assert.Equal(t, []float64{15, 20, 40, 15, 10}, percents(PhasesFor(model.Intermediate)))
	assert.Equal(t, []float64{10, 20, 45, 15, 10}, percents(PhasesFor(model.Advanced)))
	assert.Equal(t, []float64{15, 20, 40, 15, 10}, percents(PhasesFor("expert")))

	t.Run("returns an independent copy", func(t *testing.T) {
		p := PhasesFor(model.Beginner)
		p[0].Percent = 99
		assert.Equal(t, float64(15), PhasesFor(model.Intermediate)[0].Percent)
	})
}

func TestAllocate_LengthAndOrder(t *testing.T) {
	for _, skill := range []model.SkillLevel{model.Beginner, model.Intermediate, model.Advanced} {
		for weeks := 1; weeks <= MaxWeeks; weeks++ {
			for _, hours := range []int{0, 5, 10, 40} {
				ctx := NewProjectContext("p", "", weeks, 2, hours, skill)
				plan := Generate(ctx)

				require.Len(t, plan.WeeklyPlan, weeks)
				weekHours := ceilDiv(ctx.TotalHours, weeks)
				for i, w := range plan.WeeklyPlan {
					assert.Equal(t, i+1, w.Week)
					assert.Len(t, w.Deliverables, 1)
					assert.LessOrEqual(t, len(w.Milestones), 1)
					assert.LessOrEqual(t, w.Hours, weekHours)
					assert.GreaterOrEqual(t, w.Hours, 0)
					assert.Contains(t, phaseOrder, w.Focus)
				}
			}
		}
	}
}

func TestAllocate_BeginnerFourWeeks(t *testing.T) {
	ctx := NewProjectContext("Task Manager", "", 4, 1, 10, model.Beginner)
	require.Equal(t, 40, ctx.TotalHours)

	plan := Generate(ctx)
	require.Len(t, plan.WeeklyPlan, 4)
	assert.Equal(t, 10, plan.Summary.WeeklyHoursPerPerson)
	assert.Equal(t, 4, plan.Summary.TotalWeeks)
	assert.Equal(t, 40, plan.Summary.TotalHours)

	var focus []string
	var hours []int
	for _, w := range plan.WeeklyPlan {
		focus = append(focus, w.Focus)
		hours = append(hours, w.Hours)
	}
	assert.Equal(t, []string{PhasePlanning, PhaseDesign, PhaseDevelopment, PhaseDevelopment}, focus)
	assert.Equal(t, []int{8, 8, 10, 10}, hours)

	assert.Equal(t, []string{"Requirements document"}, plan.WeeklyPlan[0].Deliverables)
	assert.Equal(t, []string{"Database design"}, plan.WeeklyPlan[1].Deliverables)
	assert.Equal(t, []string{"Test suite"}, plan.WeeklyPlan[3].Deliverables)

	// 开发阶段追加了初学者任务，第 4 周取前 4 项
	assert.Len(t, plan.WeeklyPlan[2].Tasks, 3)
	assert.Len(t, plan.WeeklyPlan[3].Tasks, 4)

	assert.Equal(t, []string{MilestoneKickoff}, plan.WeeklyPlan[0].Milestones)
	assert.Equal(t, []string{MilestoneTesting}, plan.WeeklyPlan[1].Milestones)
	assert.Empty(t, plan.WeeklyPlan[2].Milestones)
	assert.Equal(t, []string{MilestoneDelivery}, plan.WeeklyPlan[3].Milestones)
}

func TestAllocate_IntermediateFourWeeks(t *testing.T) {
	plan := Generate(NewProjectContext("x", "", 4, 1, 10, model.Intermediate))

	var hours []int
	for _, w := range plan.WeeklyPlan {
		hours = append(hours, w.Hours)
	}
	assert.Equal(t, []int{6, 8, 10, 10}, hours)
}

func TestAllocate_SingleWeek(t *testing.T) {
	ctx := NewProjectContext("Solo", "", 1, 1, 10, model.Intermediate)
	require.Equal(t, 10, ctx.TotalHours)

	plan := Generate(ctx)
	require.Len(t, plan.WeeklyPlan, 1)

	w := plan.WeeklyPlan[0]
	assert.Equal(t, PhasePlanning, w.Focus)
	assert.Equal(t, 2, w.Hours)
	assert.LessOrEqual(t, w.Hours, 10)
	// T=1 时第 1 周被最后写入的交付里程碑覆盖
	assert.Equal(t, []string{MilestoneDelivery}, w.Milestones)

	beginner := Generate(NewProjectContext("Solo", "", 1, 1, 10, model.Beginner))
	assert.Equal(t, PhasePlanning, beginner.WeeklyPlan[0].Focus)
	assert.Equal(t, 2, beginner.WeeklyPlan[0].Hours)
}

func TestAllocate_ZeroHoursAdvancesEachWeek(t *testing.T) {
	ctx := NewProjectContext("Idle", "", 6, 1, 0, model.Intermediate)
	require.Equal(t, 0, ctx.TotalHours)

	plan := Generate(ctx)
	require.Len(t, plan.WeeklyPlan, 6)

	var focus []string
	for _, w := range plan.WeeklyPlan {
		assert.Zero(t, w.Hours)
		focus = append(focus, w.Focus)
	}
	assert.Equal(t, []string{PhasePlanning, PhaseDesign, PhaseDevelopment, PhaseTesting, PhaseDeployment, PhaseDeployment}, focus)
	assert.Zero(t, plan.Summary.WeeklyHoursPerPerson)
}

func TestAllocate_DefensiveInputs(t *testing.T) {
	plan := Allocate(0, -5, nil, model.Advanced)
	require.Len(t, plan, 1)
	assert.Equal(t, PhasePlanning, plan[0].Focus)
	assert.Zero(t, plan[0].Hours)
}

func TestGenerate_Idempotent(t *testing.T) {
	ctx := NewProjectContext("Repeat", "same input", 12, 3, 15, model.Advanced)
	assert.Equal(t, Generate(ctx), Generate(ctx))
}

func TestTasksFor(t *testing.T) {
	assert.Equal(t, []string{"Define project requirements and scope"}, TasksFor(PhasePlanning, 1, model.Beginner))
	assert.Len(t, TasksFor(PhasePlanning, 10, model.Beginner), 4)
	assert.Len(t, TasksFor(PhaseDevelopment, 10, model.Beginner), 6)
	assert.Len(t, TasksFor(PhaseDevelopment, 10, model.Advanced), 7)
	assert.Len(t, TasksFor(PhaseDevelopment, 10, model.Intermediate), 4)
	assert.Len(t, TasksFor(PhaseTesting, 10, model.Advanced), 4)
	assert.Equal(t, []string{"Phase tasks to be determined"}, TasksFor("Unknown", 3, model.Beginner))

	t.Run("results do not share backing storage", func(t *testing.T) {
		first := TasksFor(PhaseDevelopment, 4, model.Intermediate)
		first[0] = "mutated"
		assert.Equal(t, "Set up development environment", TasksFor(PhaseDevelopment, 4, model.Intermediate)[0])
	})
}

func TestDeliverablesFor(t *testing.T) {
	for _, phase := range append(phaseOrder, "Unknown") {
		for week := 1; week <= 10; week++ {
			assert.Len(t, DeliverablesFor(phase, week), 1)
		}
	}
	assert.Equal(t, []string{"Wireframes"}, DeliverablesFor(PhaseDesign, 1))
	assert.Equal(t, []string{"API specification"}, DeliverablesFor(PhaseDesign, 7))
	assert.Equal(t, []string{"Deliverable"}, DeliverablesFor("Unknown", 5))
}

func TestMilestonesFor(t *testing.T) {
	t.Run("collision at four weeks keeps the last write", func(t *testing.T) {
		assert.Equal(t, []string{MilestoneTesting}, MilestonesFor(2, 4))
	})

	t.Run("ten weeks", func(t *testing.T) {
		assert.Equal(t, []string{MilestoneKickoff}, MilestonesFor(1, 10))
		assert.Equal(t, []string{MilestoneDesignDone}, MilestonesFor(2, 10))
		assert.Equal(t, []string{MilestoneCore}, MilestonesFor(5, 10))
		assert.Equal(t, []string{MilestoneTesting}, MilestonesFor(8, 10))
		assert.Equal(t, []string{MilestoneDelivery}, MilestonesFor(10, 10))
		assert.Empty(t, MilestonesFor(3, 10))
	})

	t.Run("never more than one", func(t *testing.T) {
		for total := 1; total <= MaxWeeks; total++ {
			for week := 1; week <= total; week++ {
				assert.LessOrEqual(t, len(MilestonesFor(week, total)), 1)
			}
		}
	})
}

func TestAssemble(t *testing.T) {
	ctx := NewProjectContext("Team", "", 10, 3, 7, model.Advanced)
	plan := Assemble(ctx, nil)

	assert.Equal(t, 210, plan.Summary.TotalHours)
	assert.Equal(t, 7, plan.Summary.WeeklyHoursPerPerson)
	assert.Equal(t, []string{
		"Week 1-2: Planning and design must be completed on time",
		"Week 5: Core features must be working",
		"Week 9: Testing must be completed",
		"Week 10: Final deployment and documentation",
	}, plan.CriticalPath)
	assert.Len(t, plan.SuccessMetrics, 4)
	assert.Len(t, plan.Risks, 6)
	assert.Equal(t, "Over-engineering solutions", plan.Risks[4].Risk)
	assert.Equal(t, "Regular progress reviews and adjustments", plan.Risks[4].Mitigation)
	assert.Equal(t, SkillRecommendations(model.Advanced), plan.Summary.SkillLevelRecommendations)
}

func TestProjectRisks(t *testing.T) {
	risks := ProjectRisks(model.Beginner)
	require.Len(t, risks, 6)
	assert.Equal(t, "Use MoSCoW prioritization, have clear requirements", risks[0].Mitigation)
	assert.Equal(t, "Research early, have fallback solutions", risks[1].Mitigation)
	assert.Equal(t, "Regular check-ins, flexible scheduling", risks[2].Mitigation)
	assert.Equal(t, "Regular progress reviews and adjustments", risks[3].Mitigation)
	assert.Equal(t, "Allocate extra time, find tutorials and mentors", risks[4].Mitigation)
	assert.Equal(t, "Add 20% buffer to estimates", risks[5].Mitigation)

	assert.Len(t, ProjectRisks(model.Intermediate), 4)
	assert.Equal(t, "Regular progress reviews and adjustments", RiskMitigation("scope creep"))
}

func TestNewProjectContext(t *testing.T) {
	ctx := NewProjectContext("  Title ", " ", 0, 0, -1, "")
	assert.Equal(t, "Title", ctx.Title)
	assert.Equal(t, DefaultWeeks, ctx.Weeks)
	assert.Equal(t, DefaultTeamSize, ctx.TeamSize)
	assert.Equal(t, DefaultHoursPerWeek, ctx.HoursPerWeekPerPerson)
	assert.Equal(t, model.Intermediate, ctx.SkillLevel)
	assert.Equal(t, 40, ctx.TotalHours)
	assert.Equal(t, "No detailed description provided", ctx.Description)

	big := NewProjectContext("t", "d", 100, 50, 99, "ADVANCED")
	assert.Equal(t, MaxWeeks, big.Weeks)
	assert.Equal(t, MaxTeamSize, big.TeamSize)
	assert.Equal(t, MaxHoursPerWeek, big.HoursPerWeekPerPerson)
	assert.Equal(t, model.Advanced, big.SkillLevel)
}
