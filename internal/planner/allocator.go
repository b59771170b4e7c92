package planner

import (
	"math"

	"project_assistant_backend/internal/model"
)

// Allocate 逐周分配阶段，返回恰好 weeks 条周计划。
//
// 每周的小时数取 min(ceil(总工时/周数), 当前阶段按原始占比算出的总工时)，
// 然后按 本周工时/总工时 扣减阶段剩余占比，扣完即进入下一阶段。
// 总工时为 0 时视为本周耗尽当前阶段，每周推进一个阶段。
// 周数用完即结束，不保证覆盖所有阶段。
func Allocate(weeks, totalHours int, phases []Phase, skill model.SkillLevel) []WeekPlan {
	if weeks < 1 {
		weeks = 1
	}
	if totalHours < 0 {
		totalHours = 0
	}
	if len(phases) == 0 {
		phases = PhasesFor(skill)
	}

	weekHours := (totalHours + weeks - 1) / weeks

	plan := make([]WeekPlan, 0, weeks)
	phaseIndex := 0
	remaining := phases[0].Percent

	for week := 1; week <= weeks; week++ {
		phase := phases[phaseIndex]
		phaseHours := int(math.Round(float64(totalHours) * phase.Percent / 100))
		hours := min(weekHours, phaseHours)

		plan = append(plan, WeekPlan{
			Week:         week,
			Focus:        phase.Name,
			Hours:        hours,
			Tasks:        TasksFor(phase.Name, week, skill),
			Deliverables: DeliverablesFor(phase.Name, week),
			Milestones:   MilestonesFor(week, weeks),
		})

		if totalHours == 0 {
			remaining = 0
		} else {
			remaining -= float64(hours*100) / float64(totalHours)
		}

		if remaining <= 0 && phaseIndex < len(phases)-1 {
			phaseIndex++
			remaining = phases[phaseIndex].Percent
		}
	}

	return plan
}
