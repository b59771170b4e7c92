package planner

import (
	"fmt"
	"strings"

	"project_assistant_backend/internal/model"
)

const skillPlanWeeks = 4

type SkillWeek struct {
	Week       int      `json:"week"`
	Focus      string   `json:"focus"`
	Hours      int      `json:"hours"`
	Objectives []string `json:"objectives"`
	Exercises  []string `json:"exercises"`
	Projects   []string `json:"projects"`
}

type SkillResources struct {
	VideoTutorials    []string `json:"video_tutorials"`
	Documentation     []string `json:"documentation"`
	PracticePlatforms []string `json:"practice_platforms"`
}

type SkillPlan struct {
	WeeklyPlan        []SkillWeek    `json:"weekly_plan"`
	Resources         SkillResources `json:"resources"`
	SuccessCriteria   []string       `json:"success_criteria"`
	EstimatedTimeline string         `json:"estimated_timeline"`
}

func (p *SkillPlan) Usable() bool {
	return p != nil && len(p.WeeklyPlan) > 0
}

var skillFocuses = []string{
	"Fundamentals & Basics",
	"Core Concepts & Practice",
	"Advanced Topics & Projects",
	"Implementation & Portfolio",
}

var levelObjectives = map[model.SkillLevel][]string{
	model.Beginner: {
		"Understand basic syntax and concepts",
		"Write simple programs",
		"Learn debugging techniques",
		"Build a small project",
	},
	model.Intermediate: {
		"Master core concepts",
		"Work with frameworks/libraries",
		"Implement design patterns",
		"Build complex projects",
	},
	model.Advanced: {
		"Optimize performance",
		"Implement advanced algorithms",
		"Work with databases/APIs",
		"Build portfolio-ready projects",
	},
}

// GenerateSkillPlan 四周技能提升计划，每周时长固定为 hoursPerWeek
func GenerateSkillPlan(skill string, level model.SkillLevel, hoursPerWeek int) SkillPlan {
	if hoursPerWeek <= 0 {
		hoursPerWeek = 5
	}
	lower := strings.ToLower(skill)

	weekly := make([]SkillWeek, 0, skillPlanWeeks)
	for week := 1; week <= skillPlanWeeks; week++ {
		weekly = append(weekly, SkillWeek{
			Week:       week,
			Focus:      pick(skillFocuses, week, fmt.Sprintf("Week %d Learning", week)),
			Hours:      hoursPerWeek,
			Objectives: []string{weekObjective(week, level)},
			Exercises:  []string{weekExercise(week, lower)},
			Projects:   []string{weekProject(week, lower)},
		})
	}

	docs := "https://docs.python.org"
	if strings.Contains(lower, "python") {
		docs += "/3/"
	}

	return SkillPlan{
		WeeklyPlan: weekly,
		Resources: SkillResources{
			VideoTutorials: []string{
				"https://www.youtube.com/c/Freecodecamp",
				"https://www.youtube.com/c/TraversyMedia",
				"https://www.youtube.com/c/TheNetNinja",
			},
			Documentation: []string{
				"https://developer.mozilla.org",
				"https://www.w3schools.com",
				docs,
			},
			PracticePlatforms: []string{
				"https://leetcode.com",
				"https://www.hackerrank.com",
				"https://www.codewars.com",
			},
		},
		SuccessCriteria: []string{
			"Complete all weekly exercises",
			"Build at least 2 small projects",
			"Understand core concepts",
			"Apply knowledge to solve problems",
		},
		EstimatedTimeline: fmt.Sprintf("%d weeks (%d hours/week)", skillPlanWeeks, hoursPerWeek),
	}
}

func weekObjective(week int, level model.SkillLevel) string {
	list, ok := levelObjectives[level]
	if !ok {
		list = levelObjectives[model.Beginner]
	}
	return pick(list, week, list[0])
}

func weekExercise(week int, skill string) string {
	var list []string
	switch {
	case strings.Contains(skill, "web") || strings.Contains(skill, "frontend"):
		list = []string{
			"Create a responsive HTML/CSS layout",
			"Build a JavaScript calculator",
			"Implement form validation",
			"Create a single-page application",
		}
	case strings.Contains(skill, "python"):
		list = []string{
			"Write Python scripts for file handling",
			"Create a data processing script",
			"Build a web scraper",
			"Implement a simple API",
		}
	case strings.Contains(skill, "data") || strings.Contains(skill, "structure"):
		list = []string{
			"Implement linked list operations",
			"Create sorting algorithms",
			"Solve algorithm problems",
			"Optimize code for efficiency",
		}
	default:
		list = []string{
			"Practice core concepts",
			"Solve coding challenges",
			"Build small projects",
			"Optimize and refactor code",
		}
	}
	return pick(list, week, list[0])
}

func weekProject(week int, skill string) string {
	var list []string
	switch {
	case strings.Contains(skill, "web"):
		list = []string{
			"Personal portfolio website",
			"Todo list application",
			"Weather app with API",
			"E-commerce product page",
		}
	case strings.Contains(skill, "python"):
		list = []string{
			"Number guessing game",
			"Password generator",
			"File organizer script",
			"Web API with FastAPI",
		}
	default:
		list = []string{
			"Practice project 1",
			"Practice project 2",
			"Portfolio project",
			"Final showcase project",
		}
	}
	return pick(list, week, list[0])
}

func pick(list []string, week int, fallback string) string {
	if week >= 1 && week <= len(list) {
		return list[week-1]
	}
	return fallback
}
