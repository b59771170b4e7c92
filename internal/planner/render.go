package planner

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

var funcs = map[string]any{
	"join":  strings.Join,
	"title": capitalize,
}

const textLayout = `Project Plan: "{{.Ctx.Title}}"
Duration: {{.Ctx.Weeks}} weeks | Team: {{.Ctx.TeamSize}} person(s)
Total Hours: {{.Ctx.TotalHours}} hours | Hours/Week/Person: {{.Ctx.HoursPerWeekPerPerson}}
Skill Level: {{title (print .Ctx.SkillLevel)}}

Week-by-Week Breakdown:
{{range .Plan.WeeklyPlan}}
Week {{.Week}}: {{.Focus}} ({{.Hours}} hours)
  Tasks:
{{- range .Tasks}}
    - {{.}}
{{- end}}
  Deliverables: {{join .Deliverables ", "}}
{{- if .Milestones}}
  Milestones: {{join .Milestones ", "}}
{{- end}}
{{end}}
Project Summary
  Total weeks: {{.Plan.Summary.TotalWeeks}}
  Total hours: {{.Plan.Summary.TotalHours}}
  Weekly hours per person: {{.Plan.Summary.WeeklyHoursPerPerson}}

Critical Path
{{- range .Plan.CriticalPath}}
  - {{.}}
{{- end}}

Risks & Mitigations
{{- range .Plan.Risks}}
  Risk: {{.Risk}}
  Mitigation: {{.Mitigation}}
{{- end}}

Success Metrics
{{- range .Plan.SuccessMetrics}}
  - {{.}}
{{- end}}
`

const htmlLayout = `<h4>Project Plan: "{{.Ctx.Title}}"</h4>
<div class="plan-summary">
<p><strong>Duration:</strong> {{.Ctx.Weeks}} weeks | <strong>Team:</strong> {{.Ctx.TeamSize}} person(s)</p>
<p><strong>Total Hours:</strong> {{.Ctx.TotalHours}} hours | <strong>Hours/Week/Person:</strong> {{.Ctx.HoursPerWeekPerPerson}}</p>
<p><strong>Skill Level:</strong> {{title (print .Ctx.SkillLevel)}}</p>
</div>
<h5>Week-by-Week Breakdown:</h5>
<div class="weekly-plan">
{{- range .Plan.WeeklyPlan}}
<div class="week-card">
<div class="week-header"><h6>Week {{.Week}}: {{.Focus}}</h6><span class="hours-badge">{{.Hours}} hours</span></div>
<div class="week-content">
<p><strong>Tasks:</strong></p>
<ul>{{range .Tasks}}<li>{{.}}</li>{{end}}</ul>
<p><strong>Deliverables:</strong> {{join .Deliverables ", "}}</p>
{{- if .Milestones}}
<p><strong>Milestones:</strong> {{join .Milestones ", "}}</p>
{{- end}}
</div>
</div>
{{- end}}
</div>
<div class="plan-details">
<div class="detail-section"><h5>Project Summary</h5><ul>
<li>Total weeks: {{.Plan.Summary.TotalWeeks}}</li>
<li>Total hours: {{.Plan.Summary.TotalHours}}</li>
<li>Weekly hours per person: {{.Plan.Summary.WeeklyHoursPerPerson}}</li>
</ul></div>
<div class="detail-section"><h5>Critical Path</h5><ul>{{range .Plan.CriticalPath}}<li>{{.}}</li>{{end}}</ul></div>
<div class="detail-section"><h5>Risks &amp; Mitigations</h5><div class="risks-grid">
{{- range .Plan.Risks}}
<div class="risk-item"><div class="risk"><strong>Risk:</strong> {{.Risk}}</div><div class="mitigation"><strong>Mitigation:</strong> {{.Mitigation}}</div></div>
{{- end}}
</div></div>
<div class="detail-section"><h5>Success Metrics</h5><ul>{{range .Plan.SuccessMetrics}}<li>{{.}}</li>{{end}}</ul></div>
</div>
`

var (
	textTmpl = texttemplate.Must(texttemplate.New("plan.txt").Funcs(funcs).Parse(textLayout))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("plan.html").Funcs(funcs).Parse(htmlLayout))
)

type renderData struct {
	Ctx  ProjectContext
	Plan Plan
}

// RenderText 下载用的纯文本
func RenderText(ctx ProjectContext, plan Plan) (string, error) {
	var buf bytes.Buffer
	if err := textTmpl.Execute(&buf, renderData{Ctx: ctx, Plan: plan}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderHTML 页面片段，所有字段都会转义
func RenderHTML(ctx ProjectContext, plan Plan) (string, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, renderData{Ctx: ctx, Plan: plan}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlanFilename 非字母数字替换为下划线
func PlanFilename(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String() + "_plan.txt"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
