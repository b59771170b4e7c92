package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"project_assistant_backend/internal/repository"
	"project_assistant_backend/internal/util"
	"project_assistant_backend/pkg/logger"
	"project_assistant_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	ToolPortfolio        = "portfolio"
	maxPortfolioProjects = 5
	portfolioDisplayDate = "January 02, 2006"
)

type PortfolioProject struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Technologies FlexString `json:"technologies"`
}

type PortfolioEducation struct {
	College  string `json:"college"`
	Branch   string `json:"branch"`
	Semester string `json:"semester"`
}

type PortfolioContact struct {
	Email    string `json:"email"`
	Github   string `json:"github"`
	Linkedin string `json:"linkedin"`
	Bio      string `json:"bio"`
}

type PortfolioInput struct {
	Name      string             `json:"name"`
	Skills    []string           `json:"skills"`
	Projects  []PortfolioProject `json:"projects"`
	Education PortfolioEducation `json:"education"`
	Contact   PortfolioContact   `json:"contact"`
}

type PortfolioResult struct {
	PortfolioHTML string `json:"portfolio_html"`
	Filename      string `json:"filename"`
	URL           string `json:"url,omitempty"`
	Source        string `json:"source"`
}

type PortfolioService struct {
	Repo    *repository.PortfolioRepository
	AI      *AIService
	Storage *StorageService
	Now     func() time.Time
}

func NewPortfolioService(repo *repository.PortfolioRepository, ai *AIService, storage *StorageService) *PortfolioService {
	return &PortfolioService{Repo: repo, AI: ai, Storage: storage, Now: time.Now}
}

func (s *PortfolioService) Generate(ctx context.Context, userID uint, in PortfolioInput) (*PortfolioResult, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Upsert(userID, string(payload)); err != nil {
		logger.Log.Warn("failed to save portfolio data", zap.Uint("user_id", userID), zap.Error(err))
	}

	now := s.Now()
	result := &PortfolioResult{
		Filename: fmt.Sprintf("portfolio_%d_%s.html", userID, now.Format(util.FileDateFormat)),
		Source:   util.SourceAI,
	}

	content, err := s.AI.Chat(ctx, portfolioPrompt(in), false)
	if err == nil {
		result.PortfolioHTML = unwrapPortfolioHTML(content)
	} else if !errors.Is(err, util.ErrAIUnavailable) {
		logger.Log.Warn("AI portfolio generation failed, using template", zap.Error(err))
	}

	if result.PortfolioHTML == "" {
		html, err := RenderPortfolio(in, now)
		if err != nil {
			return nil, fmt.Errorf("render portfolio: %w", err)
		}
		result.PortfolioHTML = html
		result.Source = util.SourceFallback
	}
	monitoring.RecordGeneration(ToolPortfolio, result.Source)

	result.URL = s.Storage.SaveArtifact(ctx, "portfolio", userID, result.Filename, result.PortfolioHTML, util.MimeHTML)
	return result, nil
}

func (s *PortfolioService) Get(userID uint) (*PortfolioInput, error) {
	data, err := s.Repo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, util.ErrPortfolioNotFound
	}

	var in PortfolioInput
	if err := json.Unmarshal([]byte(data.PortfolioJSON), &in); err != nil {
		return nil, fmt.Errorf("decode stored portfolio: %w", err)
	}
	return &in, nil
}

func unwrapPortfolioHTML(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "{") {
		var wrapped struct {
			PortfolioHTML string `json:"portfolio_html"`
		}
		if err := json.Unmarshal([]byte(s), &wrapped); err == nil {
			return strings.TrimSpace(wrapped.PortfolioHTML)
		}
	}
	s = strings.TrimPrefix(s, "```html")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func portfolioPrompt(in PortfolioInput) string {
	projects := "No projects provided"
	if len(in.Projects) > 0 {
		if b, err := json.MarshalIndent(in.Projects, "", "  "); err == nil {
			projects = string(b)
		}
	}
	skills := "HTML, CSS, JavaScript, Python"
	if len(in.Skills) > 0 {
		skills = strings.Join(in.Skills, ", ")
	}

	return fmt.Sprintf(`Generate a complete, professional HTML portfolio page for:

NAME: %s
COLLEGE: %s
BRANCH: %s
SEMESTER: %s

SKILLS: %s

PROJECTS:
%s

CONTACT:
Email: %s
GitHub: %s
LinkedIn: %s
Bio: %s

REQUIREMENTS:
1. Complete HTML document with doctype, head, and body
2. Modern, responsive design with CSS embedded in style tags
3. Sections: Header, About, Skills, Projects, Contact
4. Print-friendly styles

Return only the HTML document.`,
		firstNonEmpty(in.Name, "Student"),
		firstNonEmpty(in.Education.College, "University"),
		firstNonEmpty(in.Education.Branch, "Computer Science"),
		firstNonEmpty(in.Education.Semester, "Current"),
		skills,
		projects,
		firstNonEmpty(in.Contact.Email, "Not provided"),
		firstNonEmpty(in.Contact.Github, "Not provided"),
		firstNonEmpty(in.Contact.Linkedin, "Not provided"),
		firstNonEmpty(in.Contact.Bio, "Passionate student developer"))
}

type portfolioView struct {
	Name, College, Branch, Semester, Bio string
	Email, Github, Linkedin              string
	Skills                               []string
	Projects                             []PortfolioProject
	Date, Year                           string
}

// RenderPortfolio 本地模板，最多展示 5 个项目，没有项目时展示一个默认项目
func RenderPortfolio(in PortfolioInput, now time.Time) (string, error) {
	view := portfolioView{
		Name:     firstNonEmpty(in.Name, "Student"),
		College:  firstNonEmpty(in.Education.College, "University"),
		Branch:   firstNonEmpty(in.Education.Branch, "Computer Science"),
		Semester: firstNonEmpty(in.Education.Semester, "Current"),
		Bio:      firstNonEmpty(in.Contact.Bio, "Passionate developer and student."),
		Email:    firstNonEmpty(in.Contact.Email, "Not provided"),
		Github:   in.Contact.Github,
		Linkedin: in.Contact.Linkedin,
		Skills:   in.Skills,
		Date:     now.Format(portfolioDisplayDate),
		Year:     now.Format("2006"),
	}

	for i, p := range in.Projects {
		if i >= maxPortfolioProjects {
			break
		}
		view.Projects = append(view.Projects, PortfolioProject{
			Name:         firstNonEmpty(p.Name, fmt.Sprintf("Project %d", i+1)),
			Description:  firstNonEmpty(p.Description, "A completed project."),
			Technologies: FlexString(firstNonEmpty(string(p.Technologies), "Various technologies")),
		})
	}
	if len(view.Projects) == 0 {
		view.Projects = []PortfolioProject{{
			Name:         "Smart Project Assistant",
			Description:  "A comprehensive project management system with AI-powered features for students.",
			Technologies: "Go, Gin, JavaScript, HTML/CSS",
		}}
	}

	var buf bytes.Buffer
	if err := portfolioTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var portfolioTmpl = template.Must(template.New("portfolio.html").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Name}} - Portfolio</title>
    <link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.0.0/css/all.min.css">
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; background: #f8f9fa; }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 60px 40px; text-align: center; border-radius: 0 0 30px 30px; margin-bottom: 30px; }
        .header h1 { font-size: 3rem; margin-bottom: 10px; }
        .section { margin-bottom: 40px; padding: 30px; background: white; border-radius: 15px; box-shadow: 0 5px 15px rgba(0, 0, 0, 0.1); }
        .section h2 { color: #667eea; margin-bottom: 20px; font-size: 1.8rem; }
        .skills-grid { display: flex; flex-wrap: wrap; gap: 12px; }
        .skill-tag { background: #667eea; color: white; padding: 8px 16px; border-radius: 20px; font-size: 0.9rem; }
        .projects-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(300px, 1fr)); gap: 25px; }
        .project-card { border-radius: 15px; overflow: hidden; border: 1px solid #eaeaea; }
        .project-header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; }
        .project-content { padding: 20px; }
        .tech { color: #667eea; font-size: 0.9rem; }
        .contact-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(250px, 1fr)); gap: 25px; }
        .contact-item { padding: 20px; background: #f8f9ff; border-radius: 10px; border: 2px solid #e6e8ff; }
        .social-links { display: flex; gap: 15px; margin-top: 30px; justify-content: center; }
        .social-link { width: 45px; height: 45px; background: #667eea; color: white; border-radius: 50%; display: flex; align-items: center; justify-content: center; text-decoration: none; }
        footer { text-align: center; padding: 30px; color: #666; border-top: 1px solid #eee; }
        @media (max-width: 768px) { .header h1 { font-size: 2rem; } .projects-grid { grid-template-columns: 1fr; } }
        @media print { .header { border-radius: 0; } .section { box-shadow: none; } }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Name}}</h1>
        <p>{{.College}} | {{.Branch}}</p>
        <p>Semester {{.Semester}} | Student Portfolio</p>
    </div>
    <div class="container">
        <div class="section">
            <h2><i class="fas fa-user"></i> About Me</h2>
            <p>{{.Bio}}</p>
        </div>
        <div class="section">
            <h2><i class="fas fa-code"></i> Skills</h2>
            <div class="skills-grid">
                {{- range .Skills}}
                <span class="skill-tag">{{.}}</span>
                {{- end}}
            </div>
        </div>
        <div class="section">
            <h2><i class="fas fa-project-diagram"></i> Projects</h2>
            <div class="projects-grid">
                {{- range .Projects}}
                <div class="project-card">
                    <div class="project-header"><h3>{{.Name}}</h3></div>
                    <div class="project-content">
                        <p>{{.Description}}</p>
                        <p class="tech">{{.Technologies}}</p>
                    </div>
                </div>
                {{- end}}
            </div>
        </div>
        <div class="section">
            <h2><i class="fas fa-envelope"></i> Contact</h2>
            <div class="contact-grid">
                <div class="contact-item"><h4>Education</h4><p>{{.College}}</p><p>{{.Branch}}</p></div>
                <div class="contact-item"><h4>Email</h4><p>{{.Email}}</p></div>
                <div class="contact-item"><h4>Portfolio Date</h4><p>{{.Date}}</p></div>
            </div>
            {{- if or .Github .Linkedin}}
            <div class="social-links">
                {{- if .Github}}
                <a href="{{.Github}}" class="social-link" target="_blank"><i class="fab fa-github"></i></a>
                {{- end}}
                {{- if .Linkedin}}
                <a href="{{.Linkedin}}" class="social-link" target="_blank"><i class="fab fa-linkedin"></i></a>
                {{- end}}
            </div>
            {{- end}}
        </div>
    </div>
    <footer>
        <p>&copy; {{.Year}} {{.Name}} - Portfolio</p>
        <p>Generated by Smart Project Assistant</p>
    </footer>
</body>
</html>
`))
