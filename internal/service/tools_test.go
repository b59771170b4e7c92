package service

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"project_assistant_backend/internal/config"
	"project_assistant_backend/internal/repository"
	"project_assistant_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestIdeaService(t *testing.T) {
	t.Run("wrapped ai ideas truncated to count", func(t *testing.T) {
		ai, llm := newFakeLLM(t, replyWith(`{"ideas": [
			{"name": "A", "description": "first", "features": ["f1", "f2"], "difficulty": "Easy", "timeline": 4},
			{"name": "B", "description": "second", "difficulty": "Hard"},
			{"name": "C", "description": "third", "difficulty": "Medium"}
		]}`))
		result := NewIdeaService(ai).Generate(context.Background(), "web", "beginner", 2)

		assert.Equal(t, util.SourceAI, result.Source)
		require.Len(t, result.Ideas, 2)
		assert.Equal(t, FlexString("A"), result.Ideas[0].Name)
		assert.Equal(t, FlexStrings{"f1", "f2"}, result.Ideas[0].Features)
		assert.Equal(t, FlexString("4"), result.Ideas[0].Timeline)

		body, _ := llm.last()
		assert.Contains(t, body.Messages[0].Content, "suggest 2 practical web project ideas")
	})

	t.Run("bare array", func(t *testing.T) {
		ai, _ := newFakeLLM(t, replyWith(`[{"name": "Solo", "description": "d", "difficulty": "Easy"}]`))
		result := NewIdeaService(ai).Generate(context.Background(), "ai", "advanced", 0)
		assert.Equal(t, util.SourceAI, result.Source)
		require.Len(t, result.Ideas, 1)
	})

	t.Run("fallback on ai failure", func(t *testing.T) {
		ai, _ := newFakeLLM(t, replyStatus(http.StatusInternalServerError))
		result := NewIdeaService(ai).Generate(context.Background(), "web", "beginner", 5)
		assert.Equal(t, util.SourceFallback, result.Source)
		require.Len(t, result.Ideas, 2)
		assert.Equal(t, FlexString("Task Management App"), result.Ideas[0].Name)
	})

	t.Run("count is capped", func(t *testing.T) {
		result := NewIdeaService(disabledAI()).Generate(context.Background(), "mobile", "beginner", 50)
		assert.Equal(t, util.SourceFallback, result.Source)
		assert.Len(t, result.Ideas, 1)
	})
}

func TestFallbackIdeas(t *testing.T) {
	ideas := FallbackIdeas("game-dev", "intermediate", 5)
	require.Len(t, ideas, 1)
	assert.Equal(t, FlexString("Game-Dev Project"), ideas[0].Name)
	assert.Equal(t, FlexString("A project in game-dev domain"), ideas[0].Description)
	assert.Equal(t, FlexString("intermediate"), ideas[0].Difficulty)

	assert.Len(t, FallbackIdeas("WEB", "beginner", 1), 1)
	assert.Len(t, FallbackIdeas("data-science", "beginner", 5), 1)

	// 返回副本，修改不影响内置表
	first := FallbackIdeas("web", "beginner", 2)
	first[0].Name = "changed"
	assert.Equal(t, FlexString("Task Management App"), FallbackIdeas("web", "beginner", 2)[0].Name)
}

func TestDocumentationService(t *testing.T) {
	t.Run("ai text wrapped in json", func(t *testing.T) {
		ai, _ := newFakeLLM(t, replyWith(`{"documentation": "# Overview\nGreat project"}`))
		svc := NewDocumentationService(ai, testStorage(t))
		svc.Now = func() time.Time { return fixedNow }

		result := svc.Generate(context.Background(), 3, "A chat app")
		assert.Equal(t, util.SourceAI, result.Source)
		assert.Equal(t, "# Overview\nGreat project", result.Documentation)
		assert.Equal(t, "project_documentation_20250314_093000.txt", result.Filename)
		assert.True(t, strings.HasPrefix(result.URL, "/uploads/documentation/3/"))
	})

	t.Run("template fallback is uploaded", func(t *testing.T) {
		dir := t.TempDir()
		storage := &StorageService{Provider: &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir}}}
		svc := NewDocumentationService(disabledAI(), storage)
		svc.Now = func() time.Time { return fixedNow }

		result := svc.Generate(context.Background(), 3, "Inventory system")
		assert.Equal(t, util.SourceFallback, result.Source)
		assert.Contains(t, result.Documentation, "## Project Overview\nInventory system")
		assert.Contains(t, result.Documentation, "Date: 2025-03-14 09:30:00")

		rel := strings.TrimPrefix(result.URL, "/uploads/")
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, result.Documentation, string(data))
	})
}

func TestCodeSnippetService(t *testing.T) {
	t.Run("aliases are normalised", func(t *testing.T) {
		ai, llm := newFakeLLM(t, replyWith(`{"title": "Sum", "snippet": "print(1+1)", "example": "python sum.py"}`))
		result := NewCodeSnippetService(ai).Generate(context.Background(), "python", "add numbers", "")

		assert.Equal(t, util.SourceAI, result.Source)
		assert.Equal(t, "Sum", result.Snippet.Title)
		assert.Equal(t, "print(1+1)", result.Snippet.Code)
		assert.Equal(t, "python sum.py", result.Snippet.UsageExample)

		body, _ := llm.last()
		assert.Contains(t, body.Messages[0].Content, "beginner level python")
	})

	t.Run("fallback template", func(t *testing.T) {
		result := NewCodeSnippetService(disabledAI()).Generate(context.Background(), "rust", "parse csv", "advanced")
		assert.Equal(t, util.SourceFallback, result.Source)
		assert.Equal(t, "Rust Code for: parse csv", result.Snippet.Title)
		assert.Contains(t, result.Snippet.Code, "JavaScript")
	})
}

func TestNormalizeSnippet(t *testing.T) {
	raw := NormalizeSnippet("def f(): pass", "python", "stub")
	assert.Equal(t, "Python Code for: stub", raw.Title)
	assert.Equal(t, "def f(): pass", raw.Code)

	empty := NormalizeSnippet(`{"explanation": "nothing"}`, "go", "hello")
	assert.Equal(t, "Go Implementation", empty.Title)
	assert.Equal(t, "# go code for: hello\n# Implementation details here", empty.Code)
}

func TestFallbackSnippet(t *testing.T) {
	py := FallbackSnippet("Python", "sort list")
	assert.Contains(t, py.Code, "def main():")
	assert.Equal(t, "Python Code for: sort list", py.Title)

	html := FallbackSnippet("html", "landing page")
	assert.Contains(t, html.Code, "<!DOCTYPE html>")
}

func TestVersionControlService(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewVersionControlRepository(db)

	t.Run("code requests are rejected", func(t *testing.T) {
		svc := NewVersionControlService(repo, disabledAI())
		_, err := svc.Help(context.Background(), 1, "Write a Python function for sorting")
		assert.ErrorIs(t, err, util.ErrCodeRequestRejected)
	})

	t.Run("ai output is filtered", func(t *testing.T) {
		ai, _ := newFakeLLM(t, replyWith("Sure, here is a guide.\n# Undo last commit\ngit reset --soft HEAD~1\nThat should do it.\nnpm install  # deps"))
		svc := NewVersionControlService(repo, ai)

		result, err := svc.Help(context.Background(), 1, "undo my last commit")
		require.NoError(t, err)
		assert.Equal(t, util.SourceAI, result.Source)
		assert.Equal(t, "# Undo last commit\ngit reset --soft HEAD~1\nnpm install  # deps", result.Commands)
	})

	t.Run("nothing useful falls back to cheatsheet", func(t *testing.T) {
		ai, _ := newFakeLLM(t, replyWith("I am not sure."))
		svc := NewVersionControlService(repo, ai)

		result, err := svc.Help(context.Background(), 1, "docker cleanup")
		require.NoError(t, err)
		assert.Equal(t, util.SourceFallback, result.Source)
		assert.Equal(t, dockerCheatsheet, result.Commands)
	})

	t.Run("history is recorded newest first", func(t *testing.T) {
		svc := NewVersionControlService(repo, disabledAI())
		_, err := svc.Help(context.Background(), 2, "git branching")
		require.NoError(t, err)
		_, err = svc.Help(context.Background(), 2, "rebase help")
		require.NoError(t, err)

		history, err := svc.History(2, 10)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "rebase help", history[0].RequestText)
		assert.Equal(t, genericCheatsheet, history[0].ResponseText)
		assert.Equal(t, gitCheatsheet, history[1].ResponseText)
	})
}

func TestFilterCommandLines(t *testing.T) {
	in := "intro text\n\n# Section\ngit status\n  docker ps\nRun this command to push\nusage: see below\npip install x"
	assert.Equal(t, "# Section\ngit status\n  docker ps\nRun this command to push\npip install x", FilterCommandLines(in))
	assert.Equal(t, "", FilterCommandLines("nothing here"))
}

func TestIsCodeRequest(t *testing.T) {
	assert.True(t, IsCodeRequest("Give me an EXAMPLE app"))
	assert.True(t, IsCodeRequest("algorithm for merge"))
	assert.False(t, IsCodeRequest("how do I squash commits"))
}

func TestPortfolioService(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewPortfolioRepository(db)
	input := PortfolioInput{
		Name:   "Ada",
		Skills: []string{"Go", "SQL"},
		Projects: []PortfolioProject{
			{Name: "Planner", Description: "Plans things", Technologies: "Go, Gin"},
		},
		Education: PortfolioEducation{College: "MIT"},
		Contact:   PortfolioContact{Email: "ada@example.com", Github: "https://github.com/ada"},
	}

	t.Run("ai html", func(t *testing.T) {
		ai, _ := newFakeLLM(t, replyWith("```html\n<html><body>Ada</body></html>\n```"))
		svc := NewPortfolioService(repo, ai, testStorage(t))
		svc.Now = func() time.Time { return fixedNow }

		result, err := svc.Generate(context.Background(), 7, input)
		require.NoError(t, err)
		assert.Equal(t, util.SourceAI, result.Source)
		assert.Equal(t, "<html><body>Ada</body></html>", result.PortfolioHTML)
		assert.Equal(t, "portfolio_7_20250314.html", result.Filename)
		assert.NotEmpty(t, result.URL)
	})

	t.Run("json wrapped html", func(t *testing.T) {
		ai, _ := newFakeLLM(t, replyWith(`{"portfolio_html": "<p>hi</p>"}`))
		svc := NewPortfolioService(repo, ai, testStorage(t))
		result, err := svc.Generate(context.Background(), 7, input)
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>", result.PortfolioHTML)
	})

	t.Run("template fallback and stored data", func(t *testing.T) {
		svc := NewPortfolioService(repo, disabledAI(), testStorage(t))
		svc.Now = func() time.Time { return fixedNow }

		result, err := svc.Generate(context.Background(), 8, input)
		require.NoError(t, err)
		assert.Equal(t, util.SourceFallback, result.Source)
		assert.Contains(t, result.PortfolioHTML, "<h1>Ada</h1>")
		assert.Contains(t, result.PortfolioHTML, "March 14, 2025")

		saved, err := svc.Get(8)
		require.NoError(t, err)
		assert.Equal(t, input, *saved)
	})

	t.Run("missing portfolio", func(t *testing.T) {
		svc := NewPortfolioService(repo, disabledAI(), testStorage(t))
		_, err := svc.Get(999)
		assert.ErrorIs(t, err, util.ErrPortfolioNotFound)
	})
}

func TestRenderPortfolio(t *testing.T) {
	t.Run("defaults and default project", func(t *testing.T) {
		html, err := RenderPortfolio(PortfolioInput{}, fixedNow)
		require.NoError(t, err)
		assert.Contains(t, html, "<h1>Student</h1>")
		assert.Contains(t, html, "University | Computer Science")
		assert.Contains(t, html, "Passionate developer and student.")
		assert.Contains(t, html, "A comprehensive project management system")
		assert.Contains(t, html, "Not provided")
		assert.NotContains(t, html, `class="social-links"`)
		assert.Contains(t, html, "&copy; 2025 Student")
	})

	t.Run("at most five projects and escaped input", func(t *testing.T) {
		in := PortfolioInput{
			Name:     "<b>Eve</b>",
			Contact:  PortfolioContact{Linkedin: "https://linkedin.com/in/eve"},
			Projects: make([]PortfolioProject, 7),
		}
		html, err := RenderPortfolio(in, fixedNow)
		require.NoError(t, err)

		assert.Equal(t, 5, strings.Count(html, `class="project-card"`))
		assert.Contains(t, html, "Project 5")
		assert.NotContains(t, html, "Project 6")
		assert.Contains(t, html, "A completed project.")
		assert.Contains(t, html, "Various technologies")
		assert.Contains(t, html, "&lt;b&gt;Eve&lt;/b&gt;")
		assert.Contains(t, html, "fa-linkedin")
		assert.NotContains(t, html, "fa-github")
	})
}
