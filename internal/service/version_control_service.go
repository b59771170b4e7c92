package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"project_assistant_backend/internal/model"
	"project_assistant_backend/internal/repository"
	"project_assistant_backend/internal/util"
	"project_assistant_backend/pkg/logger"
	"project_assistant_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const ToolVersionControl = "version_control"

// 包含这些词的请求被视为要代码而不是要命令
var codeKeywords = []string{"code", "program", "function", "algorithm", "application", "snippet", "example"}

var commandPrefixes = []string{"#", "git", "docker", "npm", "pip"}

type VersionControlResult struct {
	Commands string `json:"commands"`
	Source   string `json:"source"`
}

type VersionControlService struct {
	Repo *repository.VersionControlRepository
	AI   *AIService
}

func NewVersionControlService(repo *repository.VersionControlRepository, ai *AIService) *VersionControlService {
	return &VersionControlService{Repo: repo, AI: ai}
}

func IsCodeRequest(request string) bool {
	lower := strings.ToLower(request)
	for _, kw := range codeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (s *VersionControlService) Help(ctx context.Context, userID uint, request string) (*VersionControlResult, error) {
	if IsCodeRequest(request) {
		return nil, util.ErrCodeRequestRejected
	}

	result := &VersionControlResult{Source: util.SourceAI}
	content, err := s.AI.Chat(ctx, versionControlPrompt(request), false)
	if err == nil {
		result.Commands = FilterCommandLines(unwrapCommands(content))
	} else if !errors.Is(err, util.ErrAIUnavailable) {
		logger.Log.Warn("AI version control help failed, using cheatsheet", zap.Error(err))
	}

	if result.Commands == "" {
		result.Commands = FallbackCommands(request)
		result.Source = util.SourceFallback
	}
	monitoring.RecordGeneration(ToolVersionControl, result.Source)

	if err := s.Repo.Create(&model.VersionControlHistory{
		UserID:       userID,
		RequestText:  request,
		ResponseText: result.Commands,
	}); err != nil {
		logger.Log.Warn("failed to save version control history", zap.Uint("user_id", userID), zap.Error(err))
	}
	return result, nil
}

func (s *VersionControlService) History(userID uint, limit int) ([]model.VersionControlHistory, error) {
	return s.Repo.FindRecent(userID, limit)
}

func unwrapCommands(content string) string {
	var wrapped struct {
		Commands string `json:"commands"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &wrapped); err == nil && wrapped.Commands != "" {
		return wrapped.Commands
	}
	return content
}

// FilterCommandLines 只保留注释、命令和用法说明行
func FilterCommandLines(content string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(line)
		if hasAnyPrefix(trimmed, commandPrefixes) || strings.Contains(lower, " command") || strings.Contains(lower, " usage:") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func versionControlPrompt(request string) string {
	return fmt.Sprintf(`User needs help with: "%s"

Generate a practical guide with:
1. All relevant commands, one per line, with a short trailing # comment
2. Complete workflow examples as command sequences
3. Common errors and the commands that recover from them

Use section headers starting with #. Output commands only, no application code.`, request)
}

// FallbackCommands 按请求里提到的工具选择速查表
func FallbackCommands(request string) string {
	lower := strings.ToLower(request)
	switch {
	case strings.Contains(lower, "git"):
		return gitCheatsheet
	case strings.Contains(lower, "docker"):
		return dockerCheatsheet
	default:
		return genericCheatsheet
	}
}

const gitCheatsheet = `# Git Commands Cheatsheet

## Basic Commands
git init                    # Initialize repository
git clone <url>            # Clone repository
git status                 # Check status
git add <file>             # Stage file
git commit -m "message"    # Commit changes
git push                   # Push to remote
git pull                   # Pull from remote

## Branch Management
git branch                 # List branches
git branch <name>          # Create branch
git checkout <branch>      # Switch branch
git merge <branch>         # Merge branch

## Viewing History
git log                    # View commit history
git log --oneline          # Compact history
git diff                   # View changes
git show <commit>          # Show commit

## Undoing Changes
git reset <file>           # Unstage file
git checkout -- <file>     # Discard changes
git revert <commit>        # Revert commit

## Remote Repositories
git remote -v              # View remotes
git remote add <name> <url> # Add remote
git push -u origin main    # Push and set upstream`

const dockerCheatsheet = `# Docker Commands

## Container Management
docker run <image>         # Run container
docker ps                  # List containers
docker stop <container>    # Stop container
docker start <container>   # Start container
docker rm <container>      # Remove container

## Image Management
docker build -t <name> .   # Build image
docker images              # List images
docker rmi <image>        # Remove image
docker pull <image>       # Pull image

## Docker Compose
docker-compose up          # Start services
docker-compose down       # Stop services
docker-compose build      # Build services

## Useful Commands
docker logs <container>    # View logs
docker exec -it <container> bash  # Enter container
docker system prune       # Clean up system`

const genericCheatsheet = `# Version Control Commands

## Git Basics
1. Initialize: git init
2. Add files: git add .
3. Commit: git commit -m "message"
4. Push: git push origin main
5. Pull: git pull origin main

## Common Workflows
# Create feature branch
git checkout -b feature-name
git add .
git commit -m "Add feature"
git push origin feature-name

# Merge changes
git checkout main
git pull origin main
git merge feature-name
git push origin main

## Troubleshooting
# Discard local changes
git checkout -- .

# View remote URL
git remote -v

# View commit history
git log --oneline --graph`
