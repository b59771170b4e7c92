package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"project_assistant_backend/internal/util"
	"project_assistant_backend/pkg/logger"
	"project_assistant_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const ToolDocumentation = "documentation"

type DocumentationResult struct {
	Documentation string `json:"documentation"`
	Filename      string `json:"filename"`
	URL           string `json:"url,omitempty"`
	Source        string `json:"source"`
}

type DocumentationService struct {
	AI      *AIService
	Storage *StorageService
	Now     func() time.Time
}

func NewDocumentationService(ai *AIService, storage *StorageService) *DocumentationService {
	return &DocumentationService{AI: ai, Storage: storage, Now: time.Now}
}

func (s *DocumentationService) Generate(ctx context.Context, userID uint, details string) DocumentationResult {
	now := s.Now()
	result := DocumentationResult{
		Filename: "project_documentation_" + now.Format(util.FileStampFormat) + ".txt",
	}

	content, err := s.AI.Chat(ctx, documentationPrompt(details), false)
	if err == nil {
		result.Documentation = unwrapDocumentation(content)
		result.Source = util.SourceAI
	} else {
		if !errors.Is(err, util.ErrAIUnavailable) {
			logger.Log.Warn("AI documentation failed, using template", zap.Error(err))
		}
		result.Documentation = FallbackDocumentation(details, now)
		result.Source = util.SourceFallback
	}
	monitoring.RecordGeneration(ToolDocumentation, result.Source)

	result.URL = s.Storage.SaveArtifact(ctx, "documentation", userID, result.Filename, result.Documentation, util.MimeText)
	return result
}

// unwrapDocumentation 模型偶尔会返回 {"documentation": "..."}
func unwrapDocumentation(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return content
	}
	var wrapped struct {
		Documentation string `json:"documentation"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil && wrapped.Documentation != "" {
		return wrapped.Documentation
	}
	return content
}

func documentationPrompt(details string) string {
	return fmt.Sprintf(`Generate comprehensive project documentation for:

%s

Include these sections:
1. Project Overview
2. Objectives & Goals
3. Technology Stack
4. System Architecture
5. Features List
6. Installation Guide
7. Usage Instructions
8. API Documentation (if applicable)
9. Testing Strategy
10. Deployment Guide
11. Future Enhancements
12. References

Format professionally for academic submission.`, details)
}

// FallbackDocumentation 固定的 Markdown 模板
func FallbackDocumentation(details string, now time.Time) string {
	return fmt.Sprintf(`# PROJECT DOCUMENTATION

## Project Overview
%[1]s

## Development Roadmap

### Phase 1: Planning & Design (Week 1-2)
1. Define requirements and specifications
2. Create wireframes and user flow diagrams
3. Design database schema
4. Set up development environment

### Phase 2: Backend Development (Week 3-5)
1. Set up server and API framework
2. Implement database models and migrations
3. Create REST API endpoints
4. Implement authentication and authorization

### Phase 3: Frontend Development (Week 6-8)
1. Create responsive UI components
2. Implement state management
3. Connect frontend to backend APIs
4. Add user interaction and validation

### Phase 4: Testing & Deployment (Week 9-10)
1. Write unit and integration tests
2. Perform user acceptance testing
3. Deploy to production environment
4. Monitor and optimize performance

## Technology Stack
- Frontend: HTML5, CSS3, JavaScript (ES6+)
- Backend: REST API service
- Database: SQLite/MySQL
- Version Control: Git & GitHub
- Deployment: Docker, Cloud Platform (optional)

## Getting Started
1. Clone the repository
2. Install dependencies
3. Configure environment variables
4. Run database migrations
5. Start development server

## Features Checklist
- [ ] User authentication system
- [ ] CRUD operations
- [ ] Responsive design
- [ ] Error handling
- [ ] Data validation
- [ ] API documentation
- [ ] Testing suite
- [ ] Deployment configuration

## Future Enhancements
1. Add advanced features based on user feedback
2. Implement analytics and monitoring
3. Optimize performance and scalability
4. Add mobile application version

## Notes
%[1]s

---
Generated by Smart Project Assistant
Date: %[2]s
`, details, now.Format(util.TimeFormat))
}
