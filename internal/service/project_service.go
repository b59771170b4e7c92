package service

import (
	"strings"
	"time"

	"project_assistant_backend/internal/model"
	"project_assistant_backend/internal/repository"
	"project_assistant_backend/pkg/logger"

	"go.uber.org/zap"
)

type ProjectInput struct {
	ProjectName string              `json:"project_name" binding:"required,max=200"`
	ProjectType string              `json:"project_type"`
	Domain      string              `json:"domain"`
	Status      model.ProjectStatus `json:"status" binding:"omitempty,oneof=planned in_progress completed"`
	Notes       string              `json:"notes"`
}

type ProjectChecklist struct {
	IdeaDefined          bool `json:"idea_defined"`
	ProfileComplete      bool `json:"profile_complete"`
	DocumentationStarted bool `json:"documentation_started"`
	CodeStructured       bool `json:"code_structured"`
	TestingDone          bool `json:"testing_done"`
	DeploymentReady      bool `json:"deployment_ready"`
}

func (c ProjectChecklist) completed() int {
	n := 0
	for _, done := range []bool{c.IdeaDefined, c.ProfileComplete, c.DocumentationStarted, c.CodeStructured, c.TestingDone, c.DeploymentReady} {
		if done {
			n++
		}
	}
	return n
}

const checklistItems = 6

type ChecklistResult struct {
	Checklist ProjectChecklist `json:"checklist"`
	Score     int              `json:"score"`
}

type ProjectService struct {
	ProjectRepo *repository.ProjectHistoryRepository
	ProfileRepo *repository.ProfileRepository
}

func NewProjectService(projectRepo *repository.ProjectHistoryRepository, profileRepo *repository.ProfileRepository) *ProjectService {
	return &ProjectService{ProjectRepo: projectRepo, ProfileRepo: profileRepo}
}

func (s *ProjectService) Add(userID uint, in ProjectInput) (*model.ProjectHistory, error) {
	project := &model.ProjectHistory{
		UserID:      userID,
		ProjectName: strings.TrimSpace(in.ProjectName),
		ProjectType: firstNonEmpty(in.ProjectType, "web"),
		Domain:      firstNonEmpty(in.Domain, "general"),
		Status:      model.ProjectStatus(firstNonEmpty(string(in.Status), string(model.ProjectPlanned))),
		Notes:       in.Notes,
	}
	if project.Status == model.ProjectCompleted {
		now := time.Now()
		project.CompletedDate = &now
	}
	if err := s.ProjectRepo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) List(userID uint) ([]model.ProjectHistory, error) {
	projects, err := s.ProjectRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []model.ProjectHistory{}
	}
	return projects, nil
}

// Checklist 读取失败时返回全 false、0 分，不向调用方报错
func (s *ProjectService) Checklist(userID uint) ChecklistResult {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		logger.Log.Warn("checklist profile lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		return ChecklistResult{}
	}
	projects, err := s.ProjectRepo.FindByUserID(userID)
	if err != nil {
		logger.Log.Warn("checklist project lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		return ChecklistResult{}
	}

	checklist := ProjectChecklist{
		IdeaDefined:     len(projects) > 0,
		ProfileComplete: profile != nil,
		CodeStructured:  len(projects) > 1,
	}
	for _, p := range projects {
		if p.Notes != "" {
			checklist.DocumentationStarted = true
			break
		}
	}

	return ChecklistResult{
		Checklist: checklist,
		Score:     checklist.completed() * 100 / checklistItems,
	}
}
