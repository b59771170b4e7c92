package service

import (
	"strings"

	"project_assistant_backend/internal/model"
	"project_assistant_backend/internal/repository"
	"project_assistant_backend/internal/util"
	"project_assistant_backend/pkg/logger"

	"go.uber.org/zap"
)

type ProfileInput struct {
	CollegeName     string           `json:"college_name" binding:"max=200"`
	Branch          string           `json:"branch" binding:"max=100"`
	Semester        string           `json:"semester" binding:"max=20"`
	SkillLevel      model.SkillLevel `json:"skill_level" binding:"omitempty,skill_level"`
	CurrentProjects string           `json:"current_projects"`
}

type ProfileService struct {
	Repo      *repository.ProfileRepository
	Exercises *ExerciseService
}

func NewProfileService(repo *repository.ProfileRepository, exercises *ExerciseService) *ProfileService {
	return &ProfileService{Repo: repo, Exercises: exercises}
}

// Save 首次创建档案时按技能等级分配初始练习
func (s *ProfileService) Save(userID uint, in ProfileInput) (*model.StudentProfile, error) {
	level := model.SkillLevel(strings.ToLower(string(in.SkillLevel)))
	if !level.Valid() {
		level = model.Beginner
	}

	profile := &model.StudentProfile{
		UserID:          userID,
		CollegeName:     strings.TrimSpace(in.CollegeName),
		Branch:          strings.TrimSpace(in.Branch),
		Semester:        strings.TrimSpace(in.Semester),
		SkillLevel:      level,
		CurrentProjects: in.CurrentProjects,
	}
	created, err := s.Repo.Save(profile)
	if err != nil {
		return nil, err
	}

	if created && s.Exercises != nil {
		if err := s.Exercises.AssignInitial(userID, level); err != nil {
			logger.Log.Warn("failed to assign initial exercises", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return profile, nil
}

func (s *ProfileService) Get(userID uint) (*model.StudentProfile, error) {
	profile, err := s.Repo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, util.ErrProfileNotFound
	}
	return profile, nil
}
