package repository

import (
	"project_assistant_backend/internal/model"

	"gorm.io/gorm"
)

type ProjectHistoryRepository struct {
	DB *gorm.DB
}

func NewProjectHistoryRepository(db *gorm.DB) *ProjectHistoryRepository {
	return &ProjectHistoryRepository{DB: db}
}

func (r *ProjectHistoryRepository) Create(project *model.ProjectHistory) error {
	return r.DB.Create(project).Error
}

// FindByUserID 最近创建的在前
func (r *ProjectHistoryRepository) FindByUserID(userID uint) ([]model.ProjectHistory, error) {
	var projects []model.ProjectHistory
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectHistoryRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ProjectHistory{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
