package repository

import (
	"project_assistant_backend/internal/model"

	"gorm.io/gorm"
)

type VersionControlRepository struct {
	DB *gorm.DB
}

func NewVersionControlRepository(db *gorm.DB) *VersionControlRepository {
	return &VersionControlRepository{DB: db}
}

func (r *VersionControlRepository) Create(entry *model.VersionControlHistory) error {
	return r.DB.Create(entry).Error
}

func (r *VersionControlRepository) FindRecent(userID uint, limit int) ([]model.VersionControlHistory, error) {
	var entries []model.VersionControlHistory
	err := r.DB.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
