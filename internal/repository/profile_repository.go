package repository

import (
	"errors"

	"project_assistant_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// FindByUserID 不存在时返回 (nil, nil)
func (r *ProfileRepository) FindByUserID(userID uint) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save 按 user_id 新建或更新，返回是否为新建
func (r *ProfileRepository) Save(profile *model.StudentProfile) (created bool, err error) {
	err = r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.StudentProfile
		findErr := tx.Where("user_id = ?", profile.UserID).First(&existing).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(profile).Error
		case findErr != nil:
			return findErr
		}

		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Updates(map[string]interface{}{
			"college_name":     profile.CollegeName,
			"branch":           profile.Branch,
			"semester":         profile.Semester,
			"skill_level":      profile.SkillLevel,
			"current_projects": profile.CurrentProjects,
		}).Error
	})
	return created, err
}
