package repository

import (
	"time"

	"project_assistant_backend/internal/model"

	"gorm.io/gorm"
)

type SkillExerciseRepository struct {
	DB *gorm.DB
}

func NewSkillExerciseRepository(db *gorm.DB) *SkillExerciseRepository {
	return &SkillExerciseRepository{DB: db}
}

func (r *SkillExerciseRepository) CreateBatch(exercises []model.SkillExercise) error {
	if len(exercises) == 0 {
		return nil
	}
	return r.DB.Create(&exercises).Error
}

func (r *SkillExerciseRepository) FindByUserID(userID uint) ([]model.SkillExercise, error) {
	var exercises []model.SkillExercise
	err := r.DB.Where("user_id = ?", userID).Order("id").Find(&exercises).Error
	return exercises, err
}

func (r *SkillExerciseRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.SkillExercise{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// MarkCompleted 标记该类型下所有未完成练习，返回受影响行数
func (r *SkillExerciseRepository) MarkCompleted(userID uint, exerciseType string, at time.Time) (int64, error) {
	res := r.DB.Model(&model.SkillExercise{}).
		Where("user_id = ? AND exercise_type = ? AND completed = ?", userID, exerciseType, false).
		Updates(map[string]interface{}{
			"completed":      true,
			"date_completed": at,
		})
	return res.RowsAffected, res.Error
}
