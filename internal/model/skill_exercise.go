package model

import "time"

// SkillExercise 分配给用户的练习，按 ExerciseType 标记完成
// swagger:model SkillExercise
type SkillExercise struct {
	BaseModel
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	ExerciseType  string     `gorm:"size:100;index;not null" json:"exercise_type"`
	Description   string     `gorm:"type:text" json:"description"`
	Completed     bool       `gorm:"default:false" json:"completed"`
	DateCompleted *time.Time `json:"date_completed,omitempty"`
	VideoURL      string     `gorm:"size:500" json:"video_url"`
	Difficulty    string     `gorm:"size:20" json:"difficulty"`
	EstimatedTime string     `gorm:"size:50" json:"estimated_time"`
}

func (SkillExercise) TableName() string {
	return "skill_exercises"
}
