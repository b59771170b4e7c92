package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 自增主键、时间戳和软删除字段。
// User、StudentProfile、ProjectHistory、SkillExercise、PortfolioData、VersionControlHistory 均嵌入它。
// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
