package model

import "time"

type ProjectStatus string

const (
	ProjectPlanned    ProjectStatus = "planned"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
)

// swagger:model ProjectHistory
type ProjectHistory struct {
	BaseModel
	UserID        uint          `gorm:"index;not null" json:"user_id"`
	ProjectName   string        `gorm:"size:200;not null" json:"project_name"`
	ProjectType   string        `gorm:"size:50;default:'web'" json:"project_type"`
	Domain        string        `gorm:"size:50;default:'general'" json:"domain"`
	Status        ProjectStatus `gorm:"size:20;default:'planned'" json:"status"`
	CompletedDate *time.Time    `json:"completed_date,omitempty"`
	Notes         string        `gorm:"type:text" json:"notes"`
}

func (ProjectHistory) TableName() string {
	return "project_history"
}
