package model

type VersionControlHistory struct {
	BaseModel
	UserID       uint   `gorm:"index;not null" json:"user_id"`
	RequestText  string `gorm:"type:text" json:"request_text"`
	ResponseText string `gorm:"type:text" json:"response_text"`
}

func (VersionControlHistory) TableName() string {
	return "version_control_history"
}
