package model

import "time"

// PortfolioData 用户最近一次提交的作品集原始数据（JSON）
type PortfolioData struct {
	BaseModel
	UserID        uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	PortfolioJSON string    `gorm:"type:text" json:"portfolio_json"`
	LastUpdated   time.Time `json:"last_updated"`
}

func (PortfolioData) TableName() string {
	return "portfolio_data"
}
