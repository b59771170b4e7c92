package repository

import (
	"errors"
	"time"

	"project_assistant_backend/internal/model"

	"gorm.io/gorm"
)

type PortfolioRepository struct {
	DB *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{DB: db}
}

// Upsert 每个用户只保留最后一次提交
func (r *PortfolioRepository) Upsert(userID uint, payload string) error {
	now := time.Now()
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.PortfolioData
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&model.PortfolioData{
				UserID:        userID,
				PortfolioJSON: payload,
				LastUpdated:   now,
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"portfolio_json": payload,
			"last_updated":   now,
		}).Error
	})
}

// FindByUserID 不存在时返回 (nil, nil)
func (r *PortfolioRepository) FindByUserID(userID uint) (*model.PortfolioData, error) {
	var data model.PortfolioData
	err := r.DB.Where("user_id = ?", userID).First(&data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}
