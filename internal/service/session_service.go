package service

import (
	"context"
	"errors"
	"time"

	"project_assistant_backend/internal/model"
	"project_assistant_backend/internal/repository"
	"project_assistant_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const revokedKeyPrefix = "revoked:"

// Session 客户端需要的三份状态，一起读取、一起失效
type Session struct {
	CurrentUser    *model.User            `json:"currentUser"`
	UserProfile    *model.StudentProfile  `json:"userProfile"`
	ProjectHistory []model.ProjectHistory `json:"projectHistory"`
}

type SessionService struct {
	UserRepo    *repository.UserRepository
	ProfileRepo *repository.ProfileRepository
	ProjectRepo *repository.ProjectHistoryRepository
	Redis       *redis.Client
}

func NewSessionService(userRepo *repository.UserRepository, profileRepo *repository.ProfileRepository, projectRepo *repository.ProjectHistoryRepository, rdb *redis.Client) *SessionService {
	return &SessionService{
		UserRepo:    userRepo,
		ProfileRepo: profileRepo,
		ProjectRepo: projectRepo,
		Redis:       rdb,
	}
}

func (s *SessionService) Snapshot(userID uint) (*Session, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	projects, err := s.ProjectRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []model.ProjectHistory{}
	}

	return &Session{CurrentUser: user, UserProfile: profile, ProjectHistory: projects}, nil
}

// Logout 吊销记录与 token 同时过期，单次 SET 完成
func (s *SessionService) Logout(ctx context.Context, claims *util.Claims) error {
	if s.Redis == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.TTL()
	if ttl <= 0 {
		return nil
	}
	return s.Redis.Set(ctx, revokedKeyPrefix+claims.ID, time.Now().Unix(), ttl).Err()
}

func (s *SessionService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.Redis == nil || tokenID == "" {
		return false, nil
	}
	n, err := s.Redis.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
