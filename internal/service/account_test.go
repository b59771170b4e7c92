package service

import (
	"context"
	"testing"
	"time"

	"project_assistant_backend/internal/config"
	"project_assistant_backend/internal/model"
	"project_assistant_backend/internal/repository"
	"project_assistant_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-test-secret-test-secret"

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(repository.NewUserRepository(db), &config.Config{
		JWT: config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
	})
}

func TestAuthService(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(RegisterInput{Username: " alice ", Password: "secret1", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret1", user.Password)

	_, err = svc.Register(RegisterInput{Username: "alice", Password: "other12"})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	_, err = svc.Login(LoginInput{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = svc.Login(LoginInput{Username: "bob", Password: "secret1"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	result, err := svc.Login(LoginInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.UserID)
	assert.False(t, result.User.LastLogin.IsZero())

	claims, err := util.ParseJWT(result.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)

	current, err := svc.CurrentUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", current.Email)

	_, err = svc.CurrentUser(404)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestProfileService(t *testing.T) {
	db := newTestDB(t)
	exerciseRepo := repository.NewSkillExerciseRepository(db)
	svc := NewProfileService(repository.NewProfileRepository(db), NewExerciseService(exerciseRepo, disabledAI(), nil))

	_, err := svc.Get(1)
	assert.ErrorIs(t, err, util.ErrProfileNotFound)

	profile, err := svc.Save(1, ProfileInput{CollegeName: "MIT", Branch: "CS", Semester: "5", SkillLevel: "Advanced"})
	require.NoError(t, err)
	assert.Equal(t, model.Advanced, profile.SkillLevel)

	count, err := exerciseRepo.CountByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// 再次保存只更新，不重复分配练习
	_, err = svc.Save(1, ProfileInput{CollegeName: "Stanford", SkillLevel: model.Beginner})
	require.NoError(t, err)
	count, err = exerciseRepo.CountByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	saved, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Stanford", saved.CollegeName)
	assert.Equal(t, model.Beginner, saved.SkillLevel)

	defaulted, err := svc.Save(2, ProfileInput{SkillLevel: "guru"})
	require.NoError(t, err)
	assert.Equal(t, model.Beginner, defaulted.SkillLevel)
}

func TestProjectService(t *testing.T) {
	db := newTestDB(t)
	profileRepo := repository.NewProfileRepository(db)
	svc := NewProjectService(repository.NewProjectHistoryRepository(db), profileRepo)

	empty := svc.Checklist(1)
	assert.Equal(t, ChecklistResult{}, empty)

	projects, err := svc.List(1)
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)

	p, err := svc.Add(1, ProjectInput{ProjectName: "  Chat app "})
	require.NoError(t, err)
	assert.Equal(t, "Chat app", p.ProjectName)
	assert.Equal(t, "web", p.ProjectType)
	assert.Equal(t, "general", p.Domain)
	assert.Equal(t, model.ProjectPlanned, p.Status)
	assert.Nil(t, p.CompletedDate)

	result := svc.Checklist(1)
	assert.True(t, result.Checklist.IdeaDefined)
	assert.False(t, result.Checklist.DocumentationStarted)
	assert.Equal(t, 16, result.Score)

	done, err := svc.Add(1, ProjectInput{ProjectName: "Blog", Status: model.ProjectCompleted, Notes: "README drafted"})
	require.NoError(t, err)
	assert.NotNil(t, done.CompletedDate)
	_, err = profileRepo.Save(&model.StudentProfile{UserID: 1, SkillLevel: model.Beginner})
	require.NoError(t, err)

	result = svc.Checklist(1)
	assert.Equal(t, ProjectChecklist{
		IdeaDefined:          true,
		ProfileComplete:      true,
		DocumentationStarted: true,
		CodeStructured:       true,
	}, result.Checklist)
	assert.Equal(t, 66, result.Score)

	projects, err = svc.List(1)
	require.NoError(t, err)
	require.Len(t, projects, 2)
}

func TestProjectService_ChecklistOnError(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(repository.NewProjectHistoryRepository(db), repository.NewProfileRepository(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.Equal(t, ChecklistResult{}, svc.Checklist(1))
}

func TestSessionService(t *testing.T) {
	db := newTestDB(t)
	rdb, mr := newTestRedis(t)
	auth := newAuthService(db)
	svc := NewSessionService(
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
		repository.NewProjectHistoryRepository(db),
		rdb,
	)

	user, err := auth.Register(RegisterInput{Username: "carol", Password: "secret1"})
	require.NoError(t, err)

	snap, err := svc.Snapshot(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", snap.CurrentUser.Username)
	assert.Nil(t, snap.UserProfile)
	assert.NotNil(t, snap.ProjectHistory)

	_, err = svc.Snapshot(999)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	login, err := auth.Login(LoginInput{Username: "carol", Password: "secret1"})
	require.NoError(t, err)
	claims, err := util.ParseJWT(login.Token, testSecret)
	require.NoError(t, err)

	revoked, err := svc.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Logout(context.Background(), claims))
	revoked, err = svc.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := mr.TTL(revokedKeyPrefix + claims.ID)
	assert.True(t, ttl > 0 && ttl <= time.Hour)

	// 过期后吊销记录随之消失
	mr.FastForward(time.Hour + time.Second)
	revoked, err = svc.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestSessionService_WithoutRedis(t *testing.T) {
	svc := &SessionService{}
	assert.NoError(t, svc.Logout(context.Background(), &util.Claims{}))
	revoked, err := svc.IsRevoked(context.Background(), "id")
	require.NoError(t, err)
	assert.False(t, revoked)
}
