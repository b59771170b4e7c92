package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"project_assistant_backend/internal/config"
	"project_assistant_backend/pkg/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "router-test-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}

	a := &App{Config: cfg, DB: db, Redis: rdb}
	repos := a.initRepositories(db)
	s := a.initServices(repos, cfg, rdb)
	c := a.initControllers(s, db, rdb)

	router := gin.New()
	require.NoError(t, a.registerRoutes(router, c, s, cfg))
	a.Router = router
	return a
}

func (a *App) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (a *App) login(t *testing.T, username string) string {
	t.Helper()
	w, _ := a.do(t, http.MethodPost, "/api/register", "", gin.H{"username": username, "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := a.do(t, http.MethodPost, "/api/login", "", gin.H{"username": username, "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

func TestPublicRoutes(t *testing.T) {
	a := newTestApp(t)

	w, _ := a.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Smart Project Assistant API v3.5"}`, w.Body.String())

	w, env := a.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"healthy"`)
	assert.Contains(t, string(env.Data), `"redis":"up"`)

	w, env = a.do(t, http.MethodPost, "/api/evaluate", "", gin.H{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "temporarily disabled")
}

func TestRegisterAndLogin(t *testing.T) {
	a := newTestApp(t)
	a.login(t, "alice")

	w, _ := a.do(t, http.MethodPost, "/api/register", "", gin.H{"username": "alice", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = a.do(t, http.MethodPost, "/api/login", "", gin.H{"username": "alice", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = a.do(t, http.MethodPost, "/api/register", "", gin.H{"username": "al", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthorizedRoutesRequireToken(t *testing.T) {
	a := newTestApp(t)

	for _, r := range authorizedRoutes(&controllers{}) {
		path := strings.Replace(r.path, ":type", "coding", 1)
		w, _ := a.do(t, r.method, "/api"+path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", r.method, r.path)
	}
}

func TestSessionLifecycle(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, "bob")

	w, _ := a.do(t, http.MethodPost, "/api/profile", token, gin.H{
		"college_name": "State University",
		"branch":       "CSE",
		"semester":     "5",
		"skill_level":  "Intermediate",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(t, http.MethodPost, "/api/projects", token, gin.H{"project_name": "Todo App"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := a.do(t, http.MethodGet, "/api/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		CurrentUser struct {
			Username string `json:"username"`
		} `json:"currentUser"`
		UserProfile struct {
			SkillLevel string `json:"skill_level"`
		} `json:"userProfile"`
		ProjectHistory []struct {
			ProjectName string `json:"project_name"`
		} `json:"projectHistory"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.Equal(t, "bob", session.CurrentUser.Username)
	assert.Equal(t, "intermediate", session.UserProfile.SkillLevel)
	require.Len(t, session.ProjectHistory, 1)
	assert.Equal(t, "Todo App", session.ProjectHistory[0].ProjectName)

	w, env = a.do(t, http.MethodGet, "/api/exercises/assigned", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"exercise_type"`)

	w, _ = a.do(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = a.do(t, http.MethodGet, "/api/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token has been revoked", env.Message)
}

func TestPlanRoutes(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, "carol")

	w, _ := a.do(t, http.MethodPost, "/api/plan", token, gin.H{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(t, http.MethodPost, "/api/plan", token, gin.H{"title": "Todo App", "skill_level": "expert"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 只有空白的标题等同于未填写
	w, env := a.do(t, http.MethodPost, "/api/plan", token, gin.H{"title": "   \t "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "project title is required", env.Message)

	w, _ = a.do(t, http.MethodPost, "/api/plan/download", token, gin.H{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))

	w, env = a.do(t, http.MethodPost, "/api/plan", token, gin.H{
		"title":          "Todo App",
		"weeks":          4,
		"team_size":      1,
		"hours_per_week": 10,
		"skill_level":    "beginner",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Source string `json:"source"`
		Plan   struct {
			WeeklyPlan []struct {
				Hours int `json:"hours"`
			} `json:"weekly_plan"`
			Summary struct {
				TotalHours int `json:"total_hours"`
			} `json:"summary"`
		} `json:"plan"`
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "local", result.Source)
	assert.Len(t, result.Plan.WeeklyPlan, 4)
	assert.Equal(t, 40, result.Plan.Summary.TotalHours)
	assert.NotEmpty(t, result.Text)

	// 显式 0 小时保留，不回落到默认值
	w, env = a.do(t, http.MethodPost, "/api/plan", token, gin.H{"title": "Zero", "hours_per_week": 0})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 0, result.Plan.Summary.TotalHours)

	w, _ = a.do(t, http.MethodPost, "/api/plan/download", token, gin.H{"title": "Todo App!"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="todo_app__plan.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "local", w.Header().Get("X-Plan-Source"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.NotEmpty(t, w.Body.String())
}

func TestToolRoutesFallBackWithoutAI(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, "dave")

	w, env := a.do(t, http.MethodPost, "/api/ideas", token, gin.H{"domain": "web", "count": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"source":"fallback"`)

	w, _ = a.do(t, http.MethodPost, "/api/version-control", token, gin.H{"request": "write a function to sort a list"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = a.do(t, http.MethodPost, "/api/version-control", token, gin.H{"request": "how do I undo a git commit"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "git")

	w, env = a.do(t, http.MethodGet, "/api/version-control/history?limit=5", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "undo a git commit")

	w, _ = a.do(t, http.MethodGet, "/api/portfolio", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = a.do(t, http.MethodPost, "/api/portfolio", token, gin.H{"name": "Dave", "skills": []string{"Go"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"portfolio_html"`)

	w, env = a.do(t, http.MethodGet, "/api/projects/checklist", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"score":0`)

	w, env = a.do(t, http.MethodPost, "/api/exercises/nonexistent/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "noted")
}
