package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"project_assistant_backend/internal/config"
	"project_assistant_backend/pkg/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

// fakeLLM 模拟 OpenAI 兼容接口，reply 返回 (状态码, 消息内容)
type fakeLLM struct {
	server   *httptest.Server
	calls    atomic.Int32
	mu       sync.Mutex
	lastBody ChatCompletionRequest
	lastAuth string
}

func (f *fakeLLM) last() (ChatCompletionRequest, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody, f.lastAuth
}

func newFakeLLM(t *testing.T, reply func(prompt string) (int, string)) (*AIService, *fakeLLM) {
	t.Helper()
	f := &fakeLLM{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.lastBody = req
		f.lastAuth = r.Header.Get("Authorization")
		f.mu.Unlock()

		prompt := ""
		if len(req.Messages) > 0 {
			prompt = req.Messages[0].Content
		}
		status, content := reply(prompt)
		if status != http.StatusOK {
			http.Error(w, content, status)
			return
		}

		var resp ChatCompletionResponse
		resp.Choices = append(resp.Choices, struct {
			Message AIChatMessage `json:"message"`
		}{Message: AIChatMessage{Role: "assistant", Content: content}})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(f.server.Close)

	ai := NewAIService(config.AIConfig{
		BaseURL:        f.server.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
		MaxTokens:      100,
		Temperature:    0.5,
	})
	return ai, f
}

func replyWith(content string) func(string) (int, string) {
	return func(string) (int, string) { return http.StatusOK, content }
}

func replyStatus(status int) func(string) (int, string) {
	return func(string) (int, string) { return status, "upstream failure" }
}

// disabledAI 未配置密钥，所有调用返回 ErrAIUnavailable
func disabledAI() *AIService {
	return NewAIService(config.AIConfig{})
}

func testStorage(t *testing.T) *StorageService {
	t.Helper()
	return NewStorageService(&config.Config{
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	})
}
