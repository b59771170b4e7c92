package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"project_assistant_backend/internal/config"
	"project_assistant_backend/internal/util"
	"project_assistant_backend/pkg/logger"
	"project_assistant_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AIService OpenAI 兼容的对话补全客户端，配置可热更新
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
	group  singleflight.Group
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []AIChatMessage `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// UpdateConfig 配置文件变更时调用
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

func (s *AIService) currentConfig() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *AIService) Enabled() bool {
	return s != nil && s.currentConfig().Enabled()
}

// Chat 发送单轮对话；jsonMode 时要求模型返回 JSON 对象。
// 相同请求并发到达时只发一次。共享的请求不随某个调用方取消，
// 只受 cfg.Timeout() 约束；每个调用方各自按自己的 ctx 放弃等待。
func (s *AIService) Chat(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	if !s.Enabled() {
		return "", util.ErrAIUnavailable
	}
	cfg := s.currentConfig()

	key := requestKey(cfg.Model, prompt, jsonMode)
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.call(shared, cfg, prompt, jsonMode)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// ChatJSON 以 JSON 模式请求并解析到 out
func (s *AIService) ChatJSON(ctx context.Context, prompt string, out interface{}) error {
	content, err := s.Chat(ctx, prompt, true)
	if err != nil {
		return err
	}
	return DecodeAIJSON(content, out)
}

func (s *AIService) call(ctx context.Context, cfg config.AIConfig, prompt string, jsonMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	reqBody := ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    []AIChatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	if cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", cfg.Referer)
	}
	if cfg.Title != "" {
		req.Header.Set("X-Title", cfg.Title)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		monitoring.AIRequestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		logger.Log.Warn("AI request failed", zap.Error(err))
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		monitoring.AIRequestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}
	monitoring.AIRequestDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode AI response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", util.ErrEmptyAIResponse
	}
	return content, nil
}

func requestKey(model, prompt string, jsonMode bool) string {
	h := sha256.New()
	h.Write([]byte(model))
	if jsonMode {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
