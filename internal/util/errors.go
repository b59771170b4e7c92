package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrTokenRevoked        = errors.New("token has been revoked")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrPortfolioNotFound   = errors.New("portfolio not found")
	ErrCodeRequestRejected = errors.New("this assistant only answers version control questions, use the code snippet generator for code")
	ErrAIUnavailable       = errors.New("ai provider not configured")
	ErrBackendUnavailable  = errors.New("planner backend not configured")
	ErrEmptyAIResponse     = errors.New("empty ai response")
)
