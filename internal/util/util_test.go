package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"project_assistant_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Username: "alice"}
	user.ID = 7

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.TTL().Seconds(), 5)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)
}

func TestParseJWT_Expired(t *testing.T) {
	user := &model.User{Username: "bob"}
	token, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?token=q", nil)
	assert.Equal(t, "q", BearerToken(c))

	c.Request.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", BearerToken(c))
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 10, ParseLimit("", 10, 50))
	assert.Equal(t, 10, ParseLimit("-3", 10, 50))
	assert.Equal(t, 5, ParseLimit("5", 10, 50))
	assert.Equal(t, 50, ParseLimit("500", 10, 50))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Blockchain", TitleCase("blockchain"))
	assert.Equal(t, "Data-Science", TitleCase("data-science"))
	assert.Equal(t, "Game Dev", TitleCase("GAME dev"))
}
