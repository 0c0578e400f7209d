//nolint:noctx // Test file uses http.NewRequest for simplicity
package leaderboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/internal/service/leaderboard"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// Mock leaderboard service
type mockLeaderboardService struct {
	entries map[string][]leaderboard.Entry
}

func newMockLeaderboardService() *mockLeaderboardService {
	return &mockLeaderboardService{entries: make(map[string][]leaderboard.Entry)}
}

func (m *mockLeaderboardService) Page(ctx context.Context, challengeID string, limit, offset int) ([]leaderboard.Entry, int64, error) {
	entries, ok := m.entries[challengeID]
	if !ok {
		return nil, 0, apperr.ChallengeNotFound(challengeID)
	}
	total := int64(len(entries))
	if offset >= len(entries) {
		return []leaderboard.Entry{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end], total, nil
}

func (m *mockLeaderboardService) Around(ctx context.Context, challengeID, callsign string, window int) ([]leaderboard.Entry, error) {
	entries, ok := m.entries[challengeID]
	if !ok {
		return nil, apperr.ChallengeNotFound(challengeID)
	}
	normalized := repository.NormalizeCallsign(callsign)
	var center int64
	for _, e := range entries {
		if e.Callsign == normalized {
			center = e.Rank
			break
		}
	}
	if center == 0 {
		return []leaderboard.Entry{}, nil
	}
	windowed := []leaderboard.Entry{}
	for _, e := range entries {
		if e.Rank >= center-int64(window) && e.Rank <= center+int64(window) {
			windowed = append(windowed, e)
		}
	}
	return windowed, nil
}

func (m *mockLeaderboardService) Total(ctx context.Context, challengeID string) (int64, error) {
	return int64(len(m.entries[challengeID])), nil
}

func setupTestHandler() (*Handler, *mockLeaderboardService, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	service := newMockLeaderboardService()
	handler := NewHandlerWithInterfaces(service, logger.New("debug", "console", "stdout"))

	router := gin.New()
	router.GET("/api/v1/challenges/:id/leaderboard", handler.Get)
	return handler, service, router
}

func seedEntries(service *mockLeaderboardService, challengeID string, count int) {
	now := time.Now().UTC()
	entries := make([]leaderboard.Entry, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, leaderboard.Entry{
			Rank:        int64(i + 1),
			Callsign:    "K" + string(rune('1'+i)) + "AAA",
			Score:       100 - i*10,
			CompletedAt: &now,
		})
	}
	service.entries[challengeID] = entries
}

func TestGet_Page(t *testing.T) {
	_, service, router := setupTestHandler()
	seedEntries(service, "ch-1", 3)

	req, _ := http.NewRequest("GET", "/api/v1/challenges/ch-1/leaderboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Leaderboard []leaderboard.Entry `json:"leaderboard"`
		Total       int64               `json:"total"`
		LastUpdated time.Time           `json:"lastUpdated"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Len(t, body.Leaderboard, 3)
	assert.Equal(t, int64(3), body.Total)
	assert.False(t, body.LastUpdated.IsZero())
}

func TestGet_PageWithLimit(t *testing.T) {
	_, service, router := setupTestHandler()
	seedEntries(service, "ch-1", 5)

	req, _ := http.NewRequest("GET", "/api/v1/challenges/ch-1/leaderboard?limit=2&offset=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Leaderboard []leaderboard.Entry `json:"leaderboard"`
		Total       int64               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Len(t, body.Leaderboard, 2)
	assert.Equal(t, int64(2), body.Leaderboard[0].Rank)
	assert.Equal(t, int64(5), body.Total)
}

func TestGet_InvalidLimit(t *testing.T) {
	_, _, router := setupTestHandler()

	req, _ := http.NewRequest("GET", "/api/v1/challenges/ch-1/leaderboard?limit=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestGet_Around(t *testing.T) {
	_, service, router := setupTestHandler()
	seedEntries(service, "ch-1", 5)

	req, _ := http.NewRequest("GET", "/api/v1/challenges/ch-1/leaderboard?around=K3AAA", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Leaderboard  []leaderboard.Entry `json:"leaderboard"`
		Total        int64               `json:"total"`
		UserPosition *leaderboard.Entry  `json:"userPosition"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Len(t, body.Leaderboard, 5)
	require.NotNil(t, body.UserPosition)
	assert.Equal(t, "K3AAA", body.UserPosition.Callsign)
	assert.Equal(t, int64(3), body.UserPosition.Rank)
	assert.Equal(t, int64(5), body.Total)
}

func TestGet_AroundUnknownCallsign(t *testing.T) {
	_, service, router := setupTestHandler()
	seedEntries(service, "ch-1", 3)

	req, _ := http.NewRequest("GET", "/api/v1/challenges/ch-1/leaderboard?around=N0CALL", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Leaderboard  []leaderboard.Entry `json:"leaderboard"`
		UserPosition *leaderboard.Entry  `json:"userPosition"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Empty(t, body.Leaderboard)
	assert.Nil(t, body.UserPosition)
}

func TestGet_UnknownChallenge(t *testing.T) {
	_, _, router := setupTestHandler()

	req, _ := http.NewRequest("GET", "/api/v1/challenges/no-such-challenge/leaderboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CHALLENGE_NOT_FOUND")
}

func TestGet_AroundUnknownChallenge(t *testing.T) {
	_, _, router := setupTestHandler()

	req, _ := http.NewRequest("GET", "/api/v1/challenges/no-such-challenge/leaderboard?around=K1AAA", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CHALLENGE_NOT_FOUND")
}

func TestGet_EmptyLeaderboard(t *testing.T) {
	_, service, router := setupTestHandler()
	seedEntries(service, "ch-1", 0)

	req, _ := http.NewRequest("GET", "/api/v1/challenges/ch-1/leaderboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Leaderboard []leaderboard.Entry `json:"leaderboard"`
		Total       int64               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Leaderboard)
	assert.Equal(t, int64(0), body.Total)
}
