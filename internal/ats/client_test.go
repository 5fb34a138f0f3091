package ats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gojobs/internal/config"
	"github.com/jonesrussell/gojobs/internal/logger"
)

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{}
	cfg.ATS.BaseURL = baseURL
	cfg.ATS.Timeout = 5 * time.Second
	return NewClient(cfg, logger.NewNop())
}

func TestClientScore_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ats-score", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Go developer role", req["job_description"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"ats_score": {
				"overall_score": 87,
				"skills_match_score": 90,
				"experience_match_score": 85,
				"keyword_match_score": 88,
				"cultural_fit_score": 84,
				"strengths": ["strong Go background"]
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	score, err := client.Score(context.Background(), ScoreRequest{
		UserID:         "user-1",
		JobDescription: "Go developer role",
	})
	require.NoError(t, err)

	assert.Equal(t, 87, score.OverallScore)
	assert.Equal(t, 90, score.SkillsMatchScore)
	assert.Equal(t, []string{"strong Go background"}, score.Strengths)
}

func TestClientScore_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success": false, "error": "no resume on file", "error_type": "missing_resume"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Score(context.Background(), ScoreRequest{UserID: "user-1", JobDescription: "x"})
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "no resume on file", svcErr.Message)
	assert.Equal(t, "missing_resume", svcErr.ErrorType)
}

func TestClientScoreBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ats-score/batch", r.URL.Path)

		var req BatchScoreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.JobDescriptions, 2)

		_, _ = w.Write([]byte(`{
			"success": true,
			"ats_scores": [{"overall_score": 80}, {"overall_score": 65}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	scores, err := client.ScoreBatch(context.Background(), BatchScoreRequest{
		UserID:          "user-1",
		JobDescriptions: []string{"job a", "job b"},
	})
	require.NoError(t, err)

	require.Len(t, scores, 2)
	assert.Equal(t, 80, scores[0].OverallScore)
	assert.Equal(t, 65, scores[1].OverallScore)
}

func TestClientScore_TransportError(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.Score(context.Background(), ScoreRequest{JobDescription: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call ats service")
}
