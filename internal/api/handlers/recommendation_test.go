package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	aiservice "gift-recommender/internal/core/ai/service"
	"gift-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubRecommender struct {
	gifts  []common.EnrichedGift
	err    error
	survey common.SurveyInput
	calls  int
}

func (s *stubRecommender) Generate(_ context.Context, survey common.SurveyInput) ([]common.EnrichedGift, error) {
	s.calls++
	s.survey = survey
	return s.gifts, s.err
}

func postRecommendations(h *RecommendationHandler, body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/api/recommendations", h.Generate)

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateSuccess(t *testing.T) {
	stub := &stubRecommender{gifts: []common.EnrichedGift{{
		Candidate: common.Candidate{ID: "gemini_gift_0-1", Name: "Diya", Price: 1200},
		ImageURL:  "https://img/1",
	}}}
	h := NewRecommendationHandler(stub)

	w := postRecommendations(h, `{"surveyData":{"relationship":"Mother","age":"52","occasion":"Diwali","budget":[2000],"interests":["Decor"]}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Recommendations []common.EnrichedGift `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "Diya", resp.Recommendations[0].Name)

	assert.Equal(t, "Mother", stub.survey.Relationship)
	assert.Equal(t, common.Budget(2000), stub.survey.Budget)
	assert.Equal(t, "52", stub.survey.Age.String())
}

func TestGenerateEmptyListIsOK(t *testing.T) {
	h := NewRecommendationHandler(&stubRecommender{gifts: []common.EnrichedGift{}})

	w := postRecommendations(h, `{"surveyData":{"occasion":"Birthday"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recommendations":[]}`, w.Body.String())
}

func TestGenerateBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing survey", `{}`, "Survey data is required"},
		{"null survey", `{"surveyData":null}`, "Survey data is required"},
		{"malformed json", `{"surveyData":`, "Survey data is required"},
		{"invalid budget", `{"surveyData":{"budget":"lots"}}`, "Invalid survey data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubRecommender{}
			w := postRecommendations(NewRecommendationHandler(stub), tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			assert.Zero(t, stub.calls)
		})
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	stub := &stubRecommender{err: fmt.Errorf("%w: quota", aiservice.ErrProviderUnavailable)}

	w := postRecommendations(NewRecommendationHandler(stub), `{"surveyData":{"occasion":"Birthday"}}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to generate recommendations", resp.Message)
}
