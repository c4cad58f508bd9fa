package advisor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/", APIKey: "key", Model: "test-model", Roles: []string{"QA Tester"}}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func reply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()

	body := map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"content": content}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestClient_MatchPath(t *testing.T) {
	content := `{"transferableSkills":["testing mindset"],"skillGaps":["automation"],"recommendedPath":"Take the QA Tester courses.","matchScore":64,"encouragement":"Go!"}`

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		if assert.Len(t, req.Messages, 2) {
			assert.Contains(t, req.Messages[0].Content, "QA Tester")
			assert.Contains(t, req.Messages[1].Content, "Target role: QA Tester")
		}

		reply(t, w, content)
	})

	m, err := c.MatchPath(t.Context(), "support agent", "ticketing", "QA Tester")
	require.NoError(t, err)
	assert.Equal(t, []string{"testing mindset"}, m.TransferableSkills)
	assert.Equal(t, []string{"Take the QA Tester courses."}, m.RecommendedPath)
	assert.Equal(t, 64, m.MatchScore)
	assert.Equal(t, content, m.Raw)
}

func TestClient_AnalyzeBarriers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		reply(t, w, `{"barriers":["a","b"],"strategies":["c"],"resources":[],"encouragement":"yes"}`)
	})

	a, err := c.AnalyzeBarriers(t.Context(), "former nurse")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, a.Barriers)
	assert.Equal(t, []string{"c"}, a.Strategies)
	assert.Empty(t, a.Resources)
	assert.Equal(t, "yes", a.Encouragement)
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, want: ErrRateLimited},
		{name: "credits exhausted", status: http.StatusPaymentRequired, want: ErrCreditsExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := c.AnalyzeBarriers(t.Context(), "x")
			require.ErrorIs(t, err, tt.want)
		})
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := c.AnalyzeBarriers(t.Context(), "x")
	var he *httpError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.StatusCode)
}

func TestClient_BadContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		reply(t, w, "not json")
	})

	_, err := c.MatchPath(t.Context(), "a", "b", "c")
	require.Error(t, err)
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(Config{Model: "m"}, zap.NewNop())
	require.Error(t, err)
}
