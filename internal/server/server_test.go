package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/adapter"
	"github.com/MARYAMM27/portfolio-bot-go/internal/bot"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProfiles struct {
	profile *domain.Profile
	err     error
}

func (s staticProfiles) Snapshot() *domain.Profile { return s.profile }
func (s staticProfiles) LastError() error          { return s.err }

func testProfile() *domain.Profile {
	return &domain.Profile{
		Name:   "Ada Lovelace",
		Skills: domain.SkillList{"Go", "Rust"},
		Contact: domain.Contact{
			Email: "ada@example.com",
		},
	}
}

func newTestServer(t *testing.T, profiles staticProfiles, opts Options, checks map[string]HealthCheck) (*Server, *httptest.Server) {
	t.Helper()
	m := metrics.New()
	s := New(Dependencies{
		Assistant: bot.NewAssistant(bot.Dependencies{Profiles: profiles, OnAnswer: m.ObserveAnswer}),
		Metrics:   m,
		Checks:    checks,
	}, opts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postChat(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url+"/api/chat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHandleChat(t *testing.T) {
	_, ts := newTestServer(t, staticProfiles{profile: testProfile()}, Options{}, nil)

	resp, body := postChat(t, ts.URL, `{"query":"What are your abilities?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var reply domain.ChatReply
	require.NoError(t, json.Unmarshal(body, &reply))
	assert.Equal(t, domain.IntentSkills, reply.Intent)
	assert.Equal(t, domain.SenderBot, reply.Sender)
	assert.Equal(t, "I possess a range of skills, including: Go, Rust.", reply.Text)
}

func TestHandleChat_Fallback(t *testing.T) {
	_, ts := newTestServer(t, staticProfiles{}, Options{}, nil)

	_, body := postChat(t, ts.URL, `{"query":"xyz"}`)
	var reply domain.ChatReply
	require.NoError(t, json.Unmarshal(body, &reply))
	assert.Equal(t, domain.IntentUnknown, reply.Intent)
	assert.Equal(t, adapter.FallbackText, reply.Text)
}

func TestHandleChat_Validation(t *testing.T) {
	_, ts := newTestServer(t, staticProfiles{}, Options{MinQueryLength: 3}, nil)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"invalid json", `{`, "body"},
		{"blank query", `{"query":"   "}`, "query"},
		{"too short", `{"query":"hi"}`, "query"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postChat(t, ts.URL, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var payload domain.ErrorPayload
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, "VALIDATION_ERROR", payload.Error.Code)
			assert.Equal(t, tt.field, payload.Error.Field)
		})
	}
}

func TestHandleIntro(t *testing.T) {
	t.Run("profile available", func(t *testing.T) {
		_, ts := newTestServer(t, staticProfiles{profile: testProfile()}, Options{}, nil)
		payload := getIntro(t, ts.URL)

		assert.Equal(t, adapter.IntroText, payload.Intro.Text)
		assert.Nil(t, payload.Notice)
		assert.Len(t, payload.QuickTags, 4)
		assert.Len(t, payload.InfoBubbles, 4)
	})

	t.Run("fetch failed", func(t *testing.T) {
		_, ts := newTestServer(t, staticProfiles{err: stderrors.New("down")}, Options{}, nil)
		payload := getIntro(t, ts.URL)

		require.NotNil(t, payload.Notice)
		assert.Equal(t, adapter.FetchErrorText, payload.Notice.Text)
	})
}

func getIntro(t *testing.T, url string) domain.IntroPayload {
	t.Helper()
	resp, err := http.Get(url + "/api/chat/intro")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload domain.IntroPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestHandleHealth(t *testing.T) {
	healthy := map[string]HealthCheck{"database": func(context.Context) error { return nil }}
	_, ts := newTestServer(t, staticProfiles{}, Options{}, healthy)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	failing := map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return stderrors.New("redis unreachable") },
	}
	_, ts = newTestServer(t, staticProfiles{}, Options{}, failing)

	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "redis unreachable", body.Checks["redis"])
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, staticProfiles{profile: testProfile()}, Options{}, nil)
	postChat(t, ts.URL, `{"query":"skills"}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, bytes.Contains(body, []byte(`portfolio_bot_answers_total{intent="skills"} 1`)))
	assert.True(t, bytes.Contains(body, []byte(`portfolio_bot_http_requests_total{route="/api/chat",status="OK"} 1`)))
}

func TestCheckOrigin(t *testing.T) {
	s := New(Dependencies{}, Options{AllowedOrigins: []string{"https://portfolio.example"}})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "https://portfolio.example")
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, s.checkOrigin(req))
}

func TestShutdown_NoSessions(t *testing.T) {
	s := New(Dependencies{}, Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}
