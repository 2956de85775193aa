package app

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/adapter"
	"github.com/MARYAMM27/portfolio-bot-go/internal/config"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/nlu"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Addr: "127.0.0.1:0"},
		Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"},
		Profile: config.ProfileConfig{
			DocumentID:    "cvData",
			NotifyChannel: "cv_data_changed",
		},
		Bot: config.BotConfig{MinQueryLength: 1, MatchMode: nlu.MatchSubstring},
	}
}

func TestBuild_SQLiteWithoutRedis(t *testing.T) {
	ctx := context.Background()
	c, err := Build(ctx, testConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	assert.Nil(t, c.Cache)
	assert.Nil(t, c.Projects)
	assert.Equal(t, adapter.SkillsUnavailableText, c.Assistant.Answer("skills"))

	require.NoError(t, c.Repository.Save(ctx, &domain.Profile{Name: "Ada", Skills: domain.SkillList{"Go"}}))
	require.NoError(t, c.Feed.Refresh(ctx))

	assert.Equal(t, "I possess a range of skills, including: Go.", c.Assistant.Answer("what are your abilities"))
	assert.False(t, c.Assistant.FetchFailed())
}

func TestBuild_StoredProjectsRefreshSnapshot(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Redis = config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port}

	ctx := context.Background()
	c, err := Build(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	require.NotNil(t, c.Projects)

	_, err = c.Projects.Add(ctx, domain.Project{
		Title: "Chat Bot",
		Files: []domain.ProjectFile{{FileURL: "https://cdn.example.com/bot.zip"}},
	})
	require.NoError(t, err)

	assert.Contains(t, c.Assistant.Answer("show me your works"), "Chat Bot")
}

func TestBuild_Validation(t *testing.T) {
	_, err := Build(context.Background(), nil, zap.NewNop())
	assert.Error(t, err)

	_, err = Build(context.Background(), testConfig(), nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Database.Driver = "mysql"
	_, err = Build(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestRuntime_StartAndShutdown(t *testing.T) {
	c, err := Build(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)

	rt, err := c.NewRuntime()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- rt.Start(context.Background()) }()

	require.Eventually(t, func() bool { return c.Snapshots.LastError() == nil && !c.Snapshots.UpdatedAt().IsZero() },
		2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rt.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewRuntime_RequiresContainer(t *testing.T) {
	var c *Container
	_, err := c.NewRuntime()
	assert.Error(t, err)
}
