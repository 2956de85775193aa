package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/adapter"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	msgs []domain.Message
}

func (r *recorder) record(msg domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	for i, msg := range r.msgs {
		out[i] = msg.Text
	}
	return out
}

func newTestSession(t *testing.T, delay time.Duration, profiles ProfileSource) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := NewSession(*domain.NewSessionContext("127.0.0.1:1", "test"), SessionConfig{
		Assistant: NewAssistant(Dependencies{Profiles: profiles}),
		Delay:     delay,
		OnMessage: rec.record,
	})
	t.Cleanup(s.Abort)
	return s, rec
}

func TestSession_StartAppendsIntro(t *testing.T) {
	s, rec := newTestSession(t, 0, &fakeProfiles{profile: testProfile()})
	s.Start()

	assert.Equal(t, []string{adapter.IntroText}, rec.texts())
	assert.Equal(t, domain.SenderBot, s.Messages()[0].Sender)
}

func TestSession_StartAppendsFetchNotice(t *testing.T) {
	s, rec := newTestSession(t, 0, &fakeProfiles{err: assert.AnError})
	s.Start()

	assert.Equal(t, []string{adapter.IntroText, adapter.FetchErrorText}, rec.texts())
}

func TestSession_SubmitDelaysReply(t *testing.T) {
	delay := 80 * time.Millisecond
	s, _ := newTestSession(t, delay, &fakeProfiles{profile: testProfile()})

	started := time.Now()
	userMsg, err := s.Submit("What are your skills?")
	require.NoError(t, err)
	assert.Equal(t, domain.SenderUser, userMsg.Sender)
	assert.Equal(t, "What are your skills?", userMsg.Text)

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, StateAwaitingResponse, s.State())

	require.Eventually(t, func() bool { return len(s.Messages()) == 2 }, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(started), delay)

	reply := s.Messages()[1]
	assert.Equal(t, domain.SenderBot, reply.Sender)
	assert.Equal(t, "I possess a range of skills, including: Go, Rust.", reply.Text)
	assert.Eventually(t, func() bool { return s.State() == StateIdle }, time.Second, 5*time.Millisecond)
}

func TestSession_RejectsShortInput(t *testing.T) {
	s, rec := newTestSession(t, 0, nil)

	_, err := s.Submit("   ")
	assert.ErrorIs(t, err, ErrInputTooShort)
	assert.Empty(t, rec.texts())
	assert.Equal(t, StateIdle, s.State())

	custom := NewSession(domain.SessionContext{}, SessionConfig{MinQueryLength: 3})
	defer custom.Abort()
	_, err = custom.Submit(" hi ")
	assert.ErrorIs(t, err, ErrInputTooShort)
	_, err = custom.Submit("héy")
	assert.NoError(t, err)
}

func TestSession_OverlappingSubmissionsStayOrdered(t *testing.T) {
	s, rec := newTestSession(t, 30*time.Millisecond, &fakeProfiles{profile: testProfile()})

	queries := []string{"hi", "skills", "education", "goodbye"}
	for _, q := range queries {
		_, err := s.Submit(q)
		require.NoError(t, err)
	}

	require.NoError(t, s.Close(context.Background()))

	assert.Equal(t, []string{
		"hi", "skills", "education", "goodbye",
		adapter.GreetingText,
		"I possess a range of skills, including: Go, Rust.",
		"I hold a degree in Computer Science.",
		adapter.GoodbyeText,
	}, rec.texts())
}

func TestSession_CloseDrainsAndRejects(t *testing.T) {
	s, _ := newTestSession(t, 20*time.Millisecond, nil)

	_, err := s.Submit("hi")
	require.NoError(t, err)
	require.NoError(t, s.Close(context.Background()))

	assert.Len(t, s.Messages(), 2)
	_, err = s.Submit("hi")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSession_CloseTimeoutDropsReplies(t *testing.T) {
	s, _ := newTestSession(t, time.Hour, nil)

	_, err := s.Submit("hi")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Close(ctx), context.DeadlineExceeded)
	assert.Len(t, s.Messages(), 1)
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_AbortDropsReplies(t *testing.T) {
	s, _ := newTestSession(t, time.Hour, nil)

	_, err := s.Submit("hi")
	require.NoError(t, err)
	s.Abort()

	assert.Len(t, s.Messages(), 1)
	_, err = s.Submit("hi")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestTranscript(t *testing.T) {
	tr := NewTranscript()
	tr.Append(domain.NewUserMessage("a"))
	tr.Append(domain.NewBotMessage("b"))

	msgs := tr.Messages()
	require.Equal(t, 2, tr.Len())
	msgs[0].Text = "mutated"
	assert.Equal(t, "a", tr.Messages()[0].Text)
}
