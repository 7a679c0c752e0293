package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/derivacheck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var (
	okResp      = MockResponse{Content: json.RawMessage(`{"ok":true}`)}
	down        = MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	invalid     = MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}
	truncated   = MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{`)}}
	rateLimited = MockResponse{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{okResp}, false, 1},
		{"transient then success", []MockResponse{down, okResp}, false, 2},
		{"rate limit honours retry-after", []MockResponse{rateLimited, okResp}, false, 2},
		{"all attempts fail", []MockResponse{down, down, down, okResp}, true, 3},
		{"truncation not retried", []MockResponse{truncated, okResp}, true, 1},
		{"invalid response retried once", []MockResponse{invalid, invalid, okResp}, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			resp, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_CancelledContext(t *testing.T) {
	mock := NewMockProvider(down, down, okResp)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, fastRetry()).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_ZeroAttemptsStillCalls(t *testing.T) {
	mock := NewMockProvider(okResp)
	_, err := WithRetry(mock, RetryConfig{}).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestTimeout(t *testing.T) {
	_, err := WithTimeout(slowProvider{}, 5*time.Millisecond).Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	p := NewMockProvider()
	assert.Same(t, Provider(p), WithTimeout(p, 0))
}

type recordedEvents struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordedEvents) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func TestLogging(t *testing.T) {
	rec := &recordedEvents{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"explanation":"x"}`), Usage: usage(10, 3)},
		down,
	)
	p := WithLogging(mock, ProviderMock, rec)
	ctx := WithPurpose(context.Background(), "step-explanation")

	req := UserPrompt("sys", "user")
	req.Schema = testSchema()
	_, err := p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	require.Len(t, rec.events, 2)
	first := rec.events[0]
	assert.Equal(t, "mock", first.Provider)
	assert.Equal(t, "step-explanation", first.Purpose)
	assert.True(t, first.Success)
	assert.Equal(t, 10, first.InputTokens)
	assert.Equal(t, 3, first.OutputTokens)
	assert.Contains(t, first.RequestBody, "[system]\nsys")
	assert.Contains(t, first.RequestBody, "[user]\nuser")
	assert.Contains(t, first.RequestBody, "[schema: test-object]")
	assert.Equal(t, `{"explanation":"x"}`, first.ResponseBody)

	second := rec.events[1]
	assert.False(t, second.Success)
	assert.Contains(t, second.ErrorMessage, "down")
}

func TestLogging_AppendFailureIsNotFatal(t *testing.T) {
	rec := &recordedEvents{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(okResp), ProviderMock, rec)
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestPurpose(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	assert.Equal(t, "step-explanation", PurposeFrom(WithPurpose(context.Background(), "step-explanation")))
}

func TestMockProvider(t *testing.T) {
	m := NewMockProvider(okResp)
	m.AddResponse(MockResponse{Err: errors.New("boom")})

	resp, err := m.Generate(context.Background(), UserPrompt("s", "first"))
	require.NoError(t, err)
	assert.Equal(t, "mock", resp.Model)

	_, err = m.Generate(context.Background(), UserPrompt("s", "second"))
	assert.EqualError(t, err, "boom")

	_, err = m.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)

	require.Equal(t, 3, m.CallCount())
	assert.Equal(t, "second", m.Calls[1].Messages[0].Content)
}
