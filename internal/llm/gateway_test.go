package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"qrmenu/internal/tester"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func chatServer(t *testing.T, status int, content string, withUsage bool) (*httptest.Server, *int) {
	t.Helper()
	hits := new(int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if status != http.StatusOK {
			http.Error(w, `{"error":"slow down"}`, status)
			return
		}
		resp := map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		}
		if withUsage {
			resp["usage"] = map[string]any{"prompt_tokens": 100, "completion_tokens": 50}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

func TestGateway_FallsThroughRateLimitedBackends(t *testing.T) {
	s1, h1 := chatServer(t, http.StatusTooManyRequests, "", false)
	s2, h2 := chatServer(t, http.StatusTooManyRequests, "", false)
	s3, h3 := chatServer(t, http.StatusOK, `{"mode":"execute"}`, true)

	pricing := Pricing{InputPer1K: 1, OutputPer1K: 1}
	backends := []Backend{
		NewChatBackend(ChatConfig{Name: "primary", BaseURL: s1.URL, Model: "a", Tier: TierPaid, Pricing: pricing}),
		NewChatBackend(ChatConfig{Name: "secondary", BaseURL: s2.URL, Model: "b", Tier: TierPaid, Pricing: pricing}),
		NewChatBackend(ChatConfig{Name: "tertiary", BaseURL: s3.URL, Model: "c", Tier: TierPaid, Pricing: pricing}),
	}
	guard := NewGuard(10, 100)
	gw := NewGateway(backends, guard, WithLogger(quietLogger()))

	res, err := gw.Generate(context.Background(), "sys", nil, "make it blue")
	tester.NoErr(t, err)
	tester.Eq(t, res.Text, `{"mode":"execute"}`)
	tester.Eq(t, res.Backend, "tertiary")
	tester.Eq(t, []int{*h1, *h2, *h3}, []int{1, 1, 1})

	u := guard.Snapshot()
	tester.Eq(t, u.InputTokens, int64(100), "only the successful call is charged")
	tester.Eq(t, u.OutputTokens, int64(50))
	tester.True(t, math.Abs(u.SpentUSD-0.15) < 1e-9, "spent=%v", u.SpentUSD)
	tester.Eq(t, u.RequestsInWindow, 1, "admission is counted once per turn")
}

func TestGateway_FirstSuccessWins(t *testing.T) {
	first := NewFakeBackend("first", TierFree, FakeReply{Text: "one"})
	second := NewFakeBackend("second", TierFree, FakeReply{Text: "two"})
	gw := NewGateway([]Backend{first, second}, nil, WithLogger(quietLogger()))

	res, err := gw.Generate(context.Background(), "sys", nil, "hi")
	tester.NoErr(t, err)
	tester.Eq(t, res.Text, "one")
	tester.Eq(t, len(second.Calls()), 0)
}

func TestGateway_TierCapsAndTemperature(t *testing.T) {
	paid := NewFakeBackend("paid", TierPaid, FakeReply{Err: errors.New("boom")})
	free := NewFakeBackend("free", TierFree, FakeReply{Text: "ok"})
	gw := NewGateway([]Backend{paid, free}, nil, WithLogger(quietLogger()), WithTokenCaps(5000, 1000))

	_, err := gw.Generate(context.Background(), "sys", []Message{{Role: RoleUser, Content: "earlier"}}, "now")
	tester.NoErr(t, err)
	tester.Eq(t, paid.Calls()[0].MaxTokens, 5000)
	tester.Eq(t, free.Calls()[0].MaxTokens, 1000)
	tester.Eq(t, free.Calls()[0].Temperature, DefaultTemperature)
	tester.Eq(t, len(free.Calls()[0].History), 1)
}

func TestGateway_PlaceholderUsageWhenUnreported(t *testing.T) {
	paid := NewFakeBackend("paid", TierPaid, FakeReply{Text: "ok"})
	guard := NewGuard(0, 0)
	gw := NewGateway([]Backend{paid}, guard, WithLogger(quietLogger()))

	_, err := gw.Generate(context.Background(), "sys", nil, "hi")
	tester.NoErr(t, err)
	u := guard.Snapshot()
	tester.Eq(t, u.InputTokens, int64(PlaceholderInputTokens))
	tester.Eq(t, u.OutputTokens, int64(PlaceholderOutputTokens))
}

func TestGateway_FreeBackendIsNotCharged(t *testing.T) {
	free := NewFakeBackend("free", TierFree, FakeReply{Text: "ok", Usage: &Completion{PromptTokens: 10, CompletionTokens: 10, Reported: true}})
	guard := NewGuard(0, 0)
	gw := NewGateway([]Backend{free}, guard, WithLogger(quietLogger()))

	_, err := gw.Generate(context.Background(), "sys", nil, "hi")
	tester.NoErr(t, err)
	tester.Eq(t, guard.Snapshot().InputTokens, int64(0))
}

func TestGateway_ExhaustedCarriesLastError(t *testing.T) {
	a := NewFakeBackend("a", TierFree, FakeReply{Err: &BackendError{Backend: "a", Status: 500, Err: errors.New("down")}})
	b := NewFakeBackend("b", TierFree, FakeReply{Err: &BackendError{Backend: "b", Status: 503, Err: errors.New("overloaded")}})
	gw := NewGateway([]Backend{a, b}, nil, WithLogger(quietLogger()))

	_, err := gw.Generate(context.Background(), "sys", nil, "hi")
	var ex *ExhaustedError
	tester.True(t, errors.As(err, &ex), "expected ExhaustedError, got %v", err)
	tester.Eq(t, len(ex.Attempts), 2)
	tester.True(t, strings.Contains(ex.Error(), "overloaded"), "message should carry last error: %s", ex.Error())
}

func TestGateway_AdmissionDenialStopsTurn(t *testing.T) {
	a := NewFakeBackend("a", TierFree, FakeReply{Text: "ok"})
	guard := NewGuard(1, 0)
	gw := NewGateway([]Backend{a}, guard, WithLogger(quietLogger()))

	_, err := gw.Generate(context.Background(), "sys", nil, "hi")
	tester.NoErr(t, err)
	_, err = gw.Generate(context.Background(), "sys", nil, "again")
	var adm *AdmissionError
	tester.True(t, errors.As(err, &adm), "expected admission error, got %v", err)
	tester.Eq(t, len(a.Calls()), 1)
}

func TestGateway_NoBackends(t *testing.T) {
	gw := NewGateway(nil, nil)
	tester.False(t, gw.Configured())
	_, err := gw.Generate(context.Background(), "sys", nil, "hi")
	tester.True(t, errors.Is(err, ErrNoBackends))
}
