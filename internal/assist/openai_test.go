package assist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ent0n29/taskboard/internal/board"
)

func chatReply(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
}

func TestOpenAIClientCompletes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key-1" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		fmt.Fprint(w, chatReply("  the answer  "))
	}))
	defer srv.Close()

	c := NewOpenAIClient(Config{APIURL: srv.URL, APIKey: "key-1"})
	got, err := c.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "the answer" {
		t.Fatalf("Complete() = %q, want trimmed content", got)
	}
}

func TestOpenAIClientRetriesTransientFailures(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, chatReply("recovered"))
	}))
	defer srv.Close()

	c := NewOpenAIClient(Config{APIURL: srv.URL, APIKey: "k", MaxRetries: 2})
	got, err := c.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "recovered" {
		t.Fatalf("Complete() = %q, want %q", got, "recovered")
	}
	if n := hits.Load(); n != 2 {
		t.Fatalf("requests = %d, want 2", n)
	}
}

func TestOpenAIClientDoesNotRetryAuthFailures(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewOpenAIClient(Config{APIURL: srv.URL, APIKey: "bad", MaxRetries: 3})
	_, err := c.Complete(context.Background(), "sys", "user")
	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Kind != KindAuth {
		t.Fatalf("error = %v, want auth kind", err)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("requests = %d, want exactly 1", n)
	}
}

func TestOpenAIClientGivesUpAfterMaxRetries(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenAIClient(Config{APIURL: srv.URL, APIKey: "k", MaxRetries: 1})
	_, err := c.Complete(context.Background(), "sys", "user")
	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Kind != KindRateLimit {
		t.Fatalf("error = %v, want rate limit kind", err)
	}
	if n := hits.Load(); n != 2 {
		t.Fatalf("requests = %d, want initial try plus one retry", n)
	}
}

func TestOpenAIClientClassifiesNetworkErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewOpenAIClient(Config{APIURL: srv.URL, APIKey: "k", MaxRetries: 0})
	_, err := c.Complete(context.Background(), "sys", "user")
	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Kind != KindNetwork {
		t.Fatalf("error = %v, want network kind", err)
	}
}

func TestOpenAIProviderParsesSuggestionJSON(t *testing.T) {
	reply := "```json\n{\"task_id\":\"t9\",\"task_title\":\"Ship it\",\"reason\":\"due soon\",\"suggested_priority\":\"urgent\"}\n```"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chatReply(reply))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(Config{APIURL: srv.URL, APIKey: "k"})
	tasks := []board.Task{{ID: "t9", Title: "Ship it", Status: board.StatusTodo, CreatedAt: time.Now().UTC()}}
	got, err := p.SuggestPriority(context.Background(), tasks)
	if err != nil {
		t.Fatalf("SuggestPriority() error = %v", err)
	}
	if got.TaskID != "t9" || got.Reason != "due soon" {
		t.Fatalf("suggestion = %+v", got)
	}
	// An out-of-range model priority is clamped to a valid one.
	if got.SuggestedPriority != board.PriorityMedium {
		t.Fatalf("SuggestedPriority = %q, want medium fallback", got.SuggestedPriority)
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Fatalf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewProviderModeSelection(t *testing.T) {
	if _, mode, err := NewProvider(Config{Mode: "mock"}); err != nil || mode != "mock" {
		t.Fatalf("mock mode = %q, %v", mode, err)
	}
	if _, mode, err := NewProvider(Config{Mode: "auto"}); err != nil || mode != "mock" {
		t.Fatalf("auto without key = %q, %v, want mock", mode, err)
	}
	if _, mode, err := NewProvider(Config{Mode: "auto", APIKey: "k"}); err != nil || mode != "openai" {
		t.Fatalf("auto with key = %q, %v, want openai", mode, err)
	}
	if _, _, err := NewProvider(Config{Mode: "openai"}); err == nil {
		t.Fatalf("openai mode without a key should fail")
	}
	if _, _, err := NewProvider(Config{Mode: "telepathy"}); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}
