package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	json "github.com/goccy/go-json"
)

// completionServer fakes the chat completions endpoint, answering every
// request with the given content and counting calls.
func completionServer(t *testing.T, content string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

const treeJSON = `{"topic": "Tea", "description": "Leaves in water.", "subtopics": [
	{"title": "Green", "description": "Unoxidized.", "subtopics": []},
	{"title": "Black", "description": "Fully oxidized.", "subtopics": []}
]}`

func TestGenerateTree(t *testing.T) {
	srv, _ := completionServer(t, treeJSON)
	p, err := NewOpenAI(OpenAIOptions{APIKey: "test", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	tree, err := p.GenerateTree(context.Background(), "Tea")
	if err != nil {
		t.Fatalf("GenerateTree: %v", err)
	}
	if tree.Topic != "Tea" || len(tree.Subtopics) != 2 {
		t.Errorf("tree = %+v", tree)
	}
}

func TestExpandNode(t *testing.T) {
	srv, _ := completionServer(t, `[{"title": "Sencha", "description": "Steamed.", "subtopics": []}]`)
	p, err := NewOpenAI(OpenAIOptions{APIKey: "test", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	children, err := p.ExpandNode(context.Background(), "Tea", "Green", []string{"Tea"})
	if err != nil {
		t.Fatalf("ExpandNode: %v", err)
	}
	if len(children) != 1 || children[0].Title != "Sencha" {
		t.Errorf("children = %+v", children)
	}
}

func TestEmptyCompletionIsProviderError(t *testing.T) {
	srv, _ := completionServer(t, "")
	p, err := NewOpenAI(OpenAIOptions{APIKey: "test", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.GenerateTree(context.Background(), "Tea")
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("want *ProviderError, got %T: %v", err, err)
	}
	if perr.Op != "generate" {
		t.Errorf("Op = %q, want generate", perr.Op)
	}
}

func TestServiceFailureIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := NewOpenAI(OpenAIOptions{APIKey: "test", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.ExpandNode(context.Background(), "Tea", "Green", nil)
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("want *ProviderError, got %T: %v", err, err)
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewOpenAI(OpenAIOptions{}); err == nil {
		t.Error("expected an error without an API key")
	}
}

func TestCacheShortCircuitsRepeatPrompts(t *testing.T) {
	srv, calls := completionServer(t, treeJSON)
	cache, err := OpenCache(filepath.Join(t.TempDir(), "responses.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	p, err := NewOpenAI(OpenAIOptions{APIKey: "test", BaseURL: srv.URL, Cache: cache})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := p.GenerateTree(context.Background(), "Tea"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("upstream called %d times, want 1 (cache miss only)", got)
	}

	// A different topic is a different prompt, hence a real call.
	if _, err := p.GenerateTree(context.Background(), "Coffee"); err == nil {
		// The fake always answers with the Tea tree; topic mismatch is fine here.
		if got := calls.Load(); got != 2 {
			t.Errorf("upstream called %d times after new topic, want 2", got)
		}
	}
}
