package service

import (
	"context"
	"errors"
	"sync"

	"github.com/musicbesties/api/internal/llm"
	"github.com/musicbesties/api/internal/model"
	"github.com/musicbesties/api/internal/store"
)

var errBoom = errors.New("boom")

type fakeLLM struct {
	mu       sync.Mutex
	content  string
	err      error
	requests []*llm.CompletionRequest
}

func (f *fakeLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content, Model: req.Model, TokensIn: 10, TokensOut: 5}, nil
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) lastRequest() *llm.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// failingStore wraps a MemoryStore and fails the operations named in failOn.
type failingStore struct {
	*store.MemoryStore
	failOn map[string]error
}

func newFailingStore(base *store.MemoryStore, failOn map[string]error) *failingStore {
	return &failingStore{MemoryStore: base, failOn: failOn}
}

func (f *failingStore) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	if err := f.failOn["GetProfile"]; err != nil {
		return nil, err
	}
	return f.MemoryStore.GetProfile(ctx, userID)
}

func (f *failingStore) GetArtist(ctx context.Context, artistID string) (*model.Artist, error) {
	if err := f.failOn["GetArtist"]; err != nil {
		return nil, err
	}
	return f.MemoryStore.GetArtist(ctx, artistID)
}

func (f *failingStore) CreateProfile(ctx context.Context, p *model.Profile) error {
	if err := f.failOn["CreateProfile"]; err != nil {
		return err
	}
	return f.MemoryStore.CreateProfile(ctx, p)
}

func (f *failingStore) SearchArtists(ctx context.Context, query string, limit int) ([]model.Artist, error) {
	if err := f.failOn["SearchArtists"]; err != nil {
		return nil, err
	}
	return f.MemoryStore.SearchArtists(ctx, query, limit)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*model.ChatEvent
	err    error
}

func (p *recordingPublisher) PublishChatEvent(ctx context.Context, event *model.ChatEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
