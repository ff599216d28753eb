package stoloto

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// fakeStore is a map-backed CacheStore with injectable failures.
type fakeStore struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (s *fakeStore) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	if s.getErr != nil {
		return false, s.getErr
	}
	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (s *fakeStore) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	s.sets++
	return nil
}

// fakeSection counts upstream fetches.
type fakeSection struct {
	payload    *TabsResponse
	fetchErr   error
	fetchCalls int
}

func (s *fakeSection) FetchFresh(context.Context) (*TabsResponse, error) {
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.payload, nil
}

func (s *fakeSection) CacheKey() string        { return "test:tabs" }
func (s *fakeSection) CacheTTL() time.Duration { return time.Minute }

func TestFetchMissThenHit(t *testing.T) {
	store := newFakeStore()
	section := &fakeSection{payload: &TabsResponse{Data: []Tab{{LotteryCode: "ruslotto", Draw: 100}}}}

	got, err := Fetch[*TabsResponse](context.Background(), store, nopLogger{}, section, false)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if section.fetchCalls != 1 {
		t.Errorf("fetchCalls after miss = %d, want 1", section.fetchCalls)
	}
	if store.sets != 1 {
		t.Errorf("cache writes = %d, want 1", store.sets)
	}
	if got.Data[0].LotteryCode != "ruslotto" {
		t.Errorf("LotteryCode = %q, want %q", got.Data[0].LotteryCode, "ruslotto")
	}

	// second call served from cache
	got, err = Fetch[*TabsResponse](context.Background(), store, nopLogger{}, section, false)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if section.fetchCalls != 1 {
		t.Errorf("fetchCalls after hit = %d, want 1", section.fetchCalls)
	}
	if got.Data[0].Draw != 100 {
		t.Errorf("Draw = %d, want 100", got.Data[0].Draw)
	}
}

func TestFetchForceRefreshBypassesCache(t *testing.T) {
	store := newFakeStore()
	section := &fakeSection{payload: &TabsResponse{Data: []Tab{{LotteryCode: "4x20"}}}}

	if _, err := Fetch[*TabsResponse](context.Background(), store, nopLogger{}, section, false); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if _, err := Fetch[*TabsResponse](context.Background(), store, nopLogger{}, section, true); err != nil {
		t.Fatalf("Fetch(force) error = %v", err)
	}

	if section.fetchCalls != 2 {
		t.Errorf("fetchCalls = %d, want 2", section.fetchCalls)
	}
	if store.sets != 2 {
		t.Errorf("cache writes = %d, want 2", store.sets)
	}
}

func TestFetchCacheReadFailureDegradesToMiss(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("redis down")
	section := &fakeSection{payload: &TabsResponse{}}

	if _, err := Fetch[*TabsResponse](context.Background(), store, nopLogger{}, section, false); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if section.fetchCalls != 1 {
		t.Errorf("fetchCalls = %d, want 1", section.fetchCalls)
	}
}

func TestFetchCacheWriteFailureStillReturnsFresh(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("redis down")
	section := &fakeSection{payload: &TabsResponse{Data: []Tab{{LotteryCode: "top3"}}}}

	got, err := Fetch[*TabsResponse](context.Background(), store, nopLogger{}, section, false)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got == nil || len(got.Data) != 1 {
		t.Fatalf("expected fresh payload, got %+v", got)
	}
}

func TestFetchUpstreamFailurePropagates(t *testing.T) {
	store := newFakeStore()
	section := &fakeSection{fetchErr: &GatewayError{URL: "http://upstream", StatusCode: 500}}

	_, err := Fetch[*TabsResponse](context.Background(), store, nopLogger{}, section, false)
	if err == nil {
		t.Fatal("expected error from upstream")
	}

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("error type = %T, want *GatewayError", err)
	}
	if store.sets != 0 {
		t.Errorf("cache writes = %d, want 0", store.sets)
	}
}
