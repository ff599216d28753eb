package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/404-t/lotobot-backend/internal/constant"
	"github.com/404-t/lotobot-backend/pkg/llm"
	"github.com/404-t/lotobot-backend/pkg/rag"
	"github.com/404-t/lotobot-backend/pkg/stoloto"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// scriptedLLM replays canned replies in call order and records every call.
type scriptedLLM struct {
	replies []string
	err     error
	calls   [][]llm.Message
}

func (s *scriptedLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	s.calls = append(s.calls, history)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", errors.New("script exhausted")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: constant.ChatMessageRoleUser, Content: prompt}}, options...)
}

// batchEmbedder returns one axis-aligned unit vector per text so every record
// is distinguishable and query similarity is controllable.
type batchEmbedder struct {
	query []float32
	dim   int
}

func (e *batchEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 1 && e.query != nil {
		return [][]float32{e.query}, nil
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, e.dim)
		v[i%e.dim] = 1
		vectors[i] = v
	}
	return vectors, nil
}

type mapStore struct {
	data map[string][]byte
}

func newMapStore() *mapStore {
	return &mapStore{data: map[string][]byte{}}
}

func (s *mapStore) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (s *mapStore) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

// newPopulatedAgent builds an agent whose index already holds records, so
// ProcessQuery skips the catalog refresh.
func newPopulatedAgent(t *testing.T, provider llm.LLMProvider, codes ...string) *Agent {
	t.Helper()

	index := rag.NewIndex(&batchEmbedder{dim: len(codes), query: firstAxis(len(codes))}, nopLogger{})
	tabs := make([]stoloto.Tab, len(codes))
	for i, code := range codes {
		tabs[i] = stoloto.Tab{LotteryCode: code, Draw: i + 1}
	}
	bundle := &rag.SourceBundle{Tabs: &stoloto.TabsResponse{Data: tabs}}
	if err := index.Ingest(context.Background(), bundle); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	return New(provider, index, newMapStore(), nil, nil, nil, nopLogger{})
}

func firstAxis(dim int) []float32 {
	v := make([]float32, dim)
	if dim > 0 {
		v[0] = 1
	}
	return v
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"exact search", "search", IntentSearch},
		{"search with noise", "  Search. Пользователь ищет лотерею", IntentSearch},
		{"exact answer", "answer", IntentAnswer},
		{"unparseable defaults to answer", "не могу определить", IntentAnswer},
		{"empty defaults to answer", "", IntentAnswer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedLLM{replies: []string{tt.reply}}
			a := newPopulatedAgent(t, provider, "a", "b")

			got, err := a.DetectIntent(context.Background(), "Какие есть лотереи?", nil)
			if err != nil {
				t.Fatalf("DetectIntent() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectIntent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectIntentProviderError(t *testing.T) {
	provider := &scriptedLLM{err: errors.New("provider down")}
	a := newPopulatedAgent(t, provider, "a", "b")

	if _, err := a.DetectIntent(context.Background(), "вопрос", nil); err == nil {
		t.Fatal("expected provider error")
	}
}

func TestProcessQueryAnswerPath(t *testing.T) {
	provider := &scriptedLLM{replies: []string{"answer", "Привет! Чем могу помочь?"}}
	a := newPopulatedAgent(t, provider, "a", "b")

	result, err := a.ProcessQuery(context.Background(), "Привет", nil, false)
	if err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}

	if result.Action != IntentAnswer {
		t.Errorf("Action = %q, want %q", result.Action, IntentAnswer)
	}
	if result.Content != "Привет! Чем могу помочь?" {
		t.Errorf("Content = %v, want conversation reply", result.Content)
	}
	if len(provider.calls) != 2 {
		t.Errorf("llm calls = %d, want 2 (intent + conversation)", len(provider.calls))
	}
}

func TestProcessQuerySearchPathStructuredReply(t *testing.T) {
	provider := &scriptedLLM{replies: []string{
		"search",
		"быстрая лотерея",
		`[{"name": "Рапидо", "price": "150", "speed": "каждые 15 минут"}]`,
	}}
	a := newPopulatedAgent(t, provider, "rapido", "ruslotto")

	result, err := a.ProcessQuery(context.Background(), "Хочу быструю лотерею", nil, false)
	if err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}

	if result.Action != IntentSearch {
		t.Errorf("Action = %q, want %q", result.Action, IntentSearch)
	}
	list, ok := result.Content.([]interface{})
	if !ok {
		t.Fatalf("Content type = %T, want []interface{}", result.Content)
	}
	if len(list) != 1 {
		t.Fatalf("Content len = %d, want 1", len(list))
	}

	// the analysis prompt must carry the retrieved records
	analysisCall := provider.calls[2]
	userMsg := analysisCall[len(analysisCall)-1].Content
	if !strings.HasPrefix(userMsg, "Лотереи:\n") {
		t.Errorf("analysis prompt = %q, want prefix %q", userMsg, "Лотереи:\n")
	}
	if !strings.Contains(userMsg, "RAPIDO") {
		t.Errorf("analysis prompt missing retrieved record: %q", userMsg)
	}
}

func TestProcessQuerySearchPathRawReply(t *testing.T) {
	provider := &scriptedLLM{replies: []string{
		"search",
		"лото",
		"Вот подходящие варианты: Русское лото.",
	}}
	a := newPopulatedAgent(t, provider, "ruslotto")

	result, err := a.ProcessQuery(context.Background(), "посоветуй лотерею", nil, false)
	if err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}

	if got, ok := result.Content.(string); !ok || got != "Вот подходящие варианты: Русское лото." {
		t.Errorf("Content = %v, want raw reply string", result.Content)
	}
}

func TestProcessQueryNoResultsFallsBackToConversation(t *testing.T) {
	cmsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "main-categories"):
			fmt.Fprint(w, `{"data": []}`)
		case strings.Contains(r.URL.Path, "tabs"):
			fmt.Fprint(w, `{"data": []}`)
		case strings.Contains(r.URL.Path, "packets"):
			fmt.Fprint(w, `{"packets": []}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer cmsSrv.Close()

	client := stoloto.NewClient(time.Millisecond, "", "", nopLogger{})
	defer client.Close()

	main := stoloto.NewMainSection(client, cmsSrv.URL, time.Minute)
	tabs := stoloto.NewTabsSection(client, cmsSrv.URL, time.Minute)
	packets := stoloto.NewPacketsSection(client, cmsSrv.URL, time.Minute)

	provider := &scriptedLLM{replies: []string{"search", "лото", "Уточните, пожалуйста, запрос."}}
	index := rag.NewIndex(&batchEmbedder{dim: 1}, nopLogger{})
	a := New(provider, index, newMapStore(), main, tabs, packets, nopLogger{})

	result, err := a.ProcessQuery(context.Background(), "несуществующая лотерея", nil, false)
	if err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}

	if result.Action != IntentSearch {
		t.Errorf("Action = %q, want %q", result.Action, IntentSearch)
	}
	if result.Content != "Уточните, пожалуйста, запрос." {
		t.Errorf("Content = %v, want fallback reply", result.Content)
	}

	// the fallback prompt carries the no-results hint
	fallbackCall := provider.calls[len(provider.calls)-1]
	userMsg := fallbackCall[len(fallbackCall)-1].Content
	if !strings.Contains(userMsg, constant.NoResultsHint) {
		t.Errorf("fallback prompt missing hint: %q", userMsg)
	}
}

func TestAnalyzeArchive(t *testing.T) {
	provider := &scriptedLLM{replies: []string{"Числа 5 и 12 выпадают чаще остальных."}}
	a := newPopulatedAgent(t, provider, "a")

	archive := map[string]interface{}{
		"draws": []interface{}{
			map[string]interface{}{"number": float64(101), "winning": "5, 12, 33"},
		},
	}

	analysis, err := a.AnalyzeArchive(context.Background(), archive)
	if err != nil {
		t.Fatalf("AnalyzeArchive() error = %v", err)
	}
	if analysis != "Числа 5 и 12 выпадают чаще остальных." {
		t.Errorf("analysis = %q", analysis)
	}

	call := provider.calls[0]
	if !strings.HasPrefix(call[len(call)-1].Content, "Архивные данные:\n") {
		t.Errorf("archive prompt = %q", call[len(call)-1].Content)
	}
	if !strings.Contains(call[len(call)-1].Content, "number: 101") {
		t.Errorf("archive prompt missing flattened data: %q", call[len(call)-1].Content)
	}
}

func TestParseOrRaw(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantType string
	}{
		{"object", `{"name": "Рапидо"}`, "map"},
		{"array", `[{"name": "Рапидо"}]`, "list"},
		{"scalar json stays raw", `42`, "string"},
		{"plain text stays raw", "Просто текст", "string"},
		{"broken json stays raw", `{"name": `, "string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOrRaw(tt.reply)
			switch tt.wantType {
			case "map":
				if _, ok := got.(map[string]interface{}); !ok {
					t.Errorf("type = %T, want map", got)
				}
			case "list":
				if _, ok := got.([]interface{}); !ok {
					t.Errorf("type = %T, want list", got)
				}
			case "string":
				if got != tt.reply {
					t.Errorf("got %v, want raw %q", got, tt.reply)
				}
			}
		})
	}
}
