package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/404-t/lotobot-backend/internal/constant"
	"github.com/404-t/lotobot-backend/internal/pkg/logger"
	"github.com/404-t/lotobot-backend/pkg/llm"
	"github.com/404-t/lotobot-backend/pkg/rag"
	"github.com/404-t/lotobot-backend/pkg/stoloto"
)

const (
	IntentSearch = "search"
	IntentAnswer = "answer"

	searchTopK = 3
)

// QueryResult is the router's output. Content is either the raw completion
// text or, when the analysis reply parses as JSON, the decoded structure.
type QueryResult struct {
	Action  string      `json:"action"`
	Content interface{} `json:"content"`
}

// Agent routes a query through intent classification and then either
// semantic retrieval over the catalog index or a direct conversational
// completion. It also owns the lazy catalog refresh.
type Agent struct {
	llm    llm.LLMProvider
	index  *rag.Index
	store  stoloto.CacheStore
	logger logger.ILogger

	main    *stoloto.MainSection
	tabs    *stoloto.TabsSection
	packets *stoloto.PacketsSection
}

func New(
	provider llm.LLMProvider,
	index *rag.Index,
	store stoloto.CacheStore,
	main *stoloto.MainSection,
	tabs *stoloto.TabsSection,
	packets *stoloto.PacketsSection,
	log logger.ILogger,
) *Agent {
	return &Agent{
		llm:     provider,
		index:   index,
		store:   store,
		logger:  log,
		main:    main,
		tabs:    tabs,
		packets: packets,
	}
}

// IndexEmpty reports whether the catalog index holds no records. The session
// protocol uses it to decide whether a refresh status should be streamed.
func (a *Agent) IndexEmpty() bool {
	return a.index.IsEmpty()
}

// IndexLen reports the number of indexed catalog records.
func (a *Agent) IndexLen() int {
	return a.index.Len()
}

// DetectIntent classifies the query as "search" or "answer". The completion
// reply is lower-cased and matched for the substring "search"; anything else
// defaults to "answer". The fuzzy match is deliberate: model output is not
// constrained, and an unparseable reply is not an error.
func (a *Agent) DetectIntent(ctx context.Context, query string, history []llm.Message) (string, error) {
	messages := buildMessages(constant.IntentPrompt, history, query)

	reply, err := a.llm.Chat(ctx, messages)
	if err != nil {
		return "", err
	}

	raw := strings.ToLower(strings.TrimSpace(reply))
	intent := IntentAnswer
	if strings.Contains(raw, IntentSearch) {
		intent = IntentSearch
	}

	a.logger.Debug("Agent", "Intent detected", map[string]interface{}{"intent": intent, "raw": raw})
	return intent, nil
}

// ExtractKeywords asks the model for search terms matching the query.
func (a *Agent) ExtractKeywords(ctx context.Context, text string, history []llm.Message) (string, error) {
	messages := buildMessages(constant.KeywordPrompt, history, text)
	return a.llm.Chat(ctx, messages)
}

// ProcessQuery runs the full routing state machine for one query.
func (a *Agent) ProcessQuery(ctx context.Context, query string, history []llm.Message, forceRefresh bool) (*QueryResult, error) {
	if a.index.IsEmpty() || forceRefresh {
		a.logger.Debug("Agent", "Refreshing catalog before query", map[string]interface{}{
			"force":   forceRefresh,
			"records": a.index.Len(),
		})
		a.RefreshCatalog(ctx, forceRefresh)
	}

	intent, err := a.DetectIntent(ctx, query, history)
	if err != nil {
		return nil, err
	}

	if intent != IntentSearch {
		content, err := a.llm.Chat(ctx, buildMessages(constant.ConversationPrompt, history, query))
		if err != nil {
			return nil, err
		}
		return &QueryResult{Action: IntentAnswer, Content: content}, nil
	}

	keywords, err := a.ExtractKeywords(ctx, query, history)
	if err != nil {
		return nil, err
	}

	matches, err := a.index.Search(ctx, keywords, searchTopK)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		a.logger.Warn("Agent", "Retrieval returned no results, falling back to conversation", nil)
		hinted := query + "\n\n" + constant.NoResultsHint
		content, err := a.llm.Chat(ctx, buildMessages(constant.ConversationPrompt, history, hinted))
		if err != nil {
			return nil, err
		}
		return &QueryResult{Action: IntentSearch, Content: content}, nil
	}

	lines := make([]string, len(matches))
	for i, match := range matches {
		lines[i] = match.Record.Text()
		a.logger.Debug("Agent", "Retrieval hit", map[string]interface{}{
			"rank":  i + 1,
			"kind":  match.Record.Kind,
			"score": match.Score,
		})
	}

	prompt := "Лотереи:\n" + strings.Join(lines, "\n")
	reply, err := a.llm.Chat(ctx, buildMessages(constant.AnalysisPrompt, history, prompt))
	if err != nil {
		return nil, err
	}

	return &QueryResult{Action: IntentSearch, Content: parseOrRaw(reply)}, nil
}

// RefreshCatalog fetches all catalog sections and re-ingests the index.
// Section fetches are independent: a failed section leaves a nil slot in the
// bundle and never aborts the refresh.
func (a *Agent) RefreshCatalog(ctx context.Context, force bool) {
	bundle := &rag.SourceBundle{}

	if main, err := stoloto.Fetch(ctx, a.store, a.logger, a.main, force); err != nil {
		a.logger.Error("Agent", "Main section fetch failed", map[string]interface{}{"error": err.Error()})
	} else {
		bundle.Main = main
	}

	if tabs, err := stoloto.Fetch(ctx, a.store, a.logger, a.tabs, force); err != nil {
		a.logger.Error("Agent", "Tabs section fetch failed", map[string]interface{}{"error": err.Error()})
	} else {
		bundle.Tabs = tabs
	}

	if packets, err := stoloto.Fetch(ctx, a.store, a.logger, a.packets, force); err != nil {
		a.logger.Error("Agent", "Packets section fetch failed", map[string]interface{}{"error": err.Error()})
	} else {
		bundle.Packets = packets
	}

	if err := a.index.Ingest(ctx, bundle); err != nil {
		a.logger.Error("Agent", "Catalog ingest failed", map[string]interface{}{"error": err.Error()})
	}
}

// AnalyzeArchive runs the stateless archive-analysis completion: arbitrary
// structured draw data in, free-text analysis out. No caching, no retry.
func (a *Agent) AnalyzeArchive(ctx context.Context, archiveData interface{}) (string, error) {
	dataText := rag.FlattenValue(archiveData)
	messages := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.ArchiveAnalysisPrompt},
		{Role: constant.ChatMessageRoleUser, Content: "Архивные данные:\n" + dataText},
	}
	return a.llm.Chat(ctx, messages)
}

// parseOrRaw attempts a structured decode of the analysis reply and falls
// back to the raw text without raising.
func parseOrRaw(reply string) interface{} {
	trimmed := strings.TrimSpace(reply)
	var parsed interface{}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		switch parsed.(type) {
		case map[string]interface{}, []interface{}:
			return parsed
		}
	}
	return reply
}

func buildMessages(systemPrompt string, history []llm.Message, userContent string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: userContent})
	return messages
}
