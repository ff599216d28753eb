package service

import (
	"context"
	"time"

	"github.com/404-t/lotobot-backend/internal/dto"
	"github.com/404-t/lotobot-backend/internal/pkg/logger"
	"github.com/404-t/lotobot-backend/internal/repository/memory"
	"github.com/404-t/lotobot-backend/pkg/ai/agent"
	"github.com/404-t/lotobot-backend/pkg/cache"
	"github.com/404-t/lotobot-backend/pkg/llm"
)

const (
	// ChatContextTTL bounds how long a session's rolling context survives in
	// Redis without activity.
	ChatContextTTL = 30 * time.Minute

	// maxContextTurns caps the rolling context at the most recent entries.
	maxContextTurns = 20
)

// SendFunc delivers one envelope to the connected client.
type SendFunc func(code dto.WSCode, data interface{}) error

// IContextStore is the slice of the cache layer the session protocol needs.
// *cache.Store satisfies it.
type IContextStore interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var _ IContextStore = (*cache.Store)(nil)

type IChatService interface {
	RegisterSession(sessionID string)
	SaveContext(ctx context.Context, sessionID string, turns []llm.Message) int
	ProcessUserMessage(ctx context.Context, sessionID, text string, history []llm.Message, send SendFunc) []llm.Message
	CleanupContext(ctx context.Context, sessionID string)
	LiveSessions() []*memory.LiveSession
}

type chatService struct {
	agent    *agent.Agent
	store    IContextStore
	registry *memory.SessionRegistry
	logger   logger.ILogger
}

func NewChatService(a *agent.Agent, store IContextStore, registry *memory.SessionRegistry, log logger.ILogger) IChatService {
	return &chatService{
		agent:    a,
		store:    store,
		registry: registry,
		logger:   log,
	}
}

func contextKey(sessionID string) string {
	return "session:context:" + sessionID
}

func (s *chatService) RegisterSession(sessionID string) {
	s.registry.Save(&memory.LiveSession{
		ID:          sessionID,
		ConnectedAt: time.Now(),
	})
}

// SaveContext persists the client-provided context and returns the stored
// turn count. A persistence failure is logged and swallowed: the in-memory
// copy still drives the session.
func (s *chatService) SaveContext(ctx context.Context, sessionID string, turns []llm.Message) int {
	if turns == nil {
		turns = []llm.Message{}
	}
	if err := s.store.SetJSON(ctx, contextKey(sessionID), turns, ChatContextTTL); err != nil {
		s.logger.Warn("ChatService", "Failed to persist chat context", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
	return len(turns)
}

// ProcessUserMessage runs one query through the agent, streaming status
// events along the way, and returns the updated rolling context. Any
// processing fault is reported to the client as a single error event; the
// session always stays usable.
func (s *chatService) ProcessUserMessage(ctx context.Context, sessionID, text string, history []llm.Message, send SendFunc) []llm.Message {
	start := time.Now()

	_ = send(dto.WSStatusGrokProcessing, dto.StatusData{Message: "Анализирую запрос..."})

	intent, err := s.agent.DetectIntent(ctx, text, history)
	if err != nil {
		s.reportFault(sessionID, err, send)
		return history
	}

	if intent == agent.IntentSearch {
		_ = send(dto.WSStatusRagProcessing, dto.StatusData{Message: "Ищу подходящие лотереи в базе знаний..."})

		// Informational only: the refresh itself happens inside ProcessQuery.
		if s.agent.IndexEmpty() {
			_ = send(dto.WSStatusStolotoFetching, dto.StatusData{Message: "Загружаю актуальные данные о лотереях..."})
		}
	}

	result, err := s.agent.ProcessQuery(ctx, text, history, false)
	if err != nil {
		s.reportFault(sessionID, err, send)
		return history
	}

	formatted := FormatResponse(result)

	if err := send(dto.WSResponseMessage, dto.ChatResponseData{
		Action:        result.Action,
		Content:       result.Content,
		FormattedText: formatted,
	}); err != nil {
		s.logger.Warn("ChatService", "Failed to deliver response", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return history
	}

	history = append(history,
		llm.Message{Role: "user", Content: text},
		llm.Message{Role: "assistant", Content: formatted},
	)
	if len(history) > maxContextTurns {
		history = history[len(history)-maxContextTurns:]
	}

	if err := s.store.SetJSON(ctx, contextKey(sessionID), history, ChatContextTTL); err != nil {
		s.logger.Warn("ChatService", "Failed to persist updated context", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	if live, ok := s.registry.Get(sessionID); ok {
		live.Turns = len(history)
		s.registry.Save(live)
	}

	s.logger.Debug("ChatService", "Message processed", map[string]interface{}{
		"session_id": sessionID,
		"action":     result.Action,
		"turns":      len(history),
		"elapsed":    time.Since(start).String(),
	})

	return history
}

// CleanupContext removes the persisted context and the registry entry on
// session teardown. Best effort: a delete failure is logged, never surfaced.
func (s *chatService) CleanupContext(ctx context.Context, sessionID string) {
	if err := s.store.Delete(ctx, contextKey(sessionID)); err != nil {
		s.logger.Warn("ChatService", "Failed to delete chat context", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
	s.registry.Delete(sessionID)
}

func (s *chatService) LiveSessions() []*memory.LiveSession {
	return s.registry.List()
}

func (s *chatService) reportFault(sessionID string, err error, send SendFunc) {
	s.logger.Error("ChatService", "Query processing failed", map[string]interface{}{
		"session_id": sessionID,
		"error":      err.Error(),
	})
	_ = send(dto.WSError, dto.ErrorData{
		Message: "Произошла ошибка при обработке запроса. Попробуйте ещё раз.",
		Error:   err.Error(),
	})
}
