package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/404-t/lotobot-backend/internal/dto"
	"github.com/404-t/lotobot-backend/internal/pkg/logger"
	"github.com/404-t/lotobot-backend/internal/service"
	"github.com/404-t/lotobot-backend/pkg/llm"
)

const (
	// contextWaitTimeout bounds how long the server waits for the client's
	// CHAT_CONTEXT reply after connect.
	contextWaitTimeout = 10 * time.Second

	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

// Session is one client connection's protocol state machine. A reader
// goroutine pumps inbound frames into a channel; all protocol sequencing and
// writes happen on the session goroutine.
type Session struct {
	ID      string
	conn    *websocket.Conn
	chat    service.IChatService
	logger  logger.ILogger
	inbound chan []byte

	// send delivers one envelope to the client. Defaults to the conn write.
	send        service.SendFunc
	contextWait time.Duration
}

func NewSession(conn *websocket.Conn, chat service.IChatService, log logger.ILogger) *Session {
	s := &Session{
		ID:          uuid.NewString(),
		conn:        conn,
		chat:        chat,
		logger:      log,
		inbound:     make(chan []byte, 16),
		contextWait: contextWaitTimeout,
	}
	s.send = s.writeEnvelope
	return s
}

// Run drives the session until the client disconnects.
func (s *Session) Run() {
	go s.readPump()
	s.loop()
}

// loop is the protocol state machine: handshake, then one frame at a time
// until the inbound channel closes. The persisted context is deleted on the
// way out even when processing was interrupted.
func (s *Session) loop() {
	s.logger.Info("Session", "Connection established", map[string]interface{}{"session_id": s.ID})

	defer func() {
		// The connection context is gone at teardown, so cleanup runs on a
		// fresh short-deadline context.
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.chat.CleanupContext(cleanupCtx, s.ID)
		s.logger.Info("Session", "Connection closed", map[string]interface{}{"session_id": s.ID})
	}()

	s.chat.RegisterSession(s.ID)

	if err := s.send(dto.WSConnectionEstablished, nil); err != nil {
		return
	}
	if err := s.send(dto.WSRequestChatContext, nil); err != nil {
		return
	}

	history := s.awaitContext()

	for raw := range s.inbound {
		history = s.handleFrame(raw, history)
	}
}

func (s *Session) readPump() {
	defer close(s.inbound)
	s.conn.SetReadLimit(maxMessageSize)
	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Debug("Session", "Read error", map[string]interface{}{
					"session_id": s.ID,
					"error":      err.Error(),
				})
			}
			return
		}
		s.inbound <- message
	}
}

// awaitContext waits up to contextWait for a CHAT_CONTEXT reply. Timeout,
// malformed payload, an unexpected code or disconnect all fall back to an
// empty context; the session never fails over the handshake. A reply arriving
// after the window is handled as a regular (unknown) frame later.
func (s *Session) awaitContext() []llm.Message {
	select {
	case raw, ok := <-s.inbound:
		if !ok {
			return nil
		}

		var envelope dto.InboundEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			s.logger.Debug("Session", "Malformed context reply, using empty context", map[string]interface{}{"session_id": s.ID})
			return nil
		}
		if envelope.Code != dto.WSChatContext {
			s.logger.Debug("Session", "Unexpected code while awaiting context", map[string]interface{}{
				"session_id": s.ID,
				"code":       string(envelope.Code),
			})
			return nil
		}

		var turns []dto.ChatTurn
		if err := json.Unmarshal(envelope.Data, &turns); err != nil {
			s.logger.Debug("Session", "Context payload is not a list, using empty context", map[string]interface{}{"session_id": s.ID})
			return nil
		}

		history := make([]llm.Message, len(turns))
		for i, turn := range turns {
			history[i] = llm.Message{Role: turn.Role, Content: turn.Content}
		}

		count := s.chat.SaveContext(context.Background(), s.ID, history)
		_ = s.send(dto.WSChatContextReceived, dto.ContextReceivedData{Count: count})
		return history

	case <-time.After(s.contextWait):
		s.logger.Debug("Session", "Context wait timed out, using empty context", map[string]interface{}{"session_id": s.ID})
		return nil
	}
}

// handleFrame processes one inbound envelope in READY state. Malformed
// envelopes produce exactly one error event and leave the connection open.
func (s *Session) handleFrame(raw []byte, history []llm.Message) []llm.Message {
	var envelope dto.InboundEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		_ = s.send(dto.WSError, dto.ErrorData{Message: "Ошибка: неверный формат JSON"})
		return history
	}

	switch envelope.Code {
	case dto.WSSendMessage:
		var data dto.SendMessageData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			_ = s.send(dto.WSError, dto.ErrorData{Message: "Неверный формат данных для SEND_MESSAGE"})
			return history
		}
		if strings.TrimSpace(data.Message) == "" {
			_ = s.send(dto.WSError, dto.ErrorData{Message: "Сообщение не может быть пустым"})
			return history
		}
		return s.chat.ProcessUserMessage(context.Background(), s.ID, data.Message, history, s.send)

	default:
		_ = s.send(dto.WSError, dto.ErrorData{Message: fmt.Sprintf("Неизвестный код сообщения: %s", envelope.Code)})
		return history
	}
}

func (s *Session) writeEnvelope(code dto.WSCode, data interface{}) error {
	payload, err := json.Marshal(dto.Envelope{Code: code, Data: data})
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}
