package dto

import "encoding/json"

// WSCode identifies a websocket envelope type.
type WSCode string

const (
	// Server -> client
	WSConnectionEstablished WSCode = "CONNECTION_ESTABLISHED"
	WSRequestChatContext    WSCode = "REQUEST_CHAT_CONTEXT"
	WSChatContextReceived   WSCode = "CHAT_CONTEXT_RECEIVED"
	WSStatusGrokProcessing  WSCode = "STATUS_GROK_PROCESSING"
	WSStatusRagProcessing   WSCode = "STATUS_RAG_PROCESSING"
	WSStatusStolotoFetching WSCode = "STATUS_STOLOTO_FETCHING"
	WSResponseMessage       WSCode = "RESPONSE_MESSAGE"
	WSError                 WSCode = "ERROR"

	// Client -> server
	WSChatContext WSCode = "CHAT_CONTEXT"
	WSSendMessage WSCode = "SEND_MESSAGE"
)

// Envelope is the wire frame exchanged over the chat socket.
type Envelope struct {
	Code WSCode      `json:"code"`
	Data interface{} `json:"data"`
}

// InboundEnvelope defers payload decoding until the code is known.
type InboundEnvelope struct {
	Code WSCode          `json:"code"`
	Data json.RawMessage `json:"data"`
}

// ChatTurn is one {role, content} entry of the rolling conversation context.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SendMessageData is the SEND_MESSAGE payload.
type SendMessageData struct {
	Message string `json:"message"`
}

// StatusData accompanies the processing status codes.
type StatusData struct {
	Message string `json:"message"`
}

// ChatResponseData is the terminal RESPONSE_MESSAGE payload. Content is the
// raw router result (string or parsed structure); FormattedText is the
// user-facing rendering of it.
type ChatResponseData struct {
	Action        string      `json:"action"`
	Content       interface{} `json:"content"`
	FormattedText string      `json:"formatted_text"`
}

// ErrorData is the ERROR payload. Error carries a short diagnostic and is
// omitted for plain protocol violations.
type ErrorData struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ContextReceivedData acknowledges a stored client context.
type ContextReceivedData struct {
	Count int `json:"count"`
}
