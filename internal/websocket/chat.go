// FILE: internal/websocket/chat.go
// PURPOSE: Bidirectional chat transport for kiosk front-ends. Each frame
// is one visitor turn; the reply frame carries the full unified response
// so the client can render text and drive the avatar emotion.

package websocket

import (
	"context"
	"encoding/json"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/pkg/logger"
	"ai-concierge-be/internal/service"
)

type ChatHandler struct {
	service service.IConciergeService
	logger  logger.ILogger
}

func NewChatHandler(service service.IConciergeService, log logger.ILogger) *ChatHandler {
	return &ChatHandler{service: service, logger: log}
}

type errorFrame struct {
	Error string `json:"error"`
}

// Serve runs the read loop for one kiosk connection. A connection without
// a session id in the first frame gets one assigned so follow-up turns
// share context.
func (h *ChatHandler) Serve(conn *websocket.Conn) {
	defer conn.Close()

	assignedSession := uuid.NewString()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var request dto.AskRequest
		if err := json.Unmarshal(raw, &request); err != nil {
			h.writeError(conn, "invalid message")
			continue
		}
		if request.Text == "" {
			h.writeError(conn, "text is required")
			continue
		}
		if request.SessionId == "" {
			request.SessionId = assignedSession
		}

		res, err := h.service.Handle(context.Background(), &request)
		if err != nil {
			h.logger.Error("Websocket", "Turn handling failed", map[string]interface{}{"error": err.Error()})
			h.writeError(conn, "internal error")
			continue
		}

		payload, err := json.Marshal(res)
		if err != nil {
			h.writeError(conn, "internal error")
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (h *ChatHandler) writeError(conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(errorFrame{Error: msg})
	_ = conn.WriteMessage(websocket.TextMessage, payload)
}
