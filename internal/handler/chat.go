package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/musicbesties/api/internal/middleware"
	"github.com/musicbesties/api/internal/model"
	"github.com/musicbesties/api/internal/service"
	"github.com/musicbesties/api/pkg/logger"
)

// ChatHandler handles chat endpoints.
type ChatHandler struct {
	service *service.ChatService
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: svc,
		logger:  log,
	}
}

// Send handles POST /api/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.service.Handle(ctx, service.ChatInput{
		Message:             req.Message,
		UserID:              req.UserID,
		ConversationID:      req.ConversationID,
		Context:             req.Context,
		AuthenticatedUserID: middleware.GetUserID(ctx),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// Init handles POST /api/chat/init
func (h *ChatHandler) Init(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ChatInitRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.GetUserID(ctx)
	if userID == "" {
		userID = req.UserID
	}
	if userID == "" {
		userID = r.URL.Query().Get("user_id")
	}

	writeJSON(w, http.StatusOK, h.service.Init(ctx, userID))
}
