package stream

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hammall/hamra/backend/internal/model/chat"
	chatService "github.com/hammall/hamra/backend/internal/service/chat"
	"github.com/hammall/hamra/backend/pkg/utils"
)

// Handler streams one chat turn via Server-Sent Events: the stored user
// message, a typing notice, the bot reply and an end marker.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates a new stream handler
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// StreamResponse is the data payload of every event.
type StreamResponse struct {
	Event         string        `json:"event"`
	SessionID     string        `json:"sessionId,omitempty"`
	Message       *chat.Message `json:"message,omitempty"`
	TypingDelayMs int64         `json:"typingDelayMs,omitempty"`
	Finished      bool          `json:"finished,omitempty"`
	Error         string        `json:"error,omitempty"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := r.URL.Query().Get("message")

	if userMessage == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	if err := h.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
		log.Printf("[stream] session=%s: %v", sessionID, err)
	}
}

// HandleStreamRequest records userMessage and streams the reply. Errors found
// before the stream opens are written as JSON responses.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return errors.New("streaming unsupported")
	}

	turn, err := h.chatSvc.Converse(ctx, sessionID, userMessage, func(userMsg chat.Message) {
		utils.SetupSSEHeaders(w)
		w.WriteHeader(http.StatusOK)

		h.send(w, flusher, StreamResponse{Event: "user", SessionID: sessionID, Message: &userMsg})
		h.send(w, flusher, StreamResponse{
			Event:         "typing",
			SessionID:     sessionID,
			TypingDelayMs: h.chatSvc.TypingDelay().Milliseconds(),
		})
	})
	switch {
	case err == nil:
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return err
	case errors.Is(err, chatService.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return err
	default:
		utils.RespondError(w, http.StatusInternalServerError, "failed to save message")
		return err
	}

	if ctx.Err() != nil {
		log.Printf("[stream] client left session=%s before reply; reply kept in log", sessionID)
		return nil
	}

	h.send(w, flusher, StreamResponse{Event: "message", SessionID: sessionID, Message: &turn.Bot})
	h.send(w, flusher, StreamResponse{Event: "end", SessionID: sessionID, Finished: true})

	log.Printf("[stream] completed response for session=%s", sessionID)
	return nil
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	if err := utils.SendSSEEvent(w, flusher, response.Event, response); err != nil {
		log.Printf("[stream] write %s event failed: %v", response.Event, err)
	}
}
