package chat

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hammall/hamra/backend/internal/analysis/faq"
	"github.com/hammall/hamra/backend/internal/model/chat"
	"github.com/hammall/hamra/backend/internal/model/tenant"
	chatService "github.com/hammall/hamra/backend/internal/service/chat"
	"github.com/hammall/hamra/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/quick-questions", h.handleQuickQuestions)
	r.Post("/session", h.handleCreateSession)
	r.Route("/session/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Delete("/", h.handleCloseSession)
		r.Get("/messages", h.handleListMessages)
		r.Post("/messages", h.handleSendMessage)
		r.Delete("/messages", h.handleClearMessages)
	})
}

type quickQuestionsResponse struct {
	Questions []faq.QuickQuestion `json:"questions"`
	Shown     int                 `json:"shown"`
}

type transcriptResponse struct {
	SessionID          string         `json:"sessionId"`
	Messages           []chat.Message `json:"messages"`
	ShowQuickQuestions bool           `json:"showQuickQuestions"`
}

type createSessionResponse struct {
	Session chat.Session `json:"session"`
	transcriptResponse
	QuickQuestions []faq.QuickQuestion `json:"quickQuestions"`
}

func newTranscript(sessionID string, messages []chat.Message) transcriptResponse {
	return transcriptResponse{
		SessionID:          sessionID,
		Messages:           messages,
		ShowQuickQuestions: len(messages) <= 1,
	}
}

func (h *Handler) handleQuickQuestions(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, quickQuestionsResponse{
		Questions: faq.QuickQuestions(),
		Shown:     faq.QuickQuestionsShown,
	})
}

// handleCreateSession 创建会话；未登录时 user 为空。
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		User *tenant.Profile `json:"user"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, messages, err := h.chatSvc.CreateSession(r.Context(), payload.User)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, createSessionResponse{
		Session:            session,
		transcriptResponse: newTranscript(session.ID, messages),
		QuickQuestions:     faq.QuickQuestions(),
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.CloseSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	messages, err := h.chatSvc.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, newTranscript(sessionID, messages))
}

// handleSendMessage 保存用户消息并返回助手回复
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	turn, err := h.chatSvc.Send(r.Context(), chi.URLParam(r, "sessionID"), payload.Text)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, turn)
}

func (h *Handler) handleClearMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	messages, err := h.chatSvc.ClearHistory(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, newTranscript(sessionID, messages))
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chatService.ErrEmptyMessage), errors.Is(err, chatService.ErrProfileRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[chat] request failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
