package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammall/hamra/backend/internal/analysis/faq"
	"github.com/hammall/hamra/backend/internal/model/chat"
	"github.com/hammall/hamra/backend/internal/model/shop"
	"github.com/hammall/hamra/backend/internal/model/tenant"
	"github.com/hammall/hamra/backend/internal/repository/shops"
)

var (
	ErrProfileRequired = errors.New("tenant id is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message text is required")
)

const (
	DefaultTypingDelay = time.Second
	welcomeMessageID   = 1
)

// Turn is one exchange: the tenant's message and the assistant's answer.
type Turn struct {
	User chat.Message `json:"user"`
	Bot  chat.Message `json:"bot"`
}

type sessionState struct {
	turn    sync.Mutex // held for a whole user/bot exchange
	session chat.Session
	log     []chat.Message
}

// Service owns open chat sessions, their message logs and persistence.
type Service struct {
	responder   *faq.Responder
	shops       shops.Source
	history     *HistoryRepository
	typingDelay time.Duration
	now         func() time.Time
	sleep       func(time.Duration)

	mu       sync.RWMutex
	sessions map[string]*sessionState
}

// Option configures a Service.
type Option func(*Service)

// WithShopSource sets where tenant shops are fetched from when a session opens.
func WithShopSource(src shops.Source) Option {
	return func(s *Service) { s.shops = src }
}

// WithHistory enables persistence of logged-in tenants' logs.
func WithHistory(repo *HistoryRepository) Option {
	return func(s *Service) { s.history = repo }
}

// WithTypingDelay sets the pause before each bot reply. Zero disables it.
func WithTypingDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.typingDelay = d
		}
	}
}

// WithClock overrides the source of message timestamps and ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a chat service answering with responder.
func NewService(responder *faq.Responder, opts ...Option) *Service {
	if responder == nil {
		responder = faq.NewResponder()
	}
	s := &Service{
		responder:   responder,
		typingDelay: DefaultTypingDelay,
		now:         time.Now,
		sleep:       time.Sleep,
		sessions:    make(map[string]*sessionState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TypingDelay reports the configured pause before bot replies.
func (s *Service) TypingDelay() time.Duration {
	return s.typingDelay
}

// CreateSession opens a chat for profile, or an anonymous one when profile is
// nil. Shops are fetched once here and never refreshed. A saved log is
// restored; otherwise the log starts with the welcome message.
func (s *Service) CreateSession(ctx context.Context, profile *tenant.Profile) (chat.Session, []chat.Message, error) {
	if profile != nil && profile.ID <= 0 {
		return chat.Session{}, nil, ErrProfileRequired
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		Shops:     []shop.Snapshot{},
		CreatedAt: s.now().UTC(),
	}
	if profile != nil {
		user := *profile
		session.User = &user
	}

	if session.User != nil && s.shops != nil {
		fetched, err := s.shops.TenantShops(ctx, session.User.ID)
		switch {
		case err != nil:
			log.Printf("[chat] shops unavailable for tenant=%d: %v", session.User.ID, err)
		case fetched != nil:
			session.Shops = fetched
		}
	}

	var messages []chat.Message
	if session.Persistent() && s.history != nil {
		saved, err := s.history.Load(ctx, session.User.ID)
		if err != nil {
			log.Printf("[chat] history unavailable for tenant=%d: %v", session.User.ID, err)
		}
		messages = saved
	}
	if len(messages) == 0 {
		messages = []chat.Message{s.welcome(session.User)}
	}

	state := &sessionState{session: session, log: messages}
	s.mu.Lock()
	s.sessions[session.ID] = state
	s.mu.Unlock()

	log.Printf("[chat] session=%s opened, shops=%d, messages=%d", session.ID, len(session.Shops), len(messages))
	return session, copyLog(messages), nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	state, err := s.state(sessionID)
	if err != nil {
		return chat.Session{}, err
	}
	return state.session, nil
}

// LoadTranscript returns a copy of the session's message log.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	state, err := s.state(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyLog(state.log), nil
}

// CloseSession forgets the session. The persisted log is kept.
func (s *Service) CloseSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// Send records the tenant's message and returns it with the bot's answer.
func (s *Service) Send(ctx context.Context, sessionID, text string) (Turn, error) {
	return s.Converse(ctx, sessionID, text, nil)
}

// Converse runs one exchange while holding the session's turn, so no other
// message can land between the user message and its answer. onUser, when not
// nil, receives the stored user message before the typing delay starts.
func (s *Service) Converse(ctx context.Context, sessionID, text string, onUser func(chat.Message)) (Turn, error) {
	state, err := s.state(sessionID)
	if err != nil {
		return Turn{}, err
	}
	state.turn.Lock()
	defer state.turn.Unlock()

	user, err := s.appendUser(ctx, state, text)
	if err != nil {
		return Turn{}, err
	}
	if onUser != nil {
		onUser(user)
	}
	return Turn{User: user, Bot: s.reply(ctx, state, user.Text)}, nil
}

// ClearHistory deletes the saved log and resets the session to the welcome
// message. Anonymous sessions have nothing saved and keep their log.
func (s *Service) ClearHistory(ctx context.Context, sessionID string) ([]chat.Message, error) {
	state, err := s.state(sessionID)
	if err != nil {
		return nil, err
	}
	state.turn.Lock()
	defer state.turn.Unlock()

	if !state.session.Persistent() {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return copyLog(state.log), nil
	}

	if s.history != nil {
		if err := s.history.Clear(context.WithoutCancel(ctx), state.session.User.ID); err != nil {
			log.Printf("[chat] failed to clear history for session=%s: %v", sessionID, err)
		}
	}

	fresh := []chat.Message{s.welcome(state.session.User)}
	s.mu.Lock()
	state.log = fresh
	s.mu.Unlock()
	return copyLog(fresh), nil
}

func (s *Service) appendUser(ctx context.Context, state *sessionState, text string) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Message{}, ErrEmptyMessage
	}
	msg := s.appendMessage(ctx, state, text, chat.SenderUser)
	return msg, nil
}

// reply waits the typing delay, then answers text against the session's shop
// snapshot. The delay is not interrupted by ctx.
func (s *Service) reply(ctx context.Context, state *sessionState, text string) chat.Message {
	if s.typingDelay > 0 {
		s.sleep(s.typingDelay)
	}
	answer, intent := s.responder.Answer(text, state.session.Shops, state.session.User)
	log.Printf("[chat] session=%s intent=%s", state.session.ID, intent)
	return s.appendMessage(ctx, state, answer, chat.SenderBot)
}

func (s *Service) appendMessage(ctx context.Context, state *sessionState, text string, sender chat.Sender) chat.Message {
	now := s.now()

	s.mu.Lock()
	msg := chat.Message{
		ID:        chat.NextID(state.log, now),
		Text:      text,
		Sender:    sender,
		Timestamp: now.UTC(),
	}
	state.log = append(state.log, msg)
	snapshot := copyLog(state.log)
	s.mu.Unlock()

	s.persist(ctx, state.session, snapshot)
	return msg
}

// persist saves the log even if the request that triggered it went away.
func (s *Service) persist(ctx context.Context, session chat.Session, messages []chat.Message) {
	if !session.Persistent() || s.history == nil {
		return
	}
	if err := s.history.Save(context.WithoutCancel(ctx), session.User.ID, messages); err != nil {
		log.Printf("[chat] failed to save history for session=%s: %v", session.ID, err)
	}
}

func (s *Service) welcome(user *tenant.Profile) chat.Message {
	return chat.Message{
		ID:        welcomeMessageID,
		Text:      faq.Welcome(user),
		Sender:    chat.SenderBot,
		Timestamp: s.now().UTC(),
	}
}

func (s *Service) state(sessionID string) (*sessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return state, nil
}

func copyLog(messages []chat.Message) []chat.Message {
	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied
}
