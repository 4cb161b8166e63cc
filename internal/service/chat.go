// Package service provides business logic for the Music Besties API.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/musicbesties/api/internal/config"
	"github.com/musicbesties/api/internal/model"
	"github.com/musicbesties/api/internal/store"
	"github.com/musicbesties/api/pkg/logger"
	"github.com/musicbesties/api/pkg/metrics"
)

// EventPublisher records chat replies somewhere outside the request.
type EventPublisher interface {
	PublishChatEvent(ctx context.Context, event *model.ChatEvent) error
}

// ChatInput is one inbound chat message.
type ChatInput struct {
	Message        string
	UserID         string
	ConversationID string
	Context        *model.ChatContext
	// AuthenticatedUserID comes from a verified bearer token and wins over UserID.
	AuthenticatedUserID string
}

// ChatService answers chat messages.
type ChatService struct {
	engine   string
	store    store.Store
	delegate *Delegate
	events   EventPublisher
	logger   *logger.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewChatService creates a chat service. engine is config.EngineRules or
// config.EngineLLM and is fixed for the life of the service. events may be nil.
func NewChatService(engine string, st store.Store, delegate *Delegate, events EventPublisher, log *logger.Logger) *ChatService {
	if log == nil {
		log = logger.NewNop()
	}
	if delegate == nil {
		delegate = NewDelegate(nil, "", 0, log)
	}
	return &ChatService{
		engine:   engine,
		store:    st,
		delegate: delegate,
		events:   events,
		logger:   log.Named("chat"),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

// Engine returns the engine replies are produced with.
func (s *ChatService) Engine() string {
	return s.engine
}

// Handle produces the reply to one chat message.
func (s *ChatService) Handle(ctx context.Context, in ChatInput) (*model.ChatReply, error) {
	userID := in.AuthenticatedUserID
	if userID == "" {
		userID = in.UserID
	}
	if userID == "" {
		return nil, ErrAuthorizationRequired
	}

	ctx, span := s.tracer.Start(ctx, "chat.handle", trace.WithAttributes(
		attribute.String("chat.engine", s.engine),
		attribute.String("chat.user_id", userID),
	))
	defer span.End()

	profile := s.lookupProfile(ctx, userID)

	var history []model.Message
	if in.Context != nil {
		history = in.Context.ConversationHistory
	}

	var (
		reply  *model.ChatReply
		intent Intent
	)
	if s.engine == config.EngineLLM {
		reply = s.delegate.Reply(ctx, in.Message, profile, history)
	} else {
		intent = Classify(in.Message)
		input := ComposeInput{Intent: intent, UserID: userID, Profile: profile}
		if intent == IntentArtistLookup && profile.HasPrimaryArtist() {
			input.Artist, input.ArtistLookupFailed = s.lookupArtist(ctx, profile.PrimaryArtist())
		}
		reply = Compose(input)
	}

	s.finish(ctx, span, reply, userID, in.ConversationID, intent)
	return reply, nil
}

// Init returns the welcome reply for a new conversation.
func (s *ChatService) Init(ctx context.Context, userID string) *model.ChatReply {
	reply := welcomeReply()
	s.stamp(reply)
	metrics.RecordChatReply(s.engine, string(IntentStart))
	s.logger.Debug("chat initialised", zap.String("user_id", userID))
	return reply
}

func (s *ChatService) lookupProfile(ctx context.Context, userID string) *model.Profile {
	if s.store == nil {
		return nil
	}
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			metrics.ProfileLookupFailures.Inc()
			s.logger.Warn("profile lookup failed, continuing without profile",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
		return nil
	}
	return profile
}

// lookupArtist returns the artist, or nil when it does not exist. The bool
// reports a lookup error other than not found.
func (s *ChatService) lookupArtist(ctx context.Context, artistID string) (*model.Artist, bool) {
	artist, err := s.store.GetArtist(ctx, artistID)
	switch {
	case err == nil:
		return artist, false
	case errors.Is(err, store.ErrNotFound):
		return nil, false
	default:
		s.logger.Warn("artist lookup failed",
			zap.String("artist_id", artistID),
			zap.Error(err),
		)
		return nil, true
	}
}

func (s *ChatService) stamp(reply *model.ChatReply) {
	ts := s.now().UTC()
	reply.Message.Timestamp = &ts
}

func (s *ChatService) finish(ctx context.Context, span trace.Span, reply *model.ChatReply, userID, conversationID string, intent Intent) {
	s.stamp(reply)

	intentLabel := string(intent)
	if intentLabel == "" {
		intentLabel = "llm"
	}
	fallback, _ := reply.Message.Metadata["fallback"].(bool)

	metrics.RecordChatReply(s.engine, intentLabel)
	span.SetAttributes(
		attribute.String("chat.intent", intentLabel),
		attribute.Int("chat.actions", len(reply.SuggestedActions)),
		attribute.Int("chat.modules", len(reply.ContextModules)),
		attribute.Bool("chat.sideboard", reply.SideboardContent != nil),
		attribute.Bool("chat.fallback", fallback),
	)

	s.logger.Debug("chat reply",
		zap.String("user_id", userID),
		zap.String("conversation_id", conversationID),
		zap.String("engine", s.engine),
		zap.String("intent", intentLabel),
		zap.Int("actions", len(reply.SuggestedActions)),
	)

	if s.events == nil {
		return
	}

	event := &model.ChatEvent{
		ID:             uuid.NewString(),
		UserID:         userID,
		ConversationID: conversationID,
		Engine:         s.engine,
		Intent:         intentLabel,
		Fallback:       fallback,
		ActionCount:    len(reply.SuggestedActions),
		ModuleCount:    len(reply.ContextModules),
		Sideboard:      reply.SideboardContent != nil,
		CreatedAt:      *reply.Message.Timestamp,
	}
	if err := s.events.PublishChatEvent(ctx, event); err != nil {
		metrics.ChatEventsPublished.WithLabelValues("error").Inc()
		s.logger.Warn("failed to publish chat event",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		return
	}
	metrics.ChatEventsPublished.WithLabelValues("ok").Inc()
}
