package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/musicbesties/api/internal/llm"
	"github.com/musicbesties/api/internal/model"
	"github.com/musicbesties/api/pkg/logger"
	"github.com/musicbesties/api/pkg/metrics"
)

// ApologyText is returned whenever the language model cannot answer.
const ApologyText = "I'm having trouble connecting to my brain right now. Can you try again in a moment?"

const personaPrompt = "You are the AI assistant for Music Besties, an app that helps users curate their music obsessions.\n" +
	"Your role is to help users discover music, organize their favorite artists, and engage with their music interests.\n" +
	"\n" +
	"Keep your responses friendly, concise, and focused on music curation."

const (
	DefaultModel      = "gpt-3.5-turbo"
	DefaultLLMTimeout = 30 * time.Second

	tracerName = "github.com/musicbesties/api/internal/service"
)

// Sampling parameters sent with every completion.
const (
	replyTemperature = 0.7
	replyMaxTokens   = 500
	replyTopP        = 1.0
	replyFreqPenalty = 0.0
	replyPresPenalty = 0.0
)

// Fallback reasons, used as metric labels.
const (
	fallbackNoClient   = "no_client"
	fallbackUpstream   = "upstream_error"
	fallbackEmptyReply = "empty_reply"
)

var (
	curationTriggers   = []string{"music curation", "favorite artist"}
	artistInfoTriggers = []string{"artist information", "tell me about"}

	errEmptyCompletion = errors.New("empty completion")
)

// Delegate answers chat messages with a language model.
type Delegate struct {
	client  llm.Client
	model   string
	timeout time.Duration
	logger  *logger.Logger
	tracer  trace.Tracer
}

// NewDelegate creates a delegate. A nil client makes every reply the apology.
func NewDelegate(client llm.Client, modelName string, timeout time.Duration, log *logger.Logger) *Delegate {
	if modelName == "" {
		modelName = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Delegate{
		client:  client,
		model:   modelName,
		timeout: timeout,
		logger:  log.Named("llm_delegate"),
		tracer:  otel.Tracer(tracerName),
	}
}

// Model returns the configured model name.
func (d *Delegate) Model() string {
	return d.model
}

// Reply produces the model's answer to message. It never fails: any upstream
// problem yields the apology reply.
func (d *Delegate) Reply(ctx context.Context, message string, profile *model.Profile, history []model.Message) *model.ChatReply {
	if message == model.StartConversation {
		return welcomeReply()
	}

	ctx, span := d.tracer.Start(ctx, "llm.reply", trace.WithAttributes(
		attribute.String("llm.model", d.model),
		attribute.Int("llm.history_len", len(history)),
	))
	defer span.End()

	if d.client == nil {
		span.SetStatus(codes.Error, "no llm client configured")
		return d.fallback(fallbackNoClient, errors.New("no llm client configured"))
	}

	messages := append(FormatHistory(history), llm.ChatMessage{Role: llm.RoleUser, Content: message})
	req := &llm.CompletionRequest{
		Model:            d.model,
		System:           SystemPrompt(profile),
		Messages:         messages,
		MaxTokens:        replyMaxTokens,
		Temperature:      replyTemperature,
		TopP:             replyTopP,
		FrequencyPenalty: replyFreqPenalty,
		PresencePenalty:  replyPresPenalty,
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	resp, err := d.client.Complete(callCtx, req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordLLMCompletion(d.model, "error", elapsed, 0, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return d.fallback(fallbackUpstream, err)
	}
	metrics.RecordLLMCompletion(d.model, "ok", elapsed, resp.TokensIn, resp.TokensOut)
	span.SetAttributes(
		attribute.Int("llm.tokens_in", resp.TokensIn),
		attribute.Int("llm.tokens_out", resp.TokensOut),
	)

	if strings.TrimSpace(resp.Content) == "" {
		span.SetStatus(codes.Error, errEmptyCompletion.Error())
		return d.fallback(fallbackEmptyReply, errEmptyCompletion)
	}

	modelName := resp.Model
	if modelName == "" {
		modelName = d.model
	}
	reply := newReply(resp.Content, processedByLLM)
	reply.Message.Metadata["model"] = modelName
	reply.SuggestedActions, reply.ContextModules = parseTriggers(resp.Content)
	return reply
}

func (d *Delegate) fallback(reason string, err error) *model.ChatReply {
	d.logger.Warn("llm reply failed, using fallback",
		zap.String("reason", reason),
		zap.String("model", d.model),
		zap.Error(err),
	)
	metrics.RecordLLMFallback(reason)

	reply := newReply(ApologyText, processedByLLM)
	reply.Message.Metadata["fallback"] = true
	return reply
}

// SystemPrompt builds the system instruction for a user.
func SystemPrompt(profile *model.Profile) string {
	var b strings.Builder
	b.WriteString(personaPrompt)

	if profile == nil {
		return b.String()
	}

	username := profile.Username
	if username == "" {
		username = "the user"
	}
	b.WriteString("\n\nYou are speaking with ")
	b.WriteString(username)
	b.WriteString(".")

	if profile.HasPrimaryArtist() {
		b.WriteString(" Their primary music obsession is associated with artist ID: ")
		b.WriteString(profile.PrimaryArtist())
		b.WriteString(".")
	}
	return b.String()
}

// FormatHistory converts chat history into model turns, keeping order.
// Messages sent by the AI become assistant turns; everything else is a user turn.
func FormatHistory(history []model.Message) []llm.ChatMessage {
	out := make([]llm.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Sender == model.SenderAI {
			role = llm.RoleAssistant
		}
		out = append(out, llm.ChatMessage{Role: role, Content: m.Content})
	}
	return out
}

func parseTriggers(text string) ([]model.SuggestedAction, []model.ContextModule) {
	lower := strings.ToLower(text)
	actions := []model.SuggestedAction{}
	modules := []model.ContextModule{}

	if containsAny(lower, curationTriggers) {
		actions = append(actions, curateAction("Start Music Curation"))
	}
	if containsAny(lower, artistInfoTriggers) {
		modules = append(modules, model.ContextModule{
			ID:     "artist_info",
			Type:   "artist_information",
			Action: "LOAD_MODULE",
		})
	}
	return actions, modules
}
