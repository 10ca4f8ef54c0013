package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Sahiljangra115/Aurora-chat/internal/analytics"
	"github.com/Sahiljangra115/Aurora-chat/internal/llm"
	"github.com/Sahiljangra115/Aurora-chat/internal/llm/ollama"
	"github.com/Sahiljangra115/Aurora-chat/internal/llm/openrouter"
	"github.com/Sahiljangra115/Aurora-chat/internal/platform/metrics"
	"github.com/Sahiljangra115/Aurora-chat/internal/registry"
	"github.com/Sahiljangra115/Aurora-chat/internal/store/cache"
	"github.com/Sahiljangra115/Aurora-chat/internal/store/model"
)

// NoResponse replaces a completion whose text is empty after trimming.
const NoResponse = "No response"

const tracerName = "github.com/Sahiljangra115/Aurora-chat/internal/gateway"

// RemoteTransport is the aggregator side of dispatch.
type RemoteTransport interface {
	Chat(ctx context.Context, req *openrouter.ChatRequest, credential string) (*openrouter.ChatResponse, error)
}

// LocalTransport is the local model server side of dispatch.
type LocalTransport interface {
	Chat(ctx context.Context, req *ollama.ChatRequest) (*ollama.ChatResponse, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Service defines the chat dispatch logic.
type Service interface {
	// Chat resolves, dispatches and normalizes one chat request.
	Chat(ctx context.Context, in ChatInput) (*ChatResult, error)
	Resolve(in ChatInput) (*ResolvedRequest, error)
	// ListModels returns the models a provider can run. Remote providers
	// have no enumeration and always return an empty list.
	ListModels(ctx context.Context, providerID string) ([]string, error)
	Providers() []registry.Provider
	DefaultProvider() string
}

// ChatResult is the normalized answer. Usage is provider defined: the raw
// aggregator usage object, or the local eval count.
type ChatResult struct {
	Message string `json:"message"`
	Usage   any    `json:"usage"`
}

// Settings are the immutable values the service reads from configuration.
type Settings struct {
	DefaultProvider string
	// DefaultCredential is the last fallback for remote providers.
	DefaultCredential string
	// ModelsTTL enables model list caching when positive.
	ModelsTTL time.Duration
}

type Dependencies struct {
	Registry *registry.Registry
	Remote   RemoteTransport
	Local    LocalTransport
	Ingestor analytics.Ingestor
	Cache    cache.CacheService
	Logger   *zap.Logger
}

type service struct {
	logger            *zap.Logger
	registry          *registry.Registry
	remote            RemoteTransport
	local             LocalTransport
	ingestor          analytics.Ingestor
	cache             cache.CacheService
	tracer            trace.Tracer
	defaultProvider   string
	defaultCredential string
	modelsTTL         time.Duration
}

func NewService(settings Settings, deps Dependencies) Service {
	s := &service{
		logger:            deps.Logger,
		registry:          deps.Registry,
		remote:            deps.Remote,
		local:             deps.Local,
		ingestor:          deps.Ingestor,
		cache:             deps.Cache,
		tracer:            otel.Tracer(tracerName),
		defaultProvider:   settings.DefaultProvider,
		defaultCredential: settings.DefaultCredential,
		modelsTTL:         settings.ModelsTTL,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.ingestor == nil {
		s.ingestor = analytics.Noop{}
	}
	return s
}

func (s *service) Providers() []registry.Provider {
	return s.registry.List()
}

func (s *service) DefaultProvider() string {
	return s.defaultProvider
}

func (s *service) Chat(ctx context.Context, in ChatInput) (*ChatResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "gateway.Chat")
	defer span.End()

	req, err := s.Resolve(in)
	if err != nil {
		s.observe(span, nil, in, nil, err, start)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("aurora.provider", req.Provider.ID),
		attribute.String("aurora.provider_kind", string(req.Provider.Kind)),
		attribute.String("aurora.model", req.Model),
		attribute.Int("aurora.history_length", len(req.History)),
	)

	var result *ChatResult
	switch req.Provider.Kind {
	case llm.Remote:
		result, err = s.chatRemote(ctx, req)
	case llm.Local:
		result, err = s.chatLocal(ctx, req)
	default:
		err = fmt.Errorf("provider %q has unsupported kind %q", req.Provider.ID, req.Provider.Kind)
	}

	s.observe(span, req, in, result, err, start)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) chatRemote(ctx context.Context, req *ResolvedRequest) (*ChatResult, error) {
	resp, err := s.remote.Chat(ctx, &openrouter.ChatRequest{
		Model:       req.Model,
		Messages:    req.History,
		Temperature: req.Params.Temperature,
		TopP:        req.Params.TopP,
	}, req.Credential)
	if err != nil {
		return nil, err
	}

	result := &ChatResult{Message: normalize(resp.Choices[0].Message.Content)}
	if len(resp.Usage) > 0 {
		result.Usage = resp.Usage
	}
	return result, nil
}

func (s *service) chatLocal(ctx context.Context, req *ResolvedRequest) (*ChatResult, error) {
	resp, err := s.local.Chat(ctx, &ollama.ChatRequest{
		Model:    req.Model,
		Messages: req.History,
		Options: ollama.Options{
			Temperature: req.Params.Temperature,
			TopP:        req.Params.TopP,
		},
	})
	if err != nil {
		return nil, err
	}

	var content string
	if resp.Message != nil {
		content = resp.Message.Content
	}
	result := &ChatResult{Message: normalize(content)}
	if resp.EvalCount != nil {
		result.Usage = *resp.EvalCount
	}
	return result, nil
}

func normalize(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return NoResponse
	}
	return content
}

// observe logs, meters, traces and records one chat call.
func (s *service) observe(span trace.Span, req *ResolvedRequest, in ChatInput, result *ChatResult, err error, start time.Time) {
	latency := time.Since(start)

	entry := &model.RequestLog{
		ID:            uuid.NewString(),
		ProviderID:    in.ProviderID,
		Outcome:       model.OutcomeOK,
		LatencyMS:     latency.Milliseconds(),
		HistoryLength: len(in.History),
		CreatedAt:     time.Now().UTC(),
	}
	if req != nil {
		entry.ProviderID = req.Provider.ID
		entry.ProviderKind = string(req.Provider.Kind)
		entry.ModelID = req.Model
		entry.HistoryLength = len(req.History)
	}

	switch {
	case err == nil:
		entry.ResponseChars = len(result.Message)
		entry.PromptTokens, entry.CompletionTokens = usageTokens(result.Usage)
		s.logger.Info("Provider responded",
			zap.String("provider", entry.ProviderID),
			zap.String("model", entry.ModelID),
			zap.Int("chars", entry.ResponseChars),
			zap.Duration("latency", latency),
		)
	case llm.IsValidation(err):
		entry.Outcome = model.OutcomeValidationError
		entry.ErrorMessage = err.Error()
		s.logger.Warn("Chat request rejected",
			zap.String("provider", entry.ProviderID),
			zap.String("model", entry.ModelID),
			zap.String("reason", err.Error()),
		)
	default:
		entry.Outcome = model.OutcomeTransportError
		entry.ErrorMessage = err.Error()
		s.logger.Error("Chat request failed",
			zap.String("provider", entry.ProviderID),
			zap.String("model", entry.ModelID),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	// unknown ids come straight from the caller; keep them out of metric labels
	metricProvider := entry.ProviderID
	if req == nil {
		metricProvider = "unresolved"
	}
	metrics.ObserveProvider(metricProvider, entry.ProviderKind, entry.Outcome, latency)

	s.ingestor.Log(entry)
}

// usageTokens extracts token counts for the request log. The usage value
// itself is returned to the caller untouched.
func usageTokens(usage any) (prompt, completion *int64) {
	switch u := usage.(type) {
	case int:
		n := int64(u)
		return nil, &n
	case json.RawMessage:
		var counts struct {
			PromptTokens     *int64 `json:"prompt_tokens"`
			CompletionTokens *int64 `json:"completion_tokens"`
		}
		if err := json.Unmarshal(u, &counts); err != nil {
			return nil, nil
		}
		return counts.PromptTokens, counts.CompletionTokens
	}
	return nil, nil
}

func (s *service) ListModels(ctx context.Context, providerID string) ([]string, error) {
	if providerID == "" {
		providerID = s.defaultProvider
	}
	provider, ok := s.registry.Lookup(providerID)
	if !ok {
		return nil, llm.ValidationError("Unknown provider '%s'", providerID)
	}

	if provider.Kind != llm.Local {
		return []string{}, nil
	}

	caching := s.cache != nil && s.modelsTTL > 0
	key := "models:" + provider.ID

	if caching {
		var cached []string
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Model cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	models, err := s.local.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	if caching {
		if err := s.cache.Set(ctx, key, models, s.modelsTTL); err != nil {
			s.logger.Warn("Model cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return models, nil
}
