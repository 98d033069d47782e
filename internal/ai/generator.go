package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

var (
	// ErrNoCredentials is returned by every call when no API key is configured.
	ErrNoCredentials = errors.New("ai: no API key configured")
	// ErrEmptyResponse is returned when the service answers with no usable content.
	ErrEmptyResponse = errors.New("ai: empty response")
)

// CompletionRequest is a single system/user exchange.
type CompletionRequest struct {
	Tag         string // identifies the caller in logs, e.g. "copy:services-1"
	System      string
	User        string
	Temperature float32
	JSONMode    bool
	MaxTokens   int
}

// Completer is the completion-service boundary.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req CompletionRequest) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}

// ImageRequest asks for one rendered image.
type ImageRequest struct {
	Prompt  string
	Size    string // e.g. "1792x1024"; empty uses the generator default
	Quality string // "standard" or "hd"; empty uses the generator default
}

// ImageGenerator is the image-generation boundary. It returns the image URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)
}

// ImageGeneratorFunc adapts a function to ImageGenerator.
type ImageGeneratorFunc func(ctx context.Context, req ImageRequest) (string, error)

// GenerateImage calls f.
func (f ImageGeneratorFunc) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	return f(ctx, req)
}

// Options configures a Generator.
type Options struct {
	APIKey            string
	BaseURL           string // optional, for OpenAI-compatible gateways
	Model             string
	ImageModel        string
	ImageSize         string
	ImageQuality      string
	RequestsPerSecond float64 // <= 0 disables limiting
	Burst             int
	HTTPClient        *http.Client
}

// Generator talks to an OpenAI-compatible API. A Generator without an API key is valid and
// fails every call with ErrNoCredentials.
type Generator struct {
	client       *openai.Client
	limiter      *rate.Limiter
	model        string
	imageModel   string
	imageSize    string
	imageQuality string
}

func NewGenerator(opts Options) *Generator {
	g := &Generator{
		model:        opts.Model,
		imageModel:   opts.ImageModel,
		imageSize:    opts.ImageSize,
		imageQuality: opts.ImageQuality,
		limiter:      rate.NewLimiter(rate.Inf, 0),
	}
	if g.model == "" {
		g.model = openai.GPT4o
	}
	if g.imageModel == "" {
		g.imageModel = openai.CreateImageModelDallE3
	}
	if g.imageSize == "" {
		g.imageSize = openai.CreateImageSize1792x1024
	}
	if g.imageQuality == "" {
		g.imageQuality = openai.CreateImageQualityStandard
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	if strings.TrimSpace(opts.APIKey) == "" {
		return g
	}
	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		config.HTTPClient = opts.HTTPClient
	}
	g.client = openai.NewClientWithConfig(config)
	return g
}

// Enabled reports whether credentials are configured.
func (g *Generator) Enabled() bool {
	return g.client != nil
}

// Complete issues one chat completion and returns the first choice's content.
func (g *Generator) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if g.client == nil {
		return "", ErrNoCredentials
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("ai rate limiter (%s): %w", req.Tag, err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("openai chat completion (%s) failed: %w", req.Tag, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w for %s", ErrEmptyResponse, req.Tag)
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage renders one image and returns its URL.
func (g *Generator) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	if g.client == nil {
		return "", ErrNoCredentials
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("ai rate limiter (image): %w", err)
	}

	size, quality := req.Size, req.Quality
	if size == "" {
		size = g.imageSize
	}
	if quality == "" {
		quality = g.imageQuality
	}
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          g.imageModel,
		N:              1,
		Size:           size,
		Quality:        quality,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", fmt.Errorf("openai image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("%w for image", ErrEmptyResponse)
	}
	return resp.Data[0].URL, nil
}
