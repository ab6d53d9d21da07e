package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/telemetry/metrics"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// Operation names used in logs, metrics and errors.
const (
	OpBrief    = "brief"
	OpMockup   = "mockup"
	OpImage    = "image_analysis"
	OpValidate = "validate_key"
	OpModels   = "list_models"
)

// DefaultImageMIMEType is assumed for reference images sent without a type.
const DefaultImageMIMEType = "image/jpeg"

// Models is the subset of the genai models service the client uses.
// *genai.Models satisfies it.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	List(ctx context.Context, config *genai.ListModelsConfig) (genai.Page[genai.Model], error)
}

// Options configures a Client.
type Options struct {
	Gemini    config.GeminiConfig
	Generator config.GeneratorConfig
	Logger    *slog.Logger
	Metrics   *metrics.Collector
}

// Client relays prompts to Gemini.
type Client struct {
	models  Models
	gemini  config.GeminiConfig
	gen     config.GeneratorConfig
	logger  *slog.Logger
	metrics *metrics.Collector
}

// New creates a client for the Gemini API using opts.Gemini.APIKey.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Gemini.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewWithModels(gc.Models, opts), nil
}

// NewWithModels creates a client over an existing models service.
func NewWithModels(models Models, opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cfg := config.Config{Gemini: opts.Gemini, Generator: opts.Generator}
	config.ApplyDefaults(&cfg)

	return &Client{
		models:  models,
		gemini:  cfg.Gemini,
		gen:     cfg.Generator,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// GenerateBrief produces a design brief for a client message. analysis may
// be nil.
func (c *Client) GenerateBrief(ctx context.Context, text string, analysis *classifier.MessageAnalysis) (string, error) {
	prompt := BuildBriefPrompt(text, analysis)
	resp, err := c.generate(ctx, OpBrief, c.gen.Brief, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	})
	if err != nil {
		return "", err
	}
	return responseText(OpBrief, c.gen.Brief.Model, resp)
}

// Mockup types.
const (
	MockupDescription = "mockup_description"
	MockupImage       = "mockup_image"
)

// Mockup is the result of a visual mockup request.
type Mockup struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Images      []Image   `json:"images,omitempty"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `json:"created_at"`
}

// Image is an inline image returned by the model.
type Image struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// GenerateVisualMockup asks the image model for a mockup of brief. Models
// that only answer in text yield a description-only mockup.
func (c *Client) GenerateVisualMockup(ctx context.Context, brief string) (*Mockup, error) {
	prompt := BuildVisualPrompt(brief)
	resp, err := c.generate(ctx, OpMockup, c.gen.Mockup, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	})
	if err != nil {
		return nil, err
	}

	m := &Mockup{
		ID:        uuid.NewString(),
		Type:      MockupDescription,
		Model:     c.gen.Mockup.Model,
		CreatedAt: time.Now().UTC(),
	}

	var text strings.Builder
	for _, part := range firstCandidateParts(resp) {
		switch {
		case part == nil:
		case part.InlineData != nil && len(part.InlineData.Data) > 0:
			m.Images = append(m.Images, Image{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data})
		case part.Text != "" && !part.Thought:
			text.WriteString(part.Text)
		}
	}
	m.Description = text.String()

	if len(m.Images) > 0 {
		m.Type = MockupImage
	}
	if m.Description == "" && len(m.Images) == 0 {
		return nil, &EmptyResponseError{Operation: OpMockup, Model: c.gen.Mockup.Model}
	}
	return m, nil
}

// AnalyzeReferenceImage describes the design elements of an image.
func (c *Client) AnalyzeReferenceImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("image data is empty")
	}
	if mimeType == "" {
		mimeType = DefaultImageMIMEType
	}

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(ImageAnalysisPrompt),
		genai.NewPartFromBytes(data, mimeType),
	}, genai.RoleUser)

	resp, err := c.generate(ctx, OpImage, c.gen.Image, []*genai.Content{content})
	if err != nil {
		return "", err
	}
	return responseText(OpImage, c.gen.Image.Model, resp)
}

// ModelInfo describes an available model.
type ModelInfo struct {
	Name             string `json:"name"`
	DisplayName      string `json:"display_name"`
	Description      string `json:"description,omitempty"`
	InputTokenLimit  int32  `json:"input_token_limit"`
	OutputTokenLimit int32  `json:"output_token_limit"`
}

// ListModels returns every model available to the key.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	start := time.Now()
	var out []ModelInfo

	cfg := &genai.ListModelsConfig{}
	for {
		page, err := c.models.List(ctx, cfg)
		if err != nil {
			err = classifyError(OpModels, err)
			c.metrics.RecordGeneration(OpModels, Status(err), time.Since(start))
			return nil, err
		}
		for _, m := range page.Items {
			if m == nil {
				continue
			}
			out = append(out, ModelInfo{
				Name:             m.Name,
				DisplayName:      m.DisplayName,
				Description:      m.Description,
				InputTokenLimit:  m.InputTokenLimit,
				OutputTokenLimit: m.OutputTokenLimit,
			})
		}
		if page.NextPageToken == "" {
			break
		}
		cfg = &genai.ListModelsConfig{PageToken: page.NextPageToken}
	}

	c.metrics.RecordGeneration(OpModels, Status(nil), time.Since(start))
	return out, nil
}

// ValidateAPIKey reports whether the API accepts the configured key. Only
// authentication failures yield (false, nil); other failures are returned.
func (c *Client) ValidateAPIKey(ctx context.Context) (bool, error) {
	start := time.Now()
	_, err := c.models.List(ctx, &genai.ListModelsConfig{PageSize: 1})
	err = classifyError(OpValidate, err)
	c.metrics.RecordGeneration(OpValidate, Status(err), time.Since(start))

	var authErr *AuthError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &authErr):
		return false, nil
	}

	// The API answers 400 for malformed keys.
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 400 {
		return false, nil
	}
	return false, err
}

// generate runs one GenerateContent call with retries.
func (c *Client) generate(ctx context.Context, operation string, gc config.GenerationConfig, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	start := time.Now()
	params := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(gc.Temperature),
		TopK:            genai.Ptr(gc.TopK),
		TopP:            genai.Ptr(gc.TopP),
		MaxOutputTokens: gc.MaxOutputTokens,
	}

	attempt := 0
	op := func() (*genai.GenerateContentResponse, error) {
		attempt++
		callCtx, cancel := context.WithTimeout(ctx, c.gemini.Timeout)
		defer cancel()

		resp, err := c.models.GenerateContent(callCtx, gc.Model, contents, params)
		if err == nil {
			return resp, nil
		}

		err = classifyError(operation, err)
		if ctx.Err() != nil || !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	notify := func(err error, wait time.Duration) {
		c.metrics.RecordRetry(operation)
		c.logger.Warn("Gemini request failed, will retry",
			"operation", operation,
			"model", gc.Model,
			"attempt", attempt,
			"backoff", wait,
			"error", err,
		)
	}

	resp, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.gemini.MaxRetries)),
		backoff.WithNotify(notify),
	)

	duration := time.Since(start)
	c.metrics.RecordGeneration(operation, Status(err), duration)
	if err != nil {
		c.logger.Error("Gemini request failed",
			"operation", operation,
			"model", gc.Model,
			"attempts", attempt,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	c.logger.Debug("Gemini request completed",
		"operation", operation,
		"model", gc.Model,
		"attempts", attempt,
		"duration_ms", duration.Milliseconds(),
	)
	return resp, nil
}

func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.gemini.InitialBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = c.gemini.MaxBackoff
	return b
}

func firstCandidateParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return nil
	}
	return cand.Content.Parts
}

func responseText(operation, model string, resp *genai.GenerateContentResponse) (string, error) {
	var b strings.Builder
	for _, part := range firstCandidateParts(resp) {
		if part != nil && part.Text != "" && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", &EmptyResponseError{Operation: operation, Model: model}
	}
	return b.String(), nil
}
