package generator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/genai"
)

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeModels struct {
	mu       sync.Mutex
	calls    []generateCall
	generate func(n int, model string, contents []*genai.Content) (*genai.GenerateContentResponse, error)

	pages     []genai.Page[genai.Model]
	listCalls []*genai.ListModelsConfig
	listErr   error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, generateCall{model: model, contents: contents, config: cfg})
	n := len(f.calls)
	f.mu.Unlock()
	return f.generate(n, model, contents)
}

func (f *fakeModels) List(_ context.Context, cfg *genai.ListModelsConfig) (genai.Page[genai.Model], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, cfg)
	if f.listErr != nil {
		return genai.Page[genai.Model]{}, f.listErr
	}
	idx := len(f.listCalls) - 1
	if idx >= len(f.pages) {
		return genai.Page[genai.Model]{}, nil
	}
	return f.pages[idx], nil
}

func (f *fakeModels) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}

func replyWith(text string) func(int, string, []*genai.Content) (*genai.GenerateContentResponse, error) {
	return func(int, string, []*genai.Content) (*genai.GenerateContentResponse, error) {
		return textResponse(text), nil
	}
}

func newTestClient(models Models) (*Client, *metrics.Collector) {
	collector := metrics.NewCollector(config.MetricsConfig{Enabled: true, Namespace: "test"}, nil)
	c := NewWithModels(models, Options{
		Gemini: config.GeminiConfig{
			Timeout:        time.Second,
			MaxRetries:     3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     5 * time.Millisecond,
		},
		Generator: config.GeneratorConfig{BatchDelay: time.Millisecond},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:   collector,
	})
	return c, collector
}

func TestGenerateBrief(t *testing.T) {
	fake := &fakeModels{generate: replyWith("A brief")}
	c, collector := newTestClient(fake)

	analysis := classifier.MustNew(classifier.DefaultRules(), classifier.DefaultWeights()).
		Analyze("I need a logo ASAP")

	brief, err := c.GenerateBrief(context.Background(), "I need a logo ASAP", &analysis)
	if err != nil {
		t.Fatalf("GenerateBrief() error = %v", err)
	}
	if brief != "A brief" {
		t.Errorf("brief = %q, want %q", brief, "A brief")
	}

	if fake.callCount() != 1 {
		t.Fatalf("calls = %d, want 1", fake.callCount())
	}
	call := fake.calls[0]
	if call.model != config.DefaultBriefModel {
		t.Errorf("model = %q, want %q", call.model, config.DefaultBriefModel)
	}
	if call.config.Temperature == nil || *call.config.Temperature != config.DefaultBriefTemperature {
		t.Errorf("temperature = %v, want %v", call.config.Temperature, config.DefaultBriefTemperature)
	}
	if call.config.MaxOutputTokens != config.DefaultBriefMaxTokens {
		t.Errorf("max tokens = %d, want %d", call.config.MaxOutputTokens, config.DefaultBriefMaxTokens)
	}
	prompt := call.contents[0].Parts[0].Text
	if !strings.Contains(prompt, "Design Category: logo") {
		t.Errorf("prompt missing analysis context:\n%s", prompt)
	}

	if n, err := testutil.GatherAndCount(collector.Registry(), "test_generation_requests_total"); err != nil || n != 1 {
		t.Errorf("generation_requests_total series = %d (err %v), want 1", n, err)
	}
}

func TestGenerate_RetriesRateLimit(t *testing.T) {
	fake := &fakeModels{generate: func(n int, _ string, _ []*genai.Content) (*genai.GenerateContentResponse, error) {
		if n < 3 {
			return nil, genai.APIError{Code: 429, Message: "quota"}
		}
		return textResponse("ok"), nil
	}}
	c, _ := newTestClient(fake)

	brief, err := c.GenerateBrief(context.Background(), "logo please", nil)
	if err != nil {
		t.Fatalf("GenerateBrief() error = %v", err)
	}
	if brief != "ok" || fake.callCount() != 3 {
		t.Errorf("brief = %q after %d calls, want ok after 3", brief, fake.callCount())
	}
}

func TestGenerate_ErrorHandling(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int
		check     func(error) bool
	}{
		{
			name:      "auth is permanent",
			err:       genai.APIError{Code: 401, Message: "bad key"},
			wantCalls: 1,
			check:     func(err error) bool { var e *AuthError; return errors.As(err, &e) },
		},
		{
			name:      "bad request is permanent",
			err:       genai.APIError{Code: 400, Message: "invalid"},
			wantCalls: 1,
			check: func(err error) bool {
				var e *APIError
				return errors.As(err, &e) && e.StatusCode == 400
			},
		},
		{
			name:      "server error exhausts retries",
			err:       genai.APIError{Code: 503, Message: "unavailable"},
			wantCalls: 3,
			check: func(err error) bool {
				var e *APIError
				return errors.As(err, &e) && e.StatusCode == 503
			},
		},
		{
			name:      "rate limit exhausts retries",
			err:       genai.APIError{Code: 429, Message: "quota"},
			wantCalls: 3,
			check:     func(err error) bool { var e *RateLimitError; return errors.As(err, &e) },
		},
		{
			name:      "transport errors are retried",
			err:       errors.New("connection reset"),
			wantCalls: 3,
			check:     func(err error) bool { return err != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModels{generate: func(int, string, []*genai.Content) (*genai.GenerateContentResponse, error) {
				return nil, tt.err
			}}
			c, _ := newTestClient(fake)

			_, err := c.GenerateBrief(context.Background(), "logo", nil)
			if !tt.check(err) {
				t.Errorf("unexpected error %T: %v", err, err)
			}
			if fake.callCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", fake.callCount(), tt.wantCalls)
			}
		})
	}
}

func TestGenerate_EmptyResponse(t *testing.T) {
	fake := &fakeModels{generate: func(int, string, []*genai.Content) (*genai.GenerateContentResponse, error) {
		return &genai.GenerateContentResponse{}, nil
	}}
	c, _ := newTestClient(fake)

	_, err := c.GenerateBrief(context.Background(), "logo", nil)
	var empty *EmptyResponseError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyResponseError, got %v", err)
	}
	if Status(err) != "empty" {
		t.Errorf("Status() = %q, want empty", Status(err))
	}
}

func TestGenerateVisualMockup(t *testing.T) {
	t.Run("description only", func(t *testing.T) {
		fake := &fakeModels{generate: replyWith("A clean blue logo")}
		c, _ := newTestClient(fake)

		m, err := c.GenerateVisualMockup(context.Background(), "Brief text")
		if err != nil {
			t.Fatalf("GenerateVisualMockup() error = %v", err)
		}
		if m.Type != MockupDescription || m.Description != "A clean blue logo" {
			t.Errorf("mockup = %+v", m)
		}
		if m.ID == "" || m.Model != config.DefaultMockupModel {
			t.Errorf("mockup id/model not set: %+v", m)
		}
		if !strings.HasPrefix(fake.calls[0].contents[0].Parts[0].Text, "Generate a visual design mockup:") {
			t.Error("mockup prompt prefix missing")
		}
	})

	t.Run("inline image", func(t *testing.T) {
		fake := &fakeModels{generate: func(int, string, []*genai.Content) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: genai.NewContentFromParts([]*genai.Part{
						genai.NewPartFromText("Here it is"),
						genai.NewPartFromBytes([]byte{0x89, 'P', 'N', 'G'}, "image/png"),
					}, genai.RoleModel),
				}},
			}, nil
		}}
		c, _ := newTestClient(fake)

		m, err := c.GenerateVisualMockup(context.Background(), "Brief text")
		if err != nil {
			t.Fatalf("GenerateVisualMockup() error = %v", err)
		}
		if m.Type != MockupImage || len(m.Images) != 1 || m.Images[0].MIMEType != "image/png" {
			t.Errorf("mockup = %+v", m)
		}
	})
}

func TestAnalyzeReferenceImage(t *testing.T) {
	fake := &fakeModels{generate: replyWith("Bold serif typography")}
	c, _ := newTestClient(fake)

	if _, err := c.AnalyzeReferenceImage(context.Background(), nil, ""); err == nil {
		t.Error("expected error for empty image")
	}

	got, err := c.AnalyzeReferenceImage(context.Background(), []byte{0xff, 0xd8}, "")
	if err != nil {
		t.Fatalf("AnalyzeReferenceImage() error = %v", err)
	}
	if got != "Bold serif typography" {
		t.Errorf("analysis = %q", got)
	}

	parts := fake.calls[0].contents[0].Parts
	if len(parts) != 2 || parts[0].Text != ImageAnalysisPrompt {
		t.Fatalf("unexpected parts: %+v", parts)
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MIMEType != DefaultImageMIMEType {
		t.Errorf("image part = %+v, want %s inline data", parts[1].InlineData, DefaultImageMIMEType)
	}
	if *fake.calls[0].config.Temperature != config.DefaultImageTemperature {
		t.Errorf("temperature = %v, want %v", *fake.calls[0].config.Temperature, config.DefaultImageTemperature)
	}
}

func TestListModels(t *testing.T) {
	fake := &fakeModels{pages: []genai.Page[genai.Model]{
		{Items: []*genai.Model{{Name: "models/a", DisplayName: "A"}}, NextPageToken: "next"},
		{Items: []*genai.Model{{Name: "models/b", DisplayName: "B", OutputTokenLimit: 8192}}},
	}}
	c, _ := newTestClient(fake)

	models, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 2 || models[1].Name != "models/b" || models[1].OutputTokenLimit != 8192 {
		t.Errorf("models = %+v", models)
	}
	if fake.listCalls[1].PageToken != "next" {
		t.Errorf("second page token = %q, want next", fake.listCalls[1].PageToken)
	}
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		listErr error
		want    bool
		wantErr bool
	}{
		{"valid", nil, true, false},
		{"rejected", genai.APIError{Code: 403, Message: "denied"}, false, false},
		{"malformed", genai.APIError{Code: 400, Message: "API key not valid"}, false, false},
		{"unavailable", genai.APIError{Code: 503, Message: "down"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(&fakeModels{listErr: tt.listErr})
			got, err := c.ValidateAPIKey(context.Background())
			if got != tt.want || (err != nil) != tt.wantErr {
				t.Errorf("ValidateAPIKey() = %v, %v; want %v, err %v", got, err, tt.want, tt.wantErr)
			}
		})
	}
}

func TestBatchProcess(t *testing.T) {
	fake := &fakeModels{generate: func(_ int, _ string, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
		if strings.Contains(contents[0].Parts[0].Text, "broken") {
			return nil, genai.APIError{Code: 400, Message: "invalid"}
		}
		return textResponse("brief"), nil
	}}
	c, _ := newTestClient(fake)

	results := c.BatchProcess(context.Background(), []BatchRequest{
		{ID: "1", Prompt: "logo"},
		{ID: "2", Prompt: "broken"},
		{ID: "3", Prompt: "flyer"},
	})

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for i, want := range []bool{true, false, true} {
		if results[i].Success != want {
			t.Errorf("result %d success = %v, want %v", i, results[i].Success, want)
		}
		if results[i].Timestamp.IsZero() {
			t.Errorf("result %d has no timestamp", i)
		}
	}
	if results[1].Error == "" || results[0].Brief != "brief" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestBatchProcess_Cancelled(t *testing.T) {
	fake := &fakeModels{generate: replyWith("brief")}
	c, _ := newTestClient(fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := c.BatchProcess(ctx, []BatchRequest{{ID: "1"}, {ID: "2"}})
	for _, r := range results {
		if r.Success || r.Error == "" {
			t.Errorf("result %s should fail after cancel: %+v", r.ID, r)
		}
	}
	if fake.callCount() != 0 {
		t.Errorf("calls = %d, want 0", fake.callCount())
	}
}

func TestBatchProcessFunc_Callback(t *testing.T) {
	c, _ := newTestClient(&fakeModels{generate: replyWith("brief")})

	var seen []string
	results := c.BatchProcessFunc(context.Background(), []BatchRequest{{ID: "a"}, {ID: "b"}}, func(r BatchResult) {
		seen = append(seen, r.ID)
	})

	if len(results) != 2 || strings.Join(seen, ",") != "a,b" {
		t.Errorf("callback saw %v for %d results", seen, len(results))
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(context.Background(), Options{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("New() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{context.Canceled, "canceled"},
		{context.DeadlineExceeded, "timeout"},
		{&RateLimitError{}, "rate_limit"},
		{&AuthError{}, "auth"},
		{&APIError{StatusCode: 500}, "api_error"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
