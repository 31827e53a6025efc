// Package assistant turns screenshots and audio into model requests and parses
// the replies into problem, solution and analysis payloads.
package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/entrhq/wingman/pkg/llm"
	"github.com/entrhq/wingman/pkg/llm/parser"
	"github.com/entrhq/wingman/pkg/llm/tokenizer"
	"github.com/entrhq/wingman/pkg/logging"
	"github.com/entrhq/wingman/pkg/security/pathguard"
	"github.com/entrhq/wingman/pkg/types"
)

const (
	// DefaultMaxPromptTokens bounds the text portion of a request plus a
	// fixed allowance per attached image or clip.
	DefaultMaxPromptTokens = 32000

	// DefaultMaxImageMegapixels is the size screenshots are shrunk to before upload.
	DefaultMaxImageMegapixels = 2.0
)

var (
	// ErrPromptTooLarge is returned before any request is sent when a prompt
	// exceeds the token budget.
	ErrPromptTooLarge = errors.New("prompt exceeds token budget")

	// ErrNoImages is returned when an image-driven request is given no images.
	ErrNoImages = errors.New("no images provided")

	// ErrUnsupportedAudio is returned for audio the model cannot accept.
	ErrUnsupportedAudio = errors.New("unsupported audio format")
)

// Assistant sends prompts to a provider on behalf of the app.
type Assistant struct {
	provider        llm.Provider
	guard           *pathguard.Guard
	tokenizer       *tokenizer.Tokenizer
	logger          *logging.Logger
	maxPromptTokens int
	maxImageMP      float64
	now             func() time.Time
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *Assistant) {
		a.logger = l
	}
}

// WithTokenizer sets the tokenizer used for the prompt budget.
func WithTokenizer(t *tokenizer.Tokenizer) Option {
	return func(a *Assistant) {
		a.tokenizer = t
	}
}

// WithMaxPromptTokens sets the prompt budget. Non-positive disables the check.
func WithMaxPromptTokens(n int) Option {
	return func(a *Assistant) {
		a.maxPromptTokens = n
	}
}

// WithMaxImageMegapixels sets the downscale target. Non-positive disables downscaling.
func WithMaxImageMegapixels(mp float64) Option {
	return func(a *Assistant) {
		a.maxImageMP = mp
	}
}

// WithClock overrides the time source for Analysis timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		a.now = now
	}
}

// New creates an Assistant. guard confines the paths accepted by the
// Analyze*File methods.
func New(provider llm.Provider, guard *pathguard.Guard, opts ...Option) (*Assistant, error) {
	if provider == nil {
		return nil, fmt.Errorf("llm provider is required")
	}
	if guard == nil {
		return nil, fmt.Errorf("path guard is required")
	}

	a := &Assistant{
		provider:        provider,
		guard:           guard,
		logger:          logging.Discard(),
		maxPromptTokens: DefaultMaxPromptTokens,
		maxImageMP:      DefaultMaxImageMegapixels,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.tokenizer == nil {
		a.tokenizer = tokenizer.NewOrEstimator()
	}
	return a, nil
}

// Model returns the provider's model name.
func (a *Assistant) Model() string {
	return a.provider.GetModel()
}

// ExtractProblem asks the model to describe the situation shown in imagePaths.
// The paths come from the screenshot queues and are not re-validated.
func (a *Assistant) ExtractProblem(ctx context.Context, imagePaths []string) (*types.ProblemInfo, error) {
	if len(imagePaths) == 0 {
		return nil, ErrNoImages
	}

	parts, err := a.promptWithImages(extractPrompt, imagePaths)
	if err != nil {
		return nil, err
	}

	reply, err := a.complete(ctx, "extract problem", parts)
	if err != nil {
		return nil, err
	}

	var info types.ProblemInfo
	if err := parser.ParseJSON(reply, &info); err != nil {
		return nil, fmt.Errorf("failed to parse problem: %w", err)
	}
	return &info, nil
}

// GenerateSolution streams a solution for problem, passing each content delta
// to onToken (which may be nil), and parses the final reply.
func (a *Assistant) GenerateSolution(ctx context.Context, problem *types.ProblemInfo, onToken func(string)) (*types.SolutionResponse, error) {
	problemJSON, err := json.MarshalIndent(problem, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode problem: %w", err)
	}

	messages := a.messages(types.TextPart(fmt.Sprintf(solutionPrompt, problemJSON)))
	if err := a.checkBudget(messages); err != nil {
		return nil, err
	}

	a.logger.Infof("generating solution with %s", a.provider.GetModel())
	stream, err := a.provider.StreamCompletion(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("generate solution: %w", err)
	}
	reply, err := llm.Collect(stream, onToken)
	if err != nil {
		return nil, fmt.Errorf("generate solution: %w", err)
	}

	return parseSolution(reply.Content)
}

// DebugSolution asks the model to revise currentCode for problem given the
// extra screenshots in imagePaths.
func (a *Assistant) DebugSolution(ctx context.Context, problem *types.ProblemInfo, currentCode string, imagePaths []string) (*types.SolutionResponse, error) {
	if len(imagePaths) == 0 {
		return nil, ErrNoImages
	}

	problemJSON, err := json.MarshalIndent(problem, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode problem: %w", err)
	}

	parts, err := a.promptWithImages(fmt.Sprintf(debugPrompt, problemJSON, currentCode), imagePaths)
	if err != nil {
		return nil, err
	}

	reply, err := a.complete(ctx, "debug solution", parts)
	if err != nil {
		return nil, err
	}
	return parseSolution(reply)
}

// AnalyzeImageFile describes the screenshot at path. path is validated
// against the guard before it is read.
func (a *Assistant) AnalyzeImageFile(ctx context.Context, path string) (*types.Analysis, error) {
	resolved, err := a.guard.Validate(path)
	if err != nil {
		return nil, err
	}

	parts, err := a.promptWithImages(imagePrompt, []string{resolved})
	if err != nil {
		return nil, err
	}
	return a.analyze(ctx, "analyze image", parts)
}

// AnalyzeAudioFile describes the audio clip at path. path is validated
// against the guard before it is read; its extension selects the format.
func (a *Assistant) AnalyzeAudioFile(ctx context.Context, path string) (*types.Analysis, error) {
	resolved, err := a.guard.Validate(path)
	if err != nil {
		return nil, err
	}
	format, err := audioFormatForPath(resolved)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}

	return a.analyze(ctx, "analyze audio", []types.ContentPart{
		types.TextPart(audioPrompt),
		types.AudioPart(base64.StdEncoding.EncodeToString(data), format),
	})
}

// AnalyzeAudioBase64 describes base64-encoded audio of the given MIME type.
func (a *Assistant) AnalyzeAudioBase64(ctx context.Context, data, mimeType string) (*types.Analysis, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, fmt.Errorf("%w: empty audio data", ErrUnsupportedAudio)
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return nil, fmt.Errorf("%w: audio data is not base64: %v", ErrUnsupportedAudio, err)
	}
	format, err := audioFormat(mimeType)
	if err != nil {
		return nil, err
	}

	return a.analyze(ctx, "analyze audio", []types.ContentPart{
		types.TextPart(audioPrompt),
		types.AudioPart(data, format),
	})
}

func (a *Assistant) analyze(ctx context.Context, op string, parts []types.ContentPart) (*types.Analysis, error) {
	text, err := a.complete(ctx, op, parts)
	if err != nil {
		return nil, err
	}
	return &types.Analysis{Text: strings.TrimSpace(text), Timestamp: a.now().UnixMilli()}, nil
}

// complete runs a non-streaming request and returns the reply text.
func (a *Assistant) complete(ctx context.Context, op string, parts []types.ContentPart) (string, error) {
	messages := a.messages(parts...)
	if err := a.checkBudget(messages); err != nil {
		return "", err
	}

	a.logger.Infof("%s with %s", op, a.provider.GetModel())
	reply, err := a.provider.Complete(ctx, messages)
	if err != nil {
		a.logger.Errorf("%s failed: %v", op, err)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return reply.Content, nil
}

func (a *Assistant) messages(parts ...types.ContentPart) []*types.Message {
	return []*types.Message{
		types.NewSystemMessage(SystemPrompt),
		types.NewUserPartsMessage(parts...),
	}
}

func (a *Assistant) checkBudget(messages []*types.Message) error {
	if a.maxPromptTokens <= 0 {
		return nil
	}
	if n := a.tokenizer.CountMessagesTokens(messages); n > a.maxPromptTokens {
		return fmt.Errorf("%w: %d tokens, limit %d", ErrPromptTooLarge, n, a.maxPromptTokens)
	}
	return nil
}

// promptWithImages reads, downscales and attaches each image after the prompt.
func (a *Assistant) promptWithImages(prompt string, imagePaths []string) ([]types.ContentPart, error) {
	parts := make([]types.ContentPart, 0, len(imagePaths)+1)
	parts = append(parts, types.TextPart(prompt))

	for _, path := range imagePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		scaled, err := downscale(data, a.maxImageMP)
		if err != nil {
			a.logger.Warnf("sending %s at full size: %v", path, err)
			scaled = data
		}
		parts = append(parts, types.ImagePart(pngDataURL(scaled)))
	}
	return parts, nil
}

func parseSolution(text string) (*types.SolutionResponse, error) {
	var resp types.SolutionResponse
	if err := parser.ParseJSON(text, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse solution: %w", err)
	}
	return &resp, nil
}
