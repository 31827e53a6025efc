package assistant

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/wingman/pkg/llm/llmtest"
	"github.com/entrhq/wingman/pkg/llm/tokenizer"
	"github.com/entrhq/wingman/pkg/security/pathguard"
	"github.com/entrhq/wingman/pkg/types"
)

const solutionJSON = `{"solution":{"code":"print(1)","problem_statement":"p","context":"c","suggested_responses":["a","b"],"reasoning":"r"}}`

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fixture struct {
	dir      string
	guard    *pathguard.Guard
	provider *llmtest.Provider
	asst     *Assistant
}

func newFixture(t *testing.T, provider *llmtest.Provider, opts ...Option) *fixture {
	t.Helper()
	dir := t.TempDir()
	guard, err := pathguard.NewGuard(dir)
	require.NoError(t, err)

	opts = append([]Option{
		WithTokenizer(tokenizer.Estimator()),
		WithClock(func() time.Time { return time.UnixMilli(1700000000000) }),
	}, opts...)
	a, err := New(provider, guard, opts...)
	require.NoError(t, err)

	return &fixture{dir: guard.Dirs()[0], guard: guard, provider: provider, asst: a}
}

func (f *fixture) write(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestNew_RequiresDependencies(t *testing.T) {
	guard, err := pathguard.NewGuard(t.TempDir())
	require.NoError(t, err)

	_, err = New(nil, guard)
	assert.Error(t, err)
	_, err = New(llmtest.Text("x"), nil)
	assert.Error(t, err)
}

func TestExtractProblem(t *testing.T) {
	f := newFixture(t, llmtest.Text("```json\n" + `{"problem_statement":"Two sum","context":"leetcode","suggested_responses":["hash map"],"reasoning":"O(n)"}` + "\n```"))
	shot := f.write(t, "a.png", pngBytes(t, 4, 4))

	info, err := f.asst.ExtractProblem(context.Background(), []string{shot})
	require.NoError(t, err)
	assert.Equal(t, "Two sum", info.ProblemStatement)
	assert.Equal(t, []string{"hash map"}, info.SuggestedResponses)

	reqs := f.provider.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0], 2)
	assert.Equal(t, types.RoleSystem, reqs[0][0].Role)
	assert.Equal(t, SystemPrompt, reqs[0][0].Content)

	parts := reqs[0][1].Parts
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].Text, "problem_statement")
	assert.Equal(t, types.PartImage, parts[1].Type)
	assert.True(t, strings.HasPrefix(parts[1].ImageURL, "data:image/png;base64,"))
}

func TestExtractProblem_Errors(t *testing.T) {
	t.Run("no images", func(t *testing.T) {
		f := newFixture(t, llmtest.Text("{}"))
		_, err := f.asst.ExtractProblem(context.Background(), nil)
		assert.ErrorIs(t, err, ErrNoImages)
		assert.Equal(t, 0, f.provider.Calls())
	})

	t.Run("missing file", func(t *testing.T) {
		f := newFixture(t, llmtest.Text("{}"))
		_, err := f.asst.ExtractProblem(context.Background(), []string{filepath.Join(f.dir, "gone.png")})
		assert.Error(t, err)
		assert.Equal(t, 0, f.provider.Calls())
	})

	t.Run("malformed reply", func(t *testing.T) {
		f := newFixture(t, llmtest.Text("I think the problem is..."))
		shot := f.write(t, "a.png", pngBytes(t, 2, 2))
		_, err := f.asst.ExtractProblem(context.Background(), []string{shot})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "malformed model output")
	})

	t.Run("provider error", func(t *testing.T) {
		boom := errors.New("rate limited")
		f := newFixture(t, llmtest.New(llmtest.Reply{Err: boom}))
		shot := f.write(t, "a.png", pngBytes(t, 2, 2))
		_, err := f.asst.ExtractProblem(context.Background(), []string{shot})
		assert.ErrorIs(t, err, boom)
	})
}

func TestGenerateSolution_Streams(t *testing.T) {
	chunks := []string{solutionJSON[:10], solutionJSON[10:40], solutionJSON[40:]}
	f := newFixture(t, llmtest.New(llmtest.Reply{Chunks: chunks}))

	var tokens []string
	resp, err := f.asst.GenerateSolution(context.Background(), &types.ProblemInfo{ProblemStatement: "p"}, func(tok string) {
		tokens = append(tokens, tok)
	})
	require.NoError(t, err)
	assert.Equal(t, chunks, tokens)
	assert.Equal(t, "print(1)", resp.Solution.Code)
	assert.Equal(t, []string{"a", "b"}, resp.Solution.SuggestedResponses)

	prompt := f.provider.Requests()[0][1].Text()
	assert.Contains(t, prompt, `"problem_statement": "p"`)
}

func TestGenerateSolution_Cancelled(t *testing.T) {
	f := newFixture(t, llmtest.New(llmtest.Reply{Block: true}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.asst.GenerateSolution(ctx, &types.ProblemInfo{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDebugSolution(t *testing.T) {
	f := newFixture(t, llmtest.Text(solutionJSON))
	shot := f.write(t, "debug.png", pngBytes(t, 2, 2))

	resp, err := f.asst.DebugSolution(context.Background(), &types.ProblemInfo{ProblemStatement: "p"}, "print(0)", []string{shot})
	require.NoError(t, err)
	assert.Equal(t, "print(1)", resp.Solution.Code)

	parts := f.provider.Requests()[0][1].Parts
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].Text, "The current response or approach: print(0)")

	_, err = f.asst.DebugSolution(context.Background(), &types.ProblemInfo{}, "x", nil)
	assert.ErrorIs(t, err, ErrNoImages)
}

func TestAnalyzeImageFile(t *testing.T) {
	f := newFixture(t, llmtest.Text("  A terminal showing a failing test.\n"))
	shot := f.write(t, "img.png", pngBytes(t, 3, 3))

	analysis, err := f.asst.AnalyzeImageFile(context.Background(), shot)
	require.NoError(t, err)
	assert.Equal(t, "A terminal showing a failing test.", analysis.Text)
	assert.Equal(t, int64(1700000000000), analysis.Timestamp)
}

func TestAnalyzeFile_RejectsOutsidePaths(t *testing.T) {
	f := newFixture(t, llmtest.Text("never"))
	outside := filepath.Join(t.TempDir(), "secret.png")
	require.NoError(t, os.WriteFile(outside, pngBytes(t, 1, 1), 0600))

	_, err := f.asst.AnalyzeImageFile(context.Background(), outside)
	assert.ErrorIs(t, err, pathguard.ErrInvalidPath)

	_, err = f.asst.AnalyzeAudioFile(context.Background(), filepath.Join(f.dir, "..", "x.mp3"))
	assert.ErrorIs(t, err, pathguard.ErrInvalidPath)

	assert.Equal(t, 0, f.provider.Calls())
}

func TestAnalyzeAudioFile(t *testing.T) {
	f := newFixture(t, llmtest.Text("Someone asks about the deadline."))
	clip := f.write(t, "clip.mp3", []byte("ID3fake"))

	analysis, err := f.asst.AnalyzeAudioFile(context.Background(), clip)
	require.NoError(t, err)
	assert.Equal(t, "Someone asks about the deadline.", analysis.Text)

	parts := f.provider.Requests()[0][1].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, types.PartAudio, parts[1].Type)
	assert.Equal(t, "mp3", parts[1].AudioFormat)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("ID3fake")), parts[1].AudioData)

	_, err = f.asst.AnalyzeAudioFile(context.Background(), f.write(t, "clip.ogg", []byte("x")))
	assert.ErrorIs(t, err, ErrUnsupportedAudio)
}

func TestAnalyzeAudioBase64(t *testing.T) {
	f := newFixture(t, llmtest.Text("ok"))
	data := base64.StdEncoding.EncodeToString([]byte("RIFFfake"))

	analysis, err := f.asst.AnalyzeAudioBase64(context.Background(), data, "audio/wav")
	require.NoError(t, err)
	assert.Equal(t, "ok", analysis.Text)
	assert.Equal(t, "wav", f.provider.Requests()[0][1].Parts[1].AudioFormat)

	_, err = f.asst.AnalyzeAudioBase64(context.Background(), "", "audio/wav")
	assert.ErrorIs(t, err, ErrUnsupportedAudio)
	_, err = f.asst.AnalyzeAudioBase64(context.Background(), "%%%", "audio/wav")
	assert.ErrorIs(t, err, ErrUnsupportedAudio)
	_, err = f.asst.AnalyzeAudioBase64(context.Background(), data, "audio/flac")
	assert.ErrorIs(t, err, ErrUnsupportedAudio)
	assert.Equal(t, 1, f.provider.Calls())
}

func TestPromptBudget(t *testing.T) {
	f := newFixture(t, llmtest.Text(solutionJSON), WithMaxPromptTokens(10))

	_, err := f.asst.GenerateSolution(context.Background(), &types.ProblemInfo{ProblemStatement: "p"}, nil)
	assert.ErrorIs(t, err, ErrPromptTooLarge)
	assert.Equal(t, 0, f.provider.Calls())
}

func TestImagesAreDownscaled(t *testing.T) {
	f := newFixture(t, llmtest.Text("fine"), WithMaxImageMegapixels(0.5))
	shot := f.write(t, "big.png", pngBytes(t, 2000, 1000))

	_, err := f.asst.AnalyzeImageFile(context.Background(), shot)
	require.NoError(t, err)

	url := f.provider.Requests()[0][1].Parts[1].ImageURL
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 1000, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}
