package app

import (
	"context"

	"github.com/entrhq/wingman/pkg/types"
)

// AnalyzeImageFile describes a screenshot. The assistant validates the path.
func (s *State) AnalyzeImageFile(ctx context.Context, path string) (*types.Analysis, error) {
	if s.assistant == nil {
		return nil, ErrNoAssistant
	}
	return s.assistant.AnalyzeImageFile(ctx, path)
}

// AnalyzeAudioFile describes an audio clip. The assistant validates the path.
func (s *State) AnalyzeAudioFile(ctx context.Context, path string) (*types.Analysis, error) {
	if s.assistant == nil {
		return nil, ErrNoAssistant
	}
	return s.assistant.AnalyzeAudioFile(ctx, path)
}

// AnalyzeAudioBase64 describes inline audio recorded by the UI.
func (s *State) AnalyzeAudioBase64(ctx context.Context, data, mimeType string) (*types.Analysis, error) {
	if s.assistant == nil {
		return nil, ErrNoAssistant
	}
	return s.assistant.AnalyzeAudioBase64(ctx, data, mimeType)
}
