// Package llm defines the provider abstraction the assistant talks to.
//
// Providers only know about messages and stream chunks. Prompting, parsing
// and event emission live in the assistant and app packages.
package llm

import (
	"context"

	"github.com/entrhq/wingman/pkg/types"
)

// Provider is a chat-completion backend that accepts multimodal messages.
type Provider interface {
	// StreamCompletion sends messages and streams back response chunks.
	//
	// The channel is closed when the response finishes or fails. Stream-time
	// failures arrive as a chunk with Error set; the returned error covers only
	// failures to start the request.
	StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *StreamChunk, error)

	// Complete sends messages and returns the full assistant reply.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModelInfo returns information about the model in use.
	GetModelInfo() *types.ModelInfo

	// GetModel returns the model name.
	GetModel() string
}

// Collect drains a stream into a single message, calling onToken for every
// content delta. onToken may be nil.
func Collect(stream <-chan *StreamChunk, onToken func(string)) (*types.Message, error) {
	var content string
	role := string(types.RoleAssistant)

	for chunk := range stream {
		if chunk.IsError() {
			return nil, chunk.Error
		}
		if chunk.Role != "" {
			role = chunk.Role
		}
		if chunk.Content != "" {
			content += chunk.Content
			if onToken != nil {
				onToken(chunk.Content)
			}
		}
	}

	return &types.Message{Role: types.MessageRole(role), Content: content}, nil
}
