package config

import (
	"fmt"
	"os"

	"github.com/entrhq/wingman/pkg/llm/openai"
)

// BuildProvider creates an LLM provider based on configuration precedence:
// CLI flags > Environment variables > Config file > Defaults
func BuildProvider(cliModel, cliBaseURL, cliAPIKey, defaultModel string) (*openai.Provider, error) {
	finalModel := cliModel
	finalBaseURL := cliBaseURL
	finalAPIKey := cliAPIKey

	if finalAPIKey == "" {
		finalAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if finalBaseURL == "" {
		finalBaseURL = os.Getenv("OPENAI_BASE_URL")
	}

	if fromFile := GetLLM(); fromFile != nil {
		// The model flag carries a default, so the file wins unless the flag was changed.
		if cliModel == "" || cliModel == defaultModel {
			if m := fromFile.GetModel(); m != "" {
				finalModel = m
			}
		}
		if finalBaseURL == "" {
			finalBaseURL = fromFile.GetBaseURL()
		}
		if finalAPIKey == "" {
			finalAPIKey = fromFile.GetAPIKey()
		}
	}

	if finalModel == "" {
		finalModel = defaultModel
	}
	if finalAPIKey == "" {
		return nil, fmt.Errorf("API key is required. Set OPENAI_API_KEY, pass --api-key, or set llm.api_key in ~/.wingman/config.json")
	}

	opts := []openai.ProviderOption{openai.WithModel(finalModel)}
	if finalBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(finalBaseURL))
	}

	provider, err := openai.NewProvider(finalAPIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	return provider, nil
}
