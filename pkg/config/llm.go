package config

import (
	"sync"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	// SectionIDLLM is the identifier for the LLM settings section
	SectionIDLLM = "llm"

	defaultMaxPromptTokens    = 32000
	defaultMaxImageMegapixels = 2.0
)

// LLMSection holds the model endpoint and request limits.
type LLMSection struct {
	Model              string  `json:"model"`
	BaseURL            string  `json:"base_url"`
	APIKey             string  `json:"api_key"`
	MaxPromptTokens    int     `json:"max_prompt_tokens"`
	MaxImageMegapixels float64 `json:"max_image_megapixels"`
	mu                 sync.RWMutex
}

// NewLLMSection creates the section with defaults. An empty model or base URL
// means the provider default.
func NewLLMSection() *LLMSection {
	return &LLMSection{
		MaxPromptTokens:    defaultMaxPromptTokens,
		MaxImageMegapixels: defaultMaxImageMegapixels,
	}
}

// ID returns the section identifier.
func (s *LLMSection) ID() string {
	return SectionIDLLM
}

// Title returns the section title.
func (s *LLMSection) Title() string {
	return "LLM Settings"
}

// Description returns the section description.
func (s *LLMSection) Description() string {
	return "Model endpoint and credentials, plus the prompt token budget and the size screenshots are shrunk to before upload."
}

// Data returns the current configuration data.
func (s *LLMSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"model":                s.Model,
		"base_url":             s.BaseURL,
		"api_key":              s.APIKey,
		"max_prompt_tokens":    s.MaxPromptTokens,
		"max_image_megapixels": s.MaxImageMegapixels,
	}
}

// SetData updates the configuration from the provided data.
func (s *LLMSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "model":
			s.Model, err = stringValue(key, value)
		case "base_url":
			s.BaseURL, err = stringValue(key, value)
		case "api_key":
			s.APIKey, err = stringValue(key, value)
		case "max_prompt_tokens":
			s.MaxPromptTokens, err = intValue(key, value)
		case "max_image_megapixels":
			s.MaxImageMegapixels, err = floatValue(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the base URL shape and that limits are not negative.
// Zero limits disable the corresponding check.
func (s *LLMSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return v.ValidateStruct(s,
		v.Field(&s.BaseURL, is.URL),
		v.Field(&s.MaxPromptTokens, v.Min(0)),
		v.Field(&s.MaxImageMegapixels, v.Min(0.0)),
	)
}

// Reset restores defaults.
func (s *LLMSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Model = ""
	s.BaseURL = ""
	s.APIKey = ""
	s.MaxPromptTokens = defaultMaxPromptTokens
	s.MaxImageMegapixels = defaultMaxImageMegapixels
}

// GetModel returns the configured model name.
func (s *LLMSection) GetModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Model
}

// GetBaseURL returns the configured base URL.
func (s *LLMSection) GetBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.BaseURL
}

// GetAPIKey returns the configured API key.
func (s *LLMSection) GetAPIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.APIKey
}

// GetMaxPromptTokens returns the prompt token budget.
func (s *LLMSection) GetMaxPromptTokens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MaxPromptTokens
}

// GetMaxImageMegapixels returns the downscale target.
func (s *LLMSection) GetMaxImageMegapixels() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MaxImageMegapixels
}
