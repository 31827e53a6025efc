package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultTestModel = "test-default-model"

func TestBuildProvider(t *testing.T) {
	fileConfig := `{"version":"1.0","sections":{"llm":{"model":"file-model","base_url":"https://file.url","api_key":"file-key"}}}`

	tests := []struct {
		name        string
		cliModel    string
		cliBaseURL  string
		cliAPIKey   string
		env         map[string]string
		file        string
		wantModel   string
		wantBaseURL string
		wantErr     bool
	}{
		{
			name:        "flags only",
			cliModel:    "cli-model",
			cliBaseURL:  "https://cli.url",
			cliAPIKey:   "cli-key",
			file:        `{}`,
			wantModel:   "cli-model",
			wantBaseURL: "https://cli.url",
		},
		{
			name:        "config file only",
			cliModel:    defaultTestModel,
			file:        fileConfig,
			wantModel:   "file-model",
			wantBaseURL: "https://file.url",
		},
		{
			name:        "flags override file",
			cliModel:    "cli-model",
			cliBaseURL:  "https://cli.url",
			cliAPIKey:   "cli-key",
			file:        fileConfig,
			wantModel:   "cli-model",
			wantBaseURL: "https://cli.url",
		},
		{
			name:        "env overrides file",
			cliModel:    defaultTestModel,
			env:         map[string]string{"OPENAI_API_KEY": "env-key", "OPENAI_BASE_URL": "https://env.url"},
			file:        fileConfig,
			wantModel:   "file-model",
			wantBaseURL: "https://env.url",
		},
		{
			name:        "defaults",
			env:         map[string]string{"OPENAI_API_KEY": "env-key"},
			file:        `{}`,
			wantModel:   defaultTestModel,
			wantBaseURL: "https://api.openai.com/v1",
		},
		{
			name:    "no key anywhere",
			file:    `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", "")
			t.Setenv("OPENAI_BASE_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			useGlobal(t, tt.file)

			provider, err := BuildProvider(tt.cliModel, tt.cliBaseURL, tt.cliAPIKey, defaultTestModel)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, provider.GetModel())
			assert.Equal(t, tt.wantBaseURL, provider.GetBaseURL())
		})
	}
}
