package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a YAML server profile. Set fields override the config file for
// one run; nothing is written back.
//
//	llm:
//	  model: gpt-4o-mini
//	screenshots:
//	  data_dir: /tmp/wingman
//	  capacity: 3
//	server:
//	  listen_addr: 127.0.0.1:9000
type Profile struct {
	LLM struct {
		Model              string   `yaml:"model"`
		BaseURL            string   `yaml:"base_url"`
		MaxPromptTokens    *int     `yaml:"max_prompt_tokens"`
		MaxImageMegapixels *float64 `yaml:"max_image_megapixels"`
	} `yaml:"llm"`

	Screenshots struct {
		DataDir      string `yaml:"data_dir"`
		Capacity     *int   `yaml:"capacity"`
		PurgeOnStart *bool  `yaml:"purge_on_start"`
		Backend      string `yaml:"backend"`
	} `yaml:"screenshots"`

	Server struct {
		ListenAddr     string `yaml:"listen_addr"`
		MaxConnections *int   `yaml:"max_connections"`
	} `yaml:"server"`
}

// LoadProfile reads a YAML profile. Unknown keys are an error so typos surface.
func LoadProfile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}
	defer f.Close()

	var p Profile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &p, nil
}

// Apply copies every set profile field into the manager's sections and
// validates the result.
func (p *Profile) Apply(m *Manager) error {
	apply := func(id string, data map[string]interface{}) error {
		if len(data) == 0 {
			return nil
		}
		section, ok := m.GetSection(id)
		if !ok {
			return fmt.Errorf("section %q not registered", id)
		}
		return section.SetData(data)
	}

	llm := map[string]interface{}{}
	setString(llm, "model", p.LLM.Model)
	setString(llm, "base_url", p.LLM.BaseURL)
	if p.LLM.MaxPromptTokens != nil {
		llm["max_prompt_tokens"] = *p.LLM.MaxPromptTokens
	}
	if p.LLM.MaxImageMegapixels != nil {
		llm["max_image_megapixels"] = *p.LLM.MaxImageMegapixels
	}

	shots := map[string]interface{}{}
	setString(shots, "data_dir", p.Screenshots.DataDir)
	setString(shots, "backend", p.Screenshots.Backend)
	if p.Screenshots.Capacity != nil {
		shots["capacity"] = *p.Screenshots.Capacity
	}
	if p.Screenshots.PurgeOnStart != nil {
		shots["purge_on_start"] = *p.Screenshots.PurgeOnStart
	}

	server := map[string]interface{}{}
	setString(server, "listen_addr", p.Server.ListenAddr)
	if p.Server.MaxConnections != nil {
		server["max_connections"] = *p.Server.MaxConnections
	}

	for id, data := range map[string]map[string]interface{}{
		SectionIDLLM:         llm,
		SectionIDScreenshots: shots,
		SectionIDServer:      server,
	} {
		if err := apply(id, data); err != nil {
			return fmt.Errorf("apply profile to %s: %w", id, err)
		}
	}
	return m.ValidateAll()
}

func setString(data map[string]interface{}, key, value string) {
	if value != "" {
		data[key] = value
	}
}
