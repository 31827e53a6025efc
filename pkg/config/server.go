package config

import (
	"net"
	"sync"

	v "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// SectionIDServer is the identifier for the dispatch server section
	SectionIDServer = "server"

	// DefaultListenAddr binds the dispatch server to loopback only.
	DefaultListenAddr = "127.0.0.1:7345"

	defaultMaxConnections = 16
)

// ServerSection configures the dispatch HTTP server.
type ServerSection struct {
	ListenAddr     string `json:"listen_addr"`
	MaxConnections int    `json:"max_connections"`
	mu             sync.RWMutex
}

// NewServerSection creates the section with defaults.
func NewServerSection() *ServerSection {
	return &ServerSection{
		ListenAddr:     DefaultListenAddr,
		MaxConnections: defaultMaxConnections,
	}
}

// ID returns the section identifier.
func (s *ServerSection) ID() string {
	return SectionIDServer
}

// Title returns the section title.
func (s *ServerSection) Title() string {
	return "Server Settings"
}

// Description returns the section description.
func (s *ServerSection) Description() string {
	return "Address the dispatch server listens on and how many connections it accepts at once."
}

// Data returns the current configuration data.
func (s *ServerSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"listen_addr":     s.ListenAddr,
		"max_connections": s.MaxConnections,
	}
}

// SetData updates the configuration from the provided data.
func (s *ServerSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "listen_addr":
			s.ListenAddr, err = stringValue(key, value)
		case "max_connections":
			s.MaxConnections, err = intValue(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *ServerSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return v.ValidateStruct(s,
		v.Field(&s.ListenAddr, v.Required, v.By(hostPort)),
		v.Field(&s.MaxConnections, v.Required, v.Min(1)),
	)
}

// Reset restores defaults.
func (s *ServerSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListenAddr = DefaultListenAddr
	s.MaxConnections = defaultMaxConnections
}

// GetListenAddr returns the listen address.
func (s *ServerSection) GetListenAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ListenAddr
}

// GetMaxConnections returns the connection limit.
func (s *ServerSection) GetMaxConnections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MaxConnections
}

func hostPort(value interface{}) error {
	addr, _ := value.(string)
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return v.NewError("validation_host_port", "must be host:port")
	}
	return nil
}
