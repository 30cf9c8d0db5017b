package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Context represents the current CLI context (selected tieba/conversation).
// It lets consecutive commands omit ids: `tieba post list` after
// `tieba use golang` scopes to the golang tieba.
type Context struct {
	// TiebaID is the currently selected tieba.
	TiebaID int64 `yaml:"tieba,omitempty"`
	// TiebaName is the human-readable tieba name (for display).
	TiebaName string `yaml:"tieba_name,omitempty"`
	// ConversationID is the currently selected conversation.
	ConversationID int64 `yaml:"conversation,omitempty"`
	// PeerName is the other participant's name (for display).
	PeerName string `yaml:"peer_name,omitempty"`
	// UpdatedAt is when the context was last modified.
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
}

// IsEmpty returns true if no context is set.
func (c *Context) IsEmpty() bool {
	return c.TiebaID == 0 && c.ConversationID == 0
}

// HasTieba returns true if a tieba is selected.
func (c *Context) HasTieba() bool {
	return c.TiebaID != 0
}

// HasConversation returns true if a conversation is selected.
func (c *Context) HasConversation() bool {
	return c.ConversationID != 0
}

// Clear removes all context.
func (c *Context) Clear() {
	c.TiebaID = 0
	c.TiebaName = ""
	c.ConversationID = 0
	c.PeerName = ""
	c.UpdatedAt = time.Now()
}

// SetTieba sets the tieba context.
func (c *Context) SetTieba(id int64, name string) {
	c.TiebaID = id
	c.TiebaName = name
	c.UpdatedAt = time.Now()
}

// SetConversation sets the conversation context.
func (c *Context) SetConversation(id int64, peer string) {
	c.ConversationID = id
	c.PeerName = peer
	c.UpdatedAt = time.Now()
}

// String returns a human-readable representation of the context.
func (c *Context) String() string {
	if c.IsEmpty() {
		return "(no context set)"
	}
	var parts []string
	if c.HasTieba() {
		name := c.TiebaName
		if name == "" {
			name = fmt.Sprintf("#%d", c.TiebaID)
		}
		parts = append(parts, "tieba:"+name)
	}
	if c.HasConversation() {
		name := c.PeerName
		if name == "" {
			name = fmt.Sprintf("#%d", c.ConversationID)
		}
		parts = append(parts, "chat:"+name)
	}
	return strings.Join(parts, " ")
}

// ContextStore manages loading and saving context.
type ContextStore struct {
	path string
	mu   sync.RWMutex
}

// NewContextStore creates a new context store.
// If path is empty, uses the default path (~/.config/tieba/context.yaml).
func NewContextStore(path string) *ContextStore {
	if path == "" {
		homeDir, _ := os.UserHomeDir()
		path = filepath.Join(homeDir, ".config", "tieba", "context.yaml")
	}
	return &ContextStore{path: path}
}

// Path returns the context file path.
func (s *ContextStore) Path() string {
	return s.path
}

// Load reads the context from disk.
// Returns an empty context if the file doesn't exist.
func (s *ContextStore) Load() (*Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := &Context{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ctx, nil
		}
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}

	if err := yaml.Unmarshal(data, ctx); err != nil {
		return nil, fmt.Errorf("failed to parse context file: %w", err)
	}

	return ctx, nil
}

// Save writes the context to disk.
func (s *ContextStore) Save(ctx *Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create context directory: %w", err)
	}

	data, err := yaml.Marshal(ctx)
	if err != nil {
		return fmt.Errorf("failed to serialize context: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write context file: %w", err)
	}

	return nil
}

// Clear removes the context file.
func (s *ContextStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove context file: %w", err)
	}
	return nil
}
