package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultTemplate    = "[{}]"
	DefaultInsertAfter = "^"
	DefaultPattern     = "[a-zA-Z0-9]{1,10}-[0-9]{1,5}"

	BackendCLI   = "cli"
	BackendGoGit = "go-git"

	fileName = "issue-prefix.toml"
)

type Config struct {
	Message MessageConfig `toml:"message"`
	Issue   IssueConfig   `toml:"issue"`
	Branch  BranchConfig  `toml:"branch"`

	// Compiled from Message and Issue (not serialized)
	insertAfterRegex *regexp.Regexp
	issueRegex       *regexp.Regexp
	templateParts    []string
}

type MessageConfig struct {
	Template    string `toml:"template"`
	InsertAfter string `toml:"insert_after"`
	Default     string `toml:"default"`
}

type IssueConfig struct {
	Pattern string `toml:"pattern"`
}

type BranchConfig struct {
	// Backend selects how the current branch is read: "cli" or "go-git"
	Backend string `toml:"backend"`
}

func DefaultConfig() *Config {
	return &Config{
		Message: MessageConfig{
			Template:    DefaultTemplate,
			InsertAfter: DefaultInsertAfter,
		},
		Issue: IssueConfig{
			Pattern: DefaultPattern,
		},
		Branch: BranchConfig{
			Backend: BackendCLI,
		},
	}
}

// DefaultPath returns the user-level config file location
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, fileName), nil
}

// Load reads the config at path on top of the defaults.
// An empty path means the default location, where a missing file is not an error.
// Load never writes to disk; the returned config is not compiled yet.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Compile validates the config and compiles its regular expressions.
// It must be called after all overrides have been applied.
func (c *Config) Compile() error {
	re, err := regexp.Compile(c.Message.InsertAfter)
	if err != nil {
		return fmt.Errorf("invalid message.insert_after %q: %w", c.Message.InsertAfter, err)
	}
	c.insertAfterRegex = re

	re, err = regexp.Compile(c.Issue.Pattern)
	if err != nil {
		return fmt.Errorf("invalid issue.pattern %q: %w", c.Issue.Pattern, err)
	}
	c.issueRegex = re

	parts, err := SplitTemplate(c.Message.Template)
	if err != nil {
		return fmt.Errorf("invalid message.template %q: %w", c.Message.Template, err)
	}
	if n := len(parts) - 1; n != 1 {
		return fmt.Errorf("invalid message.template %q: want exactly one {} placeholder, found %d", c.Message.Template, n)
	}
	c.templateParts = parts

	switch c.Branch.Backend {
	case BackendCLI, BackendGoGit:
	default:
		return fmt.Errorf("invalid branch.backend %q: want %q or %q", c.Branch.Backend, BackendCLI, BackendGoGit)
	}
	return nil
}

// InsertAfterRegex returns the compiled insertion-point pattern (nil before Compile)
func (c *Config) InsertAfterRegex() *regexp.Regexp {
	return c.insertAfterRegex
}

// IssueRegex returns the compiled issue pattern (nil before Compile)
func (c *Config) IssueRegex() *regexp.Regexp {
	return c.issueRegex
}

// SplitTemplate splits tpl into the literal text around each {} (or {0})
// placeholder, decoding {{ and }} escapes. A lone brace or any other field
// name is an error.
func SplitTemplate(tpl string) ([]string, error) {
	var (
		parts []string
		cur   strings.Builder
	)
	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		switch {
		case strings.HasPrefix(tpl[i:], "{{"), strings.HasPrefix(tpl[i:], "}}"):
			cur.WriteByte(c)
			i++
		case c == '{':
			end := strings.IndexByte(tpl[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("single '{' at offset %d", i)
			}
			if field := tpl[i+1 : i+end]; field != "" && field != "0" {
				return nil, fmt.Errorf("unsupported field {%s}", field)
			}
			parts = append(parts, cur.String())
			cur.Reset()
			i += end
		case c == '}':
			return nil, fmt.Errorf("single '}' at offset %d", i)
		default:
			cur.WriteByte(c)
		}
	}
	return append(parts, cur.String()), nil
}

// RenderTemplate substitutes issue into the compiled template (Compile must have succeeded)
func (c *Config) RenderTemplate(issue string) string {
	return strings.Join(c.templateParts, issue)
}

// Save writes the config to path, creating the parent directory
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Marshal encodes the config as TOML
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
