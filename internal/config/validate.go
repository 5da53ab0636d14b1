package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLinks(); err != nil {
		return err
	}
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		return errors.New("paths.scratch_dir must be set")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store.path must be set")
	}
	if c.Paths.ScratchDir == c.Paths.DataDir {
		return errors.New("paths.scratch_dir must differ from paths.data_dir; the scratch directory is emptied after every run")
	}
	if within(c.Paths.ScratchDir, c.Store.Path) {
		return errors.New("store.path must not live inside paths.scratch_dir")
	}
	if within(c.Paths.ScratchDir, c.Paths.DataDir) || within(c.Paths.ScratchDir, c.Paths.LogDir) {
		return errors.New("paths.data_dir and paths.log_dir must not be or live inside paths.scratch_dir")
	}
	return nil
}

// within reports whether child is parent itself or lies below it.
func within(parent, child string) bool {
	if parent == "" || child == "" {
		return false
	}
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// validateLinks rejects alias rules whose rewrite would not be stable: a
// canonical host containing any alias would be rewritten again on the next pass.
func (c *Config) validateLinks() error {
	aliases := make([]string, 0, len(c.Links.Aliases))
	for alias := range c.Links.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		canonical := c.Links.Aliases[alias]
		if canonical == "" {
			return fmt.Errorf("links.aliases: canonical host for %q must be set", alias)
		}
		for _, other := range aliases {
			if strings.Contains(canonical, other) {
				return fmt.Errorf("links.aliases: canonical host %q contains alias %q", canonical, other)
			}
		}
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if c.Whisper.Threads > maxWhisperThreads {
		return fmt.Errorf("whisper.threads must be at most %d", maxWhisperThreads)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.PrepConcurrency > maxPrepConcurrency {
		return fmt.Errorf("workflow.prep_concurrency must be at most %d", maxPrepConcurrency)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	parsed, err := url.Parse(topic)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be a full URL, got %q", topic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
