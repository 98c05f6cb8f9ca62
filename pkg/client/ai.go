package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Command is a program invocation suggested by the model, e.g. npm install.
type Command struct {
	MainItem string   `json:"mainItem"`
	Commands []string `json:"commands"`
}

func (c *Command) String() string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.MainItem + " " + strings.Join(c.Commands, " "))
}

// AIResult is the loosely specified shape the model is asked to answer in.
// Only Text is always present.
type AIResult struct {
	Text         string         `json:"text"`
	FileTree     map[string]any `json:"fileTree,omitempty"`
	BuildCommand *Command       `json:"buildCommand,omitempty"`
	StartCommand *Command       `json:"startCommand,omitempty"`
}

// ParseAIResult decodes a raw AI answer. Markdown code fences around the JSON
// are tolerated.
func ParseAIResult(raw string) (*AIResult, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	var out AIResult
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("parse ai result: %w", err)
	}
	return &out, nil
}
