package prompt

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Prompt represents the structure of a TOML prompt file
type Prompt struct {
	System string  `toml:"system"`
	User   string  `toml:"user"`
	Model  *string `toml:"model,omitempty"`
}

// LoadPrompt loads a prompt file and returns its contents
func LoadPrompt(filePath string) (*Prompt, error) {
	var prompt Prompt
	meta, err := toml.DecodeFile(filePath, &prompt)
	if err != nil {
		return nil, fmt.Errorf("error decoding prompt file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in prompt file %s: %v", filePath, undecoded)
	}
	if prompt.User == "" {
		return nil, fmt.Errorf("prompt file %s has no user template", filePath)
	}
	return &prompt, nil
}
