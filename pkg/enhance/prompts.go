package enhance

import (
	"fmt"
	"strings"

	"github.com/dixieflatline76/Realist/asset"
	"gopkg.in/yaml.v3"
)

// Prompt is the template for one mode.
type Prompt struct {
	Label    string `yaml:"label"`
	Progress string `yaml:"progress"`
	Text     string `yaml:"prompt"`
}

// Prompts maps every mode to its template.
type Prompts map[Mode]Prompt

// ParsePrompts reads a YAML prompt document. Every mode needs a non-empty prompt.
func ParsePrompts(data []byte) (Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}
	for _, m := range Modes {
		entry, ok := p[m]
		if !ok || strings.TrimSpace(entry.Text) == "" {
			return nil, fmt.Errorf("prompts: missing prompt for mode %q", m)
		}
		entry.Text = strings.TrimSpace(entry.Text)
		p[m] = entry
	}
	return p, nil
}

// DefaultPrompts loads the prompts shipped with the application.
func DefaultPrompts() (Prompts, error) {
	data, err := asset.NewManager().GetRawText(asset.PromptsFile)
	if err != nil {
		return nil, err
	}
	return ParsePrompts(data)
}

// For returns the template for m.
func (p Prompts) For(m Mode) (Prompt, error) {
	entry, ok := p[m]
	if !ok {
		return Prompt{}, fmt.Errorf("no prompt for mode %q", m)
	}
	return entry, nil
}
