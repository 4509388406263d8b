package intel

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/icemedialab/varta/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// Prompts holds the system instruction and the report prompt template.
type Prompts struct {
	SystemInstruction string `yaml:"system_instruction"`
	ReportPrompt      string `yaml:"report_prompt"`

	report *template.Template
}

// DefaultPrompts returns the embedded prompt configuration.
func DefaultPrompts() *Prompts {
	p, err := ParsePrompts(defaultPrompts)
	if err != nil {
		panic(fmt.Sprintf("intel: embedded prompts: %v", err))
	}
	return p
}

// LoadPrompts reads prompts from a YAML file. An empty path yields the
// embedded defaults.
func LoadPrompts(path string) (*Prompts, error) {
	if path == "" {
		return DefaultPrompts(), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	return ParsePrompts(data)
}

// ParsePrompts decodes YAML prompt configuration and compiles the template.
func ParsePrompts(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode prompts: %w", err)
	}
	if strings.TrimSpace(p.SystemInstruction) == "" || strings.TrimSpace(p.ReportPrompt) == "" {
		return nil, errors.New("prompts: system_instruction and report_prompt are required")
	}

	tmpl, err := template.New("report").Option("missingkey=error").Parse(p.ReportPrompt)
	if err != nil {
		return nil, fmt.Errorf("parse report prompt: %w", err)
	}
	p.report = tmpl
	return &p, nil
}

// Render fills the report prompt for q.
func (p *Prompts) Render(q model.Query) (string, error) {
	var sb strings.Builder
	if err := p.report.Execute(&sb, q); err != nil {
		return "", fmt.Errorf("render report prompt: %w", err)
	}
	return sb.String(), nil
}
