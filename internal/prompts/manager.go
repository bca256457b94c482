package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"interview-alchemist/internal/models"
)

//go:embed templates/*.yaml
var templateFS embed.FS

const DefaultVariant = "default"

// PromptProvider renders prompts by mode and variant
type PromptProvider interface {
	BuildPrompt(mode, variant string, data interface{}) (*models.Prompt, error)
	GetTemplates() map[string]map[string]*template.Template
}

type PromptManager struct {
	templates map[string]map[string]*template.Template // mode -> variant -> user prompt
	systems   map[string]*template.Template
}

// loaded prompt template file
type PromptTemplate struct {
	SystemPrompt string            `yaml:"system_prompt"`
	BasePrompt   string            `yaml:"base_prompt"`
	Variants     map[string]string `yaml:"variants"`
}

func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		templates: make(map[string]map[string]*template.Template),
		systems:   make(map[string]*template.Template),
	}
	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	return pm, nil
}

func (pm *PromptManager) BuildPrompt(mode, variant string, data interface{}) (*models.Prompt, error) {
	modeTemplates, exists := pm.templates[mode]
	if !exists {
		return nil, fmt.Errorf("template not found for mode: %s", mode)
	}
	if variant == "" {
		variant = DefaultVariant
	}
	tmpl, exists := modeTemplates[variant]
	if !exists {
		return nil, fmt.Errorf("variant '%s' not found for mode '%s'", variant, mode)
	}

	user, err := execute(tmpl, data)
	if err != nil {
		return nil, fmt.Errorf("render %s/%s: %w", mode, variant, err)
	}

	prompt := &models.Prompt{User: user}
	if sys, ok := pm.systems[mode]; ok {
		if prompt.System, err = execute(sys, data); err != nil {
			return nil, fmt.Errorf("render %s system prompt: %w", mode, err)
		}
	}
	return prompt, nil
}

func (pm *PromptManager) GetTemplates() map[string]map[string]*template.Template {
	return pm.templates
}

func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var pt PromptTemplate
		if err := yaml.Unmarshal(data, &pt); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		if err := pm.register(name, &pt); err != nil {
			return err
		}
	}
	return nil
}

func (pm *PromptManager) register(name string, pt *PromptTemplate) error {
	if len(pt.Variants) == 0 {
		return fmt.Errorf("template %s defines no variants", name)
	}

	pm.templates[name] = make(map[string]*template.Template, len(pt.Variants))
	for variant, body := range pt.Variants {
		var full strings.Builder
		if pt.BasePrompt != "" {
			full.WriteString(pt.BasePrompt)
			full.WriteString("\n\n")
		}
		full.WriteString(body)

		tmpl, err := template.New(name + "/" + variant).Option("missingkey=error").Parse(full.String())
		if err != nil {
			return fmt.Errorf("failed to compile template %s/%s: %w", name, variant, err)
		}
		pm.templates[name][variant] = tmpl
	}

	if pt.SystemPrompt != "" {
		tmpl, err := template.New(name + "/system").Parse(pt.SystemPrompt)
		if err != nil {
			return fmt.Errorf("failed to compile system prompt %s: %w", name, err)
		}
		pm.systems[name] = tmpl
	}
	return nil
}

func execute(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
