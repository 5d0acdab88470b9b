package templates

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed emails/*
var emailTemplates embed.FS

// EmailConfig holds email branding and copy from emails/config.yaml
type EmailConfig struct {
	Branding struct {
		Name    string `yaml:"name"`
		Tagline string `yaml:"tagline"`
	} `yaml:"branding"`

	Subjects struct {
		Welcome      string `yaml:"welcome"`
		Registration string `yaml:"registration"`
		TempPassword string `yaml:"temp_password"`
	} `yaml:"subjects"`

	Welcome struct {
		Intro     string `yaml:"intro"`
		NextSteps string `yaml:"next_steps"`
	} `yaml:"welcome"`

	Registration struct {
		Intro     string `yaml:"intro"`
		NextSteps string `yaml:"next_steps"`
	} `yaml:"registration"`

	TempPassword struct {
		Intro   string `yaml:"intro"`
		Warning string `yaml:"warning"`
	} `yaml:"temp_password"`
}

// LoadEmailConfig loads email configuration from the embedded config.yaml
func LoadEmailConfig() (*EmailConfig, error) {
	data, err := emailTemplates.ReadFile("emails/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read email config: %w", err)
	}

	var config EmailConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse email config: %w", err)
	}

	return &config, nil
}

// AccountEmailData holds data for the welcome and registration templates
type AccountEmailData struct {
	Name      string
	Intro     string
	NextSteps string
	BrandName string
	Tagline   string
}

// TempPasswordData holds data for the temporary password template
type TempPasswordData struct {
	TempPassword string
	Intro        string
	Warning      string
	BrandName    string
	Tagline      string
}

func render(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "emails/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderWelcome renders the admin-created-account email body
func RenderWelcome(data AccountEmailData) (string, error) {
	return render("welcome.txt", data)
}

// RenderRegistration renders the self-registration email body
func RenderRegistration(data AccountEmailData) (string, error) {
	return render("registration.txt", data)
}

// RenderTempPassword renders the temporary password email body
func RenderTempPassword(data TempPasswordData) (string, error) {
	return render("temp_password.txt", data)
}
