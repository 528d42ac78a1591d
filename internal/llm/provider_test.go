package llm

import (
	"strings"
	"testing"

	"github.com/jcarril/tramita/internal/model"
)

func testReport() model.Report {
	return model.Report{
		Source:   "licencia.pdf",
		FileType: "pdf",
		Metadata: &model.LicenseMetadata{
			Expediente: "LIC-2026/0042",
			Authority:  "Ayuntamiento de Madrid",
			Confidence: 0.95,
		},
		Privacy: &model.PrivacyAssessment{
			ContainsPersonalData: true,
			Score:                0.45,
			Categories:           []string{"Contacto", "Identificación"},
			Indicators: []string{
				"DNI/NIE: 12345678Z",
				"Email: maria@example.com",
			},
		},
	}
}

func TestBuildPrompt_RedactsIndicators(t *testing.T) {
	prompt := BuildPrompt(testReport(), true)

	if strings.Contains(prompt, "12345678Z") {
		t.Error("Expected DNI to be absent from redacted prompt")
	}
	if strings.Contains(prompt, "maria@example.com") {
		t.Error("Expected email to be absent from redacted prompt")
	}
	if !strings.Contains(prompt, "2 (redactados)") {
		t.Error("Expected redacted indicator count in prompt")
	}
	if !strings.Contains(prompt, "Contacto, Identificación") {
		t.Error("Expected category names in prompt")
	}
}

func TestBuildPrompt_UnredactedIncludesIndicators(t *testing.T) {
	prompt := BuildPrompt(testReport(), false)

	if !strings.Contains(prompt, "12345678Z") {
		t.Error("Expected indicator in unredacted prompt")
	}
}

func TestBuildPrompt_MetadataFields(t *testing.T) {
	prompt := BuildPrompt(testReport(), true)

	for _, want := range []string{
		"licencia.pdf",
		"Ayuntamiento de Madrid",
		"Confianza de extracción: 0.95",
		"Expediente identificado: sí",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestFindIndicatorLeak(t *testing.T) {
	report := testReport()

	if leak := findIndicatorLeak("El documento contiene datos de contacto.", report); leak != "" {
		t.Errorf("Expected no leak, got %q", leak)
	}

	out := "El documento menciona dni/nie: 12345678z entre otros datos."
	if leak := findIndicatorLeak(out, report); leak == "" {
		t.Error("Expected case-insensitive leak detection")
	}

	if leak := findIndicatorLeak("cualquier texto", model.Report{}); leak != "" {
		t.Error("Expected no leak for report without privacy assessment")
	}
}

func TestNewProvider_Factory(t *testing.T) {
	p, err := NewProvider(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error for disabled provider, got %v", err)
	}
	if p != nil {
		t.Error("Expected nil provider when disabled")
	}

	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("Expected error for openai without API key")
	}

	p, err = NewProvider(Config{Provider: "ollama", Model: "mistral"})
	if err != nil {
		t.Fatalf("Expected no error for ollama, got %v", err)
	}
	if p == nil || p.Name() != "ollama" {
		t.Error("Expected ollama provider")
	}

	if _, err := NewProvider(Config{Provider: "grok"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "" {
		t.Error("Expected LLM disabled by default")
	}
	if !cfg.RedactIndicators {
		t.Error("Expected redaction enabled by default")
	}
}
