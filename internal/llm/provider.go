package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/jcarril/tramita/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a narrative for the analysis report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM narration
type SummarizeRequest struct {
	// Report is the tramita analysis report to narrate
	Report model.Report

	// RedactIndicators keeps raw matched fragments out of the prompt.
	// When set, the LLM only sees category names and counts, never the
	// personal data itself.
	RedactIndicators bool

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's narrative output
type SummarizeResponse struct {
	// Summary is the generated narrative text
	Summary string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// RedactIndicators keeps raw matched fragments out of prompts
	// (should always be true)
	RedactIndicators bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:         "", // Disabled by default
		Model:            "",
		Timeout:          30,
		RedactIndicators: true, // CRITICAL: Always redact
		MaxTokens:        1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:         modelConfig.Provider,
		Model:            modelConfig.Model,
		APIKey:           modelConfig.APIKey,
		BaseURL:          modelConfig.BaseURL,
		Timeout:          modelConfig.Timeout,
		RedactIndicators: modelConfig.RedactIndicators,
		MaxTokens:        modelConfig.MaxTokens,
	}
}

// BuildPrompt constructs the default narration prompt. The analysis
// verdicts are already final: the LLM describes them, it never decides.
func BuildPrompt(report model.Report, redactIndicators bool) string {
	var b strings.Builder

	b.WriteString(`Eres un asistente que redacta resúmenes de informes de análisis documental para administraciones públicas españolas.

REGLAS:
1. El análisis ya está hecho: describe sus resultados, no los cuestiones ni los amplíes.
2. No inventes datos que no aparezcan abajo.
3. No reproduzcas datos personales literales; refiérete solo a categorías.
4. Escribe en español, en tono administrativo neutro.

Informe:
`)
	fmt.Fprintf(&b, "- Origen: %s\n", report.Source)
	fmt.Fprintf(&b, "- Tipo de documento: %s\n", report.FileType)

	if md := report.Metadata; md != nil {
		fmt.Fprintf(&b, "- Confianza de extracción: %.2f\n", md.Confidence)
		if md.Expediente != "" {
			b.WriteString("- Expediente identificado: sí\n")
		} else {
			b.WriteString("- Expediente identificado: no\n")
		}
		if md.Authority != "" {
			fmt.Fprintf(&b, "- Autoridad: %s\n", md.Authority)
		}
		if md.ReviewReason != "" {
			fmt.Fprintf(&b, "- Motivo de revisión: %s\n", md.ReviewReason)
		}
	}

	if pa := report.Privacy; pa != nil {
		fmt.Fprintf(&b, "- Datos personales detectados: %v\n", pa.ContainsPersonalData)
		fmt.Fprintf(&b, "- Categorías especiales: %v\n", pa.ContainsSpecialCategory)
		fmt.Fprintf(&b, "- Puntuación de privacidad: %.2f\n", pa.Score)
		if len(pa.Categories) > 0 {
			fmt.Fprintf(&b, "- Categorías: %s\n", strings.Join(pa.Categories, ", "))
		}
		if redactIndicators {
			fmt.Fprintf(&b, "- Indicadores: %d (redactados)\n", len(pa.Indicators))
		} else {
			for _, ind := range pa.Indicators {
				fmt.Fprintf(&b, "- Indicador: %s\n", ind)
			}
		}
		if pa.ReviewReason != "" {
			fmt.Fprintf(&b, "- Motivo de revisión: %s\n", pa.ReviewReason)
		}
	}

	b.WriteString("\nRedacta un resumen de 3-4 frases sobre los resultados del análisis.")

	return b.String()
}

// findIndicatorLeak reports the first raw indicator fragment that shows
// up in LLM output. Indicators were redacted from the prompt, so any
// hit means the model reproduced personal data from elsewhere.
func findIndicatorLeak(output string, report model.Report) string {
	if report.Privacy == nil {
		return ""
	}
	lower := strings.ToLower(output)
	for _, ind := range report.Privacy.Indicators {
		if ind == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(ind)) {
			return ind
		}
	}
	return ""
}
