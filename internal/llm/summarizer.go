package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/jcarril/tramita/internal/model"
)

// Summarizer drives optional narrative generation. A nil provider means
// the feature is disabled; generation failures degrade to warnings and
// never fail an analysis.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer from configuration. An empty
// provider name yields a disabled summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether narrative generation is configured.
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider's name, or "".
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary produces a narrative for the report. Returns nil when
// disabled. Provider errors are reported through Warnings.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &model.LLMSummary{
			Enabled:  false,
			Provider: s.provider.Name(),
			Warnings: []string{
				fmt.Sprintf("Proveedor LLM %q no disponible; resumen omitido", s.provider.Name()),
			},
		}, nil
	}

	req := SummarizeRequest{
		Report:           report,
		RedactIndicators: s.config.RedactIndicators,
		Model:            s.config.Model,
		MaxTokens:        s.config.MaxTokens,
	}

	resp, err := s.provider.Summarize(ctx, req)
	if err != nil {
		return &model.LLMSummary{
			Enabled:  true,
			Provider: s.provider.Name(),
			Model:    s.config.Model,
			Warnings: []string{
				fmt.Sprintf("No se pudo generar el resumen: %v", err),
			},
		}, nil
	}

	return &model.LLMSummary{
		Enabled:   true,
		Provider:  s.provider.Name(),
		Model:     resp.Model,
		SummaryMD: resp.Summary,
		Warnings: []string{
			fmt.Sprintf("Tokens utilizados: %d", resp.TokensUsed),
		},
	}, nil
}

// RenderSeparateMarkdown renders the LLM narrative as a standalone
// Markdown document, clearly marked as generated content.
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder

	b.WriteString("# Resumen LLM\n\n")
	b.WriteString("> **CONTENIDO GENERADO**: este texto lo produjo un modelo de lenguaje.\n")
	b.WriteString("> Las puntuaciones y avisos del informe se calcularon de forma determinista,\n")
	b.WriteString("> con independencia de esta narrativa.\n\n")

	fmt.Fprintf(&b, "- **Proveedor**: %s\n", summary.Provider)
	fmt.Fprintf(&b, "- **Modelo**: %s\n", summary.Model)
	b.WriteString("\n")

	if summary.SummaryMD == "" {
		b.WriteString("Sin resumen generado.\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notas\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
