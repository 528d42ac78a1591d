package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jcarril/tramita/internal/model"
)

// Renderer writes analysis reports as JSON, YAML or Markdown.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON. Path "-" means stdout.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RenderYAML writes the report as YAML. Path "-" means stdout.
func (r *Renderer) RenderYAML(report *model.Report, path string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RenderMarkdown writes a human-readable Spanish report.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	md := r.buildMarkdown(report)

	if path == "-" {
		_, err := os.Stdout.WriteString(md)
		return err
	}
	return os.WriteFile(path, []byte(md), 0o644)
}

// RenderLLMMarkdown writes a pre-rendered LLM narrative document.
func (r *Renderer) RenderLLMMarkdown(markdown, path string) error {
	return os.WriteFile(path, []byte(markdown), 0o644)
}

// RenderSummary prints a short console summary of the report.
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\nAnálisis: %s (%s)\n", report.Source, report.FileType)

	if md := report.Metadata; md != nil {
		fmt.Printf("  Confianza: %.2f\n", md.Confidence)
		if md.Summary != "" {
			fmt.Printf("  %s\n", md.Summary)
		}
		if md.ReviewReason != "" {
			fmt.Printf("  Revisión: %s\n", md.ReviewReason)
		}
	}

	if pa := report.Privacy; pa != nil {
		fmt.Printf("  Privacidad: %.2f", pa.Score)
		if pa.ContainsSpecialCategory {
			fmt.Print(" [categorías especiales]")
		}
		fmt.Println()
		if len(pa.Categories) > 0 {
			fmt.Printf("  Categorías: %s\n", strings.Join(pa.Categories, ", "))
		}
		if pa.ReviewReason != "" {
			fmt.Printf("  Revisión: %s\n", pa.ReviewReason)
		}
	}
}

func (r *Renderer) buildMarkdown(report *model.Report) string {
	var b strings.Builder

	b.WriteString("# Informe de análisis documental\n\n")
	fmt.Fprintf(&b, "- **Origen**: %s\n", report.Source)
	fmt.Fprintf(&b, "- **Tipo**: %s\n", report.FileType)
	fmt.Fprintf(&b, "- **Analizado**: %s\n", report.AnalyzedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Tamaño**: %d bytes (%d caracteres de texto)\n", report.Input.Bytes, report.Input.TextLength)
	if report.Input.CacheHit {
		b.WriteString("- **Caché**: resultado reutilizado\n")
	}
	b.WriteString("\n")

	if md := report.Metadata; md != nil {
		b.WriteString("## Metadatos de la licencia\n\n")
		fmt.Fprintf(&b, "- **Confianza**: %.2f\n", md.Confidence)
		writeField(&b, "Expediente", md.Expediente)
		writeField(&b, "Autoridad", md.Authority)
		writeField(&b, "Municipio", md.Municipality)
		writeField(&b, "Titular", md.Holder)
		writeField(&b, "NIF/CIF", md.TaxID)
		writeField(&b, "Dirección", md.Address)
		writeField(&b, "Actividad", md.Activity)
		writeDate(&b, "Concesión", md.Concession)
		writeDate(&b, "Caducidad", md.Expiry)
		writeDate(&b, "Renovación", md.Renewal)
		if md.ReviewReason != "" {
			fmt.Fprintf(&b, "\n> ⚠ Requiere revisión: %s\n", md.ReviewReason)
		}
		b.WriteString("\n")
	}

	if pa := report.Privacy; pa != nil {
		b.WriteString("## Evaluación de datos personales\n\n")
		fmt.Fprintf(&b, "- **Puntuación**: %.2f\n", pa.Score)
		fmt.Fprintf(&b, "- **Contiene datos personales**: %s\n", siNo(pa.ContainsPersonalData))
		fmt.Fprintf(&b, "- **Categorías especiales**: %s\n", siNo(pa.ContainsSpecialCategory))
		if len(pa.Categories) > 0 {
			fmt.Fprintf(&b, "- **Categorías**: %s\n", strings.Join(pa.Categories, ", "))
		}
		if len(pa.Indicators) > 0 {
			b.WriteString("\n### Indicadores\n\n")
			for _, ind := range pa.Indicators {
				fmt.Fprintf(&b, "- %s\n", ind)
			}
		}
		if pa.ReviewReason != "" {
			fmt.Fprintf(&b, "\n> ⚠ Requiere revisión: %s\n", pa.ReviewReason)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("_Generado por tramita. Las puntuaciones son heurísticas y no sustituyen la revisión humana._\n")
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "- **%s**: %s\n", label, value)
	}
}

func writeDate(b *strings.Builder, label string, t *time.Time) {
	if t != nil {
		fmt.Fprintf(b, "- **%s**: %s\n", label, t.Format("02/01/2006"))
	}
}

func siNo(v bool) string {
	if v {
		return "sí"
	}
	return "no"
}
