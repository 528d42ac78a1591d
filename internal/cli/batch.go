package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcarril/tramita/internal/pipeline"
	"github.com/jcarril/tramita/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noFooter and the HTTP/LLM flags are defined in analyze.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <fichero>",
	Short: "Analiza varios documentos de un fichero en paralelo",
	Long: `Batch procesa varios documentos concurrentemente:
- Lee rutas o URLs del fichero de entrada (una por línea, # comenta)
- Analiza en paralelo con un número configurable de workers
- Genera un informe individual por documento

Ejemplos:
  tramita batch documentos.txt
  tramita batch documentos.txt --concurrency 8 --output-dir ./informes
  tramita batch documentos.txt --privacy-only --timeout 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "número de workers concurrentes")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./tramita-informes", "directorio de salida de los informes")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "tiempo máximo del lote completo")

	// Shared flags
	batchCmd.Flags().DurationVar(&timeout, "analyze-timeout", 2*time.Minute, "tiempo máximo por documento")
	batchCmd.Flags().StringVar(&userAgent, "ua", "Tramita/0.1 (+https://github.com/jcarril/tramita)", "HTTP User-Agent")
	batchCmd.Flags().Int64Var(&maxBytes, "max-bytes", 10_000_000, "bytes máximos a descargar")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "desactiva la caché de resultados")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "omite el pie en los informes Markdown")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "proxy HTTP (sobrescribe HTTP_PROXY)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "proxy HTTPS (sobrescribe HTTPS_PROXY)")
	batchCmd.Flags().StringVar(&ocrEndpoint, "ocr-endpoint", "", "URL del servicio OCR para documentos binarios")

	// Extraction flags
	batchCmd.Flags().StringVar(&authorityHint, "authority", "", "autoridad por defecto para todo el lote")
	batchCmd.Flags().StringVar(&municipalityHint, "municipality", "", "municipio para todo el lote")
	batchCmd.Flags().BoolVar(&privacyOnly, "privacy-only", false, "solo evaluación de datos personales")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "genera resúmenes narrativos con LLM")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "proveedor LLM (openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "modelo LLM")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Tramita - procesamiento por lotes\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Entrada:      %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Salida:       %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Tiempo máx.:  %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildAnalysisConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	if llmEnabled {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", llmProvider, llmModel)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	p.PrivacyOnly = privacyOnly

	processor := worker.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(os.Stderr, "⚙  Leyendo objetivos del fichero...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ %d documentos en cola\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")

	successCount := 0
	failureCount := 0

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Target, result.Error)
			continue
		}

		successCount++

		slug := sanitizeFilename(result.Report.Source)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: error al escribir JSON: %v\n", result.Target, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: error al escribir Markdown: %v\n", result.Target, err)
			continue
		}

		switch {
		case result.Report.Metadata != nil:
			fmt.Fprintf(os.Stderr, "✓ %s (confianza: %.2f)\n", result.Target, result.Report.Metadata.Confidence)
		case result.Report.Privacy != nil:
			fmt.Fprintf(os.Stderr, "✓ %s (privacidad: %.2f)\n", result.Target, result.Report.Privacy.Score)
		default:
			fmt.Fprintf(os.Stderr, "✓ %s\n", result.Target)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Lote completado\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documentos\n", len(results))
	fmt.Fprintf(os.Stderr, "  Correctos: %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Fallidos:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Salida:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename derives a safe output file name from a target.
func sanitizeFilename(s string) string {
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")
	s = filepath.Base(filepath.Clean(s))

	// Drop the extension so informe.pdf and informe.html do not collide
	// with their own reports
	if idx := strings.LastIndex(s, "."); idx > 0 {
		s = s[:idx]
	}

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" || s == "." {
		s = "informe"
	}

	return s
}
