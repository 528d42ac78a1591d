package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcarril/tramita/internal/model"
	"github.com/jcarril/tramita/internal/pipeline"
)

var (
	outJSON          string
	outMD            string
	outYAML          string
	authorityHint    string
	municipalityHint string
	fileTypeFlag     string
	privacyOnly      bool
	timeout          time.Duration
	userAgent        string
	maxBytes         int64
	noCache          bool
	noFooter         bool
	insecureTLS      bool
	httpProxy        string
	httpsProxy       string
	ocrEndpoint      string
	llmEnabled       bool
	llmProvider      string
	llmModel         string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <archivo|url>",
	Short: "Analiza un documento y genera su informe",
	Long: `Analyze procesa un único documento, local o remoto:
- Extrae los metadatos de la licencia (expediente, fechas, titular, NIF)
- Evalúa la presencia de datos personales por categorías RGPD
- Calcula puntuaciones de confianza y de riesgo
- Genera informes JSON, Markdown o YAML

Ejemplos:
  tramita analyze licencia.pdf
  tramita analyze licencia.pdf --json informe.json --md informe.md
  tramita analyze https://sede.ejemplo.es/doc.pdf --authority "Ayuntamiento de Madrid"
  tramita analyze escaneo.pdf --privacy-only --ocr-endpoint http://localhost:8600`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "informe.json", "ruta del informe JSON")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "ruta del informe Markdown (opcional)")
	analyzeCmd.Flags().StringVar(&outYAML, "yaml", "", "ruta del informe YAML (opcional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "omite el pie en los informes Markdown")

	// Extraction flags
	analyzeCmd.Flags().StringVar(&authorityHint, "authority", "", "autoridad por defecto (el documento la puede sobrescribir)")
	analyzeCmd.Flags().StringVar(&municipalityHint, "municipality", "", "municipio (tiene prioridad sobre el documento)")
	analyzeCmd.Flags().StringVar(&fileTypeFlag, "file-type", "", "fuerza el tipo de documento (pdf, html, txt...)")
	analyzeCmd.Flags().BoolVar(&privacyOnly, "privacy-only", false, "solo evaluación de datos personales")

	// HTTP flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "tiempo máximo del análisis")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "Tramita/0.1 (+https://github.com/jcarril/tramita)", "HTTP User-Agent")
	analyzeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 10_000_000, "bytes máximos a descargar")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "desactiva la caché de resultados")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "no verifica el certificado TLS (sedes con certificados propios)")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "proxy HTTP (sobrescribe HTTP_PROXY)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "proxy HTTPS (sobrescribe HTTPS_PROXY)")

	// OCR flags
	analyzeCmd.Flags().StringVar(&ocrEndpoint, "ocr-endpoint", "", "URL del servicio OCR para documentos binarios")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "genera un resumen narrativo con LLM")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "proveedor LLM (openai, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "modelo LLM")
}

// buildAnalysisConfig merges file/env configuration with CLI flags.
func buildAnalysisConfig() (*model.Config, error) {
	cfg := loadConfig()
	cfg.Extraction.AuthorityHint = authorityHint
	cfg.Extraction.MunicipalityHint = municipalityHint
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	if httpProxy != "" {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if ocrEndpoint != "" {
		cfg.OCR.Endpoint = ocrEndpoint
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.RedactIndicators = true // Always enforce

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("la variable de entorno OPENAI_API_KEY no está definida")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	target := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analizando: %s\n", target)
		fmt.Fprintf(os.Stderr, "Tiempo máximo: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Caché: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildAnalysisConfig()
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg)
	p.PrivacyOnly = privacyOnly

	var report *model.Report
	if fileTypeFlag != "" {
		content, err := os.ReadFile(target)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		report, err = p.AnalyzeBytes(ctx, content, target, fileTypeFlag, "")
		if err != nil {
			return fmt.Errorf("analyze failed: %w", err)
		}
	} else {
		report, err = p.AnalyzeTarget(ctx, target)
		if err != nil {
			return fmt.Errorf("analyze failed: %w", err)
		}
	}

	if verbose {
		if report.Metadata != nil {
			fmt.Fprintf(os.Stderr, "✓ Confianza de extracción: %.2f\n", report.Metadata.Confidence)
		}
		if report.Privacy != nil {
			fmt.Fprintf(os.Stderr, "✓ Puntuación de privacidad: %.2f\n", report.Privacy.Score)
		}
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Resumen LLM generado con %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, outYAML, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
