package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jcarril/tramita/internal/cache"
	"github.com/jcarril/tramita/internal/decode"
	"github.com/jcarril/tramita/internal/extract"
	"github.com/jcarril/tramita/internal/llm"
	"github.com/jcarril/tramita/internal/model"
	"github.com/jcarril/tramita/internal/ocr"
	"github.com/jcarril/tramita/internal/privacy"
)

// Pipeline orchestrates the complete analysis: obtain text, run both
// engines, optionally narrate, cache the result.
type Pipeline struct {
	fetcher    *Fetcher
	extractor  *extract.Extractor
	analyzer   *privacy.Analyzer
	ocrClient  ocr.TextExtractor
	summarizer *llm.Summarizer // Optional LLM narrator (nil if disabled)
	renderer   *Renderer
	cache      cache.Cache // nil when caching is disabled
	config     *model.Config

	// PrivacyOnly skips metadata extraction and turns text-extraction
	// failures into terminal "unanalyzable" privacy records instead of
	// errors.
	PrivacyOnly bool
}

// NewPipeline creates a pipeline with the given configuration.
func NewPipeline(cfg *model.Config) *Pipeline {
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		llmCfg := llm.ConfigFromModel(cfg.LLM)
		llmCfg.HTTPProxy = cfg.HTTP.HTTPProxy
		llmCfg.HTTPSProxy = cfg.HTTP.HTTPSProxy
		llmCfg.NoProxy = cfg.HTTP.NoProxy
		s, err := llm.NewSummarizer(llmCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Aviso: no se pudo inicializar el proveedor LLM: %v\n", err)
		} else {
			summarizer = s
		}
	}

	var ocrClient ocr.TextExtractor
	if cfg.OCR.Endpoint != "" {
		ocrClient = ocr.NewClient(cfg.OCR.Endpoint, cfg.OCR.Timeout, cfg.HTTP.MaxBodyBytes)
	}

	var resultCache cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		resultCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		fetcher:    NewFetcher(cfg),
		extractor:  extract.NewExtractor(),
		analyzer:   privacy.NewAnalyzer(),
		ocrClient:  ocrClient,
		summarizer: summarizer,
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		cache:      resultCache,
		config:     cfg,
	}
}

// AnalyzeTarget analyzes a local file path or an http(s) URL.
func (p *Pipeline) AnalyzeTarget(ctx context.Context, target string) (*model.Report, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return p.AnalyzeURL(ctx, target)
	}
	return p.AnalyzeFile(ctx, target)
}

// AnalyzeFile analyzes a local document.
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	fileType := DetectFileType(path, "")
	return p.AnalyzeBytes(ctx, content, path, fileType, "")
}

// AnalyzeURL downloads and analyzes a remote document.
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string) (*model.Report, error) {
	fetchResult, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	fileType := DetectFileType(fetchResult.FinalURL, fetchResult.ContentType)
	return p.AnalyzeBytes(ctx, fetchResult.Content, fetchResult.FinalURL, fileType, fetchResult.ContentType)
}

// AnalyzeBytes runs the full analysis on raw document bytes.
func (p *Pipeline) AnalyzeBytes(ctx context.Context, content []byte, source, fileType, contentType string) (*model.Report, error) {
	key := cache.ContentKey(content)
	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			var cached model.Report
			if err := json.Unmarshal(data, &cached); err == nil {
				cached.Source = source
				cached.Input.CacheHit = true
				return &cached, nil
			}
			// Corrupt entry: drop it and re-analyze
			_ = p.cache.Delete(key)
		}
	}

	text, encoding, err := p.extractText(ctx, content, fileType, contentType)

	report := &model.Report{
		Source:     source,
		FileType:   fileType,
		AnalyzedAt: time.Now().UTC(),
		Input: model.InputMeta{
			Bytes:       len(content),
			ContentType: contentType,
			Encoding:    encoding,
			TextLength:  len(text),
		},
	}

	if err != nil {
		if !p.PrivacyOnly {
			return nil, fmt.Errorf("extract text: %w", err)
		}
		// Privacy audits must record unreadable documents, not skip them.
		assessment := p.analyzer.Analyze("", fileType)
		report.Privacy = &assessment
		return report, nil
	}

	if !p.PrivacyOnly {
		md := p.extractor.Extract(text, p.config.Extraction.AuthorityHint, p.config.Extraction.MunicipalityHint)
		report.Metadata = &md
	}

	assessment := p.analyzer.Analyze(text, fileType)
	report.Privacy = &assessment

	// Narration runs after both engines and never affects their output.
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		llmSummary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Aviso: no se pudo generar el resumen LLM: %v\n", err)
		} else if llmSummary != nil {
			report.LLM = llmSummary
		}
	}

	if p.cache != nil {
		if data, err := json.Marshal(report); err == nil {
			_ = p.cache.Set(key, data, 0)
		}
	}

	return report, nil
}

// extractText obtains analyzable text from raw bytes. Textual formats
// are decoded locally; everything else goes through the OCR service.
func (p *Pipeline) extractText(ctx context.Context, content []byte, fileType, contentType string) (string, string, error) {
	switch fileType {
	case "html":
		raw, encoding := decode.Text(content)
		text, err := decode.HTMLToText(raw)
		if err != nil {
			return "", "", fmt.Errorf("parse HTML: %w", err)
		}
		return text, encoding, nil

	case "txt", "csv", "xml", "md", "json":
		text, encoding := decode.Text(content)
		return text, encoding, nil

	default:
		if p.ocrClient == nil {
			return "", "", fmt.Errorf("document type %q requires the OCR service, but no endpoint is configured", fileType)
		}
		text, err := p.ocrClient.ExtractText(ctx, content, contentType)
		if err != nil {
			return "", "", fmt.Errorf("OCR: %w", err)
		}
		return text, "ocr", nil
	}
}

// DetectFileType derives a normalized file type tag from the source
// name, falling back to the Content-Type header.
func DetectFileType(source, contentType string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(trimQuery(source)), "."))
	switch ext {
	case "pdf", "html", "txt", "csv", "xml", "md", "json", "docx", "doc", "png", "jpg", "jpeg", "tif", "tiff":
		return ext
	case "htm":
		return "html"
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "application/pdf"):
		return "pdf"
	case strings.Contains(ct, "text/html"):
		return "html"
	case strings.Contains(ct, "text/plain"):
		return "txt"
	case strings.Contains(ct, "text/csv"):
		return "csv"
	case strings.Contains(ct, "xml"):
		return "xml"
	case strings.Contains(ct, "json"):
		return "json"
	case strings.HasPrefix(ct, "image/"):
		sub := strings.TrimPrefix(ct, "image/")
		if idx := strings.Index(sub, ";"); idx >= 0 {
			sub = sub[:idx]
		}
		return strings.TrimSpace(sub)
	}

	return "bin"
}

func trimQuery(source string) string {
	if idx := strings.IndexAny(source, "?#"); idx >= 0 {
		return source[:idx]
	}
	return source
}

// RenderReport renders the report to the requested outputs and prints
// the console summary.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath, yamlPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ JSON escrito: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Markdown escrito: %s\n", mdPath)
		}
	}

	if yamlPath != "" {
		if err := p.renderer.RenderYAML(report, yamlPath); err != nil {
			return fmt.Errorf("render YAML: %w", err)
		}
		if verbose {
			fmt.Printf("✓ YAML escrito: %s\n", yamlPath)
		}
	}

	// LLM narrative goes to its own file, never mixed into the report
	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmMdPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		llmMarkdown := llm.RenderSeparateMarkdown(report.LLM)
		if err := p.renderer.RenderLLMMarkdown(llmMarkdown, llmMdPath); err != nil {
			fmt.Fprintf(os.Stderr, "Aviso: no se pudo escribir el resumen LLM: %v\n", err)
		} else if verbose {
			fmt.Printf("✓ Resumen LLM escrito: %s\n", llmMdPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}
