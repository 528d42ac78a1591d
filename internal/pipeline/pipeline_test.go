package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/jcarril/tramita/internal/model"
)

const sampleLicenseText = `Ayuntamiento de Valdemoro
Expediente: LIC-2026/0042
Licencia de apertura concedida el 15/01/2026
Fecha de caducidad: 15/01/2031
Titular: Panadería Hermanos García S.L.
CIF: B12345678
Contacto: garcia@example.com
`

func testPipelineConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	return cfg
}

func TestAnalyzeBytes_TextDocument(t *testing.T) {
	p := NewPipeline(testPipelineConfig())

	report, err := p.AnalyzeBytes(context.Background(), []byte(sampleLicenseText), "licencia.txt", "txt", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.Metadata == nil {
		t.Fatal("Expected metadata extraction to run")
	}
	if report.Metadata.Expediente != "LIC-2026/0042" {
		t.Errorf("Unexpected expediente: %q", report.Metadata.Expediente)
	}
	if report.Metadata.Authority != "Ayuntamiento de Valdemoro" {
		t.Errorf("Unexpected authority: %q", report.Metadata.Authority)
	}

	if report.Privacy == nil {
		t.Fatal("Expected privacy assessment to run")
	}
	if !report.Privacy.ContainsPersonalData {
		t.Error("Expected personal data to be detected (email present)")
	}

	if report.Input.Encoding != "utf-8" {
		t.Errorf("Expected utf-8 encoding, got %q", report.Input.Encoding)
	}
	if report.Input.CacheHit {
		t.Error("Expected no cache hit with cache disabled")
	}
}

func TestAnalyzeBytes_HTMLDocument(t *testing.T) {
	p := NewPipeline(testPipelineConfig())

	html := "<html><body><p>Expediente: LIC-2026/0042</p><script>var x=1;</script></body></html>"
	report, err := p.AnalyzeBytes(context.Background(), []byte(html), "doc.html", "html", "text/html")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.Metadata.Expediente != "LIC-2026/0042" {
		t.Errorf("Unexpected expediente: %q", report.Metadata.Expediente)
	}
}

func TestAnalyzeBytes_BinaryWithoutOCR(t *testing.T) {
	p := NewPipeline(testPipelineConfig())

	_, err := p.AnalyzeBytes(context.Background(), []byte{0x25, 0x50, 0x44, 0x46}, "doc.pdf", "pdf", "application/pdf")
	if err == nil {
		t.Fatal("Expected error for binary document without OCR endpoint")
	}
	if !strings.Contains(err.Error(), "OCR") {
		t.Errorf("Expected OCR in error, got %v", err)
	}
}

func TestAnalyzeBytes_PrivacyOnlyUnreadableDocument(t *testing.T) {
	p := NewPipeline(testPipelineConfig())
	p.PrivacyOnly = true

	report, err := p.AnalyzeBytes(context.Background(), []byte{0x25, 0x50, 0x44, 0x46}, "doc.pdf", "pdf", "application/pdf")
	if err != nil {
		t.Fatalf("Expected terminal record instead of error, got %v", err)
	}

	if report.Metadata != nil {
		t.Error("Expected no metadata in privacy-only mode")
	}
	if report.Privacy == nil {
		t.Fatal("Expected terminal privacy record")
	}
	if report.Privacy.ContainsPersonalData {
		t.Error("Expected no personal data flag for unreadable document")
	}
	if report.Privacy.ReviewReason == "" {
		t.Error("Expected review reason for unreadable document")
	}
}

func TestAnalyzeBytes_PrivacyOnlySkipsMetadata(t *testing.T) {
	p := NewPipeline(testPipelineConfig())
	p.PrivacyOnly = true

	report, err := p.AnalyzeBytes(context.Background(), []byte(sampleLicenseText), "licencia.txt", "txt", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if report.Metadata != nil {
		t.Error("Expected no metadata in privacy-only mode")
	}
	if report.Privacy == nil || !report.Privacy.ContainsPersonalData {
		t.Error("Expected privacy assessment to still run")
	}
}

func TestAnalyzeBytes_CacheRoundTrip(t *testing.T) {
	cfg := testPipelineConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = t.TempDir()

	p := NewPipeline(cfg)

	first, err := p.AnalyzeBytes(context.Background(), []byte(sampleLicenseText), "licencia.txt", "txt", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if first.Input.CacheHit {
		t.Error("Expected miss on first analysis")
	}

	second, err := p.AnalyzeBytes(context.Background(), []byte(sampleLicenseText), "copia.txt", "txt", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !second.Input.CacheHit {
		t.Error("Expected cache hit on identical content")
	}
	if second.Source != "copia.txt" {
		t.Errorf("Expected source to reflect current target, got %q", second.Source)
	}
	if second.Metadata == nil || second.Metadata.Expediente != first.Metadata.Expediente {
		t.Error("Expected cached report to carry the same extraction")
	}
}

func TestAnalyzeTarget_DispatchesFiles(t *testing.T) {
	p := NewPipeline(testPipelineConfig())

	_, err := p.AnalyzeTarget(context.Background(), "no_such_file.txt")
	if err == nil || !strings.Contains(err.Error(), "read file") {
		t.Errorf("Expected read file error for local path, got %v", err)
	}
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		source      string
		contentType string
		expected    string
	}{
		{"licencia.pdf", "", "pdf"},
		{"licencia.PDF", "", "pdf"},
		{"informe.htm", "", "html"},
		{"https://sede.madrid.es/doc.pdf?token=abc", "", "pdf"},
		{"https://sede.madrid.es/descarga", "application/pdf", "pdf"},
		{"https://sede.madrid.es/pagina", "text/html; charset=utf-8", "html"},
		{"descarga", "image/png", "png"},
		{"descarga", "", "bin"},
		{"notas.txt", "", "txt"},
	}

	for _, tt := range tests {
		if got := DetectFileType(tt.source, tt.contentType); got != tt.expected {
			t.Errorf("DetectFileType(%q, %q) = %q, expected %q", tt.source, tt.contentType, got, tt.expected)
		}
	}
}
