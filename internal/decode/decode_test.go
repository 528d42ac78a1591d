package decode

import (
	"strings"
	"testing"
)

func TestText_UTF8(t *testing.T) {
	text, enc := Text([]byte("Concesión otorgada"))
	if enc != EncodingUTF8 {
		t.Errorf("Expected utf-8, got %s", enc)
	}
	if text != "Concesión otorgada" {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestText_Windows1252Fallback(t *testing.T) {
	// "Concesión" encoded in Windows-1252: ó is 0xF3, invalid as UTF-8.
	raw := []byte{'C', 'o', 'n', 'c', 'e', 's', 'i', 0xF3, 'n'}
	text, enc := Text(raw)
	if enc != EncodingWindows1252 {
		t.Errorf("Expected windows-1252 fallback, got %s", enc)
	}
	if text != "Concesión" {
		t.Errorf("Expected 'Concesión', got %q", text)
	}
}

func TestText_Empty(t *testing.T) {
	text, enc := Text(nil)
	if text != "" || enc != EncodingUTF8 {
		t.Errorf("Expected empty utf-8 result, got %q/%s", text, enc)
	}
}

func TestHTMLToText_SkipsScripts(t *testing.T) {
	htmlDoc := `<html><head><script>var x = "Expediente: FAKE-1";</script></head>
	<body><p>Expediente: AB-1234/2024</p><p>NIF: 12345678A</p></body></html>`

	text, err := HTMLToText(htmlDoc)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.Contains(text, "FAKE-1") {
		t.Error("Script content must not leak into extracted text")
	}
	if !strings.Contains(text, "Expediente: AB-1234/2024") {
		t.Errorf("Expected visible text preserved, got %q", text)
	}
}

func TestHTMLToText_BlockElementsBreakLines(t *testing.T) {
	text, err := HTMLToText(`<p>Titular: Ana López</p><p>NIF: 12345678A</p>`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		t.Errorf("Expected paragraph boundaries to produce line breaks, got %q", text)
	}
}
