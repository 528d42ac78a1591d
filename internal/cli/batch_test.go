package cli

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"licencia.pdf", "licencia"},
		{"/ruta/absoluta/informe licencia.pdf", "informe-licencia"},
		{"https://sede.madrid.es/tramites/doc.pdf", "doc"},
		{"https://sede.madrid.es/", "sede.madrid"},
		{"", "informe"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.expected {
			t.Errorf("sanitizeFilename(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
