package content

import (
	"reflect"
	"testing"

	"content-gen-api/internal/config"
	apperrors "content-gen-api/pkg/errors"
)

func TestTemplaterFormat(t *testing.T) {
	tpl := NewTemplater(config.DefaultPromptPrefixes(), false)

	tests := []struct {
		contentType string
		prompt      string
		want        string
	}{
		{"poem", "the sea", "Compone un poema inspirador sobre: the sea"},
		{"article", "Go", "Escribe un artículo detallado sobre: Go"},
		{"story", "a fox", "Crea una historia cautivadora sobre: a fox"},
		{"script", "a duel", "Desarrolla un guión dramático sobre: a duel"},
		{"email", "a delay", "Redacta un correo electrónico profesional sobre: a delay"},
		{"description", "a lamp", "Genera una descripción detallada de: a lamp"},
		{"unknown_type", "x", "x"},
		{"", "x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			got, err := tpl.Format(tt.contentType, tt.prompt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplaterStrict(t *testing.T) {
	tpl := NewTemplater(config.DefaultPromptPrefixes(), true)

	if _, err := tpl.Format("poem", "x"); err != nil {
		t.Errorf("known type should pass in strict mode: %v", err)
	}

	_, err := tpl.Format("unknown_type", "x")
	if !apperrors.HasCode(err, apperrors.CodeUnsupportedContentType) {
		t.Errorf("expected unsupported content type error, got %v", err)
	}
}

func TestTemplaterContentTypes(t *testing.T) {
	tpl := NewTemplater(map[string]string{"story": "s ", "article": "a ", "poem": "p "}, false)
	want := []string{"article", "poem", "story"}
	if got := tpl.ContentTypes(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTemplaterCopiesPrefixes(t *testing.T) {
	prefixes := map[string]string{"poem": "P: "}
	tpl := NewTemplater(prefixes, false)
	prefixes["poem"] = "changed"

	got, _ := tpl.Format("poem", "x")
	if got != "P: x" {
		t.Errorf("templater should not observe caller mutation, got %q", got)
	}
}
