package i18n

import (
	"testing"
	"testing/fstest"
)

func newTestManager(t *testing.T, defaultLanguage string) *Manager {
	t.Helper()

	manager, err := NewManager(defaultLanguage)
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	return manager
}

func TestNewManagerFallsBackToPortuguese(t *testing.T) {
	manager := newTestManager(t, "de")
	if manager.DefaultLanguage() != LangPT {
		t.Fatalf("expected default %q, got %q", LangPT, manager.DefaultLanguage())
	}

	manager = newTestManager(t, "EN-us")
	if manager.DefaultLanguage() != LangEN {
		t.Fatalf("expected default %q, got %q", LangEN, manager.DefaultLanguage())
	}
}

func TestResolvePrefersExplicitChoiceThenQuality(t *testing.T) {
	manager := newTestManager(t, LangPT)

	tests := []struct {
		choice string
		header string
		want   string
	}{
		{header: "pt-BR,pt;q=0.9,en;q=0.8", want: LangPT},
		{header: "fr-FR, en-GB;q=0.7", want: LangEN},
		{header: "pt;q=0.4, en;q=0.9", want: LangEN},
		{header: "en;q=0, pt-PT;q=0.2", want: LangPT},
		{header: "de", want: LangPT},
		{header: "", want: LangPT},
		{choice: "en", header: "pt-BR", want: LangEN},
		{choice: "xx", header: "en-US", want: LangEN},
	}
	for _, test := range tests {
		if got := manager.Resolve(test.choice, test.header); got != test.want {
			t.Fatalf("Resolve(%q, %q) = %q, want %q", test.choice, test.header, got, test.want)
		}
	}
}

func TestTranslateFallsBackToDefaultCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/pt.json": {Data: []byte(`{"common.next": "Continuar", "only.pt": "Somente"}`)},
		"locales/en.json": {Data: []byte(`{"common.next": "Continue", "only.pt": " "}`)},
	}
	manager, err := NewManagerFromFS(LangPT, fsys, "locales")
	if err != nil {
		t.Fatalf("NewManagerFromFS() error: %v", err)
	}

	if got := manager.Translate(LangEN, "common.next"); got != "Continue" {
		t.Fatalf("expected english label, got %q", got)
	}
	if got := manager.Translate("pt-BR", "common.next"); got != "Continuar" {
		t.Fatalf("expected portuguese label, got %q", got)
	}
	if got := manager.Translate(LangEN, "only.pt"); got != "Somente" {
		t.Fatalf("expected blank english value to fall back, got %q", got)
	}
	if got := manager.Translate(LangEN, "missing.key"); got != "missing.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}

func TestNewManagerFromFSRequiresBothCatalogs(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/pt.json": {Data: []byte(`{"common.next": "Continuar"}`)},
	}
	if _, err := NewManagerFromFS(LangPT, fsys, "locales"); err == nil {
		t.Fatalf("expected error when the english catalog is missing")
	}
}
