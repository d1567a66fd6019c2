package i18n

import (
	"context"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("fr-FR,fr;q=0.8") != "fr" {
		t.Fatalf("expected fr fallback")
	}
	if DetectLanguage("") != "fr" {
		t.Fatalf("expected default fr")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("fr", "required") != "Requis" {
		t.Fatalf("expected Requis")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to fr translation if exists
	if T("es", "required") != "Requis" {
		t.Fatalf("expected fr fallback for es lang")
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{"en-GB": "en", " FR ": "fr", "pt_BR": "pt", "": ""}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegionalLangTranslates(t *testing.T) {
	if T("en-US", "company_not_found") != "Company not found" {
		t.Fatalf("expected english message for en-US")
	}
}

func TestLangContext(t *testing.T) {
	ctx := context.Background()
	if LangFromContext(ctx) != Default {
		t.Fatalf("expected default language")
	}
	ctx = WithLang(ctx, "en")
	if LangFromContext(ctx) != "en" {
		t.Fatalf("expected en from context")
	}
}
