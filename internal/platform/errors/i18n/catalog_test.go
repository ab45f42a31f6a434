package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	if got := GetCatalog(""); got != base {
		t.Fatal("expected empty locale to use en-US catalog")
	}
	if got := GetCatalog("missing-locale"); got != base {
		t.Fatal("expected fallback to en-US catalog")
	}
}

func TestGetCatalogMatchesTraditionalChinese(t *testing.T) {
	for _, locale := range []string{"zh-TW", "zh-Hant", "zh-Hant-HK", "zh-TW,en;q=0.5"} {
		if got := GetCatalog(locale).Locale(); got != "zh-TW" {
			t.Errorf("GetCatalog(%q).Locale() = %q, want zh-TW", locale, got)
		}
	}
}

func TestCatalogsCoverSameCodes(t *testing.T) {
	for code := range enUS {
		if _, ok := zhTW[code]; !ok {
			t.Errorf("zh-TW missing %s", code)
		}
	}
	for code := range zhTW {
		if _, ok := enUS[code]; !ok {
			t.Errorf("en-US missing %s", code)
		}
	}
}

func TestFormatRendersMetadata(t *testing.T) {
	got := GetCatalog("en-US").Format(CodeNotFound, map[string]string{"Resource": "chart"})
	if got != "chart not found" {
		t.Fatalf("Format = %q", got)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}
