package i18n

import "testing"

func newTestBundle(t *testing.T) *Bundle {
	t.Helper()
	b := NewBundle()
	if err := b.Add(LocaleEnUS, map[string]string{
		"紫微":  "Zi Wei",
		"%d歲": "age %d",
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	return b
}

func TestLocalizerTranslatesLabels(t *testing.T) {
	t.Parallel()

	b := newTestBundle(t)
	en := b.Localizer("en-US")
	if got := en.Label("紫微"); got != "Zi Wei" {
		t.Fatalf("en label = %q, want Zi Wei", got)
	}
	if got := en.Sprintf("%d歲", 5); got != "age 5" {
		t.Fatalf("en sprintf = %q, want age 5", got)
	}
	if got := en.Label("天機"); got != "天機" {
		t.Fatalf("missing translation = %q, want key unchanged", got)
	}

	zh := b.Localizer("zh-TW")
	if got := zh.Label("紫微"); got != "紫微" {
		t.Fatalf("zh label = %q, want 紫微", got)
	}
}

func TestBundleMatch(t *testing.T) {
	t.Parallel()

	b := NewBundle()
	tcs := map[string]string{
		"":                LocaleZhTW,
		"en-US":           LocaleEnUS,
		"en":              LocaleEnUS,
		"en-GB":           LocaleEnUS,
		"zh-Hant-HK":      LocaleZhTW,
		"fr-FR":           LocaleZhTW,
		"en-US,zh;q=0.5":  LocaleEnUS,
		"not a locale!!!": LocaleZhTW,
	}
	for in, want := range tcs {
		if got := b.Match(in); got != want {
			t.Errorf("Match(%q) = %q, want %q", in, got, want)
		}
	}
}
