// Package i18n localizes display labels through golang.org/x/text.
//
// Labels are keyed by their Traditional Chinese form, which is also the
// zh-TW rendering; other locales register translations into a Bundle.
package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	// LocaleZhTW renders labels in Traditional Chinese.
	LocaleZhTW = "zh-TW"
	// LocaleEnUS renders labels in English.
	LocaleEnUS = "en-US"
	// DefaultLocale is used for empty or unsupported locale requests.
	DefaultLocale = LocaleZhTW
)

var supported = []language.Tag{language.TraditionalChinese, language.AmericanEnglish}

var localeTags = map[string]language.Tag{
	LocaleZhTW: language.TraditionalChinese,
	LocaleEnUS: language.AmericanEnglish,
}

// Bundle is a set of translated labels.
type Bundle struct {
	mu      sync.Mutex
	builder *catalog.Builder
	matcher language.Matcher
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{
		builder: catalog.NewBuilder(catalog.Fallback(language.TraditionalChinese)),
		matcher: language.NewMatcher(supported),
	}
}

// Add registers translations for locale. Keys are zh-TW labels.
func (b *Bundle) Add(locale string, entries map[string]string) error {
	tag, ok := localeTags[locale]
	if !ok {
		parsed, err := language.Parse(locale)
		if err != nil {
			return err
		}
		tag = parsed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for key, value := range entries {
		if err := b.builder.SetString(tag, key, value); err != nil {
			return err
		}
	}
	return nil
}

// Match resolves a requested locale (BCP 47 or Accept-Language) to a
// supported one.
func (b *Bundle) Match(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return DefaultLocale
	}
	if _, ok := localeTags[locale]; ok {
		return locale
	}
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	if supported[index] == language.AmericanEnglish {
		return LocaleEnUS
	}
	return LocaleZhTW
}

// Localizer renders labels for one locale.
type Localizer struct {
	locale  string
	printer *message.Printer
}

// Localizer returns a renderer for the best supported match of locale.
func (b *Bundle) Localizer(locale string) Localizer {
	resolved := b.Match(locale)
	return Localizer{
		locale:  resolved,
		printer: message.NewPrinter(localeTags[resolved], message.Catalog(b.builder)),
	}
}

// Locale returns the resolved locale.
func (l Localizer) Locale() string { return l.locale }

// Label translates a zh-TW label, returning it unchanged when no
// translation exists.
func (l Localizer) Label(key string) string {
	if key == "" {
		return ""
	}
	return l.printer.Sprintf(key)
}

// Sprintf formats a message whose key may carry verbs, e.g. "%d歲".
func (l Localizer) Sprintf(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}
