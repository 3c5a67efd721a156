// Package i18n negotiates the interface language and translates interface
// text. Message keys are the English strings; Arabic is the default
// language.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported interface languages.
const (
	Arabic  = "ar"
	English = "en"
)

// Default is used when nothing else matches.
const Default = Arabic

var (
	supported = []language.Tag{language.Arabic, language.English}
	matcher   = language.NewMatcher(supported)
	cat       = buildCatalog()
)

// Normalize returns a supported language code for code, or "".
func Normalize(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	switch base.String() {
	case Arabic:
		return Arabic
	case English:
		return English
	}
	return ""
}

// Negotiate picks the interface language from a stored preference and an
// Accept-Language header, in that order.
func Negotiate(preference, acceptLanguage string) string {
	if lang := Normalize(preference); lang != "" {
		return lang
	}
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// Dir returns the text direction for lang.
func Dir(lang string) string {
	if lang == English {
		return "ltr"
	}
	return "rtl"
}

// T translates key into lang, formatting args with the key's verbs.
func T(lang, key string, args ...any) string {
	return printer(lang).Sprintf(key, args...)
}

func printer(lang string) *message.Printer {
	tag := language.Arabic
	if lang == English {
		tag = language.English
	}
	return message.NewPrinter(tag, message.Catalog(cat))
}

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, ar := range arabic {
		if err := b.SetString(language.Arabic, key, ar); err != nil {
			panic("i18n: " + key + ": " + err.Error())
		}
	}
	return b
}

// Has reports whether key has an Arabic translation.
func Has(key string) bool {
	_, ok := arabic[key]
	return ok
}
