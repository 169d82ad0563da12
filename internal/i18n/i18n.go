// Package i18n resolves UI strings, recognition locale tags, and text
// direction for the supported session languages.
//
// Resolution never fails: a key missing from the selected language's table
// falls back to the default language, and a key missing there too resolves
// to the key itself as a last-resort placeholder.
package i18n

// Language is a supported session language code.
type Language string

const (
	PortugueseBR Language = "pt-BR" // default
	EnglishUS    Language = "en-US"
	SpanishES    Language = "es-ES"
	ArabicSA     Language = "ar-SA" // the one right-to-left language
)

// Default is the fallback language for unknown codes and missing keys.
const Default = PortugueseBR

// Direction is the text direction of a language.
type Direction string

const (
	LeftToRight Direction = "ltr"
	RightToLeft Direction = "rtl"
)

// Supported lists the supported languages in presentation order.
func Supported() []Language {
	return []Language{PortugueseBR, EnglishUS, SpanishES, ArabicSA}
}

// IsSupported reports whether code names a supported language.
func IsSupported(code string) bool {
	switch Language(code) {
	case PortugueseBR, EnglishUS, SpanishES, ArabicSA:
		return true
	}
	return false
}

// Normalize maps an arbitrary code to a supported Language, falling back to
// the default for unknown codes.
func Normalize(code string) Language {
	if IsSupported(code) {
		return Language(code)
	}
	return Default
}

// Resolve looks up key in the table for lang, falling back to the default
// language's table, then to the key itself. It never returns an empty string
// for a key defined in the default table.
func Resolve(lang Language, key string) string {
	if table, ok := catalog[lang]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	if s, ok := catalog[Default][key]; ok {
		return s
	}
	return key
}

// LocaleTag returns the tag handed to the speech-recognition capability and
// to the remote endpoint for lang.
func LocaleTag(lang Language) string {
	return string(Normalize(string(lang)))
}

// Dir returns the text direction for lang.
func Dir(lang Language) Direction {
	if Normalize(string(lang)) == ArabicSA {
		return RightToLeft
	}
	return LeftToRight
}

// Context carries the language-derived presentation state handed to the
// rendering layer, so direction and locale are explicit inputs rather than
// global lookups.
type Context struct {
	Language  Language
	LocaleTag string
	Direction Direction
}

// NewContext builds the presentation context for lang.
func NewContext(lang Language) Context {
	lang = Normalize(string(lang))
	return Context{
		Language:  lang,
		LocaleTag: LocaleTag(lang),
		Direction: Dir(lang),
	}
}

// T resolves key in the context's language.
func (c Context) T(key string) string {
	return Resolve(c.Language, key)
}
