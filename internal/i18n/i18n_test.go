package i18n

import "testing"

func TestResolveCoversDefaultKeySet(t *testing.T) {
	for _, lang := range Supported() {
		for _, key := range Keys() {
			if got := Resolve(lang, key); got == "" {
				t.Errorf("Resolve(%s, %q) returned empty string", lang, key)
			}
		}
	}
}

func TestResolveFallsBackToDefaultLanguage(t *testing.T) {
	// ar-SA has no "actions.title" entry; it must resolve via pt-BR.
	got := Resolve(ArabicSA, "actions.title")
	want := catalog[Default]["actions.title"]
	if got != want {
		t.Errorf("Resolve(ar-SA, actions.title) = %q, want default %q", got, want)
	}
}

func TestResolveUnknownKeyReturnsKey(t *testing.T) {
	if got := Resolve(EnglishUS, "no.such.key"); got != "no.such.key" {
		t.Errorf("Resolve of unknown key = %q, want the key itself", got)
	}
}

func TestResolveUnknownLanguageUsesDefault(t *testing.T) {
	got := Resolve(Language("xx-XX"), "label.you")
	if got != catalog[Default]["label.you"] {
		t.Errorf("Resolve(xx-XX, label.you) = %q, want default table entry", got)
	}
}

func TestDirection(t *testing.T) {
	if Dir(ArabicSA) != RightToLeft {
		t.Error("ar-SA should be right-to-left")
	}
	for _, lang := range []Language{PortugueseBR, EnglishUS, SpanishES} {
		if Dir(lang) != LeftToRight {
			t.Errorf("%s should be left-to-right", lang)
		}
	}
}

func TestNewContext(t *testing.T) {
	ctx := NewContext(ArabicSA)
	if ctx.Direction != RightToLeft || ctx.LocaleTag != "ar-SA" {
		t.Errorf("unexpected context: %+v", ctx)
	}
	if ctx.T("label.you") == "" {
		t.Error("context lookup returned empty string")
	}

	// Unknown codes normalize to the default language.
	ctx = NewContext(Language("zz"))
	if ctx.Language != Default {
		t.Errorf("unknown code normalized to %s, want %s", ctx.Language, Default)
	}
}
