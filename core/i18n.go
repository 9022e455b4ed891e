package core

import (
	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
)

// Supported locales
const (
	LocaleFR = "fr"
	LocaleAR = "ar"

	DefaultLocale = LocaleFR
)

var Locales = []string{LocaleFR, LocaleAR}

func IsSupportedLocale(locale string) bool {
	for _, l := range Locales {
		if l == locale {
			return true
		}
	}
	return false
}

// IsRTL reports whether the locale is written right-to-left.
func IsRTL(locale string) bool {
	return locale == LocaleAR
}

// NewUniversalTranslator returns a translator holding every supported locale, french being the fallback.
func NewUniversalTranslator() *ut.UniversalTranslator {
	_fr := fr.New()
	return ut.New(_fr, _fr, ar.New())
}

// Translator returns the translator of the given locale, or the fallback one.
func Translator(uni *ut.UniversalTranslator, locale string) ut.Translator {
	trans, _ := uni.GetTranslator(locale)
	return trans
}
