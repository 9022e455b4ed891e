package ui

import (
	"strings"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"

	"github.com/trezcool/garderie/core"
)

// Themes
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var ErrUnsupportedLocale = errors.New("unsupported locale")

// Context holds the presentational state of one browser request: the active locale and theme.
type Context struct {
	mu     sync.RWMutex
	uni    *ut.UniversalTranslator
	locale string
	isDark bool
}

// New returns a Context in the given locale, falling back to the default one when unsupported.
func New(uni *ut.UniversalTranslator, locale string, isDark bool) *Context {
	if !core.IsSupportedLocale(locale) {
		locale = core.DefaultLocale
	}
	return &Context{uni: uni, locale: locale, isDark: isDark}
}

func (c *Context) Locale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locale
}

func (c *Context) IsDark() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isDark
}

// Lang is the value of the document's lang attribute.
func (c *Context) Lang() string {
	return c.Locale()
}

// Dir is the value of the document's dir attribute.
func (c *Context) Dir() string {
	if core.IsRTL(c.Locale()) {
		return "rtl"
	}
	return "ltr"
}

func (c *Context) IsRTL() bool {
	return core.IsRTL(c.Locale())
}

// Theme is the CSS class applied to the document.
func (c *Context) Theme() string {
	if c.IsDark() {
		return ThemeDark
	}
	return ThemeLight
}

func (c *Context) SetLocale(locale string) error {
	if !core.IsSupportedLocale(locale) {
		return errors.Wrap(ErrUnsupportedLocale, locale)
	}
	c.mu.Lock()
	c.locale = locale
	c.mu.Unlock()
	return nil
}

// ToggleTheme flips the theme and returns the new isDark value.
func (c *Context) ToggleTheme() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isDark = !c.isDark
	return c.isDark
}

// OtherLocale is the locale offered by the language switcher.
func (c *Context) OtherLocale() string {
	if c.Locale() == core.LocaleAR {
		return core.LocaleFR
	}
	return core.LocaleAR
}

func (c *Context) Translator() ut.Translator {
	return core.Translator(c.uni, c.Locale())
}

// T translates key; unknown keys are returned as is.
func (c *Context) T(key string, params ...string) string {
	s, err := c.Translator().T(key, params...)
	if err != nil || s == "" {
		return key
	}
	return s
}

// Path prefixes p with the active locale.
func (c *Context) Path(p string) string {
	return "/" + c.Locale() + p
}

// SwitchPath returns p, a locale-prefixed path, under the other locale.
func (c *Context) SwitchPath(p string) string {
	prefix := "/" + c.Locale()
	if p == prefix || strings.HasPrefix(p, prefix+"/") {
		p = strings.TrimPrefix(p, prefix)
	}
	return "/" + c.OtherLocale() + p
}

func (c *Context) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return c.Translator().FmtDateLong(t)
}

func (c *Context) FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return c.Translator().FmtTimeShort(t)
}

// FormatISODate formats a YYYY-MM-DD date; invalid input is returned as is.
func (c *Context) FormatISODate(s string) string {
	t, err := time.Parse(core.DateLayout, s)
	if err != nil {
		return s
	}
	return c.Translator().FmtDateMedium(t)
}
