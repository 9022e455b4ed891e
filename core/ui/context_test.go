package ui

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/garderie/core"
)

func newContext(t *testing.T, locale string) *Context {
	uni := core.NewUniversalTranslator()
	if err := LoadMessages(uni); err != nil {
		t.Fatalf("LoadMessages() error = %v", err)
	}
	return New(uni, locale, false)
}

func TestContext_Direction(t *testing.T) {
	tests := []struct {
		locale   string
		wantLang string
		wantDir  string
	}{
		{locale: core.LocaleFR, wantLang: "fr", wantDir: "ltr"},
		{locale: core.LocaleAR, wantLang: "ar", wantDir: "rtl"},
		{locale: "en", wantLang: "fr", wantDir: "ltr"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			c := newContext(t, tt.locale)
			assert.Equal(t, tt.wantLang, c.Lang())
			assert.Equal(t, tt.wantDir, c.Dir())
		})
	}
}

func TestContext_SetLocale(t *testing.T) {
	c := newContext(t, core.LocaleFR)

	assert.NoError(t, c.SetLocale(core.LocaleAR))
	assert.Equal(t, "rtl", c.Dir())
	assert.Equal(t, "الأطفال", c.T("nav.children"))

	err := c.SetLocale("en")
	assert.True(t, errors.Is(err, ErrUnsupportedLocale))
	assert.Equal(t, core.LocaleAR, c.Locale())
}

func TestContext_ToggleTheme(t *testing.T) {
	c := newContext(t, core.LocaleFR)
	assert.Equal(t, ThemeLight, c.Theme())
	assert.True(t, c.ToggleTheme())
	assert.Equal(t, ThemeDark, c.Theme())
	assert.False(t, c.ToggleTheme())
	assert.Equal(t, ThemeLight, c.Theme())
}

func TestContext_T(t *testing.T) {
	c := newContext(t, core.LocaleFR)
	assert.Equal(t, "Enfants", c.T("nav.children"))
	assert.Equal(t, "Page 2 sur 5", c.T("page.position", "2", "5"))
	assert.Equal(t, "missing.key", c.T("missing.key"))
}

func TestContext_Paths(t *testing.T) {
	c := newContext(t, core.LocaleFR)
	assert.Equal(t, "/fr/admin/children", c.Path("/admin/children"))
	assert.Equal(t, "/ar/admin/children", c.SwitchPath("/fr/admin/children"))
	assert.Equal(t, "/ar", c.SwitchPath("/fr"))
	assert.Equal(t, "/ar/france", c.SwitchPath("/france"))
}

func TestContext_FormatISODate(t *testing.T) {
	c := newContext(t, core.LocaleFR)
	assert.Equal(t, "bogus", c.FormatISODate("bogus"))
	assert.NotEmpty(t, c.FormatISODate("2024-05-06"))
	assert.Equal(t, "", c.FormatDate(time.Time{}))
}

func TestMessages_SameKeys(t *testing.T) {
	fr, ar := messages[core.LocaleFR], messages[core.LocaleAR]
	assert.Equal(t, len(fr), len(ar))
	for key := range fr {
		_, ok := ar[key]
		assert.True(t, ok, "missing ar message %q", key)
	}
}
