package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkers(t *testing.T) {
	assert.Equal(t, "plan then act", StripMarkers("/*PLANNING*/plan then /*ACTION*/act"))
}

func TestPlainMarkdownEscapes(t *testing.T) {
	got := PlainMarkdown{}.Render("a < b\nnext")
	assert.Equal(t, "a &lt; b<br>next", string(got))
}

func TestGoldmarkMarkdown(t *testing.T) {
	md := NewGoldmarkMarkdown()

	got := string(md.Render("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n<img src=x onerror=alert(1)>"))
	assert.Contains(t, got, "<h1")
	assert.Contains(t, got, "<table>")
	assert.NotContains(t, got, "onerror")
}

func TestParseTheme(t *testing.T) {
	assert.Equal(t, ThemeDark, ParseTheme(" DARK "))
	assert.Equal(t, ThemeLight, ParseTheme(""))
	assert.Equal(t, ThemeLight, ParseTheme("solarized"))
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
}
