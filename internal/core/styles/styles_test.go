package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, DefaultTheme)
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, ok := GetPalette("gruvbox")
	require.True(t, ok)

	SetTheme(p)
	assert.Equal(t, p, CurrentPalette)
	assert.Equal(t, p.Error, TextErrorStyle.GetForeground())
}

func TestGetPalette_Unknown(t *testing.T) {
	_, ok := GetPalette("nope")
	assert.False(t, ok)
}

func TestGlamourStyle(t *testing.T) {
	cfg := GlamourStyle()
	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, string(CurrentPalette.Foreground), *cfg.Document.Color)
	assert.Equal(t, "[ ] ", cfg.Task.Unticked)
}
