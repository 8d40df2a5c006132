package cli

import (
	"testing"

	"github.com/alexanderramin/capplan/internal/teatest"
	"github.com/alexanderramin/capplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBrowserDriver(t *testing.T) (*teatest.Driver, *catalogBrowser) {
	t.Helper()
	m := newCatalogBrowser(testutil.NewTestDataset().Catalog())
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()
	return d, m
}

func TestCatalogBrowser_StartsCollapsed(t *testing.T) {
	d, m := newBrowserDriver(t)

	view := d.View()
	assert.Contains(t, view, "▸ Trees")
	assert.Contains(t, view, "▸ Wetlands")
	assert.NotContains(t, view, "Oak Tree")
	assert.Contains(t, view, "Select an action")
	assert.Len(t, m.visibleNodes(), 2)
}

func TestCatalogBrowser_ExpandAndPreview(t *testing.T) {
	d, m := newBrowserDriver(t)

	d.PressEnter() // Trees
	assert.Contains(t, d.View(), "▾ Trees")
	assert.Contains(t, d.View(), "Oak Tree")

	d.PressDown()
	d.PressKey('l') // Oak Tree
	d.PressDown()   // Prune
	require.NotNil(t, m.selected())
	assert.Equal(t, "Prune", m.selected().Path.Name)
	assert.Contains(t, d.View(), "$120 / Each")
	assert.Contains(t, d.View(), "3 years")

	d.PressKey('j') // Remove
	assert.Contains(t, d.View(), "$900 / Each")

	d.PressKey('h') // leaf collapses its type and selects it
	assert.Nil(t, m.selected())
	assert.NotContains(t, d.View(), "Remove")
}

func TestCatalogBrowser_CursorStaysInBounds(t *testing.T) {
	d, m := newBrowserDriver(t)

	d.PressUp()
	assert.Equal(t, 0, m.cursor)
	for range 5 {
		d.PressDown()
	}
	assert.Equal(t, 1, m.cursor)
}

func TestCatalogBrowser_Filter(t *testing.T) {
	d, m := newBrowserDriver(t)

	d.PressKey('/')
	d.Type("weed")
	view := d.View()
	assert.Contains(t, view, "/ weed")
	assert.Contains(t, view, "Weed Control")
	assert.NotContains(t, view, "Oak Tree")
	assert.Len(t, m.visibleNodes(), 3)

	d.PressEnter()
	d.PressDown()
	d.PressDown()
	require.NotNil(t, m.selected())
	assert.Equal(t, "Weed Control", m.selected().Path.Name)

	d.PressKey('/')
	d.Type("nothing")
	assert.Contains(t, d.View(), "No catalog actions match.")
	d.PressEsc()
	assert.Len(t, m.visibleNodes(), 2)
}

func TestCatalogBrowser_Quit(t *testing.T) {
	d, _ := newBrowserDriver(t)
	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestCatalogBrowser_ArrowKeysAndSpace(t *testing.T) {
	d, m := newBrowserDriver(t)

	d.PressSpace()
	assert.Len(t, m.visibleNodes(), 3, "space expands Trees")
	d.PressRight()
	assert.Len(t, m.visibleNodes(), 2, "right toggles Trees closed again")

	d.PressRight()
	d.PressLeft()
	assert.Len(t, m.visibleNodes(), 2, "left folds an open branch")
}
