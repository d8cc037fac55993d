package cart

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flourever/storefront/internal/pricing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	cupcake = Product{ID: 1, Name: "Red Velvet Cupcake", Price: dec("50")}
	donut   = Product{ID: 2, Name: "Glazed Donut", Price: dec("80")}
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(&MemStorage{})
}

func TestAddMergesSameProductAndSize(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 1, pricing.SizeRegular)
	e.Add(cupcake, 2, pricing.SizeRegular)
	e.Add(cupcake, 3, pricing.SizeRegular)

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 6, lines[0].Quantity)
	assert.True(t, lines[0].Selected)
}

func TestAddKeepsDistinctSizesApart(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 1, pricing.SizeRegular)
	e.Add(cupcake, 1, pricing.SizeLarge)

	lines := e.Lines()
	require.Len(t, lines, 2)
	assert.NotEqual(t, lines[0].Key(), lines[1].Key())
}

func TestAddReselectsDeselectedLine(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 1, pricing.SizeRegular)
	key := Key(cupcake.ID, pricing.SizeRegular)
	e.ToggleSelect(key)
	require.False(t, e.Lines()[0].Selected)

	e.Add(cupcake, 1, pricing.SizeRegular)
	assert.True(t, e.Lines()[0].Selected)
}

func TestAddDefaultsInvalidInput(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 0, "Jumbo")

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, pricing.SizeRegular, lines[0].Size)
}

func TestDerivedPrice(t *testing.T) {
	e := newTestEngine(t)
	e.Add(donut, 1, pricing.SizeLarge)

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.True(t, lines[0].UnitPrice().Equal(dec("120")), "large donut should be 80 x 1.5")
	assert.True(t, lines[0].BasePrice.Equal(dec("80")), "base price stays untouched")
}

func TestSetQuantity(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 2, pricing.SizeRegular)
	key := Key(cupcake.ID, pricing.SizeRegular)

	e.SetQuantity(key, 5)
	assert.Equal(t, 5, e.Lines()[0].Quantity)

	// decrementing below one removes the line
	e.SetQuantity(key, 0)
	assert.Empty(t, e.Lines())
}

func TestRemove(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 1, pricing.SizeRegular)
	e.Add(donut, 1, pricing.SizeRegular)

	e.Remove(Key(cupcake.ID, pricing.SizeRegular))
	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, donut.ID, lines[0].ProductID)
}

func TestUnknownKeysAreSilentNoOps(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 1, pricing.SizeRegular)

	e.Remove("999|Regular")
	e.SetQuantity("999|Regular", 3)
	e.SetSize("999|Regular", pricing.SizeLarge)
	e.ToggleSelect("999|Regular")

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestSetSizeRelabelsWithoutCollision(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 2, pricing.SizeRegular)

	e.SetSize(Key(cupcake.ID, pricing.SizeRegular), pricing.SizeLarge)

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, pricing.SizeLarge, lines[0].Size)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice().Equal(dec("75")))
	assert.True(t, lines[0].Selected)
}

func TestSetSizeMergeConservesQuantity(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 2, pricing.SizeRegular)
	e.Add(cupcake, 3, pricing.SizeLarge)
	e.ToggleSelect(Key(cupcake.ID, pricing.SizeLarge))

	e.SetSize(Key(cupcake.ID, pricing.SizeRegular), pricing.SizeLarge)

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity, "quantities must sum on merge")
	assert.Equal(t, pricing.SizeLarge, lines[0].Size)
	assert.True(t, lines[0].Selected, "merged line becomes selected")
}

func TestSetSizeSameSizeIsNoOp(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 2, pricing.SizeRegular)
	before := e.Lines()

	e.SetSize(Key(cupcake.ID, pricing.SizeRegular), pricing.SizeRegular)
	assert.Equal(t, before, e.Lines())
}

func TestSubtotalCountsSelectedOnly(t *testing.T) {
	e := newTestEngine(t)
	// Regular cupcake (50) x 2 and Large donut (80 -> 120) x 1, both selected
	e.Add(cupcake, 2, pricing.SizeRegular)
	e.Add(donut, 1, pricing.SizeLarge)
	assert.True(t, e.Subtotal().Equal(dec("220")), "subtotal = 50x2 + 120x1")

	// deselect the donut: its quantity no longer matters
	e.ToggleSelect(Key(donut.ID, pricing.SizeLarge))
	assert.True(t, e.Subtotal().Equal(dec("100")))
	e.SetQuantity(Key(donut.ID, pricing.SizeLarge), 40)
	assert.True(t, e.Subtotal().Equal(dec("100")), "unselected quantity changes must not move the subtotal")
}

func TestToggleSelectAll(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 1, pricing.SizeRegular)
	e.Add(donut, 1, pricing.SizeRegular)

	// all selected -> deselect all
	e.ToggleSelectAll()
	for _, l := range e.Lines() {
		assert.False(t, l.Selected)
	}
	// none selected -> select all
	e.ToggleSelectAll()
	for _, l := range e.Lines() {
		assert.True(t, l.Selected)
	}

	// mixed start: toggling selects everything, so toggling twice does not
	// restore the mixed state
	e.ToggleSelect(Key(cupcake.ID, pricing.SizeRegular))
	e.ToggleSelectAll()
	e.ToggleSelectAll()
	for _, l := range e.Lines() {
		assert.False(t, l.Selected)
	}
}

func TestClearSelectedKeepsDeselectedLines(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 2, pricing.SizeRegular)
	e.Add(donut, 1, pricing.SizeRegular)
	e.ToggleSelect(Key(donut.ID, pricing.SizeRegular))

	e.ClearSelected()

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, donut.ID, lines[0].ProductID)
}

func TestClearAll(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 1, pricing.SizeRegular)
	e.Add(donut, 1, pricing.SizeLarge)
	e.ClearAll()
	assert.Empty(t, e.Lines())
}

func TestSelectedLines(t *testing.T) {
	e := newTestEngine(t)
	e.Add(cupcake, 2, pricing.SizeRegular)
	e.Add(donut, 1, pricing.SizeLarge)
	e.ToggleSelect(Key(cupcake.ID, pricing.SizeRegular))

	sel := e.SelectedLines()
	require.Len(t, sel, 1)
	assert.Equal(t, donut.ID, sel[0].ProductID)
}

func TestSubscribeSeesEveryMutation(t *testing.T) {
	e := newTestEngine(t)
	var calls [][]Line
	e.Subscribe(func(lines []Line) { calls = append(calls, lines) })

	e.Add(cupcake, 1, pricing.SizeRegular)
	e.SetQuantity(Key(cupcake.ID, pricing.SizeRegular), 3)
	e.ClearAll()

	require.Len(t, calls, 3)
	assert.Equal(t, 3, calls[1][0].Quantity)
	assert.Empty(t, calls[2])
}

func TestSnapshotSurvivesRestart(t *testing.T) {
	storage := &MemStorage{}
	e := New(storage)
	e.Add(cupcake, 2, pricing.SizeRegular)
	e.Add(donut, 1, pricing.SizeLarge)
	e.ToggleSelect(Key(donut.ID, pricing.SizeLarge))

	reloaded := New(storage)
	lines := reloaded.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].Selected)
	assert.False(t, lines[1].Selected)
	assert.True(t, reloaded.Subtotal().Equal(dec("100")))
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	storage := NewFileStorage(path)

	e := New(storage)
	e.Add(donut, 3, pricing.SizeLarge)

	reloaded := New(NewFileStorage(path))
	lines := reloaded.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].BasePrice.Equal(dec("80")))
	assert.Equal(t, pricing.SizeLarge, lines[0].Size)
}

func TestFileStorageMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	e := New(NewFileStorage(path))
	assert.Empty(t, e.Lines())
}
