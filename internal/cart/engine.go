package cart

import (
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/flourever/storefront/internal/pricing"
)

// Engine is the injectable cart store. All mutations are synchronous state
// replacements; a mutation that names an unknown line key is a logged no-op,
// never an error. Every successful mutation persists a snapshot and notifies
// subscribers.
type Engine struct {
	mu      sync.Mutex
	storage Storage
	lines   []Line
	subs    []func([]Line)
}

// New loads the snapshot held by storage. A missing or unreadable snapshot
// starts an empty cart rather than failing: the cart must never block the UI.
func New(storage Storage) *Engine {
	e := &Engine{storage: storage}
	lines, err := storage.Load()
	if err != nil {
		log.Printf("[cart] snapshot unreadable, starting empty: %v", err)
		lines = nil
	}
	e.lines = lines
	return e
}

// Subscribe registers fn to run after every mutation with a copy of the lines.
func (e *Engine) Subscribe(fn func([]Line)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

// Lines returns a copy of the current cart, in insertion order.
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// SelectedLines returns the subset flagged for the next checkout.
func (e *Engine) SelectedLines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Line
	for _, l := range e.lines {
		if l.Selected {
			out = append(out, l)
		}
	}
	return out
}

// Subtotal sums UnitPrice x Quantity over selected lines only.
func (e *Engine) Subtotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := decimal.Zero
	for _, l := range e.lines {
		if l.Selected {
			total = total.Add(l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
	}
	return total
}

// Add puts quantity units of the product at the given size into the cart.
// An existing line with the same (product, size) absorbs the quantity and is
// re-selected; otherwise a new selected line is appended.
func (e *Engine) Add(p Product, quantity int, size pricing.Size) {
	if quantity < 1 {
		quantity = 1
	}
	if !size.Valid() {
		size = pricing.SizeRegular
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	key := Key(p.ID, size)
	for i := range e.lines {
		if e.lines[i].Key() == key {
			e.lines[i].Quantity += quantity
			e.lines[i].Selected = true
			e.commit()
			return
		}
	}
	e.lines = append(e.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		BasePrice: p.Price,
		Size:      size,
		Quantity:  quantity,
		Selected:  true,
	})
	e.commit()
}

// Remove deletes the line unconditionally.
func (e *Engine) Remove(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.index(key)
	if i < 0 {
		log.Printf("[cart] remove: unknown line %q", key)
		return
	}
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
	e.commit()
}

// SetQuantity updates a line's quantity in place. Anything below one removes
// the line; there is no upper bound.
func (e *Engine) SetQuantity(key string, n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.index(key)
	if i < 0 {
		log.Printf("[cart] set quantity: unknown line %q", key)
		return
	}
	if n < 1 {
		e.lines = append(e.lines[:i], e.lines[i+1:]...)
	} else {
		e.lines[i].Quantity = n
	}
	e.commit()
}

// SetSize moves a line to a new size. If a line already exists at the target
// (product, size), the quantities merge into it and the source is dropped;
// otherwise the line is relabeled. Either way the result ends up selected.
func (e *Engine) SetSize(key string, newSize pricing.Size) {
	if !newSize.Valid() {
		log.Printf("[cart] set size: invalid size %q", newSize)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.index(key)
	if i < 0 {
		log.Printf("[cart] set size: unknown line %q", key)
		return
	}
	if e.lines[i].Size == newSize {
		return
	}
	targetKey := Key(e.lines[i].ProductID, newSize)
	if j := e.index(targetKey); j >= 0 {
		e.lines[j].Quantity += e.lines[i].Quantity
		e.lines[j].Selected = true
		e.lines = append(e.lines[:i], e.lines[i+1:]...)
	} else {
		e.lines[i].Size = newSize
		e.lines[i].Selected = true
	}
	e.commit()
}

// ToggleSelect flips one line's checkout flag.
func (e *Engine) ToggleSelect(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.index(key)
	if i < 0 {
		log.Printf("[cart] toggle: unknown line %q", key)
		return
	}
	e.lines[i].Selected = !e.lines[i].Selected
	e.commit()
}

// ToggleSelectAll selects every line unless all are already selected, in
// which case it deselects every line.
func (e *Engine) ToggleSelectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	allSelected := true
	for _, l := range e.lines {
		if !l.Selected {
			allSelected = false
			break
		}
	}
	for i := range e.lines {
		e.lines[i].Selected = !allSelected
	}
	e.commit()
}

// ClearAll empties the cart. Called on logout and on explicit clear.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = nil
	e.commit()
}

// ClearSelected drops only the selected lines. Called after a confirmed
// checkout so deselected items survive the purchase.
func (e *Engine) ClearSelected() {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.lines[:0]
	for _, l := range e.lines {
		if !l.Selected {
			kept = append(kept, l)
		}
	}
	e.lines = kept
	e.commit()
}

func (e *Engine) index(key string) int {
	for i, l := range e.lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

func (e *Engine) snapshot() []Line {
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// commit persists and notifies. Callers hold e.mu.
func (e *Engine) commit() {
	snap := e.snapshot()
	if err := e.storage.Save(snap); err != nil {
		log.Printf("[cart] snapshot save failed: %v", err)
	}
	for _, fn := range e.subs {
		fn(snap)
	}
}
