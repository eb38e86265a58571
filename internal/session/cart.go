// AngelaMos | 2026
// cart.go

package session

import (
	"github.com/carterperez-dev/neolab-storefront/internal/model"
)

// The helpers below never modify their input; each returns a fresh slice
// so a snapshot handed out earlier is never affected by later edits.

func addItem(cart []model.CartItem, p model.Product, quantity int) []model.CartItem {
	out := cloneCart(cart)
	for i := range out {
		if out[i].ID == p.ID {
			out[i].Quantity += quantity
			return out
		}
	}
	return append(out, model.CartItem{Product: p, Quantity: quantity})
}

func removeItem(cart []model.CartItem, productID string) []model.CartItem {
	out := make([]model.CartItem, 0, len(cart))
	for _, item := range cart {
		if item.ID != productID {
			out = append(out, item)
		}
	}
	return out
}

// setQuantity reports false when productID is not in the cart; the cart is
// then returned unchanged.
func setQuantity(
	cart []model.CartItem,
	productID string,
	quantity int,
) ([]model.CartItem, bool) {
	for i := range cart {
		if cart[i].ID != productID {
			continue
		}
		if quantity <= 0 {
			return removeItem(cart, productID), true
		}
		out := cloneCart(cart)
		out[i].Quantity = quantity
		return out, true
	}
	return cart, false
}

// subtractSnapshot removes the quantities captured in snapshot from the
// live cart. Units come off a line only while it is still the line the
// snapshot saw: same generation in liveGen as in snapGen. A line removed
// and re-added, or set to an absolute quantity after the snapshot, is kept
// as it is. Lines that drop below one unit disappear.
func subtractSnapshot(
	live, snapshot []model.CartItem,
	liveGen, snapGen map[string]uint64,
) []model.CartItem {
	taken := make(map[string]int, len(snapshot))
	for _, item := range snapshot {
		taken[item.ID] += item.Quantity
	}

	out := make([]model.CartItem, 0, len(live))
	for _, item := range live {
		gen, seen := snapGen[item.ID]
		if seen && liveGen[item.ID] == gen {
			item.Quantity -= taken[item.ID]
		}
		if item.Quantity >= 1 {
			out = append(out, item)
		}
	}
	return out
}

// lineGens tags each cart line with the sequence number of the edit that
// last fixed its quantity outright: creating the line or an absolute
// update. Merging adds keep the tag.
type lineGens struct {
	seq  uint64
	byID map[string]uint64
}

func newLineGens(cart []model.CartItem) lineGens {
	g := lineGens{byID: make(map[string]uint64, len(cart))}
	for _, item := range cart {
		g.stamp(item.ID)
	}
	return g
}

func (g *lineGens) stamp(productID string) {
	g.seq++
	g.byID[productID] = g.seq
}

func (g *lineGens) snapshot() map[string]uint64 {
	out := make(map[string]uint64, len(g.byID))
	for id, gen := range g.byID {
		out[id] = gen
	}
	return out
}

// prune forgets lines no longer in cart.
func (g *lineGens) prune(cart []model.CartItem) {
	for id := range g.byID {
		if !hasLine(cart, id) {
			delete(g.byID, id)
		}
	}
}

func hasLine(cart []model.CartItem, productID string) bool {
	for _, item := range cart {
		if item.ID == productID {
			return true
		}
	}
	return false
}

// normalizeCart restores the cart invariants on data read from storage:
// one line per product id and a quantity of at least one.
func normalizeCart(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 {
			continue
		}
		out = addItem(out, item.Product, item.Quantity)
	}
	return out
}

func cartUnits(cart []model.CartItem) int {
	n := 0
	for _, item := range cart {
		n += item.Quantity
	}
	return n
}

func cloneCart(cart []model.CartItem) []model.CartItem {
	return append(make([]model.CartItem, 0, len(cart)+1), cart...)
}
