package cart

import (
	"sync"
	"time"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/catalog"
)

// ChangeListener is notified after every item-list change. It must not
// block; the synchronizer runs its work on its own goroutine.
type ChangeListener func(sessionID string, version uint64)

// Store owns every session cart. Mutations are synchronous with respect to
// local state and return before any remote synchronization happens.
type Store struct {
	mu       sync.RWMutex
	carts    map[string]*Cart
	onChange ChangeListener
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// SetChangeListener wires the synchronization trigger. Call before serving.
func (s *Store) SetChangeListener(fn ChangeListener) {
	s.onChange = fn
}

// Get returns a snapshot of the session's cart, creating an empty one on
// first access.
func (s *Store) Get(sessionID string) Cart {
	s.mu.Lock()
	c := s.getOrCreate(sessionID)
	snapshot := c.clone()
	s.mu.Unlock()
	return snapshot
}

// AddItem puts a variant of the product into the cart. An unknown variant is
// silently ignored. Adding an existing (product, variant) pair increments
// its quantity; otherwise a new line is appended with the variant's current
// price snapshotted. Quantity defaults to 1.
func (s *Store) AddItem(sessionID string, product *catalog.Product, variantID string, quantity int) Cart {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	c := s.getOrCreate(sessionID)

	variant, ok := product.Variant(variantID)
	if !ok {
		snapshot := c.clone()
		s.mu.Unlock()
		return snapshot
	}

	id := LineID(product.ID, variantID)
	found := false
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		c.Items = append(c.Items, Item{
			ID:        id,
			ProductID: product.ID,
			VariantID: variantID,
			Title:     product.Title,
			Image:     image,
			Vendor:    product.Vendor,
			Quantity:  quantity,
			UnitPrice: variant.Price,
		})
	}

	snapshot := s.bumpLocked(c)
	s.mu.Unlock()

	s.notify(sessionID, snapshot.Version)
	return snapshot
}

// RemoveItem deletes the matching line; no-op if absent.
func (s *Store) RemoveItem(sessionID, lineID string) Cart {
	s.mu.Lock()
	c := s.getOrCreate(sessionID)

	removed := false
	for i, item := range c.Items {
		if item.ID == lineID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		snapshot := c.clone()
		s.mu.Unlock()
		return snapshot
	}

	snapshot := s.bumpLocked(c)
	s.mu.Unlock()

	s.notify(sessionID, snapshot.Version)
	return snapshot
}

// UpdateQuantity sets a line's quantity absolutely. Quantities at or below
// zero remove the line instead.
func (s *Store) UpdateQuantity(sessionID, lineID string, quantity int) Cart {
	if quantity <= 0 {
		return s.RemoveItem(sessionID, lineID)
	}

	s.mu.Lock()
	c := s.getOrCreate(sessionID)

	updated := false
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			c.Items[i].Quantity = quantity
			updated = true
			break
		}
	}
	if !updated {
		snapshot := c.clone()
		s.mu.Unlock()
		return snapshot
	}

	snapshot := s.bumpLocked(c)
	s.mu.Unlock()

	s.notify(sessionID, snapshot.Version)
	return snapshot
}

// Clear empties the cart and discards its remote checkout identifiers.
func (s *Store) Clear(sessionID string) Cart {
	s.mu.Lock()
	c := s.getOrCreate(sessionID)
	c.Items = nil
	c.CheckoutID = ""
	c.CheckoutURL = ""
	snapshot := s.bumpLocked(c)
	s.mu.Unlock()

	s.notify(sessionID, snapshot.Version)
	return snapshot
}

// SetCheckout records a synchronized remote checkout, but only if the cart
// has not changed since the synchronization that produced it was started.
// Returns false when the result is stale and was discarded.
func (s *Store) SetCheckout(sessionID string, version uint64, checkoutID, checkoutURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok || c.Version != version {
		return false
	}
	c.CheckoutID = checkoutID
	c.CheckoutURL = checkoutURL
	return true
}

// ClearCheckout drops the remote identifiers, with the same staleness guard
// as SetCheckout.
func (s *Store) ClearCheckout(sessionID string, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok || c.Version != version {
		return false
	}
	c.CheckoutID = ""
	c.CheckoutURL = ""
	return true
}

func (s *Store) getOrCreate(sessionID string) *Cart {
	c, ok := s.carts[sessionID]
	if !ok {
		now := time.Now()
		c = &Cart{SessionID: sessionID, CreatedAt: now, UpdatedAt: now}
		s.carts[sessionID] = c
	}
	return c
}

func (s *Store) bumpLocked(c *Cart) Cart {
	c.Version++
	c.UpdatedAt = time.Now()
	return c.clone()
}

func (s *Store) notify(sessionID string, version uint64) {
	if s.onChange != nil {
		s.onChange(sessionID, version)
	}
}
