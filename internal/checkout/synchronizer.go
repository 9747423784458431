package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/cart"
	"github.com/termstructure/aircare-style-fresh-sub000/internal/shopify"
)

// Gateway is the slice of the commerce gateway the synchronizer needs.
type Gateway interface {
	CreateCheckout(ctx context.Context, lines []shopify.CheckoutLine) (*shopify.Checkout, error)
}

// Synchronizer keeps a remote checkout consistent with the local cart so a
// payment URL is ready when the user heads to checkout. No error from the
// synchronization path ever reaches a cart mutation caller.
type Synchronizer struct {
	store   *cart.Store
	gw      Gateway
	mirror  SessionMirror // optional, nil disables persistence
	domain  string
	timeout time.Duration
}

func NewSynchronizer(store *cart.Store, gw Gateway, mirror SessionMirror, shopDomain string) *Synchronizer {
	return &Synchronizer{
		store:   store,
		gw:      gw,
		mirror:  mirror,
		domain:  shopDomain,
		timeout: 15 * time.Second,
	}
}

// OnCartChange is the store's change listener. It returns immediately; the
// actual synchronization runs in the background.
func (s *Synchronizer) OnCartChange(sessionID string, version uint64) {
	go s.Sync(context.Background(), sessionID, version)
}

// Sync recreates the remote checkout from the full current cart state.
// Each run is tagged with the cart version it was triggered by; results for
// superseded versions are discarded so a slow response cannot overwrite a
// fresher checkout.
func (s *Synchronizer) Sync(ctx context.Context, sessionID string, version uint64) {
	snapshot := s.store.Get(sessionID)
	if snapshot.Version != version {
		// A later mutation already triggered its own run.
		return
	}

	if len(snapshot.Items) == 0 {
		s.store.ClearCheckout(sessionID, version)
		s.deleteMirror(sessionID)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	remote, err := s.gw.CreateCheckout(ctx, snapshot.Lines())
	if err != nil {
		// Prior identifiers stay untouched; the next mutation retries.
		log.Printf("checkout sync failed for session %s: %v", sessionID, err)
		return
	}

	if !s.store.SetCheckout(sessionID, version, remote.ID, remote.WebURL) {
		log.Printf("discarding stale checkout sync for session %s (version %d)", sessionID, version)
		return
	}
	s.saveMirror(sessionID, remote.ID, remote.WebURL)
}

// CheckoutURL resolves the URL to send the user to. Empty cart yields "".
// Otherwise: cached URL, then persisted mirror, then a fresh gateway call,
// then the deterministic cart permalink. A non-empty cart always gets a URL.
func (s *Synchronizer) CheckoutURL(ctx context.Context, sessionID string) string {
	snapshot := s.store.Get(sessionID)
	if len(snapshot.Items) == 0 {
		return ""
	}

	if snapshot.CheckoutURL != "" {
		return snapshot.CheckoutURL
	}

	if s.mirror != nil {
		checkoutID, checkoutURL, err := s.mirror.Load(ctx, sessionID)
		if err == nil && checkoutURL != "" {
			s.store.SetCheckout(sessionID, snapshot.Version, checkoutID, checkoutURL)
			return checkoutURL
		}
		if err != nil && !errors.Is(err, ErrNoCheckout) {
			log.Printf("checkout mirror load failed for session %s: %v", sessionID, err)
		}
	}

	remote, err := s.gw.CreateCheckout(ctx, snapshot.Lines())
	if err == nil && remote.WebURL != "" {
		if s.store.SetCheckout(sessionID, snapshot.Version, remote.ID, remote.WebURL) {
			s.saveMirror(sessionID, remote.ID, remote.WebURL)
		}
		return remote.WebURL
	}
	if err != nil {
		log.Printf("checkout create failed for session %s, falling back to permalink: %v", sessionID, err)
	}

	return shopify.PermalinkURL(s.domain, snapshot.Lines())
}

func (s *Synchronizer) saveMirror(sessionID, checkoutID, checkoutURL string) {
	if s.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.mirror.Save(ctx, sessionID, checkoutID, checkoutURL); err != nil {
		log.Printf("checkout mirror save failed for session %s: %v", sessionID, err)
	}
}

func (s *Synchronizer) deleteMirror(sessionID string) {
	if s.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.mirror.Delete(ctx, sessionID); err != nil {
		log.Printf("checkout mirror delete failed for session %s: %v", sessionID, err)
	}
}
