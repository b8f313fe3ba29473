package regionfees

import (
	"context"
	"sync"
)

// Loader loads a region fee table document from some source.
type Loader interface {
	// Load reads and decodes the fee table at the given path or key.
	Load(ctx context.Context, path string) (*Document, error)
}

// Document is the wire form of the fee table: a flat fee per region, a
// default fee for unknown regions, and the global free-delivery threshold.
type Document struct {
	Fees                  map[string]float64 `json:"fees"`
	DefaultFee            float64            `json:"defaultFee"`
	FreeDeliveryThreshold float64            `json:"freeDeliveryThreshold"`
}

// Table holds the current fee table. Reads and replacements are safe for
// concurrent use, so a reload applies prospectively to in-flight checkouts.
type Table struct {
	mu  sync.RWMutex
	doc Document
}

// NewTable creates a table from an initial document.
func NewTable(doc Document) *Table {
	t := &Table{}
	t.Replace(doc)
	return t
}

// Fee returns the flat fee for a region, falling back to the default fee when
// the region is absent.
func (t *Table) Fee(region string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if fee, ok := t.doc.Fees[region]; ok {
		return fee
	}
	return t.doc.DefaultFee
}

// Threshold returns the current free-delivery threshold.
func (t *Table) Threshold() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.doc.FreeDeliveryThreshold
}

// Regions returns how many regions carry an explicit fee.
func (t *Table) Regions() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.doc.Fees)
}

// Replace swaps in a new document.
func (t *Table) Replace(doc Document) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if doc.Fees == nil {
		doc.Fees = map[string]float64{}
	}
	t.doc = doc
}
