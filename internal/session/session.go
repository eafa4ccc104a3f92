// Package session holds the single active bill and serializes recognition
// against it.
//
// Every bill carries a generation number. Starting or resetting a bill bumps
// the generation and cancels any recognition in flight; a scan that finishes
// under an older generation is discarded instead of merged.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/duosplit/internal/calculator"
	"github.com/mmynk/duosplit/internal/extract"
	"github.com/mmynk/duosplit/internal/models"
	"github.com/mmynk/duosplit/internal/money"
)

var (
	ErrNoSession             = errors.New("no active bill")
	ErrSessionReset          = errors.New("bill was reset while recognition was running")
	ErrRecognitionInProgress = errors.New("recognition already in progress")
	ErrNoImage               = errors.New("no image to scan")
	ErrItemNotFound          = errors.New("item not found")
	ErrInvalidManualEntry    = errors.New("invalid manual entry")
	ErrNoDeclaredTotal       = errors.New("no declared total to infer tax from")
)

// Default person labels.
const (
	DefaultLabelA = "Person 1"
	DefaultLabelB = "Person 2"
)

// Extractor runs recognition. *extract.Pipeline satisfies it.
type Extractor interface {
	Run(ctx context.Context, img image.Image, s extract.Strategy) (extract.Extraction, error)
}

// Labels are the display names of the two parties.
type Labels struct {
	A string
	B string
}

func (l Labels) withDefaults() Labels {
	if strings.TrimSpace(l.A) == "" {
		l.A = DefaultLabelA
	}
	if strings.TrimSpace(l.B) == "" {
		l.B = DefaultLabelB
	}
	return l
}

// TotalSource records where the declared total came from.
type TotalSource int

const (
	TotalUnknown TotalSource = iota
	TotalExtracted
	TotalEntered
)

func (s TotalSource) String() string {
	switch s {
	case TotalExtracted:
		return "extracted"
	case TotalEntered:
		return "entered"
	default:
		return "unknown"
	}
}

// ScanSummary describes the last completed scan.
type ScanSummary struct {
	Strategy     string
	Engine       string
	Text         string
	Found        int
	NoCandidates bool
}

// Bill is a snapshot of the active bill. Mutating it has no effect on the
// session.
type Bill struct {
	ID         string
	Generation uint64
	Labels     Labels
	// Items in insertion order.
	Items         []models.CandidateItem
	DeclaredTotal money.Amount
	TotalSource   TotalSource
	// Tax is the tax setting. Rate-based settings are resolved against the
	// current subtotal by Summary.
	Tax        calculator.Tax
	TipPercent decimal.Decimal
	HasImage   bool
	Scanning   bool
	LastScan   *ScanSummary
}

// Summary is a bill with its recomputed totals.
type Summary struct {
	Bill    Bill
	Tax     calculator.Tax
	Totals  calculator.BillTotals
	Display calculator.Display
}

// Manager owns the one active bill. It is safe for concurrent use.
type Manager struct {
	extractor Extractor

	mu       sync.Mutex
	bill     *Bill
	image    image.Image
	gen      uint64
	cancel   context.CancelFunc
	scanning bool
}

// NewManager creates a Manager with no active bill.
func NewManager(extractor Extractor) *Manager {
	return &Manager{extractor: extractor}
}

// Start replaces any active bill with an empty one.
func (m *Manager) Start(labels Labels) Bill {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startLocked(labels.withDefaults())
	slog.Info("Bill started", "bill_id", m.bill.ID, "generation", m.gen)
	return m.snapshotLocked()
}

// Reset clears the active bill, keeping the person labels. It is safe to
// call while a scan is running; that scan's result will be dropped.
func (m *Manager) Reset() (Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bill == nil {
		return Bill{}, ErrNoSession
	}
	prev := m.bill.ID
	m.startLocked(m.bill.Labels)
	slog.Info("Bill reset", "previous_bill_id", prev, "bill_id", m.bill.ID, "generation", m.gen)
	return m.snapshotLocked(), nil
}

func (m *Manager) startLocked(labels Labels) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.scanning = false
	m.image = nil
	m.gen++
	m.bill = &Bill{
		ID:         uuid.NewString(),
		Generation: m.gen,
		Labels:     labels,
		TipPercent: decimal.Zero,
	}
}

// Generation returns the current generation, zero when no bill is active.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bill == nil {
		return 0
	}
	return m.gen
}

// Snapshot returns a copy of the active bill.
func (m *Manager) Snapshot() (Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bill == nil {
		return Bill{}, ErrNoSession
	}
	return m.snapshotLocked(), nil
}

func (m *Manager) snapshotLocked() Bill {
	b := *m.bill
	b.Items = append([]models.CandidateItem(nil), m.bill.Items...)
	for i := range b.Items {
		if r := b.Items[i].SourceRegion; r != nil {
			region := *r
			b.Items[i].SourceRegion = &region
		}
	}
	if m.bill.LastScan != nil {
		ls := *m.bill.LastScan
		b.LastScan = &ls
	}
	b.HasImage = m.image != nil
	b.Scanning = m.scanning
	b.Generation = m.gen
	return b
}

// Summary returns the bill with totals recomputed from its current state.
func (m *Manager) Summary() (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bill == nil {
		return Summary{}, ErrNoSession
	}
	return summarize(m.snapshotLocked()), nil
}

// summarize computes totals for a bill snapshot.
func summarize(b Bill) Summary {
	items := calculator.ItemsFrom(b.Items)
	var subtotal money.Amount
	for _, it := range items {
		subtotal += it.Amount
	}
	tax := resolveTax(b.Tax, subtotal, b.DeclaredTotal)
	totals := calculator.Allocate(items, tax.Amount, b.TipPercent)
	return Summary{Bill: b, Tax: tax, Totals: totals, Display: totals.Display()}
}

// resolveTax turns a tax setting into an amount for the given subtotal.
func resolveTax(setting calculator.Tax, subtotal, declaredTotal money.Amount) calculator.Tax {
	switch setting.Source {
	case calculator.TaxFromRate:
		return calculator.TaxAtRate(subtotal, setting.Rate)
	case calculator.TaxEstimated:
		return calculator.EstimateTax(subtotal)
	case calculator.TaxInferred:
		if declaredTotal == 0 {
			return calculator.Tax{Source: calculator.TaxInferred}
		}
		return calculator.InferTax(declaredTotal, subtotal)
	case calculator.TaxDeclared:
		return setting
	default:
		return calculator.Tax{}
	}
}

// Scan recognizes prices in img using s. A nil img rescans the image from the
// previous scan, which is how region and point passes refine a photo.
//
// Only one scan runs at a time; a concurrent call gets
// ErrRecognitionInProgress. If the bill is reset before recognition
// finishes, the result is discarded and ErrSessionReset returned.
// Newly recognized items replace earlier recognized ones; manual items stay.
func (m *Manager) Scan(ctx context.Context, img image.Image, s extract.Strategy) (Bill, extract.Extraction, error) {
	m.mu.Lock()
	if m.bill == nil {
		m.mu.Unlock()
		return Bill{}, extract.Extraction{}, ErrNoSession
	}
	if m.scanning {
		m.mu.Unlock()
		return Bill{}, extract.Extraction{}, ErrRecognitionInProgress
	}
	if img == nil {
		img = m.image
	}
	if img == nil {
		m.mu.Unlock()
		return Bill{}, extract.Extraction{}, ErrNoImage
	}
	m.image = img
	gen := m.gen
	scanCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.scanning = true
	m.mu.Unlock()

	ex, err := m.extractor.Run(scanCtx, img, s)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		cancel()
		slog.Info("Discarding stale recognition result", "generation", gen, "current_generation", m.gen)
		return Bill{}, extract.Extraction{}, ErrSessionReset
	}
	m.scanning = false
	m.cancel = nil
	cancel()
	if err != nil {
		return m.snapshotLocked(), extract.Extraction{}, err
	}

	kept := m.bill.Items[:0:0]
	for _, it := range m.bill.Items {
		if it.Origin == models.Manual {
			kept = append(kept, it)
		}
	}
	m.bill.Items = append(kept, ex.Items...)
	if ex.Total > 0 && m.bill.TotalSource != TotalEntered {
		m.bill.DeclaredTotal = ex.Total
		m.bill.TotalSource = TotalExtracted
	}
	m.bill.LastScan = &ScanSummary{
		Strategy:     s.Name(),
		Engine:       ex.Engine,
		Text:         ex.Text,
		Found:        len(ex.Items),
		NoCandidates: ex.NoCandidates,
	}
	return m.snapshotLocked(), ex, nil
}

// AddManualItem adds a typed-in price. amount must parse and lie within the
// candidate range.
func (m *Manager) AddManualItem(amount string, a models.Assignment) (models.CandidateItem, error) {
	v, err := parseEntry(amount)
	if err != nil {
		return models.CandidateItem{}, err
	}
	if !v.InCandidateRange() {
		return models.CandidateItem{}, fmt.Errorf("%w: %s is outside %s-%s",
			ErrInvalidManualEntry, v, money.MinCandidate, money.MaxCandidate)
	}
	if !a.Valid() {
		return models.CandidateItem{}, fmt.Errorf("%w: %s", ErrInvalidManualEntry, a)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bill == nil {
		return models.CandidateItem{}, ErrNoSession
	}
	item := models.NewCandidateItem(v, models.Manual)
	item.Assignment = a
	m.bill.Items = append(m.bill.Items, item)
	return item, nil
}

// RemoveItem deletes an item by ID.
func (m *Manager) RemoveItem(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, err := m.findLocked(id)
	if err != nil {
		return err
	}
	m.bill.Items = append(m.bill.Items[:idx], m.bill.Items[idx+1:]...)
	return nil
}

// CycleAssignment advances an item to the next assignment in the cycle.
func (m *Manager) CycleAssignment(id string) (models.CandidateItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, err := m.findLocked(id)
	if err != nil {
		return models.CandidateItem{}, err
	}
	m.bill.Items[idx].Assignment = m.bill.Items[idx].Assignment.Next()
	return m.bill.Items[idx], nil
}

// SetAssignment assigns an item directly.
func (m *Manager) SetAssignment(id string, a models.Assignment) (models.CandidateItem, error) {
	if !a.Valid() {
		return models.CandidateItem{}, fmt.Errorf("invalid assignment %s", a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, err := m.findLocked(id)
	if err != nil {
		return models.CandidateItem{}, err
	}
	m.bill.Items[idx].Assignment = a
	return m.bill.Items[idx], nil
}

func (m *Manager) findLocked(id string) (int, error) {
	if m.bill == nil {
		return 0, ErrNoSession
	}
	for i, it := range m.bill.Items {
		if it.ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// SetTax sets the tax strategy. For TaxDeclared, Amount is used; for
// TaxFromRate, Rate. TaxInferred needs a declared total; TaxEstimated needs
// nothing.
func (m *Manager) SetTax(t calculator.Tax) error {
	switch t.Source {
	case calculator.TaxNone, calculator.TaxEstimated:
		t = calculator.Tax{Source: t.Source}
	case calculator.TaxDeclared:
		if t.Amount < 0 {
			return fmt.Errorf("%w: negative tax", ErrInvalidManualEntry)
		}
		t = calculator.DeclaredTax(t.Amount)
	case calculator.TaxFromRate:
		if t.Rate.IsNegative() {
			return fmt.Errorf("%w: negative tax rate", ErrInvalidManualEntry)
		}
		t = calculator.Tax{Source: calculator.TaxFromRate, Rate: t.Rate}
	case calculator.TaxInferred:
		t = calculator.Tax{Source: calculator.TaxInferred}
	default:
		return fmt.Errorf("%w: unknown tax source %d", ErrInvalidManualEntry, t.Source)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bill == nil {
		return ErrNoSession
	}
	if t.Source == calculator.TaxInferred && m.bill.DeclaredTotal == 0 {
		return ErrNoDeclaredTotal
	}
	m.bill.Tax = t
	return nil
}

// SetTip sets the tip percentage. Negative values are rejected.
func (m *Manager) SetTip(percent decimal.Decimal) error {
	if percent.IsNegative() {
		return fmt.Errorf("%w: negative tip", ErrInvalidManualEntry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bill == nil {
		return ErrNoSession
	}
	m.bill.TipPercent = percent
	return nil
}

// SetDeclaredTotal records the printed total as entered by the user. An
// empty string clears it.
func (m *Manager) SetDeclaredTotal(amount string) error {
	var v money.Amount
	source := TotalUnknown
	if strings.TrimSpace(amount) != "" {
		var err error
		if v, err = parseEntry(amount); err != nil {
			return err
		}
		source = TotalEntered
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bill == nil {
		return ErrNoSession
	}
	m.bill.DeclaredTotal = v
	m.bill.TotalSource = source
	return nil
}

// SetLabels renames the two parties. Blank names fall back to the defaults.
func (m *Manager) SetLabels(l Labels) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bill == nil {
		return ErrNoSession
	}
	m.bill.Labels = l.withDefaults()
	return nil
}

func parseEntry(s string) (money.Amount, error) {
	v, err := money.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidManualEntry, err)
	}
	return v, nil
}
