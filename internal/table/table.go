// Package table implements the paginated, auto-cycling table engine
// behind every dashboard card. The engine owns page state and
// loading/error/empty transitions; it performs no I/O and never touches
// a render surface itself — consumers observe snapshots.
package table

import (
	"sync"
	"time"
)

// State names the table's presentation state.
type State int

const (
	StateLoading State = iota
	StateError
	StateEmpty
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Row is one generic table record keyed by column ID.
type Row map[string]string

// Ticker abstracts the auto-cycle timer so tests drive ticks manually.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds a Ticker for a period.
type TickerFactory func(period time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func defaultTickerFactory(period time.Duration) Ticker {
	return realTicker{t: time.NewTicker(period)}
}

// Options configures a Table.
type Options struct {
	PageSize    int
	Columns     []Column
	CyclePeriod time.Duration // auto-cycle advance period, default 8s
	OnChange    func(Snapshot)
	OnRetry     func() // invoked by Retry while in the error state
	NewTicker   TickerFactory
}

// Table is the pagination state machine. All mutating operations keep
// the invariant 0 <= pageIndex < totalPages.
type Table struct {
	mu sync.Mutex

	rows      []Row
	pageIndex int
	pageSize  int
	columns   []Column

	loading bool
	errMsg  string

	cyclePeriod time.Duration
	newTicker   TickerFactory
	ticker      Ticker
	cycleDone   chan struct{}

	onChange func(Snapshot)
	onRetry  func()
}

// New builds a table. A pageSize below 1 is clamped to 1 so page math
// can never divide by zero.
func New(opts Options) *Table {
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = 1
	}
	period := opts.CyclePeriod
	if period <= 0 {
		period = 8 * time.Second
	}
	factory := opts.NewTicker
	if factory == nil {
		factory = defaultTickerFactory
	}
	return &Table{
		pageSize:    pageSize,
		columns:     opts.Columns,
		cyclePeriod: period,
		newTicker:   factory,
		onChange:    opts.OnChange,
		onRetry:     opts.OnRetry,
	}
}

// SetData replaces the rows and clamps the page index back into bounds.
// Replacing data clears the error state.
func (t *Table) SetData(rows []Row) {
	t.mu.Lock()
	t.rows = rows
	t.errMsg = ""
	t.loading = false
	t.clampPageLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

// SetLoading switches the loading state; loading wins over every prior
// state while set.
func (t *Table) SetLoading(loading bool) {
	t.mu.Lock()
	t.loading = loading
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

// SetError records an error message. The rows are retained so a renderer
// can keep stale data visible under the error banner.
func (t *Table) SetError(message string) {
	t.mu.Lock()
	t.loading = false
	t.errMsg = message
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

// GoToPage clamps n into [0, totalPages-1] and moves there.
func (t *Table) GoToPage(n int) {
	t.mu.Lock()
	total := t.totalPagesLocked()
	if n < 0 {
		n = 0
	}
	if n > total-1 {
		n = total - 1
	}
	t.pageIndex = n
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

// FirstPage moves to page 0.
func (t *Table) FirstPage() { t.GoToPage(0) }

// LastPage moves to the final page.
func (t *Table) LastPage() {
	t.mu.Lock()
	last := t.totalPagesLocked() - 1
	t.mu.Unlock()
	t.GoToPage(last)
}

// NextPage moves forward one page without wraparound.
func (t *Table) NextPage() {
	t.mu.Lock()
	n := t.pageIndex + 1
	t.mu.Unlock()
	t.GoToPage(n)
}

// PrevPage moves back one page without wraparound.
func (t *Table) PrevPage() {
	t.mu.Lock()
	n := t.pageIndex - 1
	t.mu.Unlock()
	t.GoToPage(n)
}

// Tick advances the page with wraparound: (pageIndex+1) mod totalPages.
// The auto-cycle timer calls this on each period.
func (t *Table) Tick() {
	t.mu.Lock()
	t.pageIndex = (t.pageIndex + 1) % t.totalPagesLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

// StartAutoCycle arms the advance timer. Starting an armed table is a
// no-op.
func (t *Table) StartAutoCycle() {
	t.mu.Lock()
	if t.ticker != nil {
		t.mu.Unlock()
		return
	}
	t.ticker = t.newTicker(t.cyclePeriod)
	t.cycleDone = make(chan struct{})
	ticker, done := t.ticker, t.cycleDone
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C():
				t.Tick()
			case <-done:
				return
			}
		}
	}()
}

// StopAutoCycle disarms the advance timer. Idempotent.
func (t *Table) StopAutoCycle() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	close(t.cycleDone)
	t.ticker = nil
	t.cycleDone = nil
}

// AutoCycling reports whether the advance timer is armed.
func (t *Table) AutoCycling() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticker != nil
}

// Retry invokes the configured retry callback, but only from the error
// state. The table performs no network I/O of its own.
func (t *Table) Retry() {
	t.mu.Lock()
	retry := t.onRetry
	isErr := t.errMsg != "" && !t.loading
	t.mu.Unlock()
	if isErr && retry != nil {
		retry()
	}
}

func (t *Table) totalPagesLocked() int {
	total := (len(t.rows) + t.pageSize - 1) / t.pageSize
	if total < 1 {
		total = 1
	}
	return total
}

func (t *Table) clampPageLocked() {
	if max := t.totalPagesLocked() - 1; t.pageIndex > max {
		t.pageIndex = max
	}
	if t.pageIndex < 0 {
		t.pageIndex = 0
	}
}

func (t *Table) notify(snap Snapshot) {
	if t.onChange != nil {
		t.onChange(snap)
	}
}
