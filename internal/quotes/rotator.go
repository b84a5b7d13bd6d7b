// Package quotes rotates through the static quote corpus while avoiding
// short-term repeats.
package quotes

import (
	"math/rand"

	"ham-kiosk/dashboard/internal/models"
)

// historyMaxSize bounds the recent-history ring used to dampen repeats.
const historyMaxSize = 10

// maxRedraws is how many times Next re-picks to escape the history ring
// before giving up and accepting a repeat.
const maxRedraws = 3

// Rotator picks pseudo-random quotes from a corpus.
type Rotator struct {
	corpus  []models.Quote
	rng     *rand.Rand
	current *models.Quote
	history []models.Quote
}

// NewRotator builds a rotator over corpus, seeded by seed so tests can
// pin the sequence.
func NewRotator(corpus []models.Quote, seed int64) *Rotator {
	return &Rotator{
		corpus: corpus,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Next picks a new current quote, re-drawing a bounded number of times
// to avoid quotes still in the recent-history ring.
func (r *Rotator) Next() models.Quote {
	if len(r.corpus) == 0 {
		return models.Quote{}
	}

	quote := r.corpus[r.rng.Intn(len(r.corpus))]
	for attempts := 0; r.inHistory(quote) && attempts < maxRedraws; attempts++ {
		quote = r.corpus[r.rng.Intn(len(r.corpus))]
	}

	r.current = &quote
	r.remember(quote)
	return quote
}

// Current returns the most recently picked quote, or false before the
// first pick.
func (r *Rotator) Current() (models.Quote, bool) {
	if r.current == nil {
		return models.Quote{}, false
	}
	return *r.current, true
}

func (r *Rotator) inHistory(q models.Quote) bool {
	for _, h := range r.history {
		if h.Text == q.Text && h.Author == q.Author {
			return true
		}
	}
	return false
}

func (r *Rotator) remember(q models.Quote) {
	r.history = append([]models.Quote{q}, r.history...)
	if len(r.history) > historyMaxSize {
		r.history = r.history[:historyMaxSize]
	}
}
