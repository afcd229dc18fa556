package engine

import "math/rand"

// deck deals phrases from a pool without repeating any literal string while
// unused alternatives remain. Once the pool is exhausted its used-set resets
// and the deck reshuffles.
type deck struct {
	phrases []string
	order   []int
	next    int
}

func newDeck(phrases []string, rng *rand.Rand) *deck {
	d := &deck{phrases: phrases}
	d.shuffle(rng)
	return d
}

func (d *deck) shuffle(rng *rand.Rand) {
	d.order = rng.Perm(len(d.phrases))
	d.next = 0
}

func (d *deck) draw(rng *rand.Rand) string {
	if len(d.phrases) == 0 {
		return ""
	}
	if d.next >= len(d.order) {
		d.shuffle(rng)
	}
	p := d.phrases[d.order[d.next]]
	d.next++
	return p
}

// Decks is the per-session collection of phrase pools.
type Decks struct {
	rng   *rand.Rand
	pools map[string]*deck
}

// NewDecks builds all pools from the phrase tables. The random source is
// injected so tests can pin the draw order.
func NewDecks(rng *rand.Rand) *Decks {
	d := &Decks{rng: rng, pools: make(map[string]*deck, len(phrasePools))}
	for name, phrases := range phrasePools {
		d.pools[name] = newDeck(phrases, rng)
	}
	return d
}

// Draw deals the next phrase from the named pool. Unknown pools yield "".
func (d *Decks) Draw(pool string) string {
	dk, ok := d.pools[pool]
	if !ok {
		return ""
	}
	return dk.draw(d.rng)
}

// Size reports how many variants a pool holds.
func (d *Decks) Size(pool string) int {
	dk, ok := d.pools[pool]
	if !ok {
		return 0
	}
	return len(dk.phrases)
}
