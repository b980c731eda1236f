// Package scoring grades submissions and rolls graded attempts up into cohort
// reports. Everything here is a pure function of its inputs.
package scoring

import (
	"math"
	"sort"

	"github.com/gabarita/gabarita-backend/internal/model"
)

// Percentage returns round(100*correct/total), or 0 when total is not positive.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(correct) / float64(total)))
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// groupKind selects which field of model.GroupStat carries the key.
type groupKind int

const (
	groupByArea groupKind = iota
	groupByContent
)

type counter struct {
	total   int
	correct int
}

// tally is an ordered map of group key to counters, in first-seen order.
type tally struct {
	kind   groupKind
	keys   []string
	counts map[string]*counter
}

func newTally(kind groupKind) *tally {
	return &tally{kind: kind, counts: make(map[string]*counter)}
}

func (t *tally) add(key string, total, correct int) {
	c, ok := t.counts[key]
	if !ok {
		c = &counter{}
		t.counts[key] = c
		t.keys = append(t.keys, key)
	}
	c.total += total
	c.correct += correct
}

// stats emits one GroupStat per key in first-seen order.
func (t *tally) stats() []model.GroupStat {
	out := make([]model.GroupStat, 0, len(t.keys))
	for _, k := range t.keys {
		c := t.counts[k]
		gs := model.GroupStat{
			Total:      c.total,
			Correct:    c.correct,
			Percentage: Percentage(c.correct, c.total),
		}
		if t.kind == groupByArea {
			gs.Area = k
		} else {
			gs.Content = k
		}
		out = append(out, gs)
	}
	return out
}

// sortedStats emits one GroupStat per key ordered by key, so the result does
// not depend on the order counters were added in.
func (t *tally) sortedStats() []model.GroupStat {
	sort.Strings(t.keys)
	return t.stats()
}
