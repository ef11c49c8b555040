package leave

import (
	"sort"
	"sync"
)

// Calendar is the set of non-working dates beyond weekends. It is only ever
// mutated by whole-set replacement, so readers never observe a partial reload.
type Calendar struct {
	mu   sync.RWMutex
	days map[string]struct{}
}

func NewCalendar() *Calendar {
	return &Calendar{days: map[string]struct{}{}}
}

// Replace swaps the entire holiday set for the given ISO dates.
func (c *Calendar) Replace(dates []string) {
	next := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if d == "" {
			continue
		}
		next[d] = struct{}{}
	}
	c.mu.Lock()
	c.days = next
	c.mu.Unlock()
}

// Contains reports whether the exact ISO date is a configured holiday.
func (c *Calendar) Contains(date string) bool {
	c.mu.RLock()
	_, ok := c.days[date]
	c.mu.RUnlock()
	return ok
}

func (c *Calendar) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.days)
}

// Dates returns a sorted snapshot of the holiday set.
func (c *Calendar) Dates() []string {
	c.mu.RLock()
	out := make([]string, 0, len(c.days))
	for d := range c.days {
		out = append(out, d)
	}
	c.mu.RUnlock()
	sort.Strings(out)
	return out
}
