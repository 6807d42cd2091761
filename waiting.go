package xmsg

import (
	"strconv"

	"github.com/trickstertwo/xlog"
)

// Tick promotes every waiting message whose delay has elapsed into its
// queue and returns how many were promoted.
//
// Entries are scanned oldest-submitted first and the list is filtered in a
// single pass, so each entry is promoted exactly once even when Ticks
// overlap. Promotion order within one Tick follows submission order.
func (r *Router) Tick() int {
	r.waitMu.Lock()
	if len(r.waiting) == 0 {
		r.waitMu.Unlock()
		return 0
	}

	var due []waitingEntry
	keep := r.waiting[:0]
	for _, e := range r.waiting {
		if r.clock.Since(e.submitted) >= e.delay {
			due = append(due, e)
			continue
		}
		keep = append(keep, e)
	}
	clear(r.waiting[len(keep):])
	r.waiting = keep

	if len(due) > 0 {
		r.mu.Lock()
		for _, e := range due {
			r.queueLocked(e.msg.Name).push(e.msg)
		}
		r.mu.Unlock()
	}
	r.waitMu.Unlock()

	if len(due) == 0 {
		return 0
	}
	r.metrics.promotedCount.Add(uint64(len(due)))
	for _, e := range due {
		r.notify(Event{
			Type:      EventPromoted,
			Name:      e.msg.Name,
			MessageID: e.msg.ID,
			Kind:      e.msg.Payload.Kind(),
			Delay:     e.delay,
		})
	}
	r.logger.With(xlog.Str("promoted", strconv.Itoa(len(due)))).Debug().Msg("xmsg: delayed messages promoted")
	return len(due)
}

// Pending returns the number of delayed messages not yet promoted.
func (r *Router) Pending() int {
	r.waitMu.Lock()
	defer r.waitMu.Unlock()
	return len(r.waiting)
}
