package selection

import (
	"io"
	"sync"

	"thesiscal/internal/calendar"
)

// PointerUp describes a pointer release anywhere in the hosting window. Date is
// zero when the release happened outside any day cell.
type PointerUp struct {
	Date calendar.Date
}

// Bus is the window-level pointer channel. Releases are published here rather
// than on the calendar surface so a drag that leaves the calendar still ends.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]func(PointerUp)
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(PointerUp))}
}

// Subscribe registers fn for every published release. The returned func
// removes the subscription; calling it more than once is safe.
func (b *Bus) Subscribe(fn func(PointerUp)) (release func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers ev to every current subscriber.
func (b *Bus) Publish(ev PointerUp) {
	b.mu.Lock()
	fns := make([]func(PointerUp), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Mount ties a Machine to a Bus for the machine's mounted lifetime. Close
// unmounts: the machine stops receiving releases.
type Mount struct {
	release func()
}

var _ io.Closer = (*Mount)(nil)

// Close removes the pointer-up subscription. It is idempotent.
func (m *Mount) Close() error {
	if m != nil && m.release != nil {
		m.release()
	}
	return nil
}
