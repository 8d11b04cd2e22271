// Package media holds the now-playing description shared between a
// background listener and the frame path.
package media

import "sync"

// Info describes the current track.
type Info struct {
	Player  string
	Artist  string
	Title   string
	Album   string
	Playing bool
	Valid   bool
}

// Metadata is safe for concurrent use. Writers mutate it through Update; the
// frame path copies it out with Snapshot.
type Metadata struct {
	mu   sync.Mutex
	info Info
}

func NewMetadata() *Metadata {
	return &Metadata{}
}

// Update applies fn under the lock. fn must not block.
func (m *Metadata) Update(fn func(*Info)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.info)
}

// Snapshot returns a copy of the current info.
func (m *Metadata) Snapshot() Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.info
}

// Clear resets to the empty state, e.g. when the player goes away.
func (m *Metadata) Clear() {
	m.Update(func(i *Info) { *i = Info{} })
}
