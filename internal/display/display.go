// Package display holds the two regions a request tester paints: the status
// line and the rendered response. Every surface (web page, terminal, CLI)
// reads the same Display.
package display

import (
	"sync"

	"github.com/raysh454/reqview/internal/jsontree"
)

// Snapshot is an immutable copy of both regions.
type Snapshot struct {
	// Version increases on every change.
	Version uint64 `json:"version"`

	Status string `json:"status"`

	// At most one of Tree and Placeholder is set.
	Tree        *jsontree.Node        `json:"tree,omitempty"`
	Placeholder *jsontree.Placeholder `json:"placeholder,omitempty"`
}

// Empty reports whether both regions are blank.
func (s Snapshot) Empty() bool {
	return s.Status == "" && s.Tree == nil && s.Placeholder == nil
}

// Display serialises all region updates behind one mutex, so callers on any
// goroutine observe them in a single order.
type Display struct {
	mu      sync.Mutex
	version uint64
	status  string
	tree    *jsontree.Node
	ph      *jsontree.Placeholder

	subs   map[int]chan Snapshot
	nextID int
}

func New() *Display {
	return &Display{subs: make(map[int]chan Snapshot)}
}

// Clear empties both regions.
func (d *Display) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = ""
	d.tree, d.ph = nil, nil
	d.changedLocked()
}

// SetStatus replaces the status region.
func (d *Display) SetStatus(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = s
	d.changedLocked()
}

// Response is the container handed to the JSON widget.
func (d *Display) Response() jsontree.Container {
	return responseRegion{d}
}

// Snapshot returns the current state of both regions.
func (d *Display) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Display) snapshotLocked() Snapshot {
	return Snapshot{
		Version:     d.version,
		Status:      d.status,
		Tree:        d.tree,
		Placeholder: d.ph,
	}
}

// Subscribe delivers a snapshot after every change. A slow subscriber only
// ever misses intermediate states: its buffer keeps the newest snapshot.
// The returned func unsubscribes and closes the channel.
func (d *Display) Subscribe() (<-chan Snapshot, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	ch := make(chan Snapshot, 1)
	d.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.subs, id)
			close(ch)
		})
	}
}

func (d *Display) changedLocked() {
	d.version++
	snap := d.snapshotLocked()
	for _, ch := range d.subs {
		// Drop the stale pending snapshot, if any, then publish.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

type responseRegion struct{ d *Display }

func (r responseRegion) Empty() {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.tree == nil && r.d.ph == nil {
		return
	}
	r.d.tree, r.d.ph = nil, nil
	r.d.changedLocked()
}

func (r responseRegion) ShowTree(root *jsontree.Node) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.tree, r.d.ph = root, nil
	r.d.changedLocked()
}

func (r responseRegion) ShowError(p *jsontree.Placeholder) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.tree, r.d.ph = nil, p
	r.d.changedLocked()
}
