// Package page keeps the controllers mounted by each browser session and
// adapts typed resource controllers to the JSON surface of the portal.
package page

import (
	"sync"
)

// Closer is anything the registry can unmount.
type Closer interface {
	Close()
}

type key struct {
	session string
	page    string
}

// Registry holds at most one mounted controller per (session, page).
type Registry struct {
	mu      sync.Mutex
	mounted map[key]Closer
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{mounted: make(map[key]Closer)}
}

// Mount installs c for (sessionID, name), closing whatever was mounted there.
func (r *Registry) Mount(sessionID, name string, c Closer) {
	r.mu.Lock()
	prev := r.mounted[key{sessionID, name}]
	r.mounted[key{sessionID, name}] = c
	r.mu.Unlock()

	if prev != nil && prev != c {
		prev.Close()
	}
}

// Get returns the controller mounted for (sessionID, name).
func (r *Registry) Get(sessionID, name string) (Closer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.mounted[key{sessionID, name}]
	return c, ok
}

// Unmount closes and removes the controller of (sessionID, name).
func (r *Registry) Unmount(sessionID, name string) {
	r.mu.Lock()
	c, ok := r.mounted[key{sessionID, name}]
	delete(r.mounted, key{sessionID, name})
	r.mu.Unlock()

	if ok {
		c.Close()
	}
}

// UnmountSession closes every controller of sessionID and returns how many
// were closed.
func (r *Registry) UnmountSession(sessionID string) int {
	r.mu.Lock()
	var closing []Closer
	for k, c := range r.mounted {
		if k.session == sessionID {
			closing = append(closing, c)
			delete(r.mounted, k)
		}
	}
	r.mu.Unlock()

	for _, c := range closing {
		c.Close()
	}
	return len(closing)
}

// Sessions returns the ids of sessions with at least one mounted page.
func (r *Registry) Sessions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{})
	ids := []string{}
	for k := range r.mounted {
		if _, ok := seen[k.session]; !ok {
			seen[k.session] = struct{}{}
			ids = append(ids, k.session)
		}
	}
	return ids
}

// Len returns the number of mounted controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mounted)
}

// CloseAll unmounts everything. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.mounted
	r.mounted = make(map[key]Closer)
	r.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
}
