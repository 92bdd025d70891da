package presence

import (
	"sort"
	"sync"
)

// Conn is the opaque handle the registry tracks for a connected user. The
// websocket client satisfies it.
type Conn interface {
	ID() string
}

// Entry is one (user, connection) presence pair.
type Entry struct {
	UserID string
	ConnID string
}

// Policy decides what Register does when the user already has a live entry.
type Policy int

const (
	// PolicyFirstWins keeps the existing handle; registering the same user
	// again is a no-op.
	PolicyFirstWins Policy = iota
	// PolicyLastWins replaces the existing handle with the new one.
	PolicyLastWins
)

func ParsePolicy(s string) Policy {
	if s == "last" {
		return PolicyLastWins
	}
	return PolicyFirstWins
}

// Registry maps user ids to their live connection handle. One instance lives
// for the whole process; the hub holds a reference and drives all mutations
// from connection lifecycle events.
type Registry struct {
	mu     sync.Mutex
	policy Policy
	byUser map[string]Conn
	byConn map[string]string // conn id -> user id, only for registered conns
}

func NewRegistry(policy Policy) *Registry {
	return &Registry{
		policy: policy,
		byUser: make(map[string]Conn),
		byConn: make(map[string]string),
	}
}

// Register binds userID to conn. It returns false when the user already had
// an entry and the first-wins policy kept it.
func (r *Registry) Register(userID string, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byUser[userID]; ok {
		if r.policy == PolicyFirstWins {
			return false
		}
		delete(r.byConn, old.ID())
	}
	r.byUser[userID] = conn
	r.byConn[conn.ID()] = userID
	return true
}

// Unregister drops the entry held by conn, if any, and reports which user it
// belonged to.
func (r *Registry) Unregister(conn Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[conn.ID()]
	if !ok {
		return "", false
	}
	delete(r.byConn, conn.ID())
	delete(r.byUser, userID)
	return userID, true
}

// Lookup returns the live handle for userID. Absence means the user is
// offline, not an error.
func (r *Registry) Lookup(userID string) (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.byUser[userID]
	return conn, ok
}

// Snapshot lists the registered entries for presence broadcasts, sorted by
// user id so broadcasts are stable.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.byUser))
	for userID, conn := range r.byUser {
		out = append(out, Entry{UserID: userID, ConnID: conn.ID()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
