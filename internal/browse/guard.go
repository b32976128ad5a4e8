package browse

import (
	"sync"

	"github.com/marco/mediaVault/internal/metadata"
)

// View names what a target shows.
type View string

const (
	ViewHome   View = "home"
	ViewList   View = "list"
	ViewDetail View = "detail"
)

// Target identifies what the user is currently looking at.
type Target struct {
	View   View
	ID     int
	Kind   metadata.MediaKind
	Params metadata.ListParams
}

// Ticket is handed out by Begin and checked by Current.
type Ticket struct {
	gen    uint64
	target Target
}

// Target returns the target the ticket was issued for.
func (t Ticket) Target() Target { return t.target }

// Guard tracks the most recent navigation target so results of superseded
// fetches can be discarded. Safe for concurrent use.
type Guard struct {
	mu     sync.Mutex
	gen    uint64
	target Target
}

// NewGuard creates a new Guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Begin makes t the current target and invalidates every earlier ticket.
func (g *Guard) Begin(t Target) Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	g.target = t
	return Ticket{gen: g.gen, target: t}
}

// Current reports whether tk is still the latest ticket.
func (g *Guard) Current(tk Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return tk.gen == g.gen && tk.target == g.target
}

// Target returns the current target.
func (g *Guard) Target() Target {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.target
}
