package session

import "sync"

// GuardState is the route guard's position in its state machine.
type GuardState int

const (
	// Checking means the auth check has not settled; render a wait
	// indicator. If the store's loading flag never clears, the guard stays
	// here indefinitely.
	Checking GuardState = iota
	// Authenticated means protected content may render.
	Authenticated
	// Unauthenticated means redirect to login, preserving the requested
	// location so login can return the user there.
	Unauthenticated
)

func (g GuardState) String() string {
	switch g {
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Guard gates a protected view on the session store. It runs CheckAuth once
// on entry and re-evaluates on every store notification.
type Guard struct {
	store *Store

	mu                sync.Mutex
	state             GuardState
	requestedLocation string
	unsubscribe       func()
}

// NewGuard enters the Checking state for the requested location and performs
// the initial auth check. Close the guard when leaving the view.
func NewGuard(store *Store, requestedLocation string) *Guard {
	g := &Guard{
		store:             store,
		state:             Checking,
		requestedLocation: requestedLocation,
	}
	g.unsubscribe = store.Subscribe(g.evaluate)
	store.CheckAuth()
	return g
}

func (g *Guard) evaluate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.store.IsLoading() {
		g.state = Checking
		return
	}
	if g.store.IsAuthenticated() {
		g.state = Authenticated
	} else {
		g.state = Unauthenticated
	}
}

func (g *Guard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// RequestedLocation is where the user was originally headed.
func (g *Guard) RequestedLocation() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requestedLocation
}

// Close detaches the guard from the store.
func (g *Guard) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
}
