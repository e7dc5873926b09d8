package checkout

import (
	"sync"

	"grocery-storefront/internal/domain"
)

type AttemptState string

const (
	StateIdle       AttemptState = "idle"
	StateProcessing AttemptState = "processing"
	StateRedirected AttemptState = "redirected"
	StateFailed     AttemptState = "failed"
)

// Attempt tracks one cart's checkout: Idle -> Processing -> Redirected|Failed.
// Only one attempt may be processing at a time; there are no retries.
type Attempt struct {
	mu          sync.Mutex
	state       AttemptState
	redirectURL string
	lastError   string
}

type AttemptStatus struct {
	State       AttemptState `json:"state"`
	RedirectURL string       `json:"redirectUrl,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Begin enters Processing, or returns domain.ErrCheckoutInProgress.
func (a *Attempt) Begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateProcessing {
		return domain.ErrCheckoutInProgress
	}
	a.state = StateProcessing
	a.redirectURL = ""
	a.lastError = ""
	return nil
}

func (a *Attempt) Redirect(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = StateRedirected
	a.redirectURL = url
}

// Fail records err. A failed attempt hands control back to the user, so
// Begin is allowed again straight away.
func (a *Attempt) Fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = StateFailed
	if err != nil {
		a.lastError = err.Error()
	}
}

func (a *Attempt) Status() AttemptStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	state := a.state
	if state == "" {
		state = StateIdle
	}
	return AttemptStatus{State: state, RedirectURL: a.redirectURL, Error: a.lastError}
}

// Attempts keys one Attempt per cart session.
type Attempts struct {
	mu       sync.Mutex
	attempts map[string]*Attempt
}

func NewAttempts() *Attempts {
	return &Attempts{attempts: make(map[string]*Attempt)}
}

func (a *Attempts) For(key string) *Attempt {
	a.mu.Lock()
	defer a.mu.Unlock()
	at, ok := a.attempts[key]
	if !ok {
		at = &Attempt{state: StateIdle}
		a.attempts[key] = at
	}
	return at
}

func (a *Attempts) Forget(keys ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, k := range keys {
		delete(a.attempts, k)
	}
}

// ClearOnce remembers, per cart, which paid sessions already cleared it so a
// reloaded success page does not clear a cart the user refilled since.
type ClearOnce struct {
	mu   sync.Mutex
	done map[string]map[string]struct{}
}

func NewClearOnce() *ClearOnce {
	return &ClearOnce{done: make(map[string]map[string]struct{})}
}

// Do runs clear the first time sessionID is seen for cartKey and reports
// whether it ran.
func (c *ClearOnce) Do(cartKey, sessionID string, clear func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	sessions, ok := c.done[cartKey]
	if !ok {
		sessions = make(map[string]struct{})
		c.done[cartKey] = sessions
	}
	if _, ok := sessions[sessionID]; ok {
		return false
	}
	sessions[sessionID] = struct{}{}
	clear()
	return true
}

// Forget drops what was remembered for cartKeys.
func (c *ClearOnce) Forget(cartKeys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range cartKeys {
		delete(c.done, k)
	}
}
