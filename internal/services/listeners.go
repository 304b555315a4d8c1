package services

import (
	"sync"

	"starjar/internal/models"
)

// authListeners is the observer registry shared by both auth variants. Both
// fire it only on local sign-in/up/out; neither backend pushes server events.
type authListeners struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]AuthStateListener
}

// add registers the listener and returns an unsubscribe that removes exactly
// this registration. Calling unsubscribe more than once is harmless.
func (l *authListeners) add(listener AuthStateListener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.listeners == nil {
		l.listeners = map[int]AuthStateListener{}
	}

	id := l.nextID
	l.nextID++
	l.listeners[id] = listener

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.listeners, id)
	}
}

func (l *authListeners) fire(event AuthStateEvent, session *models.Session) {
	l.mu.Lock()
	snapshot := make([]AuthStateListener, 0, len(l.listeners))
	for _, listener := range l.listeners {
		snapshot = append(snapshot, listener)
	}
	l.mu.Unlock()

	for _, listener := range snapshot {
		listener(event, session)
	}
}
