package services

import (
	"testing"

	"starjar/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestListenersFireAll(t *testing.T) {
	var l authListeners
	var first, second []AuthStateEvent

	l.add(func(event AuthStateEvent, session *models.Session) {
		first = append(first, event)
	})
	l.add(func(event AuthStateEvent, session *models.Session) {
		second = append(second, event)
	})

	l.fire(AuthStateSignedIn, &models.Session{Token: "t"})
	l.fire(AuthStateSignedOut, nil)

	assert.Equal(t, []AuthStateEvent{AuthStateSignedIn, AuthStateSignedOut}, first)
	assert.Equal(t, []AuthStateEvent{AuthStateSignedIn, AuthStateSignedOut}, second)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	var l authListeners
	var kept, removed int

	l.add(func(event AuthStateEvent, session *models.Session) { kept++ })
	unsubscribe := l.add(func(event AuthStateEvent, session *models.Session) { removed++ })

	l.fire(AuthStateSignedIn, nil)

	unsubscribe()
	unsubscribe() // second call must not touch the other listener

	l.fire(AuthStateSignedOut, nil)

	assert.Equal(t, 2, kept)
	assert.Equal(t, 1, removed)
}
