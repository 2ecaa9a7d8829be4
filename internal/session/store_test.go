package session

import (
	"errors"
	"sync"
	"testing"

	"boardroom/app"
	"boardroom/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Lifecycle(t *testing.T) {
	s := NewStore(0)
	res := &app.Result{Name: "sales.csv"}

	sess := s.Create("sales.csv", core.NewHash([]byte("x")), res)

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, res, got.Result)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(sess.ID))
	_, err = s.Get(sess.ID)
	assert.True(t, errors.Is(err, core.ErrSessionNotFound))
	assert.True(t, core.IsNotFoundError(s.Delete(sess.ID)))
}

func TestStore_ListOldestFirst(t *testing.T) {
	s := NewStore(0)
	a := s.Create("a.csv", "", nil)
	b := s.Create("b.csv", "", nil)

	list := s.List()

	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := s.Create("f.csv", "", nil)
			_, _ = s.Get(sess.ID)
			_ = s.List()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}

func TestStore_EvictsOldestBeyondCapacity(t *testing.T) {
	var discarded []core.SessionID
	s := NewStore(2, WithDiscardHook(func(sess *Session) {
		discarded = append(discarded, sess.ID)
	}))
	a := s.Create("a.csv", "", nil)
	b := s.Create("b.csv", "", nil)
	c := s.Create("c.csv", "", nil)

	assert.Equal(t, 2, s.Len())
	_, err := s.Get(a.ID)
	assert.True(t, errors.Is(err, core.ErrSessionNotFound))
	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, c.ID, list[1].ID)

	require.NoError(t, s.Delete(c.ID))
	assert.Equal(t, []core.SessionID{a.ID, c.ID}, discarded)
}

func TestStore_DefaultCapacity(t *testing.T) {
	s := NewStore(-1)
	for i := 0; i < DefaultMaxSessions+5; i++ {
		s.Create("f.csv", "", nil)
	}
	assert.Equal(t, DefaultMaxSessions, s.Len())
}
