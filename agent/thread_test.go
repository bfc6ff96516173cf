package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersister struct {
	states map[string]*State
	saves  int
	err    error
}

func (p *memPersister) Load(_ context.Context, id string) (*State, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.states[id], nil
}

func (p *memPersister) Save(_ context.Context, s *State) error {
	p.saves++
	p.states[s.ThreadID] = s.Clone()
	return nil
}

func (p *memPersister) Delete(_ context.Context, id string) error {
	delete(p.states, id)
	return nil
}

func TestThreadStore_LoadOrCreate(t *testing.T) {
	ts := NewThreadStore()
	defer ts.Close()
	ctx := context.Background()

	s1, err := ts.LoadOrCreate(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", s1.ThreadID)
	assert.NotNil(t, s1.Files)

	s2, err := ts.LoadOrCreate(ctx, "t1")
	require.NoError(t, err)
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, ts.Len())
}

func TestThreadStore_Persister(t *testing.T) {
	ctx := context.Background()
	stored := NewState("t1")
	stored.Files["/a"] = "persisted"
	p := &memPersister{states: map[string]*State{"t1": stored}}

	ts := NewThreadStore(WithPersister(p))
	defer ts.Close()

	t.Run("load on miss", func(t *testing.T) {
		s, err := ts.LoadOrCreate(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "persisted", s.Files["/a"])
	})

	t.Run("save writes through", func(t *testing.T) {
		s, err := ts.LoadOrCreate(ctx, "t2")
		require.NoError(t, err)
		s.Files["/b"] = "new"
		require.NoError(t, ts.Save(ctx, s))
		assert.Equal(t, 1, p.saves)
		assert.Equal(t, "new", p.states["t2"].Files["/b"])
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, ts.Delete(ctx, "t2"))
		assert.Nil(t, ts.Get("t2"))
		assert.NotContains(t, p.states, "t2")
	})

	t.Run("load error", func(t *testing.T) {
		p.err = errors.New("disk gone")
		_, err := ts.LoadOrCreate(ctx, "t3")
		assert.ErrorIs(t, err, p.err)
	})
}

func TestThreadStore_Evict(t *testing.T) {
	ts := NewThreadStore(WithTTL(time.Minute), WithEvictInterval(time.Hour))
	defer ts.Close()
	ctx := context.Background()

	now := time.Now()
	ts.now = func() time.Time { return now }
	_, err := ts.LoadOrCreate(ctx, "old")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = ts.LoadOrCreate(ctx, "fresh")
	require.NoError(t, err)

	ts.evict()
	assert.Nil(t, ts.Get("old"))
	assert.NotNil(t, ts.Get("fresh"))
}
