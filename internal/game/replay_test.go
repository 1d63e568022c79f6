package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestReplay_RecordAndNavigate(t *testing.T) {
	eng := NewEngine(zaptest.NewLogger(t))
	g := eng.NewGame(5, PlayerConfig{}, PlayerConfig{})
	r := NewReplay(g.ID)
	assert.Zero(t, r.Size())

	gs := g.State
	for i := 0; i < 3; i++ {
		actor := CurrentActorIndex(gs)
		legal := eng.EnumerateLegalActions(gs)
		require.NotEmpty(t, legal)
		next, _, ev := eng.ApplyAction(gs, legal[0])
		r.RecordEntry(actor, legal[0], ev, next)
		gs = next
	}
	require.Equal(t, 3, r.Size())
	assert.Equal(t, g.ID, r.GameID)

	r.Start()
	first := r.Next()
	require.NotNil(t, first)
	assert.Equal(t, EventSOTToAction, first.Event.Type)
	assert.Equal(t, [2]int{20, 20}, first.Life)

	second := r.Next()
	require.NotNil(t, second)

	back := r.Previous()
	require.NotNil(t, back)
	assert.Equal(t, second, back)

	r.Previous()
	assert.Nil(t, r.Previous(), "stepping before the first entry")

	r.Start()
	for r.Next() != nil {
	}
	assert.Nil(t, r.Next(), "stepping past the last entry")
}
