package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fabrules/fab-engine-go/internal/game"
)

func TestStateView_HidesOpponentHand(t *testing.T) {
	eng := game.NewEngine(zaptest.NewLogger(t))
	g := eng.NewGame(11, game.PlayerConfig{}, game.PlayerConfig{})

	view := stateView(g.State, 0)
	assert.Equal(t, 0, view.You)
	assert.Len(t, view.Players[0].Hand, 4)
	assert.Empty(t, view.Players[1].Hand, "opponent hand must not be sent")
	assert.Equal(t, 4, view.Players[1].HandCount)

	other := stateView(g.State, 1)
	assert.Len(t, other.Players[1].Hand, 4)
	assert.Empty(t, other.Players[0].Hand)
}

func TestStateView_BoardFields(t *testing.T) {
	eng := game.NewEngine(zaptest.NewLogger(t))
	g := eng.NewGame(11, game.PlayerConfig{
		Weapon: &game.Weapon{Name: "Sword", BaseAttack: 3, Cost: 1, OncePerTurn: true},
	}, game.PlayerConfig{})

	view := stateView(g.State, 0)
	assert.Equal(t, "SOT", view.Phase)
	assert.Equal(t, "IDLE", view.CombatStep)
	require.NotNil(t, view.Players[0].Weapon)
	assert.Equal(t, "Sword", view.Players[0].Weapon.Name)
	assert.Nil(t, view.Players[1].Weapon)
	assert.Equal(t, 20, view.Players[1].Life)
	assert.Equal(t, 12, view.Players[0].DeckCount)
}

func TestActionDTO_Labels(t *testing.T) {
	a := game.NewAction(game.ActPlayAttack)
	a.PlayIdx = 1
	a.Pitch = game.NewCardSet(0, 2)

	dto := actionDTO(a)
	assert.Equal(t, "PLAY_ATTACK", dto.Kind)
	assert.Equal(t, 1, dto.PlayIdx)
	assert.Equal(t, []int{0, 2}, dto.Pitch)
	assert.Equal(t, a.String(), dto.Label)

	dtos := actionDTOs([]game.Action{a, game.NewAction(game.ActPass)})
	require.Len(t, dtos, 2)
	assert.Equal(t, "PASS", dtos[1].Kind)
}
