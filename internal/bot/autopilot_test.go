package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinochle-game/internal/game"
	"pinochle-game/internal/shared"
)

func TestMeldIndices(t *testing.T) {
	hand := cards("9C QS TH JD KH QH 9H AC AC 9D 9S TC")

	got := MeldIndices(hand, shared.Hearts)
	var shown []shared.Card
	for _, i := range got {
		shown = append(shown, hand[i])
	}
	shared.SortCards(shown)
	assert.Equal(t, cards("JD 9H QH KH QS"), shown)
	assert.Equal(t, game.MeldPoints(hand, shared.Hearts), game.MeldPoints(shown, shared.Hearts))

	assert.Empty(t, MeldIndices(cards("9C TC AS"), shared.Hearts))
}

func TestChooseTrump(t *testing.T) {
	assert.Equal(t, shared.Clubs, ChooseTrump(cards("9C TC AC KC AS AS AH")))
	// Equal length, the marriage decides.
	assert.Equal(t, shared.Hearts, ChooseTrump(cards("KH QH AS TS")))
}

func TestEstimateBid(t *testing.T) {
	// Aces around and both clubs nines under clubs (120) plus half of 40 card points.
	assert.Equal(t, 140, EstimateBid(cards("AS AD AH AC 9C 9C")))
	assert.Equal(t, 10, EstimateBid(cards("9C 9D JH")))
}

func TestPassChoices(t *testing.T) {
	hand := cards("9C AS TS 9S AH KH JD QD")
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, strongest(hand, shared.Spades, 4))
	assert.ElementsMatch(t, []int{0, 6, 7, 5}, weakest(hand, shared.Spades, 4))
}

func TestAutopilotPlaysARound(t *testing.T) {
	var seed [32]byte
	seed[0] = 3
	pilot := &Autopilot{Planner: &Planner{Trials: 20, Workers: 1, Seed: 5}}

	g, err := game.New(seed)
	require.NoError(t, err)
	for steps := 0; steps < 100; steps++ {
		seat := g.CurrentPlayer()
		a, err := pilot.Choose(g.Seed(), g.Log(), seat)
		require.NoError(t, err)
		out, err := g.Act(seat, a)
		require.NoError(t, err)
		if out.RoundOver {
			assert.Equal(t, out.Delta, g.Scores())
			assert.Equal(t, shared.SeatB, g.FirstBidder())
			return
		}
	}
	t.Fatal("round did not finish")
}

func TestAutopilotOutOfTurn(t *testing.T) {
	var seed [32]byte
	_, err := (&Autopilot{Planner: &Planner{}}).Choose(seed, nil, shared.SeatC)
	assert.ErrorIs(t, err, ErrNotBotsTurn)
}

func TestAutopilotTrickPlayFollowsPlanner(t *testing.T) {
	var seed [32]byte
	seed[5] = 11
	entries := scriptedToPlay(t, seed)
	planner := &Planner{Trials: 40, Workers: 2, Seed: 9}

	a, err := (&Autopilot{Planner: planner}).Choose(seed, entries, shared.SeatA)
	require.NoError(t, err)

	b, g, err := Rebuild(seed, entries, shared.SeatA)
	require.NoError(t, err)
	want, err := planner.Recommend(b)
	require.NoError(t, err)
	play, ok := a.(game.PlayCard)
	require.True(t, ok)
	assert.Equal(t, want, g.Hand(shared.SeatA)[play.Index])
}

func TestAutopilotRejectsBrokenLog(t *testing.T) {
	var seed [32]byte
	entries := []game.Entry{{Seat: shared.SeatC, Action: game.Bid{Amount: 250}}}
	_, err := (&Autopilot{Planner: &Planner{}}).Choose(seed, entries, shared.SeatA)
	assert.ErrorIs(t, err, game.ErrNotTheCurrentPlayer)
	assert.ErrorContains(t, err, "replay action 0")
}
