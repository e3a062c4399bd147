package game

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinochle-game/internal/shared"
)

func testSeed(b byte) [32]byte {
	var seed [32]byte
	for i := range seed {
		seed[i] = b + byte(i)
	}
	return seed
}

// scriptedAction picks a simple action for whoever is due to act: the given
// bids, hearts as trump, the first four cards passed, no melds shown and the
// first legal card played.
func scriptedAction(g *Game, bids [shared.NumSeats]int) Action {
	seat := g.CurrentPlayer()
	switch p := g.Phase().(type) {
	case BiddingPhase:
		return Bid{Amount: bids[seat]}
	case DeclareTrumpPhase:
		return DeclareSuit{Suit: shared.Hearts}
	case PassingToPhase, PassingBackPhase:
		return Pass{Indices: []int{0, 1, 2, 3}}
	case RevealingPhase:
		return ShowPoints{Indices: []int{}}
	case PlayPhase:
		legal := shared.LegalCards(p.Trick.Cards, g.Hand(seat), p.Trump)
		return PlayCard{Index: legal[0]}
	}
	panic("unknown phase")
}

// assertPartition checks every card of the double deck is in exactly one place.
func assertPartition(t *testing.T, g *Game) {
	t.Helper()
	require.Equal(t, shared.CountCards(shared.NewDeck().Cards), shared.CountCards(g.CardsInPlay()))
}

func playRound(t *testing.T, g *Game, bids [shared.NumSeats]int) Outcome {
	t.Helper()
	for i := 0; i < 200; i++ {
		assertPartition(t, g)
		out, err := g.Act(g.CurrentPlayer(), scriptedAction(g, bids))
		require.NoError(t, err)
		if out.RoundOver {
			return out
		}
	}
	t.Fatal("round did not finish")
	return Outcome{}
}

func TestNewGameStartsBidding(t *testing.T) {
	g, err := New(testSeed(1))
	require.NoError(t, err)

	info := g.Info()
	assert.Equal(t, shared.SeatA, info.FirstBidder)
	assert.Equal(t, shared.SeatA, info.CurrentPlayer)
	assert.Equal(t, BiddingPhase{FirstBidder: shared.SeatA, Bids: []int{}}, info.Phase)
	assert.Equal(t, shared.Scores{}, info.Scores)
	for _, seat := range shared.Seats {
		assert.Len(t, g.Hand(seat), shared.HandSize)
	}
	assertPartition(t, g)
}

func TestSameSeedSameDeal(t *testing.T) {
	a, err := New(testSeed(9))
	require.NoError(t, err)
	b, err := New(testSeed(9))
	require.NoError(t, err)
	c, err := New(testSeed(10))
	require.NoError(t, err)

	assert.Equal(t, a.Hand(shared.SeatB), b.Hand(shared.SeatB))
	assert.NotEqual(t, a.Hand(shared.SeatB), c.Hand(shared.SeatB))
}

func TestActRejectsOtherSeats(t *testing.T) {
	g, err := New(testSeed(2))
	require.NoError(t, err)

	_, err = g.Act(shared.SeatC, Bid{Amount: 100})
	assert.ErrorIs(t, err, ErrNotTheCurrentPlayer)
	assert.Equal(t, "NotTheCurrentPlayer", ErrorKind(err))
	assert.Empty(t, g.Log())
	assert.Equal(t, shared.SeatA, g.CurrentPlayer())
}

func TestHandIsACopy(t *testing.T) {
	g, err := New(testSeed(3))
	require.NoError(t, err)

	hand := g.Hand(shared.SeatA)
	hand[0] = shared.Card{Suit: -1, Rank: -1}
	assert.NotEqual(t, hand, g.Hand(shared.SeatA))
	assertPartition(t, g)
}

func TestSetBackRound(t *testing.T) {
	bids := [shared.NumSeats]int{1000, 0, 0, 0}
	defenders := shared.TeamBD

	// Seats B and D show their whole hand; the first seed where that melds
	// anything is used.
	for b := byte(4); b < 20; b++ {
		g, err := New(testSeed(b))
		require.NoError(t, err)

		meld := 0
		var before PlayState
		var seat shared.Seat
		var card shared.Card
		for {
			a := scriptedAction(g, bids)
			switch p := g.Phase().(type) {
			case RevealingPhase:
				if cur := g.CurrentPlayer(); cur.Team() == defenders {
					hand := g.Hand(cur)
					all := make([]int, len(hand))
					for i := range all {
						all[i] = i
					}
					a = ShowPoints{Indices: all}
					meld += MeldPoints(hand, p.Trump)
				}
			case PlayPhase:
				seat = g.CurrentPlayer()
				before, card = p.Clone(), g.Hand(seat)[a.(PlayCard).Index]
			}
			out, err := g.Act(g.CurrentPlayer(), a)
			require.NoError(t, err)
			if out.RoundOver {
				break
			}
		}
		if meld == 0 {
			continue
		}

		// Apply the final card to the saved state to see the captured piles.
		require.Len(t, before.Trick.Cards, 3)
		step := before.Advance(seat, card)
		require.True(t, step.RoundOver)

		raw := RawScore(before.Piles[defenders], step.TrickWinner.Team() == defenders, 0)

		scores := g.Scores()
		assert.Equal(t, -1000, scores[shared.TeamAC], "meld never saves a failed bid")
		assert.Equal(t, raw+meld, scores[defenders])
		assert.Equal(t, shared.SeatB, g.FirstBidder())
		assert.Equal(t, shared.SeatB, g.CurrentPlayer())
		assert.Equal(t, 2, g.Info().Round)
		assert.IsType(t, BiddingPhase{}, g.Phase())
		return
	}
	t.Fatal("no seed gave team BD any meld")
}

func TestRoundConservesPoints(t *testing.T) {
	g, err := New(testSeed(5))
	require.NoError(t, err)

	out := playRound(t, g, [shared.NumSeats]int{0, 0, 0, 0})
	assert.True(t, out.RoundOver)
	// Every card point plus the last trick bonus, with no melds shown.
	assert.Equal(t, 250, out.Delta[0]+out.Delta[1])
	assert.Equal(t, out.Delta, g.Scores())
}

func TestReplayRebuildsGame(t *testing.T) {
	g, err := New(testSeed(6))
	require.NoError(t, err)
	playRound(t, g, [shared.NumSeats]int{100, 150, 0, 0})
	for i := 0; i < 10; i++ {
		_, err := g.Act(g.CurrentPlayer(), scriptedAction(g, [shared.NumSeats]int{0, 0, 50, 0}))
		require.NoError(t, err)
	}

	replayed, err := Replay(g.Seed(), g.Log())
	require.NoError(t, err)
	assert.Equal(t, g.Info(), replayed.Info())
	for _, seat := range shared.Seats {
		assert.Equal(t, g.Hand(seat), replayed.Hand(seat))
	}

	bad := append(g.Log(), Entry{Seat: g.CurrentPlayer().Next(), Action: Bid{Amount: 1}})
	_, err = Replay(g.Seed(), bad)
	assert.ErrorIs(t, err, ErrNotTheCurrentPlayer)
}

func TestInfoJSONHidesHands(t *testing.T) {
	g, err := New(testSeed(7))
	require.NoError(t, err)

	data, err := json.Marshal(g.Info())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hand")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "A", decoded["current_player"])
	phase := decoded["phase"].(map[string]any)
	assert.Equal(t, "bidding", phase["phase"])
}

func TestInfoJSONRoundTrip(t *testing.T) {
	g, err := New(testSeed(9))
	require.NoError(t, err)
	bids := [shared.NumSeats]int{250, 0, 0, 0}

	phases := map[string]bool{}
	for i := 0; i < 20; i++ {
		info := g.Info()
		phases[info.Phase.Name()] = true

		data, err := json.Marshal(info)
		require.NoError(t, err)
		var decoded Info
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, info, decoded)

		_, err = g.Act(g.CurrentPlayer(), scriptedAction(g, bids))
		require.NoError(t, err)
	}
	assert.Len(t, phases, 6)

	_, err = UnmarshalPhase([]byte(`{"phase":"napping","state":{}}`))
	assert.Error(t, err)
}

func TestEntryJSON(t *testing.T) {
	entries := []Entry{
		{Seat: shared.SeatA, Action: Bid{Amount: 250}},
		{Seat: shared.SeatB, Action: DeclareSuit{Suit: shared.Spades}},
		{Seat: shared.SeatC, Action: Pass{Indices: []int{0, 3, 5, 7}}},
		{Seat: shared.SeatD, Action: ShowPoints{Indices: []int{}}},
		{Seat: shared.SeatA, Action: PlayCard{Index: 0}},
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)

	var decoded []Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entries, decoded)

	_, err = UnmarshalAction([]byte(`{"type":"bid"}`))
	assert.Error(t, err)
	_, err = UnmarshalAction([]byte(`{"type":"shuffle"}`))
	assert.Error(t, err)
}

func TestRandomLegalPlayKeepsInvariants(t *testing.T) {
	for seed := byte(20); seed < 25; seed++ {
		g, err := New(testSeed(seed))
		require.NoError(t, err)
		rng := rand.New(rand.NewPCG(uint64(seed), 0))

		for {
			assertPartition(t, g)
			seat := g.CurrentPlayer()
			p, playing := g.Phase().(PlayPhase)
			if !playing {
				_, err := g.Act(seat, scriptedAction(g, [shared.NumSeats]int{50, 60, 70, 80}))
				require.NoError(t, err)
				continue
			}

			hand := g.Hand(seat)
			legal := shared.LegalCards(p.Trick.Cards, hand, p.Trump)
			require.NotEmpty(t, legal)
			for i := range hand {
				if !shared.IsLegalPlay(p.Trick.Cards, hand, hand[i], p.Trump) {
					_, err := g.Act(seat, PlayCard{Index: i})
					require.ErrorIs(t, err, ErrCardIsNotLegalToPlay)
				}
			}

			out, err := g.Act(seat, PlayCard{Index: legal[rng.IntN(len(legal))]})
			require.NoError(t, err)
			if out.RoundOver {
				break
			}
			if len(p.Trick.Cards) == shared.NumSeats-1 {
				next := g.Phase().(PlayPhase)
				assert.Empty(t, next.Trick.Cards)
				assert.Equal(t, len(p.Piles[0])+len(p.Piles[1])+shared.NumSeats, len(next.Piles[0])+len(next.Piles[1]))
			}
		}
	}
}
