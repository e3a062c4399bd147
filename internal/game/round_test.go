package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinochle-game/internal/shared"
)

// unshuffledRound deals a fresh deck without shuffling: A and C get
// 9D..AD 9C..AC, B and D get 9H..AH 9S..AS.
func unshuffledRound(t *testing.T, first shared.Seat) *Round {
	t.Helper()
	hands, err := shared.NewDeck().Deal()
	require.NoError(t, err)
	return &Round{
		Current: first,
		Hands:   hands,
		Phase:   BiddingPhase{FirstBidder: first, Bids: []int{}},
	}
}

func mustAct(t *testing.T, r *Round, a Action) Outcome {
	t.Helper()
	out, err := r.Act(a)
	require.NoError(t, err)
	return out
}

func indexOf(t *testing.T, hand []shared.Card, card string) int {
	t.Helper()
	c, err := shared.ParseCard(card)
	require.NoError(t, err)
	for i, h := range hand {
		if h == c {
			return i
		}
	}
	t.Fatalf("%s not in hand %v", card, hand)
	return -1
}

func TestBiddingHighestEarliestWins(t *testing.T) {
	r := unshuffledRound(t, shared.SeatC)
	for _, amount := range []int{250, 300, 300, 0} {
		mustAct(t, r, Bid{Amount: amount})
	}

	assert.Equal(t, shared.SeatD, r.Current)
	assert.Equal(t, DeclareTrumpPhase{BidWinner: shared.SeatD, HighestBid: 300}, r.Phase)
}

func TestBiddingAdvancesSeat(t *testing.T) {
	r := unshuffledRound(t, shared.SeatB)
	mustAct(t, r, Bid{Amount: 200})
	assert.Equal(t, shared.SeatC, r.Current)
	assert.Equal(t, BiddingPhase{FirstBidder: shared.SeatB, Bids: []int{200}}, r.Phase)
}

func TestWrongActionForPhase(t *testing.T) {
	r := unshuffledRound(t, shared.SeatA)
	before := *r

	for _, a := range []Action{PlayCard{Index: 0}, DeclareSuit{Suit: shared.Hearts}, Pass{Indices: []int{0, 1, 2, 3}}, ShowPoints{}} {
		_, err := r.Act(a)
		assert.ErrorIs(t, err, ErrIncorrectAction, a.Type())
	}
	assert.Equal(t, before, *r)
}

func toPassingTo(t *testing.T) *Round {
	r := unshuffledRound(t, shared.SeatA)
	for _, amount := range []int{300, 250, 0, 0} {
		mustAct(t, r, Bid{Amount: amount})
	}
	mustAct(t, r, DeclareSuit{Suit: shared.Diamonds})
	return r
}

func TestDeclareMovesToPartner(t *testing.T) {
	r := toPassingTo(t)
	assert.Equal(t, shared.SeatC, r.Current)
	assert.Equal(t, PassingToPhase{BidWinner: shared.SeatA, HighestBid: 300, Trump: shared.Diamonds}, r.Phase)
}

func TestPassRejections(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		want    error
	}{
		{"too few", []int{0, 1, 2}, ErrPassingWrongNumberOfCards},
		{"too many", []int{0, 1, 2, 3, 4}, ErrPassingWrongNumberOfCards},
		{"duplicates", []int{0, 0, 1, 2}, ErrPassingWrongNumberOfCards},
		{"out of range", []int{0, 1, 2, 12}, ErrPlayingNonExtantCard},
		{"negative", []int{-1, 1, 2, 3}, ErrPlayingNonExtantCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := toPassingTo(t)
			hands := r.Hands
			_, err := r.Act(Pass{Indices: tt.indices})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, hands, r.Hands)
			assert.Equal(t, shared.SeatC, r.Current)
			assert.IsType(t, PassingToPhase{}, r.Phase)
		})
	}
}

func toRevealing(t *testing.T) *Round {
	r := toPassingTo(t)
	mustAct(t, r, Pass{Indices: []int{3, 1, 0, 2}})
	mustAct(t, r, Pass{Indices: []int{0, 1, 2, 3}})
	return r
}

func TestPassingExchangesCards(t *testing.T) {
	r := toPassingTo(t)
	mustAct(t, r, Pass{Indices: []int{3, 1, 0, 2}})
	assert.Equal(t, shared.SeatA, r.Current)
	assert.IsType(t, PassingBackPhase{}, r.Phase)
	assert.Len(t, r.Hands[shared.SeatC], 8)
	assert.Len(t, r.Hands[shared.SeatA], 16)
	assert.Equal(t, shared.MustParseCards("KD QD JD 9D"), r.Hands[shared.SeatA][12:])

	mustAct(t, r, Pass{Indices: []int{0, 1, 2, 3}})
	assert.Equal(t, shared.SeatA, r.Current)
	assert.Equal(t, RevealingPhase{BidWinner: shared.SeatA, HighestBid: 300, Trump: shared.Diamonds}, r.Phase)
	for _, seat := range shared.Seats {
		assert.Len(t, r.Hands[seat], shared.HandSize)
	}
	want := shared.MustParseCards("TD AD 9C JC QC KC TC AC KD QD JD 9D")
	assert.Equal(t, want, r.Hands[shared.SeatA])
	assert.Equal(t, want, r.Hands[shared.SeatC])
}

func TestRevealScoresMeldAndStartsPlay(t *testing.T) {
	r := toRevealing(t)
	hand := r.Hands[shared.SeatA]
	run := []int{
		indexOf(t, hand, "JD"), indexOf(t, hand, "QD"), indexOf(t, hand, "KD"),
		indexOf(t, hand, "TD"), indexOf(t, hand, "AD"), indexOf(t, hand, "9D"),
	}

	_, err := r.Act(ShowPoints{Indices: []int{0, 12}})
	assert.ErrorIs(t, err, ErrPlayingNonExtantCard)

	// Repeating an index does not count the card twice.
	mustAct(t, r, ShowPoints{Indices: append(run, run[0])})
	phase := r.Phase.(RevealingPhase)
	assert.Equal(t, shared.Scores{160, 0}, phase.ExtraPoints)
	assert.Len(t, phase.Reveals[shared.SeatA], 6)
	assert.Equal(t, shared.SeatB, r.Current)

	hearts := r.Hands[shared.SeatB]
	mustAct(t, r, ShowPoints{Indices: []int{indexOf(t, hearts, "KH"), indexOf(t, hearts, "QH")}})
	mustAct(t, r, ShowPoints{Indices: []int{}})
	mustAct(t, r, ShowPoints{Indices: []int{}})

	assert.Equal(t, shared.SeatA, r.Current)
	play, ok := r.Phase.(PlayPhase)
	require.True(t, ok)
	assert.Equal(t, shared.Scores{160, 20}, play.ExtraPoints)
	assert.Equal(t, shared.SeatA, play.Trick.Leader)
	assert.Empty(t, play.Trick.Cards)
	assert.Equal(t, shared.Diamonds, play.Trump)
	assert.Len(t, play.Reveals[shared.SeatB], 2)
	for _, seat := range shared.Seats {
		assert.Len(t, r.Hands[seat], shared.HandSize, "reveals stay in hand")
	}
}

func toPlay(t *testing.T) *Round {
	r := toRevealing(t)
	for i := 0; i < shared.NumSeats; i++ {
		mustAct(t, r, ShowPoints{})
	}
	return r
}

func TestPlayLegality(t *testing.T) {
	r := toPlay(t)
	mustAct(t, r, PlayCard{Index: indexOf(t, r.Hands[shared.SeatA], "9C")})
	assert.Equal(t, shared.SeatB, r.Current)

	// B holds neither clubs nor diamonds.
	mustAct(t, r, PlayCard{Index: indexOf(t, r.Hands[shared.SeatB], "9H")})

	hand := append([]shared.Card{}, r.Hands[shared.SeatC]...)
	phase := r.Phase

	_, err := r.Act(PlayCard{Index: indexOf(t, hand, "TD")})
	assert.ErrorIs(t, err, ErrCardIsNotLegalToPlay, "must follow suit")
	_, err = r.Act(PlayCard{Index: indexOf(t, hand, "9C")})
	assert.ErrorIs(t, err, ErrCardIsNotLegalToPlay, "must beat the nine")
	_, err = r.Act(PlayCard{Index: len(hand)})
	assert.ErrorIs(t, err, ErrPlayingNonExtantCard)

	assert.Equal(t, hand, r.Hands[shared.SeatC])
	assert.Equal(t, phase, r.Phase)
	assert.Equal(t, shared.SeatC, r.Current)

	mustAct(t, r, PlayCard{Index: indexOf(t, hand, "AC")})
	mustAct(t, r, PlayCard{Index: indexOf(t, r.Hands[shared.SeatD], "AS")})

	play := r.Phase.(PlayPhase)
	assert.Equal(t, shared.SeatC, r.Current, "winner leads")
	assert.Equal(t, shared.NewTrick(shared.SeatC), play.Trick)
	assert.Equal(t, shared.MustParseCards("9C 9H AC AS"), play.Piles[shared.TeamAC])
	assert.Empty(t, play.Piles[shared.TeamBD])
	assert.Len(t, r.Hands[shared.SeatC], shared.HandSize-1)
}
