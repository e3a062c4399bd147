package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatRelations(t *testing.T) {
	for _, s := range Seats {
		assert.Equal(t, s, s.Partner().Partner())
		assert.NotEqual(t, s, s.Partner())
		assert.Equal(t, s.Team(), s.Partner().Team())
		assert.NotEqual(t, s.Team(), s.Next().Team())
	}
	assert.Equal(t, SeatA, SeatD.Next())
	assert.Equal(t, SeatB, SeatC.Offset(3))
	assert.Equal(t, TeamAC, SeatC.Team())
	assert.Equal(t, TeamBD, SeatD.Team())
}

func TestSeatFromIndex(t *testing.T) {
	for i := 0; i < NumSeats; i++ {
		s, err := SeatFromIndex(i)
		require.NoError(t, err)
		assert.Equal(t, Seats[i], s)
	}
	_, err := SeatFromIndex(4)
	assert.Error(t, err)
	_, err = SeatFromIndex(-1)
	assert.Error(t, err)
}

func TestSeatJSON(t *testing.T) {
	data, err := json.Marshal([]Seat{SeatA, SeatD})
	require.NoError(t, err)
	assert.Equal(t, `["A","D"]`, string(data))

	var s Seat
	require.NoError(t, json.Unmarshal([]byte(`"c"`), &s))
	assert.Equal(t, SeatC, s)
	assert.Error(t, json.Unmarshal([]byte(`"E"`), &s))
}

func TestRemoveCard(t *testing.T) {
	hand := MustParseCards("QS QS JD")
	out, ok := RemoveCard(hand, Card{Suit: Spades, Rank: Queen})
	require.True(t, ok)
	assert.Equal(t, MustParseCards("QS JD"), out)
	assert.Len(t, hand, 3)

	_, ok = RemoveCard(hand, Card{Suit: Hearts, Rank: Ace})
	assert.False(t, ok)
}

func TestScores(t *testing.T) {
	s := Scores{10, -5}.Add(Scores{1, 2})
	assert.Equal(t, Scores{11, -3}, s)
	assert.Equal(t, 14, s.Net(TeamAC))
	assert.Equal(t, -14, s.Net(TeamBD))
}
