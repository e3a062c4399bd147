package game

import "pinochle-game/internal/shared"

// LastTrickBonus is awarded to the team that wins the final trick.
const LastTrickBonus = 10

// RawScore is a team's card points, last trick bonus and meld.
func RawScore(pile []shared.Card, wonLastTrick bool, meld int) int {
	score := shared.TotalPoints(pile) + meld
	if wonLastTrick {
		score += LastTrickBonus
	}
	return score
}

// ScoreRound computes each team's score for a finished round. The bidding
// team keeps its raw score only if it made the bid; otherwise it loses the bid.
func ScoreRound(piles [2][]shared.Card, lastTrick shared.Team, meld shared.Scores, bidder shared.Team, bid int) shared.Scores {
	var delta shared.Scores
	for _, team := range []shared.Team{shared.TeamAC, shared.TeamBD} {
		raw := RawScore(piles[team], team == lastTrick, meld[team])
		if team == bidder && raw < bid {
			raw = -bid
		}
		delta[team] = raw
	}
	return delta
}
