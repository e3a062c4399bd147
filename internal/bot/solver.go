package bot

import (
	"errors"
	"math/bits"
	"math/rand/v2"
	"sort"

	"pinochle-game/internal/shared"
)

// ErrContradiction means no deal fits the belief. It points at an inference
// bug rather than anything a player did.
var ErrContradiction = errors.New("bot: belief admits no deal")

// SolveDeal returns one assignment of every card to a hand that agrees with
// the belief: known cards stay where they are and each unseen card goes to a
// seat that could hold it, filling every hand to its size. rng decides which
// of the valid deals is returned.
func (b *Belief) SolveDeal(rng *rand.Rand) ([shared.NumSeats][]shared.Card, error) {
	var deal [shared.NumSeats][]shared.Card
	var capacity [shared.NumSeats]int
	for i, s := range b.Seats {
		deal[i] = append(make([]shared.Card, 0, s.HandSize), s.Known...)
		capacity[i] = s.HandSize - len(s.Known)
	}

	cards := b.Unseen()
	shared.ShuffleCards(cards, rng)

	// Bit i of a mask is set when seat i could hold the card.
	var open []shared.Card
	var masks []uint8
	for _, c := range cards {
		var mask uint8
		for _, seat := range shared.Seats {
			if b.Seats[seat].CouldHold(c) {
				mask |= 1 << seat
			}
		}
		if bits.OnesCount8(mask) == 1 {
			seat := bits.TrailingZeros8(mask)
			deal[seat] = append(deal[seat], c)
			capacity[seat]--
			continue
		}
		open = append(open, c)
		masks = append(masks, mask)
	}

	total := 0
	for _, n := range capacity {
		if n < 0 {
			return deal, ErrContradiction
		}
		total += n
	}
	if total != len(open) || !search(masks, 0, capacity) {
		return deal, ErrContradiction
	}

	for i, c := range open {
		seat := bits.TrailingZeros8(masks[i])
		deal[seat] = append(deal[seat], c)
	}
	return deal, nil
}

// search assigns masks[row:] to single seats within capacity, leaving each
// solved mask with one bit set. capacity is passed by value so every branch
// sees its own copy. The feasibility check prunes a branch as soon as it can
// no longer be completed.
func search(masks []uint8, row int, capacity [shared.NumSeats]int) bool {
	if row == len(masks) {
		return true
	}
	if !feasible(masks[row:], capacity) {
		return false
	}

	options := masks[row]
	for _, seat := range columnOrder(masks[row:]) {
		bit := uint8(1) << seat
		if capacity[seat] == 0 || options&bit == 0 {
			continue
		}
		next := capacity
		next[seat]--
		masks[row] = bit
		if search(masks, row+1, next) {
			return true
		}
	}
	masks[row] = options
	return false
}

// freedoms counts, per seat, how many of the remaining cards it could take.
func freedoms(masks []uint8) [shared.NumSeats]int {
	var free [shared.NumSeats]int
	for _, m := range masks {
		for seat := range free {
			if m&(1<<seat) != 0 {
				free[seat]++
			}
		}
	}
	return free
}

// feasible reports whether masks can still be assigned within capacity: for
// every group of seats, the cards only that group could take must fit in the
// group's remaining capacity.
func feasible(masks []uint8, capacity [shared.NumSeats]int) bool {
	var byMask [16]int
	for _, m := range masks {
		byMask[m]++
	}
	for group := uint8(0); group < 16; group++ {
		room := 0
		for seat, n := range capacity {
			if group&(1<<seat) != 0 {
				room += n
			}
		}
		need := 0
		for m, n := range byMask {
			if uint8(m)&^group == 0 {
				need += n
			}
		}
		if need > room {
			return false
		}
	}
	return true
}

// columnOrder lists seats from the most to the least constrained.
func columnOrder(masks []uint8) []int {
	free := freedoms(masks)
	order := []int{0, 1, 2, 3}
	sort.SliceStable(order, func(i, j int) bool { return free[order[i]] < free[order[j]] })
	return order
}
