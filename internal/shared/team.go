package shared

// Team identifies one of the two partnerships: seats A and C, or B and D.
type Team int

const (
	TeamAC Team = 0
	TeamBD Team = 1
)

// Other returns the opposing team.
func (t Team) Other() Team {
	return 1 - t
}

func (t Team) String() string {
	if t == TeamAC {
		return "AC"
	}
	return "BD"
}

// Scores holds one value per team, indexed by Team.
type Scores [2]int

// Add returns the element-wise sum of s and o.
func (s Scores) Add(o Scores) Scores {
	return Scores{s[0] + o[0], s[1] + o[1]}
}

// Net returns team t's value minus the opposing team's.
func (s Scores) Net(t Team) int {
	return s[t] - s[t.Other()]
}
