package matching

import (
	"testing"

	"github.com/google/uuid"
	types "github.com/peerlink/peerlink-backend/internal/domain"
)

func profile(major string, offered, needed []string) *types.User {
	return &types.User{
		ID:            uuid.New(),
		Major:         major,
		SkillsOffered: offered,
		SkillsNeeded:  needed,
	}
}

func TestScoreWorkedExample(t *testing.T) {
	a := profile("CS", []string{"Go"}, []string{"Python"})
	b := profile("CS", []string{"Python", "Go"}, []string{"Go"})

	// a's need met (+10), b's need met (+10), shared major (+5).
	if got := Score(a, b); got != 25 {
		t.Fatalf("Score: want=25 got=%d", got)
	}
	if got := Percentage(a, b); got != 25 {
		t.Fatalf("Percentage: want=25 got=%d", got)
	}
}

func TestScoreSymmetric(t *testing.T) {
	pairs := []struct {
		a, b *types.User
	}{
		{profile("CS", []string{"Go"}, []string{"Python"}), profile("Math", []string{"Python"}, []string{"Go"})},
		{profile("", nil, nil), profile("", nil, nil)},
		{profile("Bio", []string{"R", "Stats"}, []string{"Go", "SQL"}), profile("bio", []string{"SQL"}, []string{"Stats"})},
		{profile("CS", nil, []string{"Go", "Go"}), profile("CS", []string{"Go"}, nil)},
	}
	for i, p := range pairs {
		if Score(p.a, p.b) != Score(p.b, p.a) {
			t.Fatalf("pair %d: score not symmetric: %d vs %d", i, Score(p.a, p.b), Score(p.b, p.a))
		}
	}
}

func TestEmptyMajorEarnsNoBonus(t *testing.T) {
	a := profile("", nil, nil)
	b := profile("", nil, nil)
	if got := Score(a, b); got != 0 {
		t.Fatalf("empty majors must not earn the bonus: got=%d", got)
	}
}

func TestMajorComparisonCaseInsensitive(t *testing.T) {
	a := profile("Computer Science", nil, nil)
	b := profile("computer science", nil, nil)
	if got := Score(a, b); got != 5 {
		t.Fatalf("case-insensitive major match: want=5 got=%d", got)
	}
}

func TestSkillComparisonCaseSensitive(t *testing.T) {
	a := profile("CS", nil, []string{"python"})
	b := profile("Math", []string{"Python"}, nil)
	if got := Score(a, b); got != 0 {
		t.Fatalf("skill comparison is case-sensitive: want=0 got=%d", got)
	}
}

func TestPercentageSaturatesAt100(t *testing.T) {
	offered := make([]string, 0, 12)
	needed := make([]string, 0, 12)
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		offered = append(offered, s)
		needed = append(needed, s)
	}
	a := profile("CS", offered, needed)
	b := profile("CS", offered, needed)

	if got := Score(a, b); got != 245 {
		t.Fatalf("Score: want=245 got=%d", got)
	}
	if got := Percentage(a, b); got != 100 {
		t.Fatalf("Percentage must saturate: want=100 got=%d", got)
	}
}

func TestPercentageMonotonicInScore(t *testing.T) {
	base := profile("CS", []string{"Go", "SQL", "Rust"}, nil)
	prev := -1
	needed := []string{}
	for _, skill := range []string{"Go", "SQL", "Rust"} {
		needed = append(needed, skill)
		other := profile("Math", nil, append([]string(nil), needed...))
		got := Percentage(other, base)
		if got < prev {
			t.Fatalf("percentage decreased: prev=%d got=%d", prev, got)
		}
		prev = got
	}
}

func TestRankStableOrderAndExclusions(t *testing.T) {
	self := profile("CS", []string{"Go"}, []string{"Python"})

	strong := profile("CS", []string{"Python"}, []string{"Go"}) // 25
	tiedA := profile("CS", nil, nil)                            // 5, enumerated first
	tiedB := profile("cs", nil, nil)                            // 5, enumerated second
	incomplete := profile("", []string{"Python"}, []string{"Go"})

	ranked := Rank(self, []*types.User{tiedA, incomplete, strong, self, tiedB})

	if len(ranked) != 3 {
		t.Fatalf("Rank: want 3 peers got %d", len(ranked))
	}
	if ranked[0].User.ID != strong.ID {
		t.Fatalf("Rank: strongest peer should come first")
	}
	// Stable sort keeps enumeration order for equal percentages.
	if ranked[1].User.ID != tiedA.ID || ranked[2].User.ID != tiedB.ID {
		t.Fatalf("Rank: tied peers out of enumeration order")
	}
}
