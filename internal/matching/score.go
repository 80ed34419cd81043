package matching

import (
	"sort"
	"strings"

	types "github.com/peerlink/peerlink-backend/internal/domain"
)

const (
	skillMatchPoints = 10
	majorBonusPoints = 5

	// Raw scores are used directly as percentages and saturate here.
	percentageCap = 100
)

// Score computes the compatibility score between two profiles: 10 points for
// every skill one side needs that the other offers (counted in both
// directions, case-sensitive), plus 5 when the majors match
// case-insensitively. An empty major never earns the bonus, even though two
// empty strings compare equal.
func Score(a, b *types.User) int {
	if a == nil || b == nil {
		return 0
	}

	score := needsMet(a.SkillsNeeded, b.SkillsOffered) * skillMatchPoints
	score += needsMet(b.SkillsNeeded, a.SkillsOffered) * skillMatchPoints

	if a.Major != "" && b.Major != "" && strings.EqualFold(a.Major, b.Major) {
		score += majorBonusPoints
	}
	return score
}

// Percentage normalizes Score into [0,100]: the raw score is used directly
// as a percentage and clipped at 100.
func Percentage(a, b *types.User) int {
	score := Score(a, b)
	if score > percentageCap {
		return percentageCap
	}
	return score
}

func needsMet(needed, offered []string) int {
	if len(needed) == 0 || len(offered) == 0 {
		return 0
	}
	offeredSet := make(map[string]struct{}, len(offered))
	for _, skill := range offered {
		offeredSet[skill] = struct{}{}
	}
	met := 0
	for _, need := range needed {
		if _, ok := offeredSet[need]; ok {
			met++
		}
	}
	return met
}

// RankedPeer is a candidate annotated with its compatibility against a given
// profile.
type RankedPeer struct {
	User       *types.User `json:"user"`
	Score      int         `json:"score"`
	Percentage int         `json:"percentage"`
}

// Rank scores every candidate against self and orders them by descending
// percentage. The sort is stable: candidates with equal percentages keep
// their enumeration order, so displayed ordering is deterministic. Self and
// incomplete profiles (empty major) are excluded from the pool.
func Rank(self *types.User, candidates []*types.User) []RankedPeer {
	ranked := make([]RankedPeer, 0, len(candidates))
	if self == nil {
		return ranked
	}
	for _, candidate := range candidates {
		if candidate == nil || candidate.ID == self.ID || !candidate.ProfileComplete() {
			continue
		}
		ranked = append(ranked, RankedPeer{
			User:       candidate,
			Score:      Score(self, candidate),
			Percentage: Percentage(self, candidate),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})
	return ranked
}
