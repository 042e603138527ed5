package logic

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// TiePolicy decides how awards are handed out when results share a rank.
type TiePolicy string

const (
	// TieSplit pools the awards of the tied list positions and splits them evenly.
	TieSplit TiePolicy = "split"
	// TieListOrder awards by list position only: the first tied entry takes
	// the better award and winner-takes-all pays every rank-1 entry the full pool.
	TieListOrder TiePolicy = "list-order"
)

func ParseTiePolicy(s string) (TiePolicy, error) {
	switch TiePolicy(s) {
	case TieSplit, TieListOrder:
		return TiePolicy(s), nil
	case "":
		return TieSplit, nil
	default:
		return "", fmt.Errorf("unknown tie policy %q (want %q or %q)", s, TieSplit, TieListOrder)
	}
}

// RankingValidation is the advisory result of ValidateRankings.
type RankingValidation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// GetTotalPointsPool is the number of points a session distributes.
func GetTotalPointsPool(playerCount, pointsPerPlayer int) int {
	return playerCount * pointsPerPlayer
}

// ValidateRankings checks that the distinct rank values form 1, 2, 3, ...
// with no gaps. Ties are allowed.
func ValidateRankings(results []models.GameResult) RankingValidation {
	ranks := make([]int, len(results))
	for i, r := range results {
		ranks[i] = r.Rank
	}
	return ValidateRanks(ranks)
}

// ValidateRanks is ValidateRankings over bare rank values.
func ValidateRanks(ranks []int) RankingValidation {
	if len(ranks) == 0 {
		return RankingValidation{Message: "At least one result is required"}
	}

	distinct := slices.Clone(ranks)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)

	if distinct[0] < 1 {
		return RankingValidation{Message: fmt.Sprintf("Invalid rank %d: ranks start at 1", distinct[0])}
	}
	for i, r := range distinct {
		if expected := i + 1; r != expected {
			return RankingValidation{Message: fmt.Sprintf("Missing rank %d", expected)}
		}
	}
	return RankingValidation{Valid: true}
}

// Scorer computes pointsEarned for a finalized ranking. It never fails:
// malformed input produces degenerate awards, callers validate first.
type Scorer struct {
	Policy TiePolicy
}

func NewScorer(policy TiePolicy) *Scorer {
	if policy == "" {
		policy = TieSplit
	}
	return &Scorer{Policy: policy}
}

// Score dispatches on the scoring mode using the scorer's tie policy.
func (s *Scorer) Score(mode models.ScoringMode, playerCount, pointsPerPlayer int, results []models.GameResult) []models.GameResult {
	return CalculateScores(mode, playerCount, pointsPerPlayer, results, s.Policy)
}

// CalculateScores dispatches on the scoring mode. Unknown modes award nothing.
func CalculateScores(mode models.ScoringMode, playerCount, pointsPerPlayer int, results []models.GameResult, policy TiePolicy) []models.GameResult {
	switch mode {
	case models.ScoringPointing:
		return CalculatePointingSystemScores(results, playerCount, pointsPerPlayer, policy)
	case models.ScoringWinnerTakesAll:
		return CalculateWinnerTakesAllScores(results, playerCount, pointsPerPlayer, policy)
	default:
		out := sortByRank(results, policy)
		for i := range out {
			out[i].PointsEarned = 0
		}
		return out
	}
}

// CalculatePointingSystemScores gives list position 0 two thirds of the
// pool (rounded up), position 1 two thirds of what is left (rounded up),
// position 2 the remainder and everybody else zero. The returned slice is
// ordered by rank.
func CalculatePointingSystemScores(results []models.GameResult, playerCount, pointsPerPlayer int, policy TiePolicy) []models.GameResult {
	sorted := sortByRank(results, policy)
	if len(sorted) == 0 {
		return sorted
	}

	awards := positionAwards(len(sorted), GetTotalPointsPool(playerCount, pointsPerPlayer))

	if policy == TieListOrder {
		for i := range sorted {
			sorted[i].PointsEarned = awards[i]
		}
		return sorted
	}

	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].Rank == sorted[start].Rank {
			end++
		}
		sum := 0
		for _, a := range awards[start:end] {
			sum += a
		}
		splitEvenly(sorted[start:end], sum)
		start = end
	}
	return sorted
}

// CalculateWinnerTakesAllScores pays the pool to rank 1. With TieListOrder
// each rank-1 entry receives the full pool; with TieSplit they share it.
func CalculateWinnerTakesAllScores(results []models.GameResult, playerCount, pointsPerPlayer int, policy TiePolicy) []models.GameResult {
	sorted := sortByRank(results, policy)
	pool := GetTotalPointsPool(playerCount, pointsPerPlayer)

	winners := 0
	for i := range sorted {
		sorted[i].PointsEarned = 0
		if sorted[i].Rank == 1 {
			winners++
		}
	}
	if winners == 0 {
		return sorted
	}

	if policy == TieListOrder {
		for i := range sorted {
			if sorted[i].Rank == 1 {
				sorted[i].PointsEarned = pool
			}
		}
		return sorted
	}

	// rank-1 entries are a prefix of the sorted slice
	splitEvenly(sorted[:winners], pool)
	return sorted
}

// DeriveRanksFromScores assigns dense ranks by score, highest first. Equal
// scores share a rank and ranks stay contiguous from 1. Results without a
// score rank after every scored result. Input order is preserved.
func DeriveRanksFromScores(results []models.GameResult) []models.GameResult {
	out := slices.Clone(results)
	if len(out) == 0 {
		return out
	}

	scores := make([]int, 0, len(out))
	for _, r := range out {
		if r.Score != nil {
			scores = append(scores, *r.Score)
		}
	}
	slices.SortFunc(scores, func(a, b int) int { return cmp.Compare(b, a) })
	scores = slices.Compact(scores)

	rankOf := make(map[int]int, len(scores))
	for i, s := range scores {
		rankOf[s] = i + 1
	}
	for i := range out {
		if out[i].Score == nil {
			out[i].Rank = len(scores) + 1
			continue
		}
		out[i].Rank = rankOf[*out[i].Score]
	}
	return out
}

func positionAwards(n, pool int) []int {
	awards := make([]int, n)
	remaining := pool
	for i := 0; i < n && i < 3; i++ {
		if i == 2 {
			awards[i] = remaining
			remaining = 0
			break
		}
		a := ceilTwoThirds(remaining)
		awards[i] = a
		remaining -= a
	}
	return awards
}

func ceilTwoThirds(n int) int {
	if n <= 0 {
		return 0
	}
	return (n*2 + 2) / 3
}

// splitEvenly divides total across group; the remainder goes one point at
// a time to the earliest entries.
func splitEvenly(group []models.GameResult, total int) {
	if len(group) == 0 {
		return
	}
	base, rem := total/len(group), total%len(group)
	for i := range group {
		group[i].PointsEarned = base
		if i < rem {
			group[i].PointsEarned++
		}
	}
}

// sortByRank returns a rank-ordered copy. List-order keeps submission order
// inside a tie; split orders ties by player id so remainders are stable.
func sortByRank(results []models.GameResult, policy TiePolicy) []models.GameResult {
	sorted := slices.Clone(results)
	if sorted == nil {
		return []models.GameResult{}
	}
	if policy == TieListOrder {
		slices.SortStableFunc(sorted, func(a, b models.GameResult) int {
			return cmp.Compare(a.Rank, b.Rank)
		})
		return sorted
	}
	slices.SortStableFunc(sorted, func(a, b models.GameResult) int {
		if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return sorted
}
