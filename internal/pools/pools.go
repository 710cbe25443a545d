// Package pools partitions rated players and teams into named competition
// pools. All functions are pure and deterministic: equal ratings keep
// their original input order.
package pools

import (
	"math"
	"sort"

	"github.com/duprtools/duprpool/internal/resolver"
)

// FixedPoolSize is the pool size for the fixed-format ladder.
const FixedPoolSize = 4

const defaultPointsPerGame = 9

// TeamRating blends two player ratings into one team rating, weighting the
// weaker partner more heavily. The result is rounded to three decimals and
// independent of argument order.
func TeamRating(r1, r2 float64) float64 {
	higher := math.Max(r1, r2)
	lower := math.Min(r1, r2)
	return round3(0.35*higher + 0.65*lower)
}

// DistributePlayers splits players into ladder pools of roughly targetSize,
// never smaller than minSize except when there are too few players for a
// single full pool. Extra players land in the last (lowest-rated) pools so
// weaker pools avoid byes.
func DistributePlayers(players []resolver.ResolvedPlayer, targetSize, minSize int) []PlayerPool {
	if len(players) == 0 {
		return nil
	}

	sorted := sortPlayers(players)
	n := len(sorted)
	if n < minSize {
		return []PlayerPool{{Name: "A", Players: sorted}}
	}

	numPools := poolCount(n, targetSize, minSize)
	base := n / numPools
	remainder := n % numPools

	out := make([]PlayerPool, 0, numPools)
	index := 0
	for i := 0; i < numPools; i++ {
		size := base
		if i >= numPools-remainder {
			size = base + 1
		}
		out = append(out, PlayerPool{
			Name:    poolName(i),
			Players: sorted[index : index+size],
		})
		index += size
	}
	return out
}

// DistributeFixedPools slices players into consecutive pools of exactly
// four. The caller is responsible for validating that the player count is
// a multiple of four.
func DistributeFixedPools(players []resolver.ResolvedPlayer) []PlayerPool {
	if len(players) == 0 {
		return nil
	}

	sorted := sortPlayers(players)
	out := make([]PlayerPool, 0, len(sorted)/FixedPoolSize)
	for i := 0; i+FixedPoolSize <= len(sorted); i += FixedPoolSize {
		out = append(out, PlayerPool{
			Name:    poolName(len(out)),
			Players: sorted[i : i+FixedPoolSize],
		})
	}
	return out
}

// DistributeTeams splits teams into pools using the same sizing rules as
// DistributePlayers, except extra teams land in the first (highest-rated)
// pools. Each pool carries its points-per-game and a sequential court
// range.
func DistributeTeams(teams []Team, targetSize, minSize, courtsPerPool int, pointsBySize map[int]int) []TeamPool {
	if len(teams) == 0 {
		return nil
	}

	sorted := make([]Team, len(teams))
	copy(sorted, teams)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})

	n := len(sorted)
	numPools := 1
	if n >= minSize {
		numPools = poolCount(n, targetSize, minSize)
	}
	base := n / numPools
	remainder := n % numPools

	out := make([]TeamPool, 0, numPools)
	index := 0
	court := 1
	for i := 0; i < numPools; i++ {
		size := base
		if i < remainder {
			size = base + 1
		}
		points, ok := pointsBySize[size]
		if !ok {
			points = defaultPointsPerGame
		}
		out = append(out, TeamPool{
			Name:          poolName(i),
			Teams:         sorted[index : index+size],
			PointsPerGame: points,
			CourtStart:    court,
			CourtEnd:      court + courtsPerPool - 1,
		})
		index += size
		court += courtsPerPool
	}
	return out
}

// poolCount computes how many pools to build: ceiling division by the
// target size, then shrunk while pools would fall below the minimum.
func poolCount(n, targetSize, minSize int) int {
	numPools := (n + targetSize - 1) / targetSize
	if numPools < 1 {
		numPools = 1
	}
	for numPools > 1 && float64(n)/float64(numPools) < float64(minSize) {
		numPools--
	}
	return numPools
}

func sortPlayers(players []resolver.ResolvedPlayer) []resolver.ResolvedPlayer {
	sorted := make([]resolver.ResolvedPlayer, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})
	return sorted
}

func poolName(i int) string {
	return string(rune('A' + i))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
