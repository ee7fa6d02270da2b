package topics

import (
	"errors"
	"fmt"
)

// ErrMatrixShape is returned when the similarity matrix is not n x n.
var ErrMatrixShape = errors.New("similarity matrix shape does not match batch size")

// Mode selects how membership is decided while growing a cluster.
type Mode string

const (
	// ModeSeed admits a document only when it is more similar than the
	// threshold to the cluster's seed. Documents close to another member
	// but not to the seed start (or join) a different cluster.
	ModeSeed Mode = "seed"
	// ModeTransitive admits a document when it is more similar than the
	// threshold to any document already in the cluster.
	ModeTransitive Mode = "transitive"
)

// ParseMode maps a configuration value to a Mode.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case "", ModeSeed:
		return ModeSeed, nil
	case ModeTransitive:
		return ModeTransitive, nil
	default:
		return "", fmt.Errorf("unknown cluster mode %q", raw)
	}
}

// Group is a cluster expressed as batch indices. Members[0] is the seed.
type Group struct {
	Seed    int
	Members []int
}

// GroupIndices partitions n documents using sim and threshold. Documents are
// visited in index order; each unclaimed document seeds a new group, and the
// remaining unclaimed documents are scanned in index order and claimed when
// their similarity is strictly greater than threshold.
func GroupIndices(n int, sim [][]float64, threshold float64, mode Mode) ([]Group, error) {
	if len(sim) != n {
		return nil, fmt.Errorf("%w: %d rows for %d documents", ErrMatrixShape, len(sim), n)
	}
	for i, row := range sim {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrMatrixShape, i, len(row), n)
		}
	}

	claimed := make([]bool, n)
	groups := make([]Group, 0)

	for seed := 0; seed < n; seed++ {
		if claimed[seed] {
			continue
		}
		claimed[seed] = true
		g := Group{Seed: seed, Members: []int{seed}}

		if mode == ModeTransitive {
			// Members grows while iterating; every admitted document is
			// itself used as an anchor once.
			for k := 0; k < len(g.Members); k++ {
				anchor := g.Members[k]
				for j := seed + 1; j < n; j++ {
					if !claimed[j] && sim[anchor][j] > threshold {
						claimed[j] = true
						g.Members = append(g.Members, j)
					}
				}
			}
		} else {
			for j := seed + 1; j < n; j++ {
				if !claimed[j] && sim[seed][j] > threshold {
					claimed[j] = true
					g.Members = append(g.Members, j)
				}
			}
		}

		groups = append(groups, g)
	}

	return groups, nil
}
