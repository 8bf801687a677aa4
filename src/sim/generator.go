package sim

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/xyproto/randomstring"

	"shaftsim/src/topology"
)

type Trip struct {
	Origin, Dest int
	Name         string
}

// Generator draws random trips that some car can serve.
type Generator struct {
	rng    *rand.Rand
	topo   *topology.Topology
	labels []string
}

func NewGenerator(topo *topology.Topology, seed int64) (*Generator, error) {
	var labels []string
	for _, label := range topo.Labels() {
		if len(topo.Reach(label)) > 1 {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		return nil, errors.New("no shaft serves more than one floor")
	}
	return &Generator{rng: rand.New(rand.NewSource(seed)), topo: topo, labels: labels}, nil
}

// Next picks a shaft, then two distinct floors it reaches.
func (g *Generator) Next() Trip {
	reach := g.topo.Reach(g.labels[g.rng.Intn(len(g.labels))])
	i := g.rng.Intn(len(reach))
	j := g.rng.Intn(len(reach) - 1)
	if j >= i {
		j++
	}
	return Trip{Origin: reach[i], Dest: reach[j], Name: passengerName()}
}

func passengerName() string {
	name := randomstring.EnglishFrequencyString(6)
	return strings.ToUpper(name[:1]) + name[1:]
}
