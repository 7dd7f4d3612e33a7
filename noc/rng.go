package noc

import (
	"hash/fnv"
	"math/rand"
)

// Subsystem name constants for the per-subsystem RNG streams used across
// the core (ANY_TYPE subnet selection) and the stress driver (synthetic
// traffic generation, not part of the core).
const (
	SubsystemSubnetSelect = "subnet_select"
	SubsystemWorkload     = "workload"
)

// PartitionedRNG provides isolated, deterministic RNG streams per
// subsystem so that enabling or seeding one subsystem (e.g. a new
// workload generator) never perturbs another's stream. Derivation:
// masterSeed XOR fnv1a64(subsystemName). Grounded on the teacher's
// sim/cluster/rng.go PartitionedRNG.
type PartitionedRNG struct {
	masterSeed int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG seeded from masterSeed.
func NewPartitionedRNG(masterSeed int64) *PartitionedRNG {
	return &PartitionedRNG{masterSeed: masterSeed, subsystems: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the RNG for name, creating and caching it on first
// use. Repeated calls with the same name return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if r, ok := p.subsystems[name]; ok {
		return r
	}
	seed := p.masterSeed ^ fnv1a64(name)
	r := rand.New(rand.NewSource(seed))
	p.subsystems[name] = r
	return r
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
