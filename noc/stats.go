package noc

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// histogram accumulates raw samples for one measured quantity. Kept as a
// flat slice rather than pre-binned counts: the sample counts involved in
// a single simulator run are small enough that sorting on demand (for
// PercentileReport) is cheap, and it keeps SaveMatlab exact.
type histogram struct {
	samples []float64
	sum     float64
	count   int64
}

func (h *histogram) Add(v float64) {
	h.samples = append(h.samples, v)
	h.sum += v
	h.count++
}

func (h *histogram) Mean() float64 {
	if h.count == 0 {
		return 0
	}
	return h.sum / float64(h.count)
}

// Percentile returns the p-th percentile (0-100) of the accumulated
// samples using linear interpolation, via gonum/stat.
func (h *histogram) Percentile(p float64) float64 {
	if len(h.samples) == 0 {
		return 0
	}
	sorted := make([]float64, len(h.samples))
	copy(sorted, h.samples)
	sort.Float64s(sorted)
	return stat.Quantile(p/100.0, stat.LinInterp, sorted, nil)
}

// Stats is the per-class statistics accumulator (spec.md §2 "Statistics
// accumulator", §4.6). Best-effort and not part of functional correctness
// (spec.md §1 Non-goals).
type Stats struct {
	numClasses int

	flitLatency    []histogram // per class
	packetLatency  []histogram
	networkLatency []histogram
	fragmentation  []histogram
	hopCount       []histogram

	// pairLatency is an optional per-(src,dst) latency histogram,
	// enabled when PairStats is true.
	PairStats  bool
	pairLatency map[[2]int]*histogram

	AcceptedFlits   []int64 // per subnet
	AcceptedPackets []int64 // per subnet
	SentFlits       []int64 // per subnet, incremented on injection

	SkippedSteps    int64
	NonSkippedSteps int64

	DeadlockWarnings int64
}

// NewStats allocates a Stats accumulator for numClasses classes over
// numSubnets subnets.
func NewStats(numClasses, numSubnets int) *Stats {
	return &Stats{
		numClasses:      numClasses,
		flitLatency:     make([]histogram, numClasses),
		packetLatency:   make([]histogram, numClasses),
		networkLatency:  make([]histogram, numClasses),
		fragmentation:   make([]histogram, numClasses),
		hopCount:        make([]histogram, numClasses),
		pairLatency:     make(map[[2]int]*histogram),
		AcceptedFlits:   make([]int64, numSubnets),
		AcceptedPackets: make([]int64, numSubnets),
		SentFlits:       make([]int64, numSubnets),
	}
}

// RecordSent increments the sent-flit counter for subnet, on successful
// injection (spec.md §4.3: "update sent counters").
func (s *Stats) RecordSent(subnet int) {
	s.SentFlits[subnet]++
}

// RecordFlitLatency adds atime-itime to class's flit-latency histogram,
// and to the per-(src,dst) histogram when PairStats is enabled
// (spec.md §4.6 item 4).
func (s *Stats) RecordFlitLatency(class int, src, dst int, latency int64) {
	s.flitLatency[class].Add(float64(latency))
	if s.PairStats {
		key := [2]int{src, dst}
		h, ok := s.pairLatency[key]
		if !ok {
			h = &histogram{}
			s.pairLatency[key] = h
		}
		h.Add(float64(latency))
	}
}

// RecordPacketCompletion adds packet latency, network latency,
// fragmentation, and hop count to class's histograms (spec.md §4.6 item 5).
func (s *Stats) RecordPacketCompletion(class int, packetLatency, networkLatency, fragmentation int64, hops int) {
	s.packetLatency[class].Add(float64(packetLatency))
	s.networkLatency[class].Add(float64(networkLatency))
	s.fragmentation[class].Add(float64(fragmentation))
	s.hopCount[class].Add(float64(hops))
}

// RecordAccepted increments the accepted-flit/packet counters for subnet
// (spec.md §4.5 step 2).
func (s *Stats) RecordAccepted(subnet int, isTail bool) {
	s.AcceptedFlits[subnet]++
	if isTail {
		s.AcceptedPackets[subnet]++
	}
}

// PacketLatencyMean returns the mean packet latency recorded for class.
func (s *Stats) PacketLatencyMean(class int) float64 {
	return s.packetLatency[class].Mean()
}

// HopCountSamples returns the number of hop-count samples recorded for
// class — used by scenario tests to assert an exact hop count was
// recorded (spec.md §8 scenario 2).
func (s *Stats) HopCountSamples(class int) int64 {
	return s.hopCount[class].count
}

// HopCountMean returns the mean hop count recorded for class.
func (s *Stats) HopCountMean(class int) float64 {
	return s.hopCount[class].Mean()
}

// Display prints a human-readable summary to stdout, mirroring
// Metrics.Print in the teacher.
func (s *Stats) Display() {
	fmt.Println("=== NoC Simulation Statistics ===")
	for c := 0; c < s.numClasses; c++ {
		if s.packetLatency[c].count == 0 {
			continue
		}
		fmt.Printf("class %d: packets=%d avg_latency=%.2f p99_latency=%.2f avg_hops=%.2f\n",
			c, s.packetLatency[c].count, s.packetLatency[c].Mean(),
			s.packetLatency[c].Percentile(99), s.hopCount[c].Mean())
	}
	var totalSkip, totalStep = s.SkippedSteps, s.SkippedSteps+s.NonSkippedSteps
	if totalStep > 0 {
		fmt.Printf("skipped steps: %d/%d (%.1f%%)\n", totalSkip, totalStep, 100*float64(totalSkip)/float64(totalStep))
	}
}

// SaveMatlab writes class's raw packet-latency samples to path in a
// matlab-assignment format ("name = [v1, v2, ...];"), per spec.md §6:
// "Statistics may optionally be written to text files in a
// matlab-assignment format when so configured." Grounded on
// sim/metrics_utils.go's SavetoFile, generalized from a bare
// comma-separated dump to an assignable matlab variable.
func (s *Stats) SaveMatlab(path, varName string, class int) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating matlab output %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logrus.Warnf("closing matlab output %s: %v", path, cerr)
		}
	}()

	w := bufio.NewWriter(file)
	defer func() {
		if ferr := w.Flush(); ferr != nil {
			logrus.Warnf("flushing matlab output %s: %v", path, ferr)
		}
	}()

	fmt.Fprintf(w, "%s = [", varName)
	for i, v := range s.packetLatency[class].samples {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprintf(w, "%g", v)
	}
	fmt.Fprintln(w, "];")
	return nil
}
