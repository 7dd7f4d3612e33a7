package noc

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_RecordFlitLatency_AccumulatesPerClassAndPair(t *testing.T) {
	s := NewStats(2, 1)
	s.PairStats = true

	s.RecordFlitLatency(0, 1, 2, 10)
	s.RecordFlitLatency(0, 1, 2, 20)

	assert.InDelta(t, 15, s.flitLatency[0].Mean(), 0.0001)
	h, ok := s.pairLatency[[2]int{1, 2}]
	require.True(t, ok)
	assert.Equal(t, int64(2), h.count)
}

func TestStats_RecordPacketCompletion_FillsAllHistograms(t *testing.T) {
	s := NewStats(1, 1)
	s.RecordPacketCompletion(0, 100, 90, 5, 6)

	assert.InDelta(t, 100, s.PacketLatencyMean(0), 0.0001)
	assert.Equal(t, int64(1), s.HopCountSamples(0))
	assert.InDelta(t, 6, s.HopCountMean(0), 0.0001)
}

func TestStats_RecordAccepted_CountsPacketsOnlyOnTail(t *testing.T) {
	s := NewStats(1, 1)
	s.RecordAccepted(0, false)
	s.RecordAccepted(0, true)

	assert.Equal(t, int64(2), s.AcceptedFlits[0])
	assert.Equal(t, int64(1), s.AcceptedPackets[0])
}

func TestStats_RecordSent_IncrementsSubnetCounter(t *testing.T) {
	s := NewStats(1, 2)
	s.RecordSent(1)
	assert.Equal(t, int64(1), s.SentFlits[1])
	assert.Equal(t, int64(0), s.SentFlits[0])
}

func TestHistogram_Percentile_LinearInterpolation(t *testing.T) {
	h := &histogram{}
	for _, v := range []float64{10, 20, 30, 40, 50} {
		h.Add(v)
	}
	// stat.LinInterp interpolates the empirical CDF (x_i at i/n): p*n = 2.5
	// falls halfway between the 2nd and 3rd samples, 20 and 30.
	assert.InDelta(t, 25, h.Percentile(50), 0.0001)
}

func TestHistogram_Percentile_EmptyReturnsZero(t *testing.T) {
	h := &histogram{}
	assert.Equal(t, float64(0), h.Percentile(99))
}

func TestStats_SaveMatlab_WritesAssignableVariable(t *testing.T) {
	s := NewStats(1, 1)
	s.RecordPacketCompletion(0, 10, 5, 0, 1)
	s.RecordPacketCompletion(0, 20, 5, 0, 1)

	path := t.TempDir() + "/out.m"
	require.NoError(t, s.SaveMatlab(path, "packet_latency", 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "packet_latency = [10, 20];\n", string(data))
}
