package audio

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func readSamples(t *testing.T, s *SquareWave, count int) []float32 {
	t.Helper()

	buf := make([]byte, count*bytesPerSample)
	n, err := s.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, len(buf), n)

	samples := make([]float32, count)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*bytesPerSample:]))
	}
	return samples
}

func TestSquareWaveSilentWhenStopped(t *testing.T) {
	s := NewSquareWave(8, 1, 0.5)
	assert.False(t, s.Playing())

	for _, sample := range readSamples(t, s, 16) {
		assert.Equal(t, float32(0), sample)
	}
}

func TestSquareWavePlaying(t *testing.T) {
	// 8 samples per period: 4 high, 4 low.
	s := NewSquareWave(8, 1, 0.5)
	s.Play()
	s.Play()
	assert.True(t, s.Playing())

	expected := []float32{0.5, 0.5, 0.5, 0.5, -0.5, -0.5, -0.5, -0.5, 0.5, 0.5}
	assert.Equal(t, expected, readSamples(t, s, len(expected)))

	s.Stop()
	s.Stop()
	assert.False(t, s.Playing())
	assert.Equal(t, float32(0), readSamples(t, s, 1)[0])
}

func TestSquareWavePartialSample(t *testing.T) {
	s := NewSquareWave(DefaultSampleRate, DefaultTone, DefaultVolume)
	n, err := s.Read(make([]byte, 7))
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestSilent(t *testing.T) {
	var s Silent
	s.Play()
	assert.True(t, s.Playing())
	s.Stop()
	assert.False(t, s.Playing())
}
