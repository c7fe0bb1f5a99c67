// Package audio provides the beeper that is active while the sound timer
// of the virtual machine is non-zero.
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// Default output settings.
const (
	DefaultSampleRate = 44100
	DefaultTone       = 440
	DefaultVolume     = 0.2
)

// bytesPerSample is the size of a mono float32 sample.
const bytesPerSample = 4

// SquareWave is an io.Reader that generates a mono float32 little endian
// square wave while enabled and silence otherwise.
type SquareWave struct {
	enabled    atomic.Bool
	sampleRate int
	tone       float64
	volume     float32
	phase      float64 // position within the current period, 0 to 1
}

// NewSquareWave returns a disabled square wave generator.
func NewSquareWave(sampleRate int, tone float64, volume float32) *SquareWave {
	return &SquareWave{
		sampleRate: sampleRate,
		tone:       tone,
		volume:     volume,
	}
}

// Play enables the tone.
func (s *SquareWave) Play() {
	s.enabled.Store(true)
}

// Stop silences the tone.
func (s *SquareWave) Stop() {
	s.enabled.Store(false)
}

// Playing returns whether the tone is enabled.
func (s *SquareWave) Playing() bool {
	return s.enabled.Load()
}

// Read fills p with whole samples. It is called from the audio thread.
func (s *SquareWave) Read(p []byte) (int, error) {
	samples := len(p) / bytesPerSample
	enabled := s.enabled.Load()
	step := s.tone / float64(s.sampleRate)

	for i := range samples {
		var sample float32
		if enabled {
			sample = s.volume
			if s.phase >= 0.5 {
				sample = -s.volume
			}
		}
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(sample))

		s.phase += step
		if s.phase >= 1 {
			s.phase -= math.Floor(s.phase)
		}
	}
	return samples * bytesPerSample, nil
}

// Beeper plays a square wave on the default audio device through oto.
type Beeper struct {
	*SquareWave

	mu     sync.Mutex
	player *oto.Player
}

// NewBeeper opens the audio device and starts streaming the square wave,
// which stays silent until Play is called.
func NewBeeper(sampleRate int, tone float64) (*Beeper, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	wave := NewSquareWave(sampleRate, tone, DefaultVolume)
	player := ctx.NewPlayer(wave)
	player.Play()

	return &Beeper{
		SquareWave: wave,
		player:     player,
	}, nil
}

// Close stops the audio stream.
func (b *Beeper) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player == nil {
		return nil
	}
	err := b.player.Close()
	b.player = nil
	if err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}

// Silent is a speaker that produces no sound, used when audio is disabled
// or no audio device is available.
type Silent struct {
	playing atomic.Bool
}

// Play records the sound state.
func (s *Silent) Play() {
	s.playing.Store(true)
}

// Stop records the sound state.
func (s *Silent) Stop() {
	s.playing.Store(false)
}

// Playing returns whether the last notification was Play.
func (s *Silent) Playing() bool {
	return s.playing.Load()
}
