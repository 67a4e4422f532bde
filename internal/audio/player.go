// Package audio synthesizes and plays the game's sound effects.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const explosionLength = 400 * time.Millisecond

// Player mixes sound effects into the speaker.
type Player struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	volume float64
	mixer  *beep.Mixer
	seed   uint64
	log    *zap.Logger
}

// NewPlayer opens the speaker at the given sample rate. Volume is linear
// in [0, 1].
func NewPlayer(sampleRate int, volume float64, log *zap.Logger) (*Player, error) {
	p := &Player{
		rate:   beep.SampleRate(sampleRate),
		volume: volume,
		mixer:  &beep.Mixer{},
		log:    log,
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	speaker.Play(p.mixer)
	return p, nil
}

// Play starts the named sound. Unknown names are logged and ignored.
func (p *Player) Play(name string) {
	s, ok := p.streamer(name)
	if !ok {
		p.log.Warn("unknown sound", zap.String("sound", name))
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

func (p *Player) streamer(name string) (beep.Streamer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch name {
	case "explosion":
		p.seed++
		return withVolume(NewExplosion(p.rate, explosionLength, p.seed), p.volume), true
	}
	return nil, false
}

// Close silences everything still playing.
func (p *Player) Close() {
	speaker.Clear()
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(min(vol, 1)), Silent: false}
}

// Nop discards every sound.
type Nop struct{}

func (Nop) Play(string) {}
