package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
)

// explosion is a burst of low-passed noise with an exponential decay.
type explosion struct {
	rng      *rand.Rand
	position int
	total    int
	decay    float64 // per-sample gain multiplier
	gain     float64
	last     float64
}

// NewExplosion returns a streamer for one explosion of length d.
func NewExplosion(rate beep.SampleRate, d time.Duration, seed uint64) beep.Streamer {
	total := rate.N(d)
	return &explosion{
		rng:   rand.New(rand.NewPCG(seed, seed^0x5bd1e995)),
		total: total,
		// reach -60 dB by the end of the burst
		decay: math.Pow(0.001, 1/float64(max(total, 1))),
		gain:  1,
	}
}

func (e *explosion) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if e.position >= e.total {
			return i, i > 0
		}
		noise := e.rng.Float64()*2 - 1
		e.last += 0.2 * (noise - e.last)
		v := e.last * e.gain
		samples[i][0] = v
		samples[i][1] = v

		e.gain *= e.decay
		e.position++
	}
	return len(samples), true
}

func (e *explosion) Err() error { return nil }
