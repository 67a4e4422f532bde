package game

import (
	"context"
	"time"

	"github.com/oriumgames/roids"
	"go.uber.org/zap"
)

// RecordBest submits the final score when a run ends.
type RecordBest struct {
	Records *Records    `roids:"res,opt"`
	Score   *Score      `roids:"res"`
	Log     *zap.Logger `roids:"res"`
}

func (h *RecordBest) OnPhaseChanged(ev roids.PhaseChanged) {
	if ev.To != roids.EndGame || h.Records == nil || h.Records.Store == nil {
		return
	}
	improved, err := h.Records.Store.Submit(h.Score.Value)
	if err != nil {
		h.Log.Error("failed to save best score", zap.Int("score", h.Score.Value), zap.Error(err))
		return
	}
	if improved {
		h.Log.Info("new best score", zap.Int("score", h.Score.Value))
	}
}

// RecordRun stores the finished run in the history database. The write
// happens off the tick so a slow database never stalls the simulation.
type RecordRun struct {
	History *History    `roids:"res,opt"`
	Run     *RunInfo    `roids:"res"`
	Score   *Score      `roids:"res"`
	Time    *roids.Time `roids:"res"`
	Log     *zap.Logger `roids:"res"`
}

func (h *RecordRun) OnPhaseChanged(ev roids.PhaseChanged) {
	if ev.To != roids.EndGame || h.History == nil || h.History.Recorder == nil {
		return
	}

	recorder, log := h.History.Recorder, h.Log
	id, score := h.Run.ID, h.Score.Value
	played := h.Time.Elapsed - h.Run.Started
	timeout := h.History.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	h.History.pending.Add(1)
	go func() {
		defer h.History.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := recorder.RecordRun(ctx, id, score, played); err != nil {
			log.Error("failed to record run", zap.Stringer("run", id), zap.Error(err))
		}
	}()
}

// PlaySounds triggers the explosion sound for launches and kills.
type PlaySounds struct {
	Sounds *Sounds `roids:"res,opt"`
}

func (h *PlaySounds) OnMissileFired(MissileFired) {
	h.play(SoundExplosion)
}

func (h *PlaySounds) OnAsteroidDestroyed(AsteroidDestroyed) {
	h.play(SoundExplosion)
}

func (h *PlaySounds) play(name string) {
	if h.Sounds != nil && h.Sounds.Player != nil {
		h.Sounds.Player.Play(name)
	}
}
