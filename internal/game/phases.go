package game

import (
	"github.com/google/uuid"
	"github.com/oriumgames/roids"
	"go.uber.org/zap"
)

// FinishLoading leaves Loading once every model is available.
type FinishLoading struct {
	Assets *Assets `roids:"res"`
	Cmds   *roids.Commands
}

func (s *FinishLoading) Run() {
	if s.Assets.Ready() {
		s.Cmds.RequestPhase(roids.MainMenu)
	}
}

// MainMenuInput starts a run or quits.
type MainMenuInput struct {
	Input *Snapshot `roids:"res"`
	App   *App      `roids:"res,mut"`
	Cmds  *roids.Commands
}

func (s *MainMenuInput) Run() {
	switch {
	case s.Input.JustPressed(Quit):
		s.App.ExitRequested = true
	case s.Input.JustPressed(Confirm):
		s.Cmds.RequestPhase(roids.InGame)
	}
}

// PauseInput suspends the run.
type PauseInput struct {
	Input *Snapshot `roids:"res"`
	Cmds  *roids.Commands
}

func (s *PauseInput) Run() {
	if s.Input.JustPressed(Pause) {
		s.Cmds.RequestPhase(roids.Paused)
	}
}

// ResumeInput returns to the run or quits.
type ResumeInput struct {
	Input *Snapshot `roids:"res"`
	App   *App      `roids:"res,mut"`
	Cmds  *roids.Commands
}

func (s *ResumeInput) Run() {
	switch {
	case s.Input.JustPressed(Quit):
		s.App.ExitRequested = true
	case s.Input.JustPressed(Pause), s.Input.JustPressed(Resume):
		s.Cmds.RequestPhase(roids.InGame)
	}
}

// EndGameInput goes back to the menu or quits.
type EndGameInput struct {
	Input *Snapshot `roids:"res"`
	App   *App      `roids:"res,mut"`
	Cmds  *roids.Commands
}

func (s *EndGameInput) Run() {
	switch {
	case s.Input.JustPressed(Quit):
		s.App.ExitRequested = true
	case s.Input.JustPressed(Menu):
		s.Cmds.RequestPhase(roids.MainMenu)
	}
}

// AdvanceInput closes the input frame. It runs last in every phase.
type AdvanceInput struct {
	Input *Snapshot `roids:"res,mut"`
}

func (s *AdvanceInput) Run() {
	s.Input.advance()
}

// startRun resets per-run state.
func startRun(w *roids.World, _ *roids.Commands) {
	s := roids.Resource[Settings](w)
	roids.Resource[Score](w).Value = 0
	*roids.Resource[SpawnTimer](w) = SpawnTimer{roids.NewTimer(s.SpawnInterval, roids.Repeating)}

	run := roids.Resource[RunInfo](w)
	*run = RunInfo{ID: uuid.New(), Started: w.Time().Elapsed}
	w.Log().Info("run started", zap.Stringer("run", run.ID))
}
