// Package term runs the simulation in a terminal.
//
// Terminals report key presses but not releases, so a key counts as held
// for a short window after its last press or auto-repeat event.
package term

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/roids"
	"github.com/oriumgames/roids/internal/game"
	"go.uber.org/zap"
)

const holdWindow = 150 * time.Millisecond

var runeActions = map[rune][]game.Action{
	'w': {game.ThrustForward},
	's': {game.ThrustBack},
	'a': {game.TurnLeft},
	'd': {game.TurnRight},
	'q': {game.RollLeft},
	'e': {game.RollRight},
	' ': {game.Fire},
	'f': {game.RaiseShield},
	'm': {game.Menu},
	'x': {game.Quit},
}

var keyActions = map[tcell.Key][]game.Action{
	tcell.KeyUp:     {game.ThrustForward},
	tcell.KeyDown:   {game.ThrustBack},
	tcell.KeyLeft:   {game.TurnLeft},
	tcell.KeyRight:  {game.TurnRight},
	tcell.KeyEscape: {game.Pause},
	tcell.KeyEnter:  {game.Confirm, game.Resume},
}

var (
	styleShip     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleAsteroid = tcell.StyleDefault.Foreground(tcell.ColorTan)
	styleMissile  = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed)
	styleShield   = tcell.StyleDefault.Foreground(tcell.ColorDeepSkyBlue)
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Terminal draws a world on a tcell screen and feeds it keyboard input.
type Terminal struct {
	screen tcell.Screen
	world  *roids.World
	input  *game.Snapshot
	app    *game.App
	bounds game.Bounds
	dt     time.Duration
	log    *zap.Logger

	held map[game.Action]time.Time
	now  func() time.Time
	quit bool
}

// New wraps an initialised screen. The caller keeps ownership of it.
func New(screen tcell.Screen, w *roids.World, tickRate time.Duration, log *zap.Logger) *Terminal {
	roids.Resource[game.Assets](w).MarkLoaded(game.AssetSpaceship, game.AssetAsteroid, game.AssetMissile, game.AssetShield)

	return &Terminal{
		screen: screen,
		world:  w,
		input:  roids.Resource[game.Snapshot](w),
		app:    roids.Resource[game.App](w),
		bounds: *roids.Resource[game.Bounds](w),
		dt:     tickRate,
		log:    log,
		held:   make(map[game.Action]time.Time),
		now:    time.Now,
	}
}

// Pressed reports whether a was pressed within the hold window.
func (t *Terminal) Pressed(a game.Action) bool {
	at, ok := t.held[a]
	return ok && t.now().Sub(at) < holdWindow
}

// handleEvent records key presses. It returns false once the user asked
// to leave with Ctrl-C.
func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		actions := keyActions[ev.Key()]
		if ev.Key() == tcell.KeyRune {
			actions = runeActions[ev.Rune()]
		}
		now := t.now()
		for _, a := range actions {
			t.held[a] = now
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// Run ticks and draws until ctx ends, the user presses Ctrl-C or the game
// asks to exit.
func (t *Terminal) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.dt)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !t.handleEvent(ev) {
				t.log.Info("interrupted")
				return nil
			}
		case <-ticker.C:
			t.step()
			if t.app.ExitRequested {
				t.log.Info("exit requested")
				return nil
			}
		}
	}
}

// step advances the world one tick and redraws.
func (t *Terminal) step() {
	t.input.Capture(t)
	t.world.Tick(t.dt)
	t.draw()
}

// cell maps a world position to a screen cell. Cells are about twice as
// tall as they are wide, so rows cover twice the world distance.
func (t *Terminal) cell(p mgl64.Vec3) (int, int) {
	w, h := t.screen.Size()
	spanX := t.bounds.Max.X() - t.bounds.Min.X()
	spanZ := t.bounds.Max.Y() - t.bounds.Min.Y()
	x := (p.X() - t.bounds.Min.X()) / spanX * float64(w-1)
	y := (t.bounds.Max.Y() - p.Z()) / spanZ * float64(h-2)
	return int(math.Round(x)), int(math.Round(y)) + 1
}

func (t *Terminal) draw() {
	t.screen.Clear()

	for _, s := range game.Sprites(t.world) {
		x, y := t.cell(s.Position)
		switch s.Asset {
		case game.AssetAsteroid:
			t.screen.SetContent(x, y, 'O', nil, styleAsteroid)
		case game.AssetMissile:
			t.screen.SetContent(x, y, '|', nil, styleMissile)
		case game.AssetShield:
			t.screen.SetContent(x-1, y, '(', nil, styleShield)
			t.screen.SetContent(x+1, y, ')', nil, styleShield)
		case game.AssetSpaceship:
			t.screen.SetContent(x, y, shipGlyph(s.Forward.Mul(-1)), nil, styleShip)
		}
	}

	t.puts(0, 0, hudLine(game.HUD(t.world)), styleHUD)
	t.screen.Show()
}

func (t *Terminal) puts(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

// shipGlyph picks an arrow for the nose direction on screen.
func shipGlyph(nose mgl64.Vec3) rune {
	if math.Abs(nose.X()) > math.Abs(nose.Z()) {
		if nose.X() > 0 {
			return '>'
		}
		return '<'
	}
	if nose.Z() > 0 {
		return '^'
	}
	return 'v'
}

func hudLine(hud game.HUDState) string {
	switch hud.Phase {
	case roids.Loading:
		return "loading"
	case roids.MainMenu:
		return fmt.Sprintf("ROIDS  best %d  [enter] play  [x] quit", hud.BestScore)
	case roids.Paused:
		return "paused  [esc/enter] resume  [x] quit"
	case roids.EndGame:
		return fmt.Sprintf("game over  score %d  best %d  [m] menu  [x] quit", hud.Score, hud.BestScore)
	}
	line := fmt.Sprintf("hp %d  score %d  best %d", hud.Health, hud.Score, hud.BestScore)
	if !hud.CanFire {
		line += "  reloading"
	}
	if hud.ShieldActive {
		line += fmt.Sprintf("  shield %.0f%%", hud.ShieldFraction*100)
	}
	return line
}
