// Package host runs the simulation in a desktop window.
package host

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/oriumgames/roids"
	"github.com/oriumgames/roids/internal/config"
	"github.com/oriumgames/roids/internal/game"
	"go.uber.org/zap"
)

var keymap = map[game.Action][]ebiten.Key{
	game.ThrustForward: {ebiten.KeyW, ebiten.KeyArrowUp},
	game.ThrustBack:    {ebiten.KeyS, ebiten.KeyArrowDown},
	game.TurnLeft:      {ebiten.KeyA, ebiten.KeyArrowLeft},
	game.TurnRight:     {ebiten.KeyD, ebiten.KeyArrowRight},
	game.RollLeft:      {ebiten.KeyQ},
	game.RollRight:     {ebiten.KeyE},
	game.Fire:          {ebiten.KeySpace},
	game.RaiseShield:   {ebiten.KeyF},
	game.Pause:         {ebiten.KeyEscape},
	game.Resume:        {ebiten.KeyEnter},
	game.Confirm:       {ebiten.KeyEnter},
	game.Menu:          {ebiten.KeyM},
	game.Quit:          {ebiten.KeyX},
}

// keyboard reads the ebiten key state.
type keyboard struct{}

func (keyboard) Pressed(a game.Action) bool {
	for _, k := range keymap[a] {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

var (
	colorShip     = color.RGBA{0xe0, 0xe0, 0xff, 0xff}
	colorAsteroid = color.RGBA{0xa0, 0x90, 0x80, 0xff}
	colorMissile  = color.RGBA{0xff, 0x60, 0x40, 0xff}
	colorShield   = color.RGBA{0x40, 0xc0, 0xff, 0x90}
	colorBounds   = color.RGBA{0x30, 0x30, 0x40, 0xff}
)

// Window implements ebiten.Game around a world.
type Window struct {
	world  *roids.World
	input  *game.Snapshot
	app    *game.App
	bounds game.Bounds
	dt     time.Duration
	cfg    config.WindowConfig
	log    *zap.Logger
	debug  bool
}

func New(w *roids.World, cfg config.WindowConfig, tickRate time.Duration, log *zap.Logger) *Window {
	// every model is drawn with vector primitives
	roids.Resource[game.Assets](w).MarkLoaded(game.AssetSpaceship, game.AssetAsteroid, game.AssetMissile, game.AssetShield)

	return &Window{
		world:  w,
		input:  roids.Resource[game.Snapshot](w),
		app:    roids.Resource[game.App](w),
		bounds: *roids.Resource[game.Bounds](w),
		dt:     tickRate,
		cfg:    cfg,
		log:    log,
	}
}

// Run opens the window and blocks until it is closed or the game quits.
func (h *Window) Run() error {
	ebiten.SetWindowSize(h.cfg.Width, h.cfg.Height)
	ebiten.SetWindowTitle(h.cfg.Title)
	ebiten.SetTPS(int(time.Second / h.dt))
	if err := ebiten.RunGame(h); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

func (h *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		h.debug = !h.debug
	}

	h.input.Capture(keyboard{})
	h.world.Tick(h.dt)

	if h.app.ExitRequested {
		h.log.Info("exit requested")
		return ebiten.Termination
	}
	return nil
}

// project maps a world position on the X/Z plane to screen pixels.
// World -Z points up the screen.
func (h *Window) project(p mgl64.Vec3) (float32, float32) {
	x := float64(h.cfg.Width)/2 + p.X()*h.cfg.Scale
	y := float64(h.cfg.Height)/2 - p.Z()*h.cfg.Scale
	return float32(x), float32(y)
}

func (h *Window) Draw(screen *ebiten.Image) {
	x0, y0 := h.project(mgl64.Vec3{h.bounds.Min.X(), 0, h.bounds.Max.Y()})
	x1, y1 := h.project(mgl64.Vec3{h.bounds.Max.X(), 0, h.bounds.Min.Y()})
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, colorBounds, false)

	scale := float32(h.cfg.Scale)
	for _, s := range game.Sprites(h.world) {
		x, y := h.project(s.Position)
		r := float32(s.Radius) * scale
		switch s.Asset {
		case game.AssetAsteroid:
			vector.StrokeCircle(screen, x, y, r, 2, colorAsteroid, true)
		case game.AssetMissile:
			vector.DrawFilledCircle(screen, x, y, max(r/2, 2), colorMissile, true)
		case game.AssetShield:
			vector.StrokeCircle(screen, x, y, r, 3, colorShield, true)
		case game.AssetSpaceship:
			h.drawShip(screen, s, x, y, r)
		}
	}

	ebitenutil.DebugPrint(screen, h.hudText())
}

// drawShip draws a triangle pointing at the ship's nose.
func (h *Window) drawShip(screen *ebiten.Image, s game.Sprite, x, y, r float32) {
	nose := s.Forward.Mul(-1)
	angle := math.Atan2(-nose.Z(), nose.X())
	pt := func(a, l float64) (float32, float32) {
		return x + float32(math.Cos(a)*l), y - float32(math.Sin(a)*l)
	}
	ax, ay := pt(angle, float64(r))
	bx, by := pt(angle+2.5, float64(r)*0.7)
	cx, cy := pt(angle-2.5, float64(r)*0.7)
	vector.StrokeLine(screen, ax, ay, bx, by, 2, colorShip, true)
	vector.StrokeLine(screen, bx, by, cx, cy, 2, colorShip, true)
	vector.StrokeLine(screen, cx, cy, ax, ay, 2, colorShip, true)
}

func (h *Window) hudText() string {
	hud := game.HUD(h.world)
	var text string
	switch hud.Phase {
	case roids.Loading:
		text = "Loading..."
	case roids.MainMenu:
		text = fmt.Sprintf("ROIDS\nbest %d\n\nEnter to play, X to quit", hud.BestScore)
	case roids.Paused:
		text = "Paused\nEsc or Enter to resume, X to quit"
	case roids.EndGame:
		text = fmt.Sprintf("Game over, score %d (best %d)\nM for menu, X to quit", hud.Score, hud.BestScore)
	default:
		weapon := "ready"
		if !hud.CanFire {
			weapon = "cooling"
		}
		text = fmt.Sprintf("health %d  score %d  best %d  weapon %s", hud.Health, hud.Score, hud.BestScore, weapon)
		if hud.ShieldActive {
			text += fmt.Sprintf("  shield %3.0f%%", hud.ShieldFraction*100)
		}
	}
	if h.debug {
		text += fmt.Sprintf("\nTPS %0.1f  FPS %0.1f  asteroids %d  entities %d", ebiten.ActualTPS(), ebiten.ActualFPS(), hud.Asteroids, h.world.Len())
	}
	return text
}

func (h *Window) Layout(_, _ int) (int, int) {
	return h.cfg.Width, h.cfg.Height
}
