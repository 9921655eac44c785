package ballsort

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ballsort/internal/config"
	"github.com/vovakirdan/ballsort/internal/core"
	"github.com/vovakirdan/ballsort/internal/registry"
)

func newTestGame(t *testing.T, kv *memKV, layout string, fresh bool) *Game {
	t.Helper()
	cfg := config.DefaultBallSortConfig()
	env := registry.Env{Config: &cfg, Layout: layout, Fresh: fresh}
	if kv != nil {
		env.KV = kv
	}
	g, err := registry.Create(GameID, env)
	if err != nil {
		t.Fatalf("registry.Create() failed: %v", err)
	}
	game := g.(*Game)
	game.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 1})
	return game
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestGameRegistered(t *testing.T) {
	if !registry.Exists(GameID) {
		t.Fatal("ballsort should register itself")
	}
}

func TestGameUnknownLayoutIsLogged(t *testing.T) {
	var buf bytes.Buffer
	g := New(registry.Env{Layout: "zigzag", Logger: log.New(&buf)})

	if g.LayoutName() != string(DealCanonical) {
		t.Errorf("layout = %q, expected the configured canonical one", g.LayoutName())
	}
	out := buf.String()
	if !strings.Contains(out, "layout ignored") || !strings.Contains(out, "zigzag") {
		t.Errorf("expected a warning naming the layout, got %q", out)
	}

	buf.Reset()
	if New(registry.Env{Layout: "striped", Logger: log.New(&buf)}).LayoutName() != string(DealStriped) {
		t.Error("a known layout should be applied")
	}
	if buf.Len() != 0 {
		t.Errorf("known layout logged %q", buf.String())
	}
}

func TestTapKeepsSelectionFromConfig(t *testing.T) {
	cfg := config.DefaultBallSortConfig()
	if !SettingsFromConfig(cfg).Input.TapKeepsSelection {
		t.Error("the terminal config should keep the selection after a click")
	}
	cfg.Input.TapKeepsSelection = false
	if SettingsFromConfig(cfg).Input.TapKeepsSelection {
		t.Error("tap_keeps_selection: false should reach the interpreter")
	}
}

func TestGameKeyboardMove(t *testing.T) {
	g := newTestGame(t, newMemKV(), "", false)

	g.Step(frame(core.ActionRight)) // cursor on slot 1
	g.Step(frame(core.ActionSelect))
	g.Step(frame(core.ActionLeft)) // back to slot 0
	res := g.Step(frame(core.ActionBatch))

	if res.State.Score != 10 {
		t.Errorf("score = %d, expected the full run of 10 moved", res.State.Score)
	}
	if g.Session().Board().Count(0) != 10 || g.Session().Board().Count(1) != 0 {
		t.Error("balls did not move from slot 1 to slot 0")
	}

	g.Step(frame(core.ActionUndo))
	if g.State().Score != 0 {
		t.Errorf("score after undo = %d", g.State().Score)
	}
	g.Step(frame(core.ActionUndo))
	if g.message != "Nothing to undo" {
		t.Errorf("message = %q", g.message)
	}
}

func TestGamePointerMoveAndSolve(t *testing.T) {
	g := newTestGame(t, newMemKV(), "", false)
	l := g.Session().Layout()
	at := time.Now()

	move := func(src, dst int) core.StepResult {
		f := core.NewInputFrame()
		f.AddPointer(core.PointerEvent{Kind: core.PointerPress, Pos: l.SlotPoint(src), At: at})
		f.AddPointer(core.PointerEvent{Kind: core.PointerRelease, Pos: l.SlotPoint(dst), At: at.Add(80 * time.Millisecond)})
		return g.Step(f)
	}

	if res := move(1, 0); res.State.Score != 1 || res.State.GameOver {
		t.Fatalf("after first move: %+v", res.State)
	}
	res := move(0, 1)
	if !res.State.GameOver || res.State.Score != 2 {
		t.Errorf("moving the ball back solves the board: %+v", res.State)
	}
	if g.Session().Outcome() != OutcomeNewRecord {
		t.Errorf("outcome = %v", g.Session().Outcome())
	}

	// A restart deals a new board and keeps the record.
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 2})
	if g.State().GameOver || g.State().Score != 0 {
		t.Errorf("state after restart = %+v", g.State())
	}
	if best, ok := g.Session().BestScore(); !ok || best != 2 {
		t.Errorf("best = %d, %v", best, ok)
	}
}

func TestGameResumesAndStartsFresh(t *testing.T) {
	kv := newMemKV()
	g := newTestGame(t, kv, "striped", false)
	g.Step(frame(core.ActionRight))
	g.Step(frame(core.ActionSelect))
	g.Step(frame(core.ActionLeft))
	g.Step(frame(core.ActionSelect))
	if g.State().Score != 1 {
		t.Fatalf("score = %d", g.State().Score)
	}

	resumed := newTestGame(t, kv, "", false)
	if resumed.State().Score != 1 || resumed.message != "Saved game restored" {
		t.Errorf("resume: score %d, message %q", resumed.State().Score, resumed.message)
	}

	fresh := newTestGame(t, kv, "shuffled", true)
	if fresh.State().Score != 0 {
		t.Errorf("fresh game score = %d", fresh.State().Score)
	}
	if fresh.Session().Settings().Deal != DealShuffled {
		t.Errorf("deal = %v, expected shuffled", fresh.Session().Settings().Deal)
	}
	if _, ok := kv.data[DefaultStateKey]; ok {
		t.Error("starting fresh should clear the saved game")
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t, nil, "", false)
	screen := core.NewScreen(80, 24)

	g.Step(frame(core.ActionRight))
	g.Step(frame(core.ActionSelect))
	g.Render(screen)
	out := screen.String()

	if !strings.Contains(out, "BALL SORT") || !strings.Contains(out, "Moves: 0") {
		t.Errorf("status line missing:\n%s", out)
	}
	if got := strings.Count(out, string(ballRune)); got != 100 {
		t.Errorf("rendered %d balls, expected 100", got)
	}
	if !strings.Contains(out, string(cursorRune)) {
		t.Error("cursor not drawn")
	}
	if cell := screen.GetCell(int(g.settings.Layout.Margin+g.settings.Layout.SlotWidth), int(g.settings.Layout.Top)); cell.Color != core.ColorBrightWhite {
		t.Errorf("selected slot wall color = %v, expected highlight", cell.Color)
	}
}

func TestGameRenderDragSkipsOrigin(t *testing.T) {
	g := newTestGame(t, nil, "", false)
	l := g.Session().Layout()
	screen := core.NewScreen(80, 24)

	f := core.NewInputFrame()
	f.AddPointer(core.PointerEvent{Kind: core.PointerPress, Pos: l.SlotPoint(2), At: time.Now()})
	f.AddPointer(core.PointerEvent{Kind: core.PointerMove, Pos: l.SlotPoint(2).Add(core.Pt(0, -2))})
	f.AddPointer(core.PointerEvent{Kind: core.PointerMove, Pos: l.SlotPoint(2).Add(core.Pt(0, -4))})
	g.Step(f)
	if !g.Session().Drag().Active {
		t.Fatal("expected a drag in progress")
	}

	g.Render(screen)
	// The dragged ball is drawn once, away from its slot, so the count holds.
	if got := strings.Count(screen.String(), string(ballRune)); got != 100 {
		t.Errorf("rendered %d balls during drag, expected 100", got)
	}
	x, y := ballCell(l.BallCenter(2, 9))
	if screen.Get(x, y) == ballRune {
		t.Error("the dragged ball should not be drawn at its origin")
	}
}

func TestGameTooSmall(t *testing.T) {
	g := newTestGame(t, nil, "", false)
	g.Resize(40, 10)
	if !g.State().Paused {
		t.Error("a small window pauses the game")
	}
	screen := core.NewScreen(40, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too small") {
		t.Error("expected a too-small notice")
	}
}

func TestBoardText(t *testing.T) {
	got := BoardText([][]Color{{}, {0, 1}, {10}}, 2)
	want := ". 1 .\n. 0 a\n- - -\n"
	if got != want {
		t.Errorf("BoardText() =\n%q\nexpected\n%q", got, want)
	}
}
