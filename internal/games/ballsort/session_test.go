package ballsort

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

// twoColorSession starts solved-in-place: slot 0 empty, slots 1 and 2 full.
func twoColorSession(t *testing.T, gw *Gateway) *Session {
	t.Helper()
	return sessionWithGateway(t, gw, 2, nil, []Color{0, 0}, []Color{1, 1})
}

func TestMoveThenUndoRestores(t *testing.T) {
	s := sessionWith(t, 4, []Color{0, 1}, []Color{1, 0, 0}, []Color{1, 0}, nil)
	before := s.board.Clone()

	res := s.Move(MoveBatch, 1, 3)
	if res.Moved != 2 || res.MoveCount != 2 {
		t.Fatalf("move = %+v, expected 2 balls", res)
	}
	if !s.Undo() {
		t.Fatal("Undo() should succeed after a move")
	}
	if !s.board.Equal(before) {
		t.Errorf("board after undo = %v, expected %v", s.board.Slots(), before.Slots())
	}
	if s.MoveCount() != 0 || s.HistoryLen() != 0 {
		t.Errorf("count %d, history %d; expected 0, 0", s.MoveCount(), s.HistoryLen())
	}
	if s.Undo() {
		t.Error("Undo() on empty history should report false")
	}
}

func TestMoveClearsSelection(t *testing.T) {
	s := twoColorSession(t, nil)
	s.ClickSlot(1, false)
	if _, ok := s.Selected(); !ok {
		t.Fatal("click should select")
	}
	s.Move(MoveSingle, 1, 0)
	if _, ok := s.Selected(); ok {
		t.Error("a successful move clears the selection")
	}
}

func TestCompletionOutcomes(t *testing.T) {
	kv := newMemKV()
	gw := NewGateway(kv, "", "")
	s := twoColorSession(t, gw)

	if res := s.Move(MoveSingle, 1, 0); res.Outcome != OutcomeNone {
		t.Fatalf("outcome after first move = %v", res.Outcome)
	}
	res := s.Move(MoveSingle, 0, 1)
	if res.Outcome != OutcomeNewRecord || res.MoveCount != 2 {
		t.Fatalf("solving move = %+v, expected new record at 2", res)
	}
	if best, ok := s.BestScore(); !ok || best != 2 {
		t.Errorf("best = %d, %v", best, ok)
	}
	if kv.data[DefaultBestScoreKey] != "2" {
		t.Errorf("persisted best = %q, expected \"2\"", kv.data[DefaultBestScoreKey])
	}

	// Idempotent: checking again changes nothing.
	for i := 0; i < 3; i++ {
		if got := s.CheckCompletion(); got != OutcomeNewRecord {
			t.Errorf("repeat check = %v, expected the same outcome", got)
		}
	}
	if s.MoveCount() != 2 {
		t.Errorf("move count changed to %d", s.MoveCount())
	}

	// Solving again in more moves does not beat the record.
	s.Move(MoveSingle, 1, 0)
	res = s.Move(MoveSingle, 0, 1)
	if res.Outcome != OutcomeSolved || res.MoveCount != 4 {
		t.Errorf("second solve = %+v, expected solved at 4", res)
	}
	if best, _ := s.BestScore(); best != 2 {
		t.Errorf("best = %d, expected 2 to stand", best)
	}
	if got := s.CheckCompletion(); got != OutcomeSolved {
		t.Errorf("repeat check = %v, expected solved", got)
	}
}

func TestSortedDealIsNotACompletion(t *testing.T) {
	kv := newMemKV()
	gw := NewGateway(kv, "", "")
	s := twoColorSession(t, gw)

	if !IsSolved(s.board) {
		t.Fatal("two-color deal should start sorted")
	}
	if got := s.CheckCompletion(); got != OutcomeNone {
		t.Errorf("check at zero moves = %v, expected none", got)
	}
	if _, ok := s.BestScore(); ok {
		t.Error("no best score should be recorded without a move")
	}
	if _, ok := kv.data[DefaultBestScoreKey]; ok {
		t.Error("no best score should be persisted without a move")
	}
}

func TestResetKeepsBestScore(t *testing.T) {
	kv := newMemKV()
	gw := NewGateway(kv, "", "")
	s := twoColorSession(t, gw)
	s.Move(MoveSingle, 1, 0)
	s.Move(MoveSingle, 0, 1)

	s.Reset()
	if s.MoveCount() != 0 || s.HistoryLen() != 0 || s.Outcome() != OutcomeNone {
		t.Errorf("reset left count %d, history %d, outcome %v", s.MoveCount(), s.HistoryLen(), s.Outcome())
	}
	if _, ok := kv.data[DefaultStateKey]; ok {
		t.Error("reset should clear the saved game")
	}
	if kv.data[DefaultBestScoreKey] != "2" {
		t.Error("reset should keep the best score")
	}
	if best, ok := s.BestScore(); !ok || best != 2 {
		t.Errorf("best = %d, %v", best, ok)
	}
	if !s.board.Equal(CanonicalBoard(3, 2)) {
		t.Errorf("reset board = %v, expected canonical", s.board.Slots())
	}
}

func TestResetWithLayout(t *testing.T) {
	s := NewSession(DefaultSettings(), nil, nil, rand.New(rand.NewSource(3)))
	s.ResetWith(DealStriped)
	if !s.board.Equal(StripedBoard(DefaultSlotCount, DefaultMaxBalls)) {
		t.Error("ResetWith(striped) should deal the striped layout")
	}
	if s.Settings().Deal != DealStriped {
		t.Error("later resets should reuse the chosen layout")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	kv := newMemKV()
	gw := NewGateway(kv, "", "")
	settings := DefaultSettings()
	settings.Deal = DealStriped
	s := NewSession(settings, gw, nil, nil)

	s.Move(MoveSingle, 1, 0)
	s.Move(MoveBatch, 2, 0)
	s.Move(MoveSingle, 3, 1)

	resumed := NewSession(DefaultSettings(), gw, nil, nil)
	if !resumed.Start() {
		t.Fatal("Start() should resume the saved game")
	}
	if !resumed.board.Equal(s.board) {
		t.Errorf("board = %v, expected %v", resumed.board.Slots(), s.board.Slots())
	}
	if resumed.MoveCount() != s.MoveCount() {
		t.Errorf("move count = %d, expected %d", resumed.MoveCount(), s.MoveCount())
	}
	a, b := resumed.History(), s.History()
	if len(a) != len(b) {
		t.Fatalf("history length = %d, expected %d", len(a), len(b))
	}
	for i := range a {
		if a[i].MoveCount != b[i].MoveCount || len(a[i].Slots) != len(b[i].Slots) {
			t.Errorf("history entry %d differs", i)
		}
	}

	// Undo after resume walks the restored history.
	if !resumed.Undo() || resumed.MoveCount() != b[len(b)-1].MoveCount {
		t.Error("undo after resume should restore the last snapshot")
	}
}

func TestStartIgnoresBadData(t *testing.T) {
	tests := []struct {
		name  string
		state string
		best  string
	}{
		{"not json", "{broken", "x"},
		{"wrong shape", `{"slots":[[0,0]],"moveCount":1}`, "-4"},
		{"missing slots", `{"moveCount":3}`, ""},
		{"bad history", `{"slots":[[],[0,0],[1,1]],"moveCount":1,"history":[{"slots":[[9]],"moveCount":0}]}`, "7"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			kv := newMemKV()
			kv.data[DefaultStateKey] = tc.state
			if tc.best != "" {
				kv.data[DefaultBestScoreKey] = tc.best
			}
			s := twoColorSession(t, NewGateway(kv, "", ""))
			if s.Start() {
				t.Error("corrupt state should not be resumed")
			}
			if s.MoveCount() != 0 {
				t.Errorf("move count = %d, expected a fresh game", s.MoveCount())
			}
		})
	}
}

func TestStartMissingHistory(t *testing.T) {
	kv := newMemKV()
	kv.data[DefaultStateKey] = `{"slots":[[0],[0],[1,1]],"moveCount":1}`
	s := twoColorSession(t, NewGateway(kv, "", ""))
	if !s.Start() {
		t.Fatal("state without history should load")
	}
	if s.HistoryLen() != 0 || s.MoveCount() != 1 {
		t.Errorf("history %d, moves %d", s.HistoryLen(), s.MoveCount())
	}
	if _, ok := s.BestScore(); ok {
		t.Error("missing best score key should leave the best unset")
	}
}

func TestPersistFailureKeepsMove(t *testing.T) {
	kv := newMemKV()
	kv.failSets = true
	s := twoColorSession(t, NewGateway(kv, "", ""))

	res := s.Move(MoveSingle, 1, 0)
	if !res.Applied() || s.board.Count(0) != 1 {
		t.Error("a failed save must not roll back the move")
	}
	res = s.Move(MoveSingle, 0, 1)
	if res.Outcome != OutcomeNewRecord {
		t.Errorf("outcome = %v, expected new record even when not persisted", res.Outcome)
	}
}

func TestGatewayErrors(t *testing.T) {
	kv := newMemKV()
	gw := NewGateway(kv, "state", "best")

	if _, ok, err := gw.Load(); ok || err != nil {
		t.Errorf("empty store: ok=%v err=%v", ok, err)
	}
	if _, ok, err := gw.LoadBestScore(); ok || err != nil {
		t.Errorf("empty best: ok=%v err=%v", ok, err)
	}

	kv.data["best"] = "abc"
	if _, _, err := gw.LoadBestScore(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("bad best score = %v, expected ErrInvalidState", err)
	}
	kv.data["state"] = "[]"
	if _, _, err := gw.Load(); !IsInvalidState(err) {
		t.Errorf("bad state = %v, expected ErrInvalidState", err)
	}

	kv.data["best"] = "7"
	if err := gw.ClearBestScore(); err != nil {
		t.Fatalf("ClearBestScore() failed: %v", err)
	}
	if _, ok := kv.data["best"]; ok {
		t.Error("best score should be deleted")
	}

	kv.failSets = true
	if err := gw.SaveBestScore(3); err == nil {
		t.Error("write failure should surface from SaveBestScore")
	}
}

func TestPointerGesturesThroughSession(t *testing.T) {
	s := twoColorSession(t, nil)
	l := s.Layout()
	at := time.Now()

	s.PressAt(l.SlotPoint(1), at)
	res := s.ReleaseAt(l.SlotPoint(0), false, at.Add(100*time.Millisecond))
	if !res.Applied() || res.Moved != 1 || res.Source != 1 || res.Target != 0 {
		t.Fatalf("press-release across slots = %+v", res)
	}

	// Right-click release is a batch move, capped by the one free place.
	s.PressAt(l.SlotPoint(2), at)
	res = s.ReleaseAt(l.SlotPoint(0), true, at.Add(50*time.Millisecond))
	if res.Kind != MoveBatch || res.Moved != 1 {
		t.Errorf("right-click release = %+v, expected a one-ball batch move", res)
	}
	if s.board.Count(0) != 2 || s.board.Count(2) != 1 {
		t.Errorf("counts = %d, %d; expected 2, 1", s.board.Count(0), s.board.Count(2))
	}
}

func TestClickSlotKeyboard(t *testing.T) {
	s := sessionWith(t, 4, nil, []Color{0, 0, 0}, []Color{1, 1, 1, 1}, []Color{0})

	s.ClickSlot(1, false)
	if sel, ok := s.Selected(); !ok || sel != 1 {
		t.Fatalf("first click should select slot 1, got %d %v", sel, ok)
	}
	res := s.ClickSlot(0, true)
	if res.Moved != 3 || res.Kind != MoveBatch {
		t.Errorf("batch click = %+v, expected 3 balls", res)
	}

	s.ClickSlot(3, false)
	s.ClickSlot(3, false)
	if _, ok := s.Selected(); ok {
		t.Error("clicking the selected slot again should deselect")
	}

	s.ClickSlot(3, false)
	s.CancelSelection()
	if _, ok := s.Selected(); ok {
		t.Error("cancel should drop the selection")
	}
}
