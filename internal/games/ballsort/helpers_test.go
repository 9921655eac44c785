package ballsort

import (
	"errors"
	"math/rand"
	"testing"
)

// memKV is an in-memory KV that can be told to fail writes.
type memKV struct {
	data     map[string]string
	failSets bool
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	if m.failSets {
		return errors.New("disk full")
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

// sessionWith returns an unpersisted session on the given slots.
func sessionWith(t *testing.T, maxBalls int, slots ...[]Color) *Session {
	t.Helper()
	return sessionWithGateway(t, nil, maxBalls, slots...)
}

func sessionWithGateway(t *testing.T, gw *Gateway, maxBalls int, slots ...[]Color) *Session {
	t.Helper()
	settings := DefaultSettings()
	settings.SlotCount = len(slots)
	settings.MaxBalls = maxBalls
	s := NewSession(settings, gw, nil, rand.New(rand.NewSource(1)))
	s.board = boardOf(maxBalls, slots...)
	return s
}
