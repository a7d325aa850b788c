package services

import (
	"math/rand/v2"
	"sync"
)

// Random is the source of every simulated outcome. Float64 returns a value in
// [0, 1).
type Random interface {
	Float64() float64
	String(length int, alphabet string) string
}

type MathRandom struct{}

func (MathRandom) Float64() float64 {
	return rand.Float64()
}

func (MathRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}

// ScriptedRandom replays queued values so tests can force spin outcomes.
// Once the queue is drained Float64 returns Fallback.
type ScriptedRandom struct {
	mu       sync.Mutex
	floats   []float64
	strings  []string
	Fallback float64
}

// NewScriptedRandom returns a ScriptedRandom whose fallback never triggers a
// win or a jackpot.
func NewScriptedRandom() *ScriptedRandom {
	return &ScriptedRandom{Fallback: 0.999}
}

func (r *ScriptedRandom) QueueFloat(values ...float64) {
	r.mu.Lock()
	r.floats = append(r.floats, values...)
	r.mu.Unlock()
}

func (r *ScriptedRandom) QueueString(values ...string) {
	r.mu.Lock()
	r.strings = append(r.strings, values...)
	r.mu.Unlock()
}

func (r *ScriptedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return r.Fallback
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *ScriptedRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	if len(r.strings) > 0 {
		v := r.strings[0]
		r.strings = r.strings[1:]
		r.mu.Unlock()
		return v
	}
	r.mu.Unlock()
	return MathRandom{}.String(length, alphabet)
}
