// Package journal is the status side channel of a pipeline run. The original
// tool rendered a live action log next to the results; here the pipeline
// reports its checkpoints (chargement, exclusions, calcul, fin) to a
// caller-supplied sink and stays free of any UI or logging dependency.
package journal

import (
	"sync"

	"github.com/rs/zerolog"
)

// Journal receives one status message per pipeline checkpoint.
type Journal interface {
	Etape(message string)
}

// Nul discards all messages.
type Nul struct{}

func (Nul) Etape(string) {}

// Zerolog forwards each checkpoint to a zerolog logger at info level.
type Zerolog struct {
	Logger zerolog.Logger
}

func (z Zerolog) Etape(message string) {
	z.Logger.Info().Msg(message)
}

// Memoire collects messages in order, for callers that return the journal to
// the user (the HTTP run summary does).
type Memoire struct {
	mu       sync.Mutex
	messages []string
}

func (m *Memoire) Etape(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
}

// Messages returns a copy of the collected messages.
func (m *Memoire) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.messages))
	copy(out, m.messages)
	return out
}
