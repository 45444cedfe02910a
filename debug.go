package lightbox

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// debugLogger mirrors the most recently installed Scene logger for node
// operations that have no Scene pointer. Same single-Scene caveat as
// globalDebug.
var debugLogger = zerolog.Nop()

// newConsoleLogger returns the human-readable stderr logger used in debug
// mode.
func newConsoleLogger() zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(w).With().Timestamp().Str("component", "lightbox").Logger().Level(zerolog.DebugLevel)
}

// debugStats holds per-frame timing and draw metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	traverseTime time.Duration
	submitTime   time.Duration
	commandCount int
}

// debugLog writes timing and draw stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.logger.Debug().
		Dur("traverse", stats.traverseTime).
		Dur("submit", stats.submitTime).
		Dur("total", stats.traverseTime+stats.submitTime).
		Int("commands", stats.commandCount).
		Msg("frame")
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode; in release mode callers
// skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("lightbox debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn().Int("depth", depth).Int("max", debugMaxTreeDepth).Str("node", n.Name).Msg("tree depth exceeds threshold")
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLogger.Warn().Int("children", len(n.children)).Int("max", debugMaxChildCount).Str("node", n.Name).Msg("child count exceeds threshold")
	}
}
