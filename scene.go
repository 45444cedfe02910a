package lightbox

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

const defaultCommandCap = 256

// Scene is the top-level object that owns the node tree, input state, the
// cross-goroutine post queue, and render buffers.
type Scene struct {
	root   *Node
	debug  bool
	logger zerolog.Logger

	// ClearColor fills the screen before the tree is drawn. The zero value
	// leaves the screen as Ebitengine handed it over.
	ClearColor Color

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	screenshotQueue []string

	// Render state
	commands []RenderCommand

	// Input state
	handlers     handlerRegistry
	captured     [maxPointers]*Node
	pointers     [maxPointers]pointerState
	hitBuf       []*Node
	dragDeadZone float64
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	pinch        pinchState

	// Injected input and scripted tests
	injectQueue []syntheticFrame
	testRunner  *TestRunner

	// Work handed in from other goroutines, run at the start of Update.
	postMu  sync.Mutex
	posted  []func()
	running []func()

	updateBuf  []*Node
	updateFunc func() error
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	root := NewContainer("root")
	root.Interactable = true
	return &Scene{
		root:          root,
		logger:        zerolog.Nop(),
		ScreenshotDir: "screenshots",
		commands:      make([]RenderCommand, 0, defaultCommandCap),
		dragDeadZone:  defaultDragDeadZone,
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Post queues fn to run on the update goroutine at the start of the next
// Update. Safe to call from any goroutine.
func (s *Scene) Post(fn func()) {
	s.postMu.Lock()
	s.posted = append(s.posted, fn)
	s.postMu.Unlock()
}

// drainPosted runs everything posted before this call. Work posted while
// draining runs next frame.
func (s *Scene) drainPosted() {
	s.postMu.Lock()
	s.running, s.posted = s.posted, s.running[:0]
	s.postMu.Unlock()

	for i, fn := range s.running {
		fn()
		s.running[i] = nil
	}
	s.running = s.running[:0]
}

// SetUpdateFunc registers a callback run at the end of every Update when the
// scene is driven by Run. A non-nil error stops the game loop.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// Update runs posted work, advances the test runner, processes input, then
// calls every node's OnUpdate in tree order.
func (s *Scene) Update() {
	dt := 1.0 / float64(ebiten.TPS())

	s.drainPosted()

	if s.testRunner != nil {
		s.testRunner.step(s)
	}

	// Refresh world transforms first so hit testing and Measure see
	// accurate positions this frame.
	updateWorldTransform(s.root, identityTransform, 1.0, false)

	s.processInput()
	s.runOnUpdate(dt)
}

// runOnUpdate snapshots the nodes with an OnUpdate hook before calling any,
// so hooks may add or dispose nodes.
func (s *Scene) runOnUpdate(dt float64) {
	s.updateBuf = collectUpdatable(s.root, s.updateBuf[:0])
	for i, n := range s.updateBuf {
		if !n.disposed && n.OnUpdate != nil {
			n.OnUpdate(dt)
		}
		s.updateBuf[i] = nil
	}
}

func collectUpdatable(n *Node, buf []*Node) []*Node {
	if n.OnUpdate != nil {
		buf = append(buf, n)
	}
	for _, child := range sortedChildren(n) {
		buf = collectUpdatable(child, buf)
	}
	return buf
}

// Draw traverses the scene tree, emits render commands, and submits them to
// the given screen image.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	s.commands = s.commands[:0]

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.traverse(s.root, identityTransform, 1.0, false)

	if s.debug {
		stats.traverseTime = time.Since(t0)
		stats.commandCount = len(s.commands)
		t0 = time.Now()
	}

	s.submit(screen)

	if s.debug {
		stats.submitTime = time.Since(t0)
		s.debugLog(stats)
	}

	s.flushScreenshots(screen)
}

// Logger returns the scene's logger. It discards everything until
// SetLogger or SetDebugMode installs a real one.
func (s *Scene) Logger() *zerolog.Logger {
	return &s.logger
}

// SetLogger replaces the scene's logger.
func (s *Scene) SetLogger(l zerolog.Logger) {
	s.logger = l
	debugLogger = l
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, per-frame
// timing stats are logged. A logger installed with SetLogger is kept and
// raised to debug level; otherwise a console logger on stderr is installed.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if !enabled {
		return
	}
	if s.logger.GetLevel() == zerolog.Disabled {
		s.SetLogger(newConsoleLogger())
		return
	}
	if s.logger.GetLevel() > zerolog.DebugLevel {
		s.SetLogger(s.logger.Level(zerolog.DebugLevel))
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
