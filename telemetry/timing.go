package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/agrawalprash/enaml/output"
)

// TimingCollector builds a tree of timed operations.
//
// It is safe for concurrent use: lexing several files in parallel under one
// parent timer yields one child per file.
type TimingCollector struct {
	mu      sync.Mutex
	root    *timerNode
	current *timerNode
	styles  *output.Styles
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	count    int
	unit     string
	children []*timerNode
	parent   *timerNode
}

// Option configures a TimingCollector.
type Option func(*TimingCollector)

// WithStyles colors the report.
func WithStyles(styles *output.Styles) Option {
	return func(c *TimingCollector) {
		c.styles = styles
	}
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector(opts ...Option) *TimingCollector {
	c := &TimingCollector{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins timing an operation. The first timer becomes the root; later
// ones nest under the most recently started timer that is still running.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: time.Now()}
	if c.root == nil {
		c.root = node
	} else {
		node.parent = c.current
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node}
}

// Report writes the timing tree. Nothing is written if no timer was started.
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	formatTimingTree(w, c.root, c.styles)
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.node.end = time.Now()
	if t.collector.current == t.node && t.node.parent != nil {
		t.collector.current = t.node.parent
	}
}

func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{
		name:   name,
		start:  time.Now(),
		parent: t.node,
	}
	t.node.children = append(t.node.children, node)

	return &timingTimer{collector: t.collector, node: node}
}

func (t *timingTimer) Count(n int, unit string) {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.node.count += n
	t.node.unit = unit
}
