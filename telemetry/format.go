package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/agrawalprash/enaml/output"
)

// slowThreshold marks operations that are highlighted in the report.
const slowThreshold = 100 * time.Millisecond

// formatTimingTree writes the tree rooted at root:
//
//	check: 125ms
//	├─ lex main.enaml: 85ms (12,408 tokens)
//	│  └─ read: 2ms
//	└─ lex widgets.enaml: 40ms (3,120 tokens)
func formatTimingTree(w io.Writer, root *timerNode, styles *output.Styles) {
	name := root.name
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s%s\n", name, formatDuration(root.elapsed()), formatCount(root))

	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1, styles)
	}
}

func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	duration := node.elapsed()
	timing := formatDuration(duration)
	tree := prefix + branch
	if styles != nil {
		tree = styles.Dim(tree)
		timing = styles.Timing(timing, duration >= slowThreshold)
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s%s\n", tree, node.name, timing, formatCount(node))

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

// elapsed is the duration of the node. Timers that were never ended are
// measured up to now.
func (n *timerNode) elapsed() time.Duration {
	if n.end.IsZero() {
		return time.Since(n.start)
	}
	return n.end.Sub(n.start)
}

func formatCount(n *timerNode) string {
	if n.unit == "" {
		return ""
	}
	return fmt.Sprintf(" (%s %s)", humanize.Comma(int64(n.count)), n.unit)
}

// formatDuration shows milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
