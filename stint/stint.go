// Package stint instruments the phases of a long-running training loop.
//
// Timed work is organized in regions. Regions nest, forming a tree rooted in
// a single node that spans the whole run. An example structure may be:
//
//	 root
//	  ├ collect_experience
//	  │  └ env_step
//	  └ policy_update
//	     ├ sample_batch
//	     └ gradient_step
//
// Entering the same named region again under the same parent reuses its
// accumulator, so the tree stays small however long the loop runs. A
// snapshot of the tree reports total time, invocation count and self time
// (total minus time spent in children) per region.
//
// The package also ships a flat per-update recorder, [TrainerMetrics], which
// appends one row per completed policy update and writes the rows plus a
// timing-tree snapshot to disk.
//
// All timing operations are meant to be driven from a single control
// goroutine; none of them are synchronized.
package stint

import (
	"os"
	"time"

	"golang.org/x/exp/slog"
)

func init() {
	logLevel = new(slog.LevelVar)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(h)
}

var (
	logger   *slog.Logger
	logLevel *slog.LevelVar
)

// now is the clock behind every measurement. Tests swap it out.
var now = time.Now

// SetLogger sets the logger used by stint.
// [SetLogLevel] will not be enforced if a custom logger is used.
func SetLogger(newlogger *slog.Logger) {
	logger = newlogger
}

// SetLogLevel sets the level for stint messages unless [SetLogger] has been
// called. The default log level is the zero value of [slog.LevelVar].
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// defaultStack is the process-lifetime stack behind the package-level
// helpers. Like everything else here it must only be driven from the single
// timing goroutine.
var defaultStack = NewTimerStack()

// DefaultStack returns the process-lifetime timer stack used by the
// package-level helpers. Prefer passing an explicitly constructed
// [TimerStack] around; reach for the default only at the outermost
// composition point.
func DefaultStack() *TimerStack {
	return defaultStack
}

// Open is equivalent to calling [TimerStack.Open] on the default stack.
func Open(name string) *Region {
	return defaultStack.Open(name)
}

// Scoped is equivalent to calling [TimerStack.Scoped] on the default stack.
func Scoped(name string, fn func() error) error {
	return defaultStack.Scoped(name, fn)
}

// TimerTree snapshots the default stack (see [TimerStack.TimingTree]).
func TimerTree() *TreeNode {
	return defaultStack.TimingTree()
}
