package stint

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

// fieldNames is the fixed header of the training metrics CSV.
var fieldNames = []string{
	"Brain name",
	"Time to update policy",
	"Time since start of training",
	"Time for last experience collection",
	"Number of experiences used for training",
	"Mean return",
}

// # TrainerMetrics
//
// Tracks flat per-update training metrics and writes them to disk. Tracks
// wall-clock time since construction. One row is appended per completed
// policy update; experience-collection time accumulates across possibly
// several collection cycles between updates and resets when a row is
// emitted.
//
// Its zero value has no meaning; call [NewTrainerMetrics]. Not safe for
// concurrent use.
type TrainerMetrics struct {
	path      string
	brainName string
	stack     *TimerStack

	rows [][]string

	timeTrainingStart             time.Time
	timeStartExperienceCollection time.Time
	timePolicyUpdateStart         time.Time

	deltaLastExperienceCollection time.Duration
	deltaPolicyUpdate             time.Duration
	lastBufferLength              int
	lastMeanReturn                float64
}

// NewTrainerMetrics creates a recorder writing rows to path for the brain
// named brainName. The stack's timing tree is written next to the rows by
// [TrainerMetrics.WriteTrainingMetrics]; a nil stack selects the process
// default.
func NewTrainerMetrics(path, brainName string, stack *TimerStack) *TrainerMetrics {
	if stack == nil {
		stack = defaultStack
	}
	return &TrainerMetrics{
		path:              path,
		brainName:         brainName,
		stack:             stack,
		timeTrainingStart: now(),
	}
}

// StartExperienceCollectionTimer marks the beginning of an experience
// collection cycle. Idempotent: calling it while a cycle is already open
// does nothing.
func (tm *TrainerMetrics) StartExperienceCollectionTimer() {
	if tm.timeStartExperienceCollection.IsZero() {
		tm.timeStartExperienceCollection = now()
	}
}

// EndExperienceCollectionTimer closes the open collection cycle, if any, and
// adds its elapsed time to the running experience-collection total.
func (tm *TrainerMetrics) EndExperienceCollectionTimer() {
	if !tm.timeStartExperienceCollection.IsZero() {
		tm.deltaLastExperienceCollection += now().Sub(tm.timeStartExperienceCollection)
	}
	tm.timeStartExperienceCollection = time.Time{}
}

// AddDeltaStep adds externally measured time, such as a single environment
// step, to the running experience-collection total.
func (tm *TrainerMetrics) AddDeltaStep(delta time.Duration) {
	tm.deltaLastExperienceCollection += delta
}

// StartPolicyUpdateTimer marks the beginning of a policy update.
// numberExperiences is the buffer length at this point and meanReturn the
// return averaged across cumulative returns since the last update.
func (tm *TrainerMetrics) StartPolicyUpdateTimer(numberExperiences int, meanReturn float64) {
	tm.lastBufferLength = numberExperiences
	tm.lastMeanReturn = meanReturn
	tm.timePolicyUpdateStart = now()
}

// EndPolicyUpdate marks the policy update finished, logs the update's
// metrics and appends one row. A missing prior StartPolicyUpdateTimer is
// benign and yields a zero update duration.
func (tm *TrainerMetrics) EndPolicyUpdate() {
	if !tm.timePolicyUpdateStart.IsZero() {
		tm.deltaPolicyUpdate = now().Sub(tm.timePolicyUpdateStart)
	} else {
		tm.deltaPolicyUpdate = 0
	}
	tm.timePolicyUpdateStart = time.Time{}

	deltaTrainStart := now().Sub(tm.timeTrainingStart)

	logger.Debug("policy update training metrics",
		slog.String("brain", tm.brainName),
		slog.Duration("policy_update", tm.deltaPolicyUpdate),
		slog.Duration("since_training_start", deltaTrainStart),
		slog.Duration("experience_collection", tm.deltaLastExperienceCollection),
		slog.Int("buffer_length", tm.lastBufferLength),
		slog.Float64("mean_return", tm.lastMeanReturn))

	tm.addRow(deltaTrainStart)
}

func (tm *TrainerMetrics) addRow(deltaTrainStart time.Duration) {
	row := []string{
		tm.brainName,
		formatFloat(tm.deltaPolicyUpdate.Seconds()),
		formatFloat(deltaTrainStart.Seconds()),
		formatFloat(tm.deltaLastExperienceCollection.Seconds()),
		strconv.Itoa(tm.lastBufferLength),
		formatFloat(tm.lastMeanReturn),
	}
	tm.deltaLastExperienceCollection = 0
	tm.rows = append(tm.rows, row)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// Rows returns the rows accumulated so far, one per completed policy update.
func (tm *TrainerMetrics) Rows() [][]string {
	return tm.rows
}

// WriteTrainingMetrics writes the accumulated rows as CSV to the recorder's
// path and the stack's timing tree as indented JSON to the sibling
// hierarchy path. It finalizes the stack's root timer as a side effect (see
// [TimerStack.TimingTree]).
func (tm *TrainerMetrics) WriteTrainingMetrics() error {
	f, err := os.Create(tm.path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(fieldNames); err != nil {
		f.Close()
		return fmt.Errorf("write metrics header: %w", err)
	}
	for _, row := range tm.rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write metrics row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush metrics file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close metrics file: %w", err)
	}

	tree := tm.stack.TimingTree()
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal timing tree: %w", err)
	}
	if err := os.WriteFile(treePath(tm.path), data, 0o644); err != nil {
		return fmt.Errorf("write timing tree: %w", err)
	}

	return nil
}

// treePath derives the hierarchy file path from the row file path.
func treePath(path string) string {
	if strings.HasSuffix(path, ".csv") {
		return strings.TrimSuffix(path, ".csv") + ".hierarchy.json"
	}
	return path + ".hierarchy.json"
}
