package dataset

import "context"
import "errors"
import "fmt"

import "github.com/neurlang/emgimage/balance"
import "github.com/neurlang/emgimage/config"
import "github.com/neurlang/emgimage/filter"
import "github.com/neurlang/emgimage/label"
import "github.com/neurlang/emgimage/window"

var ErrSubject = errors.New("unknown subject")

// Adapter reads one dataset.
type Adapter interface {
	// Name is the dataset directory used in cache keys.
	Name() string
	// Signal is the native window geometry of the dataset.
	Signal() config.Signal
	// Subjects lists the subject ids, in the order of their cache index.
	Subjects() []int
	// Load returns the windows, labels and targets of one subject.
	Load(ctx context.Context, subject int) (*Subject, error)
}

// Subject is the prepared data of one subject or session.
type Subject struct {
	// ID is the subject number of the dataset, starting at 1.
	ID int
	// Index is the position of the subject in Adapter.Subjects.
	Index   int
	Windows []window.Window
	Labels  []window.Labels
	Targets *label.Matrix
}

// Len is the number of windows.
func (s *Subject) Len() int { return len(s.Windows) }

// Keep retains the windows at indices, in their order. The targets are
// dropped and need a new Contract.
func (s *Subject) Keep(indices []int) {
	s.Windows = window.Select(s.Windows, indices)
	s.Labels = window.SelectLabels(s.Labels, indices)
	s.Targets = nil
}

// Contract computes the label matrix with the given number of classes; see
// label.ContractClasses.
func (s *Subject) Contract(cfg config.Config, classes int) error {
	m, err := label.ContractClasses(s.Labels, cfg, classes)
	if err != nil {
		return fmt.Errorf("subject %d: %w", s.ID, err)
	}
	s.Targets = m
	return nil
}

// Gestures is the class of every window: its end gesture when byEnd is set
// and its start gesture otherwise.
func (s *Subject) Gestures(byEnd bool) []int {
	out := make([]int, len(s.Labels))
	for i, l := range s.Labels {
		if byEnd {
			out[i] = l.End()
		} else {
			out[i] = l.Start()
		}
	}
	return out
}

// Merge concatenates the windows and labels of parts into one subject
// carrying the id of the first part. Targets are left for Contract.
func Merge(parts ...*Subject) *Subject {
	out := &Subject{}
	for i, p := range parts {
		if i == 0 {
			out.ID, out.Index = p.ID, p.Index
		}
		out.Windows = append(out.Windows, p.Windows...)
		out.Labels = append(out.Labels, p.Labels...)
	}
	return out
}

// Prepare cuts a continuous recording and its per-sample labels into
// windows, keeps the balanced ones and conditions them with cond when it is
// not nil. The recording and the labels are cut to the shorter of the two.
// Targets are left for Contract.
func Prepare(rec window.Window, seq []int, cfg config.Config, cond *filter.Conditioner) (*Subject, error) {
	s := cfg.Signal
	if rec.Channels != s.Electrodes {
		return nil, fmt.Errorf("%w: recording has %d channels, want %d", window.ErrShape, rec.Channels, s.Electrodes)
	}
	windows := window.Slice(rec, s.WindowLength, s.StepLength)
	labels := window.SliceLabels(seq, s.WindowLength, s.StepLength)
	n := min(len(windows), len(labels))
	subj := &Subject{Windows: windows[:n], Labels: labels[:n]}

	subj.Keep(balance.Indices(subj.Labels, cfg))
	if cond != nil {
		subj.Windows = cond.ApplyAll(subj.Windows)
	}
	return subj, nil
}

// Training returns the subjects a scaler is fitted on: all of them for a
// standard split, every one but cfg.LeaveOut otherwise.
func Training(subjects []*Subject, cfg config.Config) []*Subject {
	if cfg.CrossValidation == config.StandardSplit || cfg.LeaveOut == 0 {
		return subjects
	}
	var out []*Subject
	for _, s := range subjects {
		if s.ID != cfg.LeaveOut {
			out = append(out, s)
		}
	}
	return out
}
