package label

import "fmt"
import "sort"

import "github.com/neurlang/emgimage/window"

// NinaproStarts is the first gesture id of each Ninapro DB5 exercise.
var NinaproStarts = map[int]int{1: 1, 2: 18, 3: 41}

// NinaproLast is the highest Ninapro DB5 gesture id.
const NinaproLast = 52

// NinaproPartial is the exercise 2 subset used by the partial dataset:
// rest, finger abduction, fist, finger adduction, middle axis supination and
// pronation, wrist flexion and extension, radial and ulnar deviation.
var NinaproPartial = []int{0, 5, 6, 8, 9, 10, 13, 14, 15, 16}

// Sequencer removes the gaps that unselected exercises leave in the gesture
// vocabulary, so the selected exercises number their gestures 1, 2, 3, ...
// after rest.
type Sequencer struct {
	exercises []int // every known exercise, sorted
	starts    map[int]int
	dec       map[int]int
}

// NewSequencer builds the mapping for the selected exercises. starts maps
// every known exercise to its first gesture id; gesture 0 is rest.
func NewSequencer(starts map[int]int, selected []int) (*Sequencer, error) {
	s := &Sequencer{starts: starts, dec: map[int]int{}}
	for e := range starts {
		s.exercises = append(s.exercises, e)
	}
	sort.Ints(s.exercises)
	for i := 1; i < len(s.exercises); i++ {
		if starts[s.exercises[i]] <= starts[s.exercises[i-1]] {
			return nil, fmt.Errorf("%w: exercise %d starts at %d, before exercise %d", ErrLabel,
				s.exercises[i], starts[s.exercises[i]], s.exercises[i-1])
		}
	}

	sel := map[int]bool{}
	for _, e := range selected {
		if _, ok := starts[e]; !ok {
			return nil, fmt.Errorf("%w: unknown exercise %d", ErrLabel, e)
		}
		sel[e] = true
	}

	// gestures of the selected exercises before e keep their room
	kept := 0
	for i, e := range s.exercises {
		if !sel[e] {
			continue
		}
		s.dec[e] = starts[e] - 1 - kept
		if i+1 < len(s.exercises) {
			kept += starts[s.exercises[i+1]] - starts[e]
		}
	}
	return s, nil
}

// Decrements returns the amount subtracted from each known exercise, in
// exercise order. Unselected exercises report zero.
func (s *Sequencer) Decrements() []int {
	out := make([]int, len(s.exercises))
	for i, e := range s.exercises {
		out[i] = s.dec[e]
	}
	return out
}

// Classes is the size of the sequential vocabulary, rest included, when the
// last known exercise ends at gesture last.
func (s *Sequencer) Classes(last int) int {
	n := 1
	for i, e := range s.exercises {
		if _, ok := s.dec[e]; !ok {
			continue
		}
		end := last + 1
		if i+1 < len(s.exercises) {
			end = s.starts[s.exercises[i+1]]
		}
		n += end - s.starts[e]
	}
	return n
}

// Sequential maps a raw gesture id onto the sequential vocabulary.
func (s *Sequencer) Sequential(g int) int {
	if g == 0 {
		return 0
	}
	group := s.exercises[0]
	for _, e := range s.exercises {
		if s.starts[e] <= g {
			group = e
		}
	}
	return g - s.dec[group]
}

// Apply rewrites every label in place.
func (s *Sequencer) Apply(labels []window.Labels) {
	for _, l := range labels {
		for i, g := range l {
			l[i] = s.Sequential(g)
		}
	}
}

// Subset keeps the windows whose class is one of keep and renumbers the
// labels to the position of their gesture in keep. The class of a window is
// its end gesture when byEnd is set and its start gesture otherwise. Labels
// outside keep inside a kept window become the class of the window.
func Subset(labels []window.Labels, keep []int, byEnd bool) (indices []int, out []window.Labels) {
	pos := map[int]int{}
	for i, g := range keep {
		pos[g] = i
	}
	for i, l := range labels {
		g := l.Start()
		if byEnd {
			g = l.End()
		}
		p, ok := pos[g]
		if !ok {
			continue
		}
		r := make(window.Labels, len(l))
		for j, v := range l {
			if q, ok := pos[v]; ok {
				r[j] = q
			} else {
				r[j] = p
			}
		}
		indices = append(indices, i)
		out = append(out, r)
	}
	return indices, out
}
