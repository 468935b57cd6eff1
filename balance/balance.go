// Package balance selects which windows of a subject reach the encoders.
//
// Gesture classification caps the number of rest windows at the average
// size of the other gesture groups. Transition classification equalises
// every (start, end) gesture pair inside the transition and non-transition
// tables. Both return window indices in ascending order so that they index
// the signal windows and the label windows alike.
package balance

import "math"

import "github.com/neurlang/emgimage/config"
import "github.com/neurlang/emgimage/window"

// Rest is the gesture id of the resting hand.
const Rest = 0

// Pair is the (start, end) gesture of a window.
type Pair struct {
	Start, End int
}

// Indices dispatches to Transition or Gesture according to cfg.
func Indices(labels []window.Labels, cfg config.Config) []int {
	if cfg.TransitionClassifier {
		return Transition(labels)
	}
	return Gesture(labels, cfg.IncludeTransitions)
}

// Gesture keeps every non-rest window, the first ceil(avg) rest windows where
// avg is the mean size of the non-rest groups, and, when includeTransitions
// is set, every mixed window. Mixed windows are grouped by their first and
// last gesture and take part in the average.
func Gesture(labels []window.Labels, includeTransitions bool) []int {
	// mixed windows never share a group with constant ones, even when they
	// start and end on the same gesture
	type group struct {
		Pair
		mixed bool
	}
	counts := map[group]int{}
	for _, l := range labels {
		if g, ok := l.Constant(); ok {
			counts[group{Pair{g, g}, false}]++
		} else if includeTransitions {
			counts[group{Pair{l.Start(), l.End()}, true}]++
		}
	}

	var sum, groups int
	for k, n := range counts {
		if k == (group{Pair{Rest, Rest}, false}) {
			continue
		}
		sum += n
		groups++
	}
	var restCap int
	if groups > 0 {
		restCap = int(math.Ceil(float64(sum) / float64(groups)))
	}

	indices := make([]int, 0, len(labels))
	rest := 0
	for i, l := range labels {
		g, ok := l.Constant()
		switch {
		case ok && g == Rest:
			if rest < restCap {
				indices = append(indices, i)
			}
			rest++
		case ok:
			indices = append(indices, i)
		case includeTransitions:
			indices = append(indices, i)
		}
	}
	return indices
}

// Quotas is the per-pair allowance computed by Transition.
type Quotas struct {
	Threshold     int
	Transition    int
	NonTransition int
}

// TransitionQuotas computes equal_threshold = min(#transition, #non-transition)
// and splits it evenly over the distinct pairs of each table. A table
// without pairs gets a zero quota.
func TransitionQuotas(labels []window.Labels) (Quotas, map[Pair]int, map[Pair]int) {
	trans := map[Pair]int{}
	nonTrans := map[Pair]int{}
	var nt, nn int
	for _, l := range labels {
		p := Pair{l.Start(), l.End()}
		if p.Start == p.End {
			nonTrans[p]++
			nn++
		} else {
			trans[p]++
			nt++
		}
	}
	q := Quotas{Threshold: min(nt, nn)}
	if len(trans) > 0 {
		q.Transition = q.Threshold / len(trans)
	}
	if len(nonTrans) > 0 {
		q.NonTransition = q.Threshold / len(nonTrans)
	}
	return q, trans, nonTrans
}

// Transition keeps, in order, up to the per-pair quota of windows for every
// (start, end) pair of both tables.
func Transition(labels []window.Labels) []int {
	q, _, _ := TransitionQuotas(labels)
	taken := map[Pair]int{}
	indices := make([]int, 0, 2*q.Threshold)
	for i, l := range labels {
		p := Pair{l.Start(), l.End()}
		quota := q.NonTransition
		if p.Start != p.End {
			quota = q.Transition
		}
		if taken[p] < quota {
			indices = append(indices, i)
			taken[p]++
		}
	}
	return indices
}
