package window

// Labels is the per-sample gesture sequence inside one window.
type Labels []int

// Start is the gesture at the first sample.
func (l Labels) Start() int { return l[0] }

// End is the gesture at the last sample.
func (l Labels) End() int { return l[len(l)-1] }

// Constant reports whether every sample carries the same gesture.
func (l Labels) Constant() (int, bool) {
	for _, g := range l[1:] {
		if g != l[0] {
			return 0, false
		}
	}
	return l[0], true
}

// Transition reports whether the window starts and ends on different gestures.
func (l Labels) Transition() bool { return l.Start() != l.End() }

// SliceLabels cuts a per-sample label sequence like Slice cuts the signal, so
// window i of both refers to the same samples.
func SliceLabels(seq []int, length, step int) []Labels {
	n := Count(len(seq), length, step)
	out := make([]Labels, n)
	for i := range out {
		out[i] = append(Labels(nil), seq[i*step:i*step+length]...)
	}
	return out
}

// SelectLabels returns the label windows at the given indices.
func SelectLabels(labels []Labels, indices []int) []Labels {
	out := make([]Labels, len(indices))
	for i, j := range indices {
		out[i] = labels[j]
	}
	return out
}

// Fill builds n constant label windows of the given length, for recordings
// that hold a single gesture per file.
func Fill(n, length, gesture int) []Labels {
	out := make([]Labels, n)
	for i := range out {
		l := make(Labels, length)
		for j := range l {
			l[j] = gesture
		}
		out[i] = l
	}
	return out
}
