package config

import "fmt"
import "strings"

// Mode selects the per-window image encoder.
type Mode int

const (
	ModeRaw Mode = iota
	ModeMagnitude
	ModeRMS
	ModeSpectrogram
	ModePhaseSpectrogram
	ModeCWT
	ModeHHT
)

var modeNames = []string{"raw", "magnitude", "rms", "spectrogram", "phase_spectrogram", "cwt", "hht"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode resolves a mode name such as "cwt" or "phase_spectrogram".
func ParseMode(s string) (Mode, error) {
	i, err := parseName(modeNames, s)
	if err != nil {
		return 0, fmt.Errorf("%w: unknown encoding mode %q", ErrConfig, s)
	}
	return Mode(i), nil
}

func (m Mode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(modeNames) {
		return nil, fmt.Errorf("%w: unknown encoding mode %d", ErrConfig, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) (err error) {
	*m, err = ParseMode(string(b))
	return
}

// ModeFromFlags maps the independent turn-on switches of the command line onto
// a single Mode. Setting more than one switch is a configuration error; none
// selects ModeRaw.
func ModeFromFlags(rms, magnitude, spectrogram, phaseSpectrogram, cwt, hht bool) (Mode, error) {
	var set []Mode
	for m, on := range map[Mode]bool{
		ModeRMS:              rms,
		ModeMagnitude:        magnitude,
		ModeSpectrogram:      spectrogram,
		ModePhaseSpectrogram: phaseSpectrogram,
		ModeCWT:              cwt,
		ModeHHT:              hht,
	} {
		if on {
			set = append(set, m)
		}
	}
	switch len(set) {
	case 0:
		return ModeRaw, nil
	case 1:
		return set[0], nil
	}
	names := make([]string, 0, len(set))
	for _, m := range []Mode{ModeMagnitude, ModeRMS, ModeSpectrogram, ModePhaseSpectrogram, ModeCWT, ModeHHT} {
		for _, s := range set {
			if s == m {
				names = append(names, m.String())
			}
		}
	}
	return 0, fmt.Errorf("%w: more than one encoding mode selected: %s", ErrConfig, strings.Join(names, ", "))
}

// RawVariant picks the normalisation order of the raw image encoder. The
// datasets were published with different variants and they are kept apart so
// that model input statistics do not silently change.
type RawVariant int

const (
	// RawWhole resizes the whole image once (Ninapro).
	RawWhole RawVariant = iota
	// RawSplit resizes the left and right halves separately (Ozdemir, M dataset).
	RawSplit
)

var rawVariantNames = []string{"whole", "split"}

func (v RawVariant) String() string { return nameOf(rawVariantNames, int(v)) }
func (v RawVariant) MarshalText() ([]byte, error) { return marshalName(rawVariantNames, int(v)) }
func (v *RawVariant) UnmarshalText(b []byte) error {
	i, err := parseName(rawVariantNames, string(b))
	*v = RawVariant(i)
	return err
}

// Normalization is the input scaling applied to windows before encoding.
type Normalization int

const (
	NormNone Normalization = iota
	NormStandard
	NormMinMax
)

var normalizationNames = []string{"none", "standard", "minmax"}

func (n Normalization) String() string { return nameOf(normalizationNames, int(n)) }
func (n Normalization) MarshalText() ([]byte, error) { return marshalName(normalizationNames, int(n)) }
func (n *Normalization) UnmarshalText(b []byte) error {
	i, err := parseName(normalizationNames, string(b))
	*n = Normalization(i)
	return err
}

// CrossValidation is the evaluation regime; it decides the cache root and
// whether leaf directories are named after subjects or sessions.
type CrossValidation int

const (
	LeaveOneSubjectOut CrossValidation = iota
	LeaveOneSessionOut
	StandardSplit
)

var crossValidationNames = []string{"loso", "leave_one_session_out", "standard"}

func (c CrossValidation) String() string { return nameOf(crossValidationNames, int(c)) }
func (c CrossValidation) MarshalText() ([]byte, error) { return marshalName(crossValidationNames, int(c)) }
func (c *CrossValidation) UnmarshalText(b []byte) error {
	i, err := parseName(crossValidationNames, string(b))
	*c = CrossValidation(i)
	return err
}

// FilterKind is the Butterworth response of the conditioning filter.
type FilterKind int

const (
	Highpass FilterKind = iota
	Bandpass
)

var filterKindNames = []string{"highpass", "bandpass"}

func (k FilterKind) String() string { return nameOf(filterKindNames, int(k)) }
func (k FilterKind) MarshalText() ([]byte, error) { return marshalName(filterKindNames, int(k)) }
func (k *FilterKind) UnmarshalText(b []byte) error {
	i, err := parseName(filterKindNames, string(b))
	*k = FilterKind(i)
	return err
}

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%d", i)
	}
	return names[i]
}

func marshalName(names []string, i int) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, fmt.Errorf("%w: value %d out of range", ErrConfig, i)
	}
	return []byte(names[i]), nil
}

func parseName(names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown value %q", ErrConfig, s)
}
