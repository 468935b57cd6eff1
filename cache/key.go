package cache

import "fmt"
import "path"
import "strconv"
import "strings"

import "github.com/google/uuid"

import "github.com/neurlang/emgimage/config"

// geometryNamespace seeds the name-based UUID that fingerprints the signal
// and image geometry of a configuration.
var geometryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/neurlang/emgimage/cache/geometry"))

// Key returns the slash separated store path of one subject (or session,
// under leave-one-session-out) of a dataset under cfg.
func Key(cfg config.Config, dataset string, index int) string {
	parts := []string{base(cfg), dataset}

	if cfg.Normalization == config.NormNone {
		parts = append(parts, "LOSO_no_scaler_normalization")
	} else {
		parts = append(parts, "LOSO_subject"+strconv.Itoa(cfg.LeaveOut))
		if cfg.TargetNormalize > 0 {
			parts = append(parts, "target_normalize_"+strconv.FormatFloat(cfg.TargetNormalize, 'g', -1, 64))
		}
	}

	switch cfg.Mode {
	case config.ModeRMS:
		parts = append(parts, "RMS_input_windowsize_"+strconv.Itoa(cfg.RMSWindows))
	default:
		parts = append(parts, cfg.Mode.String())
	}

	if len(cfg.Exercises) > 0 {
		if cfg.PartialDataset {
			parts = append(parts, "partial_dataset_ninapro")
		} else {
			nums := make([]string, len(cfg.Exercises))
			for i, e := range cfg.Exercises {
				nums[i] = strconv.Itoa(e)
			}
			parts = append(parts, "exercises"+strings.Join(nums, "-"))
		}
	}
	if cfg.IncludeTransitions {
		parts = append(parts, "include_transitions")
	}
	if cfg.TransitionClassifier {
		parts = append(parts, "transition_classifier")
	}
	parts = append(parts, "geometry-"+Geometry(cfg))

	if cfg.CrossValidation == config.LeaveOneSessionOut {
		parts = append(parts, "session"+strconv.Itoa(index))
	} else {
		parts = append(parts, "LOSO_subject"+strconv.Itoa(index))
	}
	return path.Join(parts...)
}

func base(cfg config.Config) string {
	switch cfg.CrossValidation {
	case config.LeaveOneSessionOut:
		return "Leave_one_session_out_images_zarr"
	case config.StandardSplit:
		return "standard_images_zarr"
	}
	return "LOSOimages_zarr"
}

// Geometry fingerprints everything that changes the images without showing
// up in the readable part of the key.
func Geometry(cfg config.Config) string {
	s, f := cfg.Signal, cfg.Filter
	desc := fmt.Sprintf("fs=%g e=%d w=%d s=%d native=%d factor=%d raw=%v db=%t imfs=%d norm=%v filter=%v/%d/%g/%g notch=%g/%g",
		s.SampleRate, s.Electrodes, s.WindowLength, s.StepLength,
		cfg.NativeSize, cfg.ResizeLengthFactor, cfg.RawVariant, cfg.SpectrogramDB, cfg.MaxIMFs, cfg.Normalization,
		f.Kind, f.Order, f.Low, f.High, f.Notch, f.NotchQ)
	if cfg.TargetNormalize > 0 {
		desc += fmt.Sprintf(" target=%d/%g", cfg.TargetNormalizeSubject, cfg.TargetNormalize)
	}
	// the magnitude range and target normalisation both depend on who is
	// left out, even when no scaler directory names it
	if cfg.Mode == config.ModeMagnitude || cfg.TargetNormalize > 0 {
		desc += fmt.Sprintf(" leaveout=%d", cfg.LeaveOut)
	}
	id := uuid.NewSHA1(geometryNamespace, []byte(desc))
	return strings.ReplaceAll(id.String(), "-", "")[:12]
}
