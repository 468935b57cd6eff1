package recording

import "errors"
import "fmt"
import "io"
import "math"
import "os"
import "time"

import "github.com/OpenPSG/edf"

// maxRecordBytes is the data record size limit recommended for EDF.
const maxRecordBytes = 61440

// ReadEDF reads every signal of an EDF file. The signals are cut to the
// shortest one.
func ReadEDF(name string) (Recording, error) {
	f, err := os.Open(name)
	if err != nil {
		return Recording{}, err
	}
	defer f.Close()

	r, err := edf.Open(f)
	if err != nil {
		return Recording{}, fmt.Errorf("%w: %s: %v", ErrFileNotLoaded, name, err)
	}
	var chans [][]float64
	for i := 0; ; i++ {
		sr, err := r.Signal(i)
		if err != nil {
			break
		}
		ch, err := readSignal(sr)
		if err != nil {
			return Recording{}, fmt.Errorf("%w: %s signal %d: %v", ErrFileNotLoaded, name, i, err)
		}
		chans = append(chans, ch)
	}
	if len(chans) == 0 {
		return Recording{}, fmt.Errorf("%w: %s has no signals", ErrFileNotLoaded, name)
	}
	return Recording{Window: fromChannels(chans)}, nil
}

func readSignal(sr *edf.SignalReader) ([]float64, error) {
	var out []float64
	buf := make([]float64, 4096)
	for {
		n, err := sr.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// WriteEDF stores rec as an EDF file with one signal per channel, labelled
// by labels (which may be shorter than the channel count). Each channel gets
// an integral physical range that covers its samples. The last data record
// is padded with zeros.
func WriteEDF(name string, rec Recording, labels []string) error {
	if rec.Channels == 0 || rec.SampleRate <= 0 {
		return fmt.Errorf("%w: %d channels at %v Hz", ErrFileNotLoaded, rec.Channels, rec.SampleRate)
	}
	per := int(math.Round(rec.SampleRate))
	per = max(1, min(per, maxRecordBytes/(2*rec.Channels)))

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          "X",
		RecordingID:        "emgimage",
		StartTime:          time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		DataRecordDuration: time.Duration(float64(per) / rec.SampleRate * float64(time.Second)),
		SignalCount:        rec.Channels,
	}
	for c := 0; c < rec.Channels; c++ {
		lo, hi := 0.0, 0.0
		for _, v := range rec.Channel(c) {
			lo = min(lo, v)
			hi = max(hi, v)
		}
		lo, hi = math.Floor(lo), math.Ceil(hi)
		if hi == lo {
			hi = lo + 1
		}
		label := fmt.Sprintf("EMG %d", c+1)
		if c < len(labels) {
			label = labels[c]
		}
		hdr.Signals = append(hdr.Signals, edf.SignalHeader{
			Label:             label,
			PhysicalDimension: "uV",
			PhysicalMin:       lo,
			PhysicalMax:       hi,
			DigitalMin:        math.MinInt16,
			DigitalMax:        math.MaxInt16,
			SamplesPerRecord:  per,
		})
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	w, err := edf.Create(f, hdr)
	if err != nil {
		f.Close()
		return err
	}
	record := make([][]float64, rec.Channels)
	for i := range record {
		record[i] = make([]float64, per)
	}
	for off := 0; off < rec.Timesteps; off += per {
		for c := range record {
			n := copy(record[c], rec.Channel(c)[off:])
			clear(record[c][n:])
		}
		if err := w.WriteRecord(record); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	return nil
}
