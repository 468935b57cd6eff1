package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/neurlang/emgimage/batch"
	"github.com/neurlang/emgimage/config"
	"github.com/neurlang/emgimage/encode"
	"github.com/neurlang/emgimage/filter"
	"github.com/neurlang/emgimage/normalize"
	"github.com/neurlang/emgimage/recording"
	"github.com/neurlang/emgimage/window"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	var configFile = flag.String("config", "", "JSON run configuration")
	var mode = flag.String("mode", "", "encoding mode, overrides the configuration")
	var fs = flag.Float64("fs", 0, "sampling rate in Hz for files that do not store one")
	var condition = flag.Bool("filter", false, "condition the windows before encoding")
	var reverse = flag.Bool("reverse", false, "write the image rows bottom up")
	flag.Parse()
	defer klog.Flush()

	// Check if the filename argument is provided
	if flag.NArg() < 1 {
		fmt.Println("Usage: toimage [flags] <recording>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	var filename = flag.Arg(0)

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
	}
	if *mode != "" {
		m, err := config.ParseMode(*mode)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Mode = m
	}

	if err := run(filename, cfg, *fs, *condition, *reverse); err != nil {
		fmt.Printf("Error generating images: %v\n", err)
		os.Exit(1)
	}
}

func run(filename string, cfg config.Config, fs float64, condition, reverse bool) error {
	rec, err := recording.Read(filename, cfg.Signal.Electrodes)
	if err != nil {
		return err
	}
	cfg.Signal.Electrodes = rec.Channels
	switch {
	case fs > 0:
		cfg.Signal.SampleRate = fs
	case rec.SampleRate > 0:
		cfg.Signal.SampleRate = rec.SampleRate
	}
	if cfg, err = config.New(cfg); err != nil {
		return err
	}

	s := cfg.Signal
	windows := window.Slice(rec.Window, s.WindowLength, s.StepLength)
	if len(windows) == 0 {
		return fmt.Errorf("%s: %d samples is shorter than one window of %d", filename, rec.Timesteps, s.WindowLength)
	}
	if condition {
		cond, err := filter.New(cfg.Filter, s.SampleRate)
		if err != nil {
			return err
		}
		windows = cond.ApplyAll(windows)
	}

	var pre func(window.Window) window.Window
	var rng *normalize.Range
	switch cfg.Normalization {
	case config.NormStandard:
		scaler, err := normalize.FitScaler(windows)
		if err != nil {
			return err
		}
		pre = scaler.Transform
	case config.NormMinMax:
		scaler, err := normalize.FitMinMax(windows)
		if err != nil {
			return err
		}
		pre = scaler.Transform
	}
	if cfg.Mode == config.ModeMagnitude {
		scaled := windows
		if pre != nil {
			scaled = make([]window.Window, len(windows))
			for i, w := range windows {
				scaled[i] = pre(w)
			}
		}
		r, err := normalize.GlobalRange(scaled)
		if err != nil {
			return err
		}
		rng = &r
	}

	enc, err := encode.New(cfg, rng)
	if err != nil {
		return err
	}
	arr, err := batch.New(cfg.Workers).Generate(context.Background(), windows, enc, pre)
	if err != nil {
		return err
	}
	for i := 0; i < arr.N; i++ {
		if err := encode.WritePNG(fmt.Sprintf("%s.%04d.png", filename, i), arr.Image(i), reverse); err != nil {
			return err
		}
	}
	klog.InfoS("wrote images", "recording", filename, "mode", cfg.Mode, "images", arr.N, "height", arr.Height, "width", arr.Width)
	return nil
}
