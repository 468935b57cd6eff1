package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/neurlang/emgimage/cache"
	"github.com/neurlang/emgimage/config"
	"github.com/neurlang/emgimage/dataset"
	"github.com/neurlang/emgimage/dataset/mdataset"
	"github.com/neurlang/emgimage/dataset/ninapro"
	"github.com/neurlang/emgimage/dataset/ozdemir"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	var name = flag.String("dataset", ninapro.Name, "dataset to build")
	var root = flag.String("root", ".", "directory holding the dataset recordings")
	var configFile = flag.String("config", "", "JSON run configuration")
	var leaveOut = flag.Int("leave-out", -1, "left out subject, overrides the configuration")
	var workers = flag.Int("workers", -1, "encoding workers, overrides the configuration")
	var rebuild = flag.Bool("rebuild", false, "delete the stored arrays first")
	flag.Parse()
	defer klog.Flush()

	cfg, err := configure(*name, *configFile)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *leaveOut >= 0 {
		cfg.LeaveOut = *leaveOut
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, *name, *root, cfg, *rebuild); err != nil {
		klog.ErrorS(err, "build failed", "dataset", *name)
		klog.Flush()
		os.Exit(1)
	}
}

func configure(name, file string) (config.Config, error) {
	var cfg config.Config
	switch name {
	case ninapro.Name:
		cfg = ninapro.Config()
	case ozdemir.Name:
		cfg = ozdemir.Config()
	case mdataset.Name:
		cfg = mdataset.Config()
	default:
		return config.Config{}, fmt.Errorf("%w: unknown dataset %q", config.ErrConfig, name)
	}
	if file != "" {
		return config.LoadOver(file, cfg)
	}
	return cfg, nil
}

func open(name, root string, cfg config.Config) (dataset.Adapter, error) {
	switch name {
	case ninapro.Name:
		return ninapro.New(root, cfg)
	case ozdemir.Name:
		return ozdemir.New(root, cfg)
	case mdataset.Name:
		return mdataset.New(root, cfg)
	}
	return nil, fmt.Errorf("%w: unknown dataset %q", config.ErrConfig, name)
}

func run(ctx context.Context, name, root string, cfg config.Config, rebuild bool) error {
	a, err := open(name, root, cfg)
	if err != nil {
		return err
	}
	b, err := dataset.NewBuilder(cfg, a)
	if err != nil {
		return err
	}
	subjects, err := b.Load(ctx)
	if err != nil {
		return err
	}
	for _, s := range subjects {
		key := cache.Key(b.Config, a.Name(), s.Index)
		if rebuild {
			if err := b.Cache.Remove(key); err != nil {
				return err
			}
		}
		start := time.Now()
		arr, err := b.Images(ctx, s)
		if err != nil {
			return err
		}
		klog.InfoS("subject ready", "dataset", a.Name(), "subject", s.ID, "images", arr.N,
			"shape", arr.Shape(), "path", b.Cache.Path(key), "elapsed", time.Since(start))
	}
	return nil
}
