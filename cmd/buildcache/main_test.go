package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/neurlang/emgimage/config"
	"github.com/neurlang/emgimage/dataset/mdataset"
	"github.com/neurlang/emgimage/dataset/ozdemir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureStartsFromDataset(t *testing.T) {
	name := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(name, []byte(`{"mode": "cwt", "leave_out": 2}`), 0o644))

	cfg, err := configure(ozdemir.Name, name)
	require.NoError(t, err)
	want := ozdemir.Config()
	assert.Equal(t, config.ModeCWT, cfg.Mode)
	assert.Equal(t, 2, cfg.LeaveOut)
	assert.Equal(t, want.Signal, cfg.Signal)
	assert.Equal(t, want.Filter, cfg.Filter)
	assert.Equal(t, want.RawVariant, cfg.RawVariant)
	assert.Equal(t, want.ResizeLengthFactor, cfg.ResizeLengthFactor)

	cfg, err = configure(mdataset.Name, "")
	require.NoError(t, err)
	assert.Equal(t, mdataset.Config(), cfg)

	_, err = configure("unknown", name)
	assert.ErrorIs(t, err, config.ErrConfig)
}
