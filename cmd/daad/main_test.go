package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LouYuanbo1/daadcrawler/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*cobra.Command, *options) {
	t.Helper()
	opts := &options{}
	cmd := &cobra.Command{Use: "daad"}
	bindFlags(cmd, opts)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, opts
}

func TestLoadConfigEmbeddedDefaults(t *testing.T) {
	cmd, opts := parse(t)
	cfg, err := loadConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, config.EngineChromedp, cfg.Browser.Engine)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1, cfg.Crawl.MaxPages)
	assert.Equal(t, "daad_scholarships.json", cfg.Output.JSONPath)
	assert.False(t, cfg.IndexEnabled())
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	cmd, opts := parse(t, "--engine", "static", "--headless=false", "--max-pages", "3",
		"--workers", "2", "--output", "out.json")
	cfg, err := loadConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, config.EngineStatic, cfg.Browser.Engine)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 3, cfg.Crawl.MaxPages)
	assert.Equal(t, 2, cfg.Crawl.Workers)
	assert.Equal(t, "out.json", cfg.Output.JSONPath)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appconfig.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"crawl":{"max_pages":4}}`), 0o644))

	cmd, opts := parse(t, "--config", path)
	cfg, err := loadConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Crawl.MaxPages)
	// 文件中未出现的字段保持默认值
	assert.Equal(t, 1, cfg.Crawl.Workers)
}

func TestLoadConfigInvalid(t *testing.T) {
	cmd, opts := parse(t, "--engine", "selenium")
	_, err := loadConfig(cmd, opts)
	assert.Error(t, err)

	cmd, opts = parse(t, "--config", filepath.Join(t.TempDir(), "missing.json"))
	_, err = loadConfig(cmd, opts)
	assert.Error(t, err)
}
