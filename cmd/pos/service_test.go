package main

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/scanpos/internal/capture"
	"github.com/angelmondragon/scanpos/pkg/config"
	"github.com/angelmondragon/scanpos/pkg/logger"
)

func writeFrame(t *testing.T, dir, name string, img image.Image) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func testConfig(frameDir string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Port: "0"},
		Scanner: config.ScannerConfig{
			Cooldown:     2 * time.Second,
			TickInterval: time.Millisecond,
			FrameDir:     frameDir,
		},
		Catalog: config.CatalogConfig{Source: config.CatalogSourceStatic},
		Display: config.DisplayConfig{Channel: "scanpos:bill", SnapshotKey: "bill:current"},
	}
}

func TestBootstrapFailsWithoutCaptureDevice(t *testing.T) {
	_, err := Bootstrap(context.Background(), testConfig(filepath.Join(t.TempDir(), "missing")), logger.Nop())
	require.ErrorIs(t, err, capture.ErrDeviceUnavailable)
}

func TestBootstrapRunAndClose(t *testing.T) {
	dir := t.TempDir()
	frame, err := oned.NewEAN13Writer().Encode("1234567890128", gozxing.BarcodeFormat_EAN_13, 320, 120, nil)
	require.NoError(t, err)
	writeFrame(t, dir, "001.png", frame)

	svc, err := Bootstrap(context.Background(), testConfig(dir), logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err = svc.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, svc.Close())
	assert.NoError(t, svc.Close())
}

func TestBootstrapWithSQLiteCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, "001.png", image.NewGray(image.Rect(0, 0, 8, 8)))

	cfg := testConfig(dir)
	cfg.Catalog.Source = config.CatalogSourceDB
	cfg.DB = config.DBConfig{Driver: config.DBDriverSQLite, DSN: "file:" + t.Name() + "?mode=memory&cache=shared", MaxOpenConns: 1}
	cfg.FeatureFlags.AutoMigrate = true

	svc, err := Bootstrap(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Run(ctx), context.DeadlineExceeded)
}

func TestNewServiceValidates(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Logger: logger.Nop()})
	require.Error(t, err)
}
