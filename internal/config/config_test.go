package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int32(800), cfg.Window.Width)
	assert.Equal(t, "bricks.jpg", cfg.Assets.BrickTexture)
	assert.Equal(t, "wood.jpg", cfg.Assets.FloorTexture)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "platecandle.toml")
	data := `
[window]
width = 1024
height = 768

[assets]
images_dir = "textures"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int32(1024), cfg.Window.Width)
	assert.Equal(t, int32(768), cfg.Window.Height)
	assert.Equal(t, "textures", cfg.Assets.ImagesDir)
	assert.Equal(t, "DecorativePlate.obj", cfg.Assets.PlateFile, "unset keys keep their default")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsBadWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nheight = 0\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window\nwidth = "), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	a := Default().Assets.Resolve("/opt/app")
	assert.Equal(t, filepath.Join("/opt/app", "images", "bricks.jpg"), a.BrickPath())
	assert.Equal(t, filepath.Join("/opt/app", "3D Models", "PlateCandle", "DecorativePlate.obj"), a.PlatePath())

	abs := AssetConfig{ModelDir: "/models", ImagesDir: "/img"}.Resolve("/opt/app")
	assert.Equal(t, "/models", abs.ModelDir)
	assert.Equal(t, "/img", abs.ImagesDir)
	assert.Empty(t, abs.MeshCacheDir, "an unset cache stays disabled")

	cached := AssetConfig{MeshCacheDir: "cache"}.Resolve("/opt/app")
	assert.Equal(t, filepath.Join("/opt/app", "cache"), cached.MeshCacheDir)
}
