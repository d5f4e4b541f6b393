package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type WindowConfig struct {
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
	Title  string `toml:"title"`
	PosX   int    `toml:"pos_x"`
	PosY   int    `toml:"pos_y"`
}

// AssetConfig locates the two meshes and the two textures of the scene.
// Relative directories are resolved against the base directory.
type AssetConfig struct {
	ModelDir     string `toml:"model_dir"`
	PlateFile    string `toml:"plate_file"`
	CandleFile   string `toml:"candle_file"`
	ImagesDir    string `toml:"images_dir"`
	BrickTexture string `toml:"brick_texture"`
	FloorTexture string `toml:"floor_texture"`
	// MeshCacheDir keeps compiled models between runs. Empty disables it.
	MeshCacheDir string `toml:"mesh_cache_dir"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type Config struct {
	Window WindowConfig `toml:"window"`
	Assets AssetConfig  `toml:"assets"`
	Log    LogConfig    `toml:"log"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "Plate & Candle",
			PosX:   -1,
			PosY:   -1,
		},
		Assets: AssetConfig{
			ModelDir:     filepath.Join("3D Models", "PlateCandle"),
			PlateFile:    "DecorativePlate.obj",
			CandleFile:   "13496_Table_Candle_v1_L3.obj",
			ImagesDir:    "images",
			BrickTexture: "bricks.jpg",
			FloorTexture: "wood.jpg",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a TOML file over the defaults. A missing file is not an error:
// the defaults are returned as they are.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	a := c.Assets
	if a.PlateFile == "" || a.CandleFile == "" {
		return errors.New("both plate_file and candle_file must be set")
	}
	if a.BrickTexture == "" || a.FloorTexture == "" {
		return errors.New("both brick_texture and floor_texture must be set")
	}
	return nil
}

// Resolve returns a copy of the asset config with its directories made
// absolute against baseDir.
func (a AssetConfig) Resolve(baseDir string) AssetConfig {
	out := a
	if !filepath.IsAbs(out.ModelDir) {
		out.ModelDir = filepath.Join(baseDir, out.ModelDir)
	}
	if !filepath.IsAbs(out.ImagesDir) {
		out.ImagesDir = filepath.Join(baseDir, out.ImagesDir)
	}
	if out.MeshCacheDir != "" && !filepath.IsAbs(out.MeshCacheDir) {
		out.MeshCacheDir = filepath.Join(baseDir, out.MeshCacheDir)
	}
	return out
}

func (a AssetConfig) PlatePath() string  { return filepath.Join(a.ModelDir, a.PlateFile) }
func (a AssetConfig) CandlePath() string { return filepath.Join(a.ModelDir, a.CandleFile) }
func (a AssetConfig) BrickPath() string  { return filepath.Join(a.ImagesDir, a.BrickTexture) }
func (a AssetConfig) FloorPath() string  { return filepath.Join(a.ImagesDir, a.FloorTexture) }

// ExecutableDir is the directory holding the running binary, the default base
// for asset lookup. It falls back to the working directory.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Dir(exe)
}
