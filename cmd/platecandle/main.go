package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"PlateCandle/internal/config"
	"PlateCandle/internal/engine"
	"PlateCandle/internal/logger"
	"PlateCandle/internal/mesh"
	"PlateCandle/internal/world"

	"go.uber.org/zap"
)

func init() {
	// glfw and GL must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "platecandle.toml", "path to the TOML configuration file")
	baseDir := flag.String("base", "", "directory relative asset paths are resolved against (default: executable directory)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer logger.Sync()

	base := *baseDir
	if base == "" {
		base = config.ExecutableDir()
	}
	assets := cfg.Assets.Resolve(base)
	logger.Log.Info("Plate & Candle starting",
		zap.String("models", assets.ModelDir),
		zap.String("images", assets.ImagesDir))

	plate := mesh.NewScene(assets.ModelDir, assets.PlateFile)
	candle := mesh.NewScene(assets.ModelDir, assets.CandleFile)
	plate.CacheDir = assets.MeshCacheDir
	candle.CacheDir = assets.MeshCacheDir
	scene := world.New(assets, plate, candle, nil)
	scene.Animator().OnTick = func(offsetZ float32) {
		logger.Log.Debug("Animation tick", zap.Float32("offsetZ", offsetZ))
	}

	if err := engine.NewHost(cfg.Window, scene).Run(); err != nil {
		logger.Log.Error("Exiting", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
