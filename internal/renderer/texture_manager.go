package renderer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"PlateCandle/internal/logger"

	"github.com/disintegration/gift"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SceneTextureParams is the sampling every scene texture uses: trilinear
// minification, linear magnification, repeat on both axes.
var SceneTextureParams = TextureParams{
	MinFilter: FilterLinearMipmapLinear,
	MagFilter: FilterLinear,
	WrapS:     WrapRepeat,
	WrapT:     WrapRepeat,
}

// TextureSlot is one GPU texture and where it came from.
type TextureSlot struct {
	ID         uint32
	SourcePath string
	Params     TextureParams
}

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	ActiveTextures int
}

// TextureManager loads, caches and releases textures. Like every GL call it
// must only be used from the thread owning the context.
type TextureManager struct {
	textureCache    map[string]uint32 // path -> OpenGL texture ID
	textureRefCount map[uint32]int    // texture ID -> reference count
	texturePaths    map[uint32]string // texture ID -> path (for debugging)
	stats           TextureStats
}

// NewTextureManager creates a new texture manager instance
func NewTextureManager() *TextureManager {
	return &TextureManager{
		textureCache:    make(map[string]uint32),
		textureRefCount: make(map[uint32]int),
		texturePaths:    make(map[uint32]string),
	}
}

// DecodeImage reads an image file and returns it as RGBA with the bottom row
// first, the origin OpenGL expects for texture data.
func DecodeImage(filePath string) (*image.RGBA, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &ResourceLoadError{Kind: "texture", Path: filePath, Err: err}
	}

	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		return nil, &ResourceLoadError{
			Kind: "texture",
			Path: filePath,
			Err:  fmt.Errorf("%w: detected %q", ErrUnsupportedFormat, kind.MIME.Value),
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ResourceLoadError{Kind: "texture", Path: filePath, Err: err}
	}

	g := gift.New(gift.FlipVertical())
	rgba := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(rgba, img)
	return rgba, nil
}

// LoadTexture loads a texture from file or returns the cached slot.
// Automatically increments reference count
func (tm *TextureManager) LoadTexture(ctx Context, filePath string) (TextureSlot, error) {
	if textureID, exists := tm.textureCache[filePath]; exists {
		tm.textureRefCount[textureID]++
		tm.stats.CacheHits++

		logger.Log.Debug("Texture cache hit",
			zap.String("path", filePath),
			zap.Uint32("textureID", textureID),
			zap.Int("refCount", tm.textureRefCount[textureID]))

		return TextureSlot{ID: textureID, SourcePath: filePath, Params: SceneTextureParams}, nil
	}

	tm.stats.CacheMisses++

	rgba, err := DecodeImage(filePath)
	if err != nil {
		return TextureSlot{}, err
	}

	size := rgba.Rect.Size()
	textureID := ctx.GenTexture()
	ctx.BindTexture(textureID)
	ctx.TexImageMipmapped(int32(size.X), int32(size.Y), rgba.Pix)
	ctx.TexParameters(SceneTextureParams)

	tm.textureCache[filePath] = textureID
	tm.textureRefCount[textureID] = 1
	tm.texturePaths[textureID] = filePath
	tm.stats.TotalTextures++
	tm.stats.ActiveTextures++

	logger.Log.Info("Texture loaded and cached",
		zap.String("path", filePath),
		zap.Uint32("textureID", textureID),
		zap.Int("width", size.X),
		zap.Int("height", size.Y))

	return TextureSlot{ID: textureID, SourcePath: filePath, Params: SceneTextureParams}, nil
}

// ReleaseTexture decrements reference count and frees texture if count reaches 0
func (tm *TextureManager) ReleaseTexture(ctx Context, textureID uint32) {
	if textureID == 0 {
		return
	}

	refCount, exists := tm.textureRefCount[textureID]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture",
			zap.Uint32("textureID", textureID))
		return
	}

	refCount--
	tm.textureRefCount[textureID] = refCount

	logger.Log.Debug("Texture reference released",
		zap.Uint32("textureID", textureID),
		zap.Int("refCount", refCount))

	if refCount <= 0 {
		ctx.DeleteTexture(textureID)

		path := tm.texturePaths[textureID]
		delete(tm.textureCache, path)
		delete(tm.textureRefCount, textureID)
		delete(tm.texturePaths, textureID)
		tm.stats.ActiveTextures--

		logger.Log.Info("Texture freed",
			zap.Uint32("textureID", textureID),
			zap.String("path", path))
	}
}

// GetStats returns current texture manager statistics
func (tm *TextureManager) GetStats() TextureStats {
	stats := tm.stats
	stats.ActiveTextures = len(tm.textureRefCount)
	return stats
}

// LogStats logs current texture statistics
func (tm *TextureManager) LogStats() {
	stats := tm.GetStats()
	hitRate := 0.0
	if lookups := stats.CacheHits + stats.CacheMisses; lookups > 0 {
		hitRate = float64(stats.CacheHits) / float64(lookups)
	}
	logger.Log.Info("Texture Manager Stats",
		zap.Int("totalTextures", stats.TotalTextures),
		zap.Int("activeTextures", stats.ActiveTextures),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("cacheMisses", stats.CacheMisses),
		zap.Float64("hitRate", hitRate))
}

// Clear releases all textures regardless of their reference counts
func (tm *TextureManager) Clear(ctx Context) {
	for textureID := range tm.textureRefCount {
		ctx.DeleteTexture(textureID)
	}

	tm.textureCache = make(map[string]uint32)
	tm.textureRefCount = make(map[uint32]int)
	tm.texturePaths = make(map[uint32]string)
	tm.stats.ActiveTextures = 0

	logger.Log.Info("Texture manager cleared")
}
