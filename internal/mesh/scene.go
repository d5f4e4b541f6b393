package mesh

import (
	"errors"
	"os"
	"path/filepath"

	"PlateCandle/internal/loader"
	"PlateCandle/internal/logger"
	"PlateCandle/internal/renderer"

	"go.uber.org/zap"
)

// Mesh is one externally loaded model with an explicit GPU lifecycle:
// Load reads the file, Initialize builds GPU resources, Draw renders them,
// Dispose frees them.
type Mesh interface {
	Load() error
	Initialize(ctx renderer.Context) error
	Draw(ctx renderer.Context) error
	Dispose(ctx renderer.Context)
}

// Scene is a Mesh backed by a Wavefront OBJ file, drawn from a display list.
type Scene struct {
	Dir      string
	FileName string
	// RecalculateNormals ignores the normals stored in the file.
	RecalculateNormals bool
	// CacheDir, when set, holds compiled copies of parsed models that are
	// reused while they are newer than the OBJ file.
	CacheDir string

	model *renderer.Model
	list  uint32
}

func NewScene(dir, fileName string) *Scene {
	return &Scene{Dir: dir, FileName: fileName}
}

func (s *Scene) Path() string {
	return filepath.Join(s.Dir, s.FileName)
}

// Model is the parsed geometry, nil before Load.
func (s *Scene) Model() *renderer.Model {
	return s.model
}

func (s *Scene) CachePath() string {
	if s.CacheDir == "" {
		return ""
	}
	return filepath.Join(s.CacheDir, s.FileName+".mesh")
}

func (s *Scene) Load() error {
	if model, ok := s.loadCached(); ok {
		s.model = model
		return nil
	}

	model, err := loader.LoadModel(s.Path(), s.RecalculateNormals)
	if err != nil {
		return &renderer.ResourceLoadError{Kind: "mesh", Path: s.Path(), Err: err}
	}
	s.model = model
	s.storeCached(model)
	return nil
}

func (s *Scene) loadCached() (*renderer.Model, bool) {
	path := s.CachePath()
	if path == "" || s.RecalculateNormals {
		return nil, false
	}
	src, err := os.Stat(s.Path())
	if err != nil {
		return nil, false
	}
	cached, err := os.Stat(path)
	if err != nil || cached.ModTime().Before(src.ModTime()) {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err == nil {
		var model *renderer.Model
		if model, err = renderer.DecodeModel(data); err == nil {
			logger.Log.Debug("Mesh loaded from cache", zap.String("file", s.FileName), zap.String("cache", path))
			return model, true
		}
	}
	logger.Log.Warn("Ignoring mesh cache", zap.String("cache", path), zap.Error(err))
	return nil, false
}

// storeCached failures only cost the next start a reparse.
func (s *Scene) storeCached(model *renderer.Model) {
	path := s.CachePath()
	if path == "" || s.RecalculateNormals {
		return
	}
	data, err := renderer.EncodeModel(model)
	if err == nil {
		err = os.MkdirAll(s.CacheDir, 0o755)
	}
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil && !errors.Is(err, os.ErrPermission) {
		logger.Log.Warn("Could not write mesh cache", zap.String("cache", path), zap.Error(err))
	}
}

// Initialize compiles the model into a display list. Ambient and diffuse
// come from the current color at draw time, each material group only binds
// its specular terms.
func (s *Scene) Initialize(ctx renderer.Context) error {
	if s.model == nil {
		return renderer.NewStateError("initialize "+s.FileName, renderer.ErrNotInitialized)
	}
	if s.list != 0 {
		return renderer.NewStateError("initialize "+s.FileName, renderer.ErrAlreadyInitialized)
	}

	s.list = ctx.GenList()
	ctx.BeginList(s.list)
	for _, g := range s.model.Groups() {
		g.Material.Bind(ctx)
		ctx.Begin(renderer.Triangles)
		for _, idx := range s.model.Indices[g.IndexStart : g.IndexStart+g.IndexCount] {
			pos, uv, n := s.model.Vertex(idx)
			ctx.Normal3(n[0], n[1], n[2])
			ctx.TexCoord2(uv[0], uv[1])
			ctx.Vertex3(pos[0], pos[1], pos[2])
		}
		ctx.End()
	}
	ctx.EndList()

	logger.Log.Debug("Mesh initialized",
		zap.String("file", s.FileName),
		zap.Uint32("list", s.list),
		zap.Int("triangles", s.model.TriangleCount()))
	return nil
}

func (s *Scene) Draw(ctx renderer.Context) error {
	if s.list == 0 {
		return renderer.NewStateError("draw "+s.FileName, renderer.ErrNotInitialized)
	}
	ctx.CallList(s.list)
	return nil
}

func (s *Scene) Dispose(ctx renderer.Context) {
	if s.list != 0 {
		ctx.DeleteList(s.list)
		s.list = 0
	}
}

var _ Mesh = (*Scene)(nil)
