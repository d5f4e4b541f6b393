package loader

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"PlateCandle/internal/logger"
	"PlateCandle/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var ErrNoGeometry = errors.New("no faces in model")

type FaceVertex struct {
	VertexIdx   int32
	TexCoordIdx int32
	NormalIdx   int32
}

// LoadModel parses a Wavefront OBJ file and the MTL library it references.
// Faces are triangulated and (v, vt, vn) triplets unified into one
// interleaved vertex buffer. Normals are recalculated when asked to or when
// the file does not carry them for every face vertex.
func LoadModel(filename string, recalculateNormals bool) (*renderer.Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var (
		modelMaterials      map[string]*renderer.Material
		vertices            []float32
		textureCoords       []float32
		normals             []float32
		unifiedFaces        []FaceVertex
		faceMaterialMap     []string // Maps each face vertex to its material
		currentMaterialName string
		lineNo              int
	)

	model := &renderer.Model{
		Name:       strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)),
		SourcePath: filename,
		Material:   renderer.DefaultMaterial,
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "v":
			vertex, err := parseVertex(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", filename, lineNo, err)
			}
			vertices = append(vertices, vertex[:3]...)
		case "vn":
			normal, err := parseVertex(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", filename, lineNo, err)
			}
			normals = append(normals, normal[:3]...)
		case "vt":
			texCoord, err := parseTextureCoordinate(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", filename, lineNo, err)
			}
			textureCoords = append(textureCoords, texCoord[0], texCoord[1])
		case "f":
			counts := [3]int{len(vertices) / 3, len(textureCoords) / 2, len(normals) / 3}
			faceVertices, err := parseFace(parts[1:], counts)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", filename, lineNo, err)
			}
			unifiedFaces = append(unifiedFaces, faceVertices...)

			matName := currentMaterialName
			if matName == "" {
				matName = "default"
			}
			for range faceVertices {
				faceMaterialMap = append(faceMaterialMap, matName)
			}
		case "mtllib":
			if len(parts) < 2 {
				continue
			}
			mtlPath := filepath.Join(filepath.Dir(filename), strings.Join(parts[1:], " "))
			modelMaterials = LoadMaterials(mtlPath)
		case "usemtl":
			if len(parts) >= 2 {
				currentMaterialName = parts[1]
				if material, ok := modelMaterials[currentMaterialName]; ok {
					if model.Material == renderer.DefaultMaterial {
						model.Material = material
					}
				} else {
					logger.Log.Debug("Material not found", zap.String("material", currentMaterialName))
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(unifiedFaces) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoGeometry)
	}

	if !recalculateNormals {
		for _, fv := range unifiedFaces {
			if fv.NormalIdx < 0 {
				recalculateNormals = true
				break
			}
		}
	}

	// Some models have broken normals, so we recalculate them ourselves
	var smoothNormals []float32
	if recalculateNormals {
		faces := make([]int32, len(unifiedFaces))
		for i, fv := range unifiedFaces {
			faces[i] = fv.VertexIdx
		}
		smoothNormals = RecalculateNormals(vertices, faces)
	}

	type vertexKey struct {
		v, vt, vn int32
	}
	vertexMap := make(map[vertexKey]uint32)
	interleaved := make([]float32, 0, len(unifiedFaces)*renderer.FloatsPerVertex)
	indices := make([]uint32, 0, len(unifiedFaces))

	for _, fv := range unifiedFaces {
		key := vertexKey{v: fv.VertexIdx, vt: fv.TexCoordIdx, vn: fv.NormalIdx}
		if recalculateNormals {
			key.vn = -1
		}
		if existingIdx, exists := vertexMap[key]; exists {
			indices = append(indices, existingIdx)
			continue
		}

		newIdx := uint32(len(interleaved) / renderer.FloatsPerVertex)
		vertexMap[key] = newIdx

		v := fv.VertexIdx * 3
		interleaved = append(interleaved, vertices[v], vertices[v+1], vertices[v+2])

		if fv.TexCoordIdx >= 0 {
			t := fv.TexCoordIdx * 2
			interleaved = append(interleaved, textureCoords[t], textureCoords[t+1])
		} else {
			interleaved = append(interleaved, 0, 0)
		}

		switch {
		case recalculateNormals:
			interleaved = append(interleaved, smoothNormals[v], smoothNormals[v+1], smoothNormals[v+2])
		default:
			n := fv.NormalIdx * 3
			interleaved = append(interleaved, normals[n], normals[n+1], normals[n+2])
		}

		indices = append(indices, newIdx)
	}

	model.InterleavedData = interleaved
	model.Indices = indices
	model.MaterialGroups = buildMaterialGroups(faceMaterialMap, modelMaterials)
	model.CalculateBoundingSphere()

	logger.Log.Info("Model loaded",
		zap.String("path", filename),
		zap.Int("vertices", model.VertexCount()),
		zap.Int("triangles", model.TriangleCount()),
		zap.Int("materialGroups", len(model.MaterialGroups)))

	return model, nil
}

// buildMaterialGroups turns the per-index material names into contiguous
// index ranges.
func buildMaterialGroups(faceMaterialMap []string, materials map[string]*renderer.Material) []renderer.MaterialGroup {
	var groups []renderer.MaterialGroup
	for i, name := range faceMaterialMap {
		mat, ok := materials[name]
		if !ok {
			mat = renderer.DefaultMaterial
		}
		if n := len(groups); n > 0 && groups[n-1].Material == mat {
			groups[n-1].IndexCount++
			continue
		}
		groups = append(groups, renderer.MaterialGroup{Material: mat, IndexStart: int32(i), IndexCount: 1})
	}
	return groups
}

// LoadMaterials loads material properties from a .mtl file. A missing or
// unreadable file yields only the default material.
func LoadMaterials(filename string) map[string]*renderer.Material {
	defaultMaterials := map[string]*renderer.Material{"default": renderer.DefaultMaterial}

	file, err := os.Open(filename)
	if err != nil {
		logger.Log.Warn("Error opening material file", zap.String("path", filename), zap.Error(err))
		return defaultMaterials
	}
	defer file.Close()

	var currentMaterial *renderer.Material
	materials := make(map[string]*renderer.Material)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] != "newmtl" && currentMaterial == nil {
			continue
		}

		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				logger.Log.Error("Malformed material line", zap.String("line", line))
				continue
			}
			currentMaterial = &renderer.Material{
				Name:         fields[1],
				DiffuseColor: [3]float32{1, 1, 1},
				Alpha:        1.0, // Opaque by default
			}
			materials[fields[1]] = currentMaterial
		case "Kd": // Diffuse color
			if len(fields) == 4 {
				currentMaterial.DiffuseColor = parseColor(fields[1:])
			}
		case "Ks": // Specular color
			if len(fields) == 4 {
				currentMaterial.SpecularColor = parseColor(fields[1:])
			}
		case "Ns": // Shininess
			if len(fields) == 2 {
				currentMaterial.Shininess = parseFloat(fields[1])
			}
		case "d": // Dissolve (alpha/opacity)
			if len(fields) == 2 {
				currentMaterial.Alpha = parseFloat(fields[1])
			}
		case "map_Kd": // Diffuse texture map
			if len(fields) >= 2 {
				texturePath := fields[len(fields)-1]
				if !filepath.IsAbs(texturePath) {
					texturePath = filepath.Join(filepath.Dir(filename), texturePath)
				}
				currentMaterial.TexturePath = texturePath
			}
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Log.Error("Error reading material file", zap.String("path", filename), zap.Error(err))
	}
	if len(materials) == 0 {
		return defaultMaterials
	}
	return materials
}

// parseColor parses RGB color components from a list of strings to an array of float32.
func parseColor(fields []string) [3]float32 {
	var color [3]float32
	for i, field := range fields {
		if val, err := strconv.ParseFloat(field, 32); err == nil {
			color[i] = float32(val)
		} else {
			logger.Log.Error("Error parsing color component", zap.Error(err))
		}
	}
	return color
}

// parseFloat parses a single string to a float32.
func parseFloat(s string) float32 {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		logger.Log.Error("Error parsing material value", zap.Error(err))
		return 0
	}
	return float32(f)
}

// parseVertex reads x y z and ignores an optional w.
func parseVertex(parts []string) ([]float32, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("vertex needs 3 components, got %d", len(parts))
	}
	var vertex []float32
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex value %v: %v", part, err)
		}
		vertex = append(vertex, float32(val))
	}
	return vertex, nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index into a
// 0-based one, checking it against count.
func resolveIndex(s string, count int) (int32, error) {
	idx, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %v: %v", s, err)
	}
	switch {
	case idx > 0:
		idx--
	case idx < 0:
		idx += int64(count)
	default:
		return 0, errors.New("index 0 is not valid in OBJ")
	}
	if idx < 0 || idx >= int64(count) {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, count)
	}
	return int32(idx), nil
}

// parseFace parses "v", "v/vt", "v//vn" or "v/vt/vn" corners and triangulates
// polygons as a fan. counts holds how many positions, texture coordinates and
// normals are defined so far.
func parseFace(parts []string, counts [3]int) ([]FaceVertex, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(parts))
	}

	var face []FaceVertex
	for _, part := range parts {
		vals := strings.Split(part, "/")

		vertexIdx, err := resolveIndex(vals[0], counts[0])
		if err != nil {
			return nil, fmt.Errorf("vertex %w", err)
		}

		var texCoordIdx int32 = -1
		if len(vals) > 1 && vals[1] != "" {
			if texCoordIdx, err = resolveIndex(vals[1], counts[1]); err != nil {
				return nil, fmt.Errorf("texture coordinate %w", err)
			}
		}

		var normalIdx int32 = -1
		if len(vals) > 2 && vals[2] != "" {
			if normalIdx, err = resolveIndex(vals[2], counts[2]); err != nil {
				return nil, fmt.Errorf("normal %w", err)
			}
		}

		face = append(face, FaceVertex{
			VertexIdx:   vertexIdx,
			TexCoordIdx: texCoordIdx,
			NormalIdx:   normalIdx,
		})
	}

	if len(face) == 3 {
		return face, nil
	}
	if len(face) > 4 {
		logger.Log.Debug("Face with more than 4 vertices detected, using fan triangulation", zap.Int("vertexCount", len(face)))
	}
	triangulated := make([]FaceVertex, 0, (len(face)-2)*3)
	for i := 1; i < len(face)-1; i++ {
		triangulated = append(triangulated, face[0], face[i], face[i+1])
	}
	return triangulated, nil
}

// for 2D textures
func parseTextureCoordinate(parts []string) ([]float32, error) {
	if len(parts) < 1 {
		return nil, errors.New("empty texture coordinate")
	}
	texCoord := []float32{0, 0}
	for i, part := range parts {
		if i > 1 {
			break
		}
		val, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid texture coordinate value %v: %v", part, err)
		}
		texCoord[i] = float32(val)
	}
	return texCoord, nil
}

// RecalculateNormals returns smooth per-position normals: the normalized sum
// of the face normals of every triangle touching the position.
func RecalculateNormals(vertices []float32, faces []int32) []float32 {
	if len(vertices) == 0 || len(faces) == 0 {
		logger.Log.Warn("Empty vertices or faces slice")
		return nil
	}

	var normals = make([]float32, len(vertices))

	for i := 0; i+2 < len(faces); i += 3 {
		idx0 := faces[i] * 3
		idx1 := faces[i+1] * 3
		idx2 := faces[i+2] * 3

		if idx0+2 >= int32(len(vertices)) || idx1+2 >= int32(len(vertices)) || idx2+2 >= int32(len(vertices)) {
			logger.Log.Warn("Index out of bounds",
				zap.Int32("idx0", idx0), zap.Int32("idx1", idx1), zap.Int32("idx2", idx2),
				zap.Int("verticesLen", len(vertices)))
			continue
		}

		v0 := mgl32.Vec3{vertices[idx0], vertices[idx0+1], vertices[idx0+2]}
		v1 := mgl32.Vec3{vertices[idx1], vertices[idx1+1], vertices[idx1+2]}
		v2 := mgl32.Vec3{vertices[idx2], vertices[idx2+1], vertices[idx2+2]}

		normal := renderer.FaceNormal(v0, v1, v2)

		for j := int32(0); j < 3; j++ {
			normals[idx0+j] += normal[j]
			normals[idx1+j] += normal[j]
			normals[idx2+j] += normal[j]
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if n.Len() == 0 {
			n = mgl32.Vec3{0, 1, 0}
		} else {
			n = n.Normalize()
		}
		normals[i], normals[i+1], normals[i+2] = n[0], n[1], n[2]
	}

	return normals
}
