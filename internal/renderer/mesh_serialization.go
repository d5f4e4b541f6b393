package renderer

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	meshMagic   uint32 = 0x4D455348 // "MESH"
	meshVersion uint32 = 2
)

// ErrMeshFormat is returned for data that is not a compiled mesh of the
// current version.
var ErrMeshFormat = errors.New("invalid compiled mesh")

// EncodeModel writes a parsed model in the gzip compressed binary layout read
// by DecodeModel. Materials are written per group, textures by path only.
func EncodeModel(model *Model) ([]byte, error) {
	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)
	w := &binaryWriter{w: gzWriter}

	w.put(meshMagic)
	w.put(meshVersion)
	w.putString(model.Name)
	w.putString(model.SourcePath)

	w.put(uint32(len(model.InterleavedData)))
	w.put(model.InterleavedData)
	w.put(uint32(len(model.Indices)))
	w.put(model.Indices)

	groups := model.Groups()
	w.put(uint32(len(groups)))
	for _, g := range groups {
		w.put(g.IndexStart)
		w.put(g.IndexCount)
		w.putMaterial(g.Material)
	}

	w.put(model.BoundingSphereCenter)
	w.put(model.BoundingSphereRadius)

	if w.err != nil {
		return nil, w.err
	}
	if err := gzWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeModel reads a model written by EncodeModel. Groups that reference
// the same material name share one *Material.
func DecodeModel(data []byte) (*Model, error) {
	gzReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMeshFormat, err)
	}
	defer gzReader.Close()
	r := &binaryReader{r: gzReader}

	var magic, version uint32
	r.get(&magic)
	r.get(&version)
	if r.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMeshFormat, r.err)
	}
	if magic != meshMagic {
		return nil, fmt.Errorf("%w: magic %x", ErrMeshFormat, magic)
	}
	if version != meshVersion {
		return nil, fmt.Errorf("%w: version %d", ErrMeshFormat, version)
	}

	model := &Model{}
	model.Name = r.getString()
	model.SourcePath = r.getString()

	model.InterleavedData = make([]float32, r.getLen())
	r.get(model.InterleavedData)
	model.Indices = make([]uint32, r.getLen())
	r.get(model.Indices)

	materials := make(map[string]*Material)
	model.MaterialGroups = make([]MaterialGroup, r.getLen())
	for i := range model.MaterialGroups {
		g := &model.MaterialGroups[i]
		r.get(&g.IndexStart)
		r.get(&g.IndexCount)
		mat := r.getMaterial()
		if shared, ok := materials[mat.Name]; ok {
			mat = shared
		} else {
			materials[mat.Name] = mat
		}
		g.Material = mat
	}

	r.get(&model.BoundingSphereCenter)
	r.get(&model.BoundingSphereRadius)
	if r.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMeshFormat, r.err)
	}

	if err := model.validate(); err != nil {
		return nil, err
	}
	if len(model.MaterialGroups) > 0 {
		model.Material = model.MaterialGroups[0].Material
	}
	return model, nil
}

func (m *Model) validate() error {
	if len(m.InterleavedData)%FloatsPerVertex != 0 {
		return fmt.Errorf("%w: %d floats is not a whole vertex count", ErrMeshFormat, len(m.InterleavedData))
	}
	n := uint32(m.VertexCount())
	for _, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("%w: index %d out of range", ErrMeshFormat, idx)
		}
	}
	for _, g := range m.MaterialGroups {
		if g.IndexStart < 0 || g.IndexCount < 0 || int(g.IndexStart+g.IndexCount) > len(m.Indices) {
			return fmt.Errorf("%w: group [%d,+%d) outside %d indices", ErrMeshFormat, g.IndexStart, g.IndexCount, len(m.Indices))
		}
	}
	return nil
}

// maxMeshLen bounds slice lengths read from disk.
const maxMeshLen = 1 << 28

type binaryWriter struct {
	w   io.Writer
	err error
}

func (b *binaryWriter) put(v any) {
	if b.err == nil {
		b.err = binary.Write(b.w, binary.LittleEndian, v)
	}
}

func (b *binaryWriter) putString(s string) {
	b.put(uint32(len(s)))
	b.put([]byte(s))
}

func (b *binaryWriter) putMaterial(m *Material) {
	if m == nil {
		m = DefaultMaterial
	}
	b.putString(m.Name)
	b.put(m.DiffuseColor)
	b.put(m.SpecularColor)
	b.put(m.Shininess)
	b.put(m.Alpha)
	b.putString(m.TexturePath)
}

type binaryReader struct {
	r   io.Reader
	err error
}

func (b *binaryReader) get(v any) {
	if b.err == nil {
		b.err = binary.Read(b.r, binary.LittleEndian, v)
	}
}

func (b *binaryReader) getLen() int {
	var n uint32
	b.get(&n)
	if b.err == nil && n > maxMeshLen {
		b.err = fmt.Errorf("length %d too large", n)
	}
	if b.err != nil {
		return 0
	}
	return int(n)
}

func (b *binaryReader) getString() string {
	buf := make([]byte, b.getLen())
	b.get(buf)
	return string(buf)
}

func (b *binaryReader) getMaterial() *Material {
	m := &Material{}
	m.Name = b.getString()
	b.get(&m.DiffuseColor)
	b.get(&m.SpecularColor)
	b.get(&m.Shininess)
	b.get(&m.Alpha)
	m.TexturePath = b.getString()
	return m
}
