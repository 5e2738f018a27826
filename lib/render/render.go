// Package render provides a headless texture store for packed atlases.
package render

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/depp/atlaskit/lib/atlas"
	"github.com/depp/atlaskit/lib/texture"
)

var errNoTexture = errors.New("no such texture")

// Memory keeps uploaded textures in memory. It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	next     atlas.Texture
	textures map[atlas.Texture]*image.RGBA
}

// NewMemory returns an empty texture store.
func NewMemory() *Memory {
	return &Memory{textures: make(map[atlas.Texture]*image.RGBA)}
}

// UploadTexture copies the pixels and returns a new texture handle.
func (m *Memory) UploadTexture(pix []byte, channels, width, height int) (atlas.Texture, error) {
	if channels != texture.Channels {
		return 0, fmt.Errorf("unsupported channel count: %d", channels)
	}
	im, err := texture.NewView(append([]byte(nil), pix...), width, height)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.textures[m.next] = im
	return m.next, nil
}

// DestroyTexture releases a texture. Unknown handles are ignored.
func (m *Memory) DestroyTexture(t atlas.Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.textures, t)
}

// Image returns the pixels of a texture.
func (m *Memory) Image(t atlas.Texture) (*image.RGBA, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	im := m.textures[t]
	if im == nil {
		return nil, fmt.Errorf("texture %d: %w", t, errNoTexture)
	}
	return im, nil
}

// Len returns the number of live textures.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.textures)
}

// ExportPNG writes a texture to a PNG file.
func (m *Memory) ExportPNG(t atlas.Texture, filename string) error {
	im, err := m.Image(t)
	if err != nil {
		return err
	}
	return texture.WritePNG(filename, im)
}
