package texture

import (
	"errors"
	"fmt"
	"image"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// ErrImageNotFound is returned when an image path cannot be resolved.
var ErrImageNotFound = errors.New("image not found")

// DefaultCacheSize is the number of decoded images an ImageCache keeps.
const DefaultCacheSize = 64

// An ImageCache decodes source images on first use and keeps the most
// recently used ones in memory, keyed by path.
type ImageCache struct {
	mu    sync.Mutex
	cache *lru.Cache
	read  func(filename string) (image.Image, error)
	pins  map[string]*image.RGBA
}

// NewImageCache returns a cache holding up to size decoded images. Images are
// read with ReadPNG.
func NewImageCache(size int) (*ImageCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ImageCache{
		cache: c,
		read:  ReadPNG,
		pins:  make(map[string]*image.RGBA),
	}, nil
}

// Add registers an already decoded image under a path. Added images are
// never evicted.
func (c *ImageCache) Add(path string, im image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pins[path] = Raw(im)
}

// LookupImage returns the decoded pixels of the image at path.
func (c *ImageCache) LookupImage(path string) (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if im, ok := c.pins[path]; ok {
		return im, nil
	}
	if v, ok := c.cache.Get(path); ok {
		return v.(*image.RGBA), nil
	}
	im, err := c.read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrImageNotFound, path, err)
	}
	r := Raw(im)
	c.cache.Add(path, r)
	return r, nil
}

// Len returns the number of images held, pinned or cached.
func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pins) + c.cache.Len()
}
