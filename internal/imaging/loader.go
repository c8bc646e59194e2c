package imaging

import (
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache provides thread-safe caching of decoded board photographs.
//
// Images are decoded with EXIF auto-orientation so that phone photographs
// come out upright; a photograph taken in portrait otherwise arrives rotated
// and its grid lines are fed to the wrong axis.
//
// ImageCache is safe for concurrent use by multiple goroutines. Cached images
// remain in memory until explicitly removed via Evict() or Clear().
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/board.jpg")
//	if err != nil {
//	    return err
//	}
//	defer cache.Evict("/path/to/board.jpg")
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Supported formats are those of github.com/disintegration/imaging (JPEG,
// PNG, GIF, TIFF, BMP). The image is cached under the exact path string, so
// relative and absolute paths to the same file are separate entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. Unknown paths
// are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo describes a loaded photograph.
type ImageInfo struct {
	// Width and Height are in pixels after auto-orientation.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is derived from the file extension: "png", "jpeg", "gif",
	// "tiff", "bmp" or "unknown".
	Format string `json:"format"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}
