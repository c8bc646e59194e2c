package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// writeTestPNG creates a solid PNG in a per-test temp dir and returns its path.
func writeTestPNG(t *testing.T, name string, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := writeTestPNG(t, "board.png", 100, 80, color.RGBA{220, 180, 110, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	bounds := img1.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 80 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x80", bounds.Dx(), bounds.Dy())
	}

	// Second load should return cached image
	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_Load_Errors(t *testing.T) {
	cache := NewImageCache()

	invalid := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(invalid, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	for _, path := range []string{"/nonexistent/path/to/board.png", invalid} {
		if _, err := cache.Load(path); err == nil {
			t.Errorf("Load(%q) should fail", path)
		}
	}
	if cache.Len() != 0 {
		t.Errorf("failed loads must not be cached, got %d entries", cache.Len())
	}
}

func TestImageCache_ClearAndEvict(t *testing.T) {
	cache := NewImageCache()
	a := writeTestPNG(t, "a.png", 10, 10, color.White)
	b := writeTestPNG(t, "b.png", 10, 10, color.Black)

	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	cache.Evict(a)
	cache.Evict("/nonexistent/path") // no-op
	if cache.Len() != 1 {
		t.Errorf("after Evict: got %d entries, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: got %d entries, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := writeTestPNG(t, "board.png", 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestLoadImageInfo_FormatDetection(t *testing.T) {
	cache := NewImageCache()

	tests := []struct {
		ext    string
		format string
	}{
		{".png", "png"},
		{".jpg", "jpeg"},
		{".jpeg", "jpeg"},
		{".gif", "gif"},
		{".xyz", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			// PNG content regardless of extension; decoding sniffs the data
			path := writeTestPNG(t, "board"+tt.ext, 20, 10, color.White)

			info, err := LoadImageInfo(cache, path)
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}
			if info.Format != tt.format {
				t.Errorf("Format for %s: got %s, want %s", tt.ext, info.Format, tt.format)
			}
			if info.Width != 20 || info.Height != 10 {
				t.Errorf("dimensions: got %dx%d, want 20x10", info.Width, info.Height)
			}
			if info.FileSizeBytes <= 0 {
				t.Error("FileSizeBytes should be positive")
			}
		})
	}
}

func TestLoadImageInfo_NonExistent(t *testing.T) {
	cache := NewImageCache()
	if _, err := LoadImageInfo(cache, "/nonexistent/board.png"); err == nil {
		t.Error("LoadImageInfo should fail for non-existent file")
	}
}
