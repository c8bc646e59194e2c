// Package imaging provides the pixel-level services of the board reader:
// decoding and caching photographs, CIE L*a*b* conversion, disc sampling and
// overlay rendering.
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. A sample at (x, y) refers
// to the pixel whose integer coordinates are (x, y).
//
// # Color Representation
//
// LabImage stores L in [0,100] and a, b on the same x100 scale, converted
// with go-colorful (D65 white point). Fully transparent source pixels, such
// as the area outside a perspective warp, are unusable and skipped exactly
// like pixels outside the image.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. A LabImage is read-only
// after construction and can be sampled from many goroutines at once.
//
// # Error Handling
//
// Empty images and colour models without three colour channels (Gray,
// Gray16, Alpha, Alpha16) are rejected with failure.ErrInvalidInput. File
// errors are wrapped with context.
package imaging
