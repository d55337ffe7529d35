package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/Faultbox/ev-configurator/internal/clock"
)

// ScreenshotCapture writes framebuffer readbacks to PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	clock     clock.Clock
}

// NewScreenshotCapture creates a new screenshot capture handler. A nil clock
// uses the system clock for file names.
func NewScreenshotCapture(outputDir, prefix string, clk clock.Clock) *ScreenshotCapture {
	if clk == nil {
		clk = clock.System{}
	}
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		clock:     clk,
	}
}

// SetOutputDir sets the output directory for screenshots.
func (sc *ScreenshotCapture) SetOutputDir(dir string) {
	sc.outputDir = dir
}

// CaptureFromPixels saves RGBA pixel data of width*height*4 bytes. Rows are
// flipped since OpenGL has its origin at the bottom-left.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	filename := sc.GenerateFilename()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// GenerateFilename returns the file name the next capture would use.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.clock.Now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.png", sc.prefix, timestamp)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}
