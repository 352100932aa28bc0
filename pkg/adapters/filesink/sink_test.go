package filesink

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/user/decodekit/pkg/mocks"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("out")

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

func TestSink_Enabled(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveManifestJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	data := []byte(`{"frames": 3}`)
	if err := sink.SaveManifestJSON(data); err != nil {
		t.Fatalf("SaveManifestJSON failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "manifest.json")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_SaveFrameYUV(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	data := []byte{0x10, 0x80, 0x80}
	if err := sink.SaveFrameYUV(7, data); err != nil {
		t.Fatalf("SaveFrameYUV failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frames", "yuv", "frame-0007.yuv")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %v, got %v", data, saved)
	}
}

func TestSink_SaveFramePNG(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	if err := sink.SaveFramePNG(0, testImage()); err != nil {
		t.Fatalf("SaveFramePNG failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frames", "png", "frame-0000.png")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if len(saved) < 8 || saved[0] != 0x89 || string(saved[1:4]) != "PNG" {
		t.Error("saved file is not a PNG")
	}
}

func TestSink_SaveContactSheet(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	if err := sink.SaveContactSheet(testImage()); err != nil {
		t.Fatalf("SaveContactSheet failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "sheet.png")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
}
