// Command vrenderdemo drives the buffer virtualization stack end to end:
// it allocates color buffers the way a guest would, updates them, posts
// them to the emulated sub-window, and saves the window content as PNG.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/vrender"
	_ "github.com/gogpu/vrender/backend/software"
	"github.com/gogpu/vrender/format"
	"github.com/gogpu/vrender/render"
)

func main() {
	var (
		width   = flag.Int("width", 256, "buffer width")
		height  = flag.Int("height", 256, "buffer height")
		winSize = flag.Int("window", 512, "sub-window size")
		output  = flag.String("output", "frame.png", "output file")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		vrender.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	r, err := render.New()
	if err != nil {
		log.Fatalf("Failed to open backend: %v", err)
	}
	defer r.Close()

	if err := r.CreateSubWindow(*winSize, *winSize); err != nil {
		log.Fatalf("Failed to create sub-window: %v", err)
	}

	handle, err := r.CreateColorBuffer(*width, *height, format.RGBA8888, format.FrameworkGLCompatible)
	if err != nil {
		log.Fatalf("Failed to create color buffer: %v", err)
	}
	cb, _ := r.ColorBuffer(handle)

	fillGradient(cb, *width, *height)

	if !r.Post(handle, 0, 0, 0) {
		log.Fatal("Post failed")
	}

	if err := savePNG(r, *output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Frame saved to %s (%dx%d window)\n", *output, *winSize, *winSize)
}

// fillGradient uploads a diagonal gradient, one row per update to
// exercise the sub-rectangle path.
func fillGradient(cb *vrender.ColorBuffer, w, h int) {
	row := make([]byte, w*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			row[x*4+0] = byte(255 * x / w)
			row[x*4+1] = byte(255 * y / h)
			row[x*4+2] = 0x80
			row[x*4+3] = 0xff
		}
		r := image.Rect(0, y, w, y+1)
		if err := cb.SubUpdate(r, format.RGBA8888, format.UnsignedByte, row); err != nil {
			log.Fatalf("SubUpdate row %d: %v", y, err)
		}
	}
}

// snapshotter is implemented by backends that can copy the sub-window out.
type snapshotter interface {
	WindowSnapshot() *image.RGBA
}

func savePNG(r *render.Renderer, path string) error {
	sn, ok := r.Device().(snapshotter)
	if !ok {
		log.Println("Backend has no window snapshot; nothing to save")
		return nil
	}
	img := sn.WindowSnapshot()
	if img == nil {
		log.Println("No sub-window content; nothing to save")
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
