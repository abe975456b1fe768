package renderer

import (
	"image"
	"image/color"
	"sync"

	"github.com/sdao/gammaray/pkg/math"
)

// filmShards is the number of independent locks striped across the pixel
// array. Tiles touch disjoint pixels most of the time so contention stays
// low.
const filmShards = 64

// filmPixel accumulates radiance samples for one pixel.
type filmPixel struct {
	sum   math.Vec3
	count int
}

// Film accumulates radiance samples into an image. It is safe for
// concurrent use: AddSample may be called from any worker at any time, and
// Snapshot can run while samples are still arriving.
type Film struct {
	width, height int
	pixels        []filmPixel
	locks         [filmShards]sync.Mutex
}

// NewFilm creates an empty film of the given dimensions.
func NewFilm(width, height int) *Film {
	return &Film{
		width:  width,
		height: height,
		pixels: make([]filmPixel, width*height),
	}
}

// Width returns the image width in pixels.
func (f *Film) Width() int { return f.width }

// Height returns the image height in pixels.
func (f *Film) Height() int { return f.height }

// AddSample accumulates one radiance sample for pixel (x, y). Samples with
// NaN or infinite components are recorded as black so a single bad path
// cannot poison the pixel average. Out-of-bounds coordinates are ignored.
func (f *Film) AddSample(x, y int, radiance math.Vec3) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	if !radiance.IsFinite() {
		radiance = math.Vec3{}
	}

	shard := &f.locks[(y*f.width+x)%filmShards]
	shard.Lock()
	px := &f.pixels[y*f.width+x]
	px.sum = px.sum.Add(radiance)
	px.count++
	shard.Unlock()
}

// Pixel returns the current average radiance and sample count for (x, y).
func (f *Film) Pixel(x, y int) (math.Vec3, int) {
	shard := &f.locks[(y*f.width+x)%filmShards]
	shard.Lock()
	px := f.pixels[y*f.width+x]
	shard.Unlock()

	if px.count == 0 {
		return math.Vec3{}, 0
	}
	return px.sum.Multiply(1 / float64(px.count)), px.count
}

// TotalSamples returns the number of samples accumulated across all pixels.
func (f *Film) TotalSamples() int {
	total := 0
	for i := range f.pixels {
		shard := &f.locks[i%filmShards]
		shard.Lock()
		total += f.pixels[i].count
		shard.Unlock()
	}
	return total
}

// Finalize returns the mean radiance of every pixel in row-major order.
// Pixels with no samples are black.
func (f *Film) Finalize() []math.Vec3 {
	out := make([]math.Vec3, len(f.pixels))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			avg, _ := f.Pixel(x, y)
			out[y*f.width+x] = avg
		}
	}
	return out
}

// Snapshot renders the current pixel averages into an 8-bit image with
// gamma correction, clamping to the displayable range. Pixels with no
// samples yet come out black.
func (f *Film) Snapshot(gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			avg, count := f.Pixel(x, y)
			var c math.Vec3
			if count > 0 {
				c = avg.GammaCorrect(gamma).Clamp(0, 1)
			}
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c.X*255 + 0.5),
				G: uint8(c.Y*255 + 0.5),
				B: uint8(c.Z*255 + 0.5),
				A: 255,
			})
		}
	}
	return img
}
