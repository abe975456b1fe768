package renderer

import (
	stdmath "math"
	"sync"
	"testing"

	"github.com/sdao/gammaray/pkg/math"
)

func TestFilmAveragesSamples(t *testing.T) {
	film := NewFilm(4, 4)
	film.AddSample(1, 2, math.NewVec3(1, 0, 0))
	film.AddSample(1, 2, math.NewVec3(0, 1, 0))

	avg, count := film.Pixel(1, 2)
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if avg.Subtract(math.NewVec3(0.5, 0.5, 0)).Length() > 1e-12 {
		t.Errorf("average = %v", avg)
	}

	if _, count := film.Pixel(0, 0); count != 0 {
		t.Errorf("untouched pixel has %d samples", count)
	}
}

func TestFilmRejectsNonFiniteSamples(t *testing.T) {
	film := NewFilm(2, 2)
	film.AddSample(0, 0, math.NewVec3(1, 1, 1))
	film.AddSample(0, 0, math.NewVec3(stdmath.NaN(), 0, 0))
	film.AddSample(0, 0, math.NewVec3(0, stdmath.Inf(1), 0))

	avg, count := film.Pixel(0, 0)
	if count != 3 {
		t.Fatalf("count = %d, want 3 (bad samples recorded as black)", count)
	}
	want := math.NewVec3(1.0/3, 1.0/3, 1.0/3)
	if avg.Subtract(want).Length() > 1e-12 {
		t.Errorf("average = %v, want %v", avg, want)
	}
}

func TestFilmIgnoresOutOfBounds(t *testing.T) {
	film := NewFilm(2, 2)
	film.AddSample(-1, 0, math.NewVec3(1, 1, 1))
	film.AddSample(0, 5, math.NewVec3(1, 1, 1))
	film.AddSample(2, 0, math.NewVec3(1, 1, 1))

	if got := film.TotalSamples(); got != 0 {
		t.Errorf("total samples = %d, want 0", got)
	}
}

func TestFilmConcurrentAccumulation(t *testing.T) {
	const workers = 8
	const perWorker = 2000
	film := NewFilm(16, 16)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				x := (w + i) % 16
				y := i % 16
				film.AddSample(x, y, math.NewVec3(1, 2, 3))
			}
		}(w)
	}
	wg.Wait()

	if got := film.TotalSamples(); got != workers*perWorker {
		t.Errorf("total samples = %d, want %d", got, workers*perWorker)
	}

	// Every sample was identical, so every touched pixel averages to it.
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			avg, count := film.Pixel(x, y)
			if count == 0 {
				continue
			}
			if avg.Subtract(math.NewVec3(1, 2, 3)).Length() > 1e-9 {
				t.Fatalf("pixel (%d,%d) average = %v", x, y, avg)
			}
		}
	}
}

func TestFilmSnapshot(t *testing.T) {
	film := NewFilm(2, 1)
	film.AddSample(0, 0, math.NewVec3(1, 1, 1))
	// Pixel (1,0) gets no samples and stays black.

	img := film.Snapshot(2.2)
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 1 {
		t.Fatalf("snapshot bounds = %v", img.Bounds())
	}
	white := img.RGBAAt(0, 0)
	if white.R != 255 || white.G != 255 || white.B != 255 || white.A != 255 {
		t.Errorf("white pixel = %v", white)
	}
	black := img.RGBAAt(1, 0)
	if black.R != 0 || black.G != 0 || black.B != 0 || black.A != 255 {
		t.Errorf("empty pixel = %v", black)
	}
}

func TestFilmSnapshotClampsOverbright(t *testing.T) {
	film := NewFilm(1, 1)
	film.AddSample(0, 0, math.NewVec3(40, 40, 40))
	c := film.Snapshot(2.2).RGBAAt(0, 0)
	if c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("overbright pixel = %v, want clamped white", c)
	}
}

func TestFilmFinalize(t *testing.T) {
	film := NewFilm(2, 2)
	film.AddSample(0, 0, math.NewVec3(1, 2, 3))
	film.AddSample(0, 0, math.NewVec3(3, 2, 1))
	film.AddSample(1, 1, math.NewVec3(0.5, 0.5, 0.5))

	buf := film.Finalize()
	if len(buf) != 4 {
		t.Fatalf("Finalize returned %d pixels, want 4", len(buf))
	}
	if want := math.NewVec3(2, 2, 2); buf[0] != want {
		t.Errorf("pixel 0 = %v, want %v", buf[0], want)
	}
	if !buf[1].IsZero() || !buf[2].IsZero() {
		t.Errorf("unsampled pixels = %v, %v, want zero", buf[1], buf[2])
	}
	if want := math.NewVec3(0.5, 0.5, 0.5); buf[3] != want {
		t.Errorf("pixel 3 = %v, want %v", buf[3], want)
	}
}
