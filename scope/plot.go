// plot.go - PNG curve rasterization
//
// License: GPLv3 or later

package scope

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/vector"

	"github.com/intuitionamiga/sf2voice/voice"
)

// fillColor is the curve's fill color against a white background.
var fillColor = color.RGBA{R: 30, G: 90, B: 200, A: 255}

// SampleEnvelope steps e forward n times and records its value at each
// step, for feeding into RasterizePNG.
func SampleEnvelope(e *voice.Envelope, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		e.Update()
		out[i] = e.GetValue()
	}
	return out
}

// SampleLFO steps l forward n times and records its value at each step.
func SampleLFO(l *voice.LFO, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		l.Update()
		out[i] = l.GetValue()
	}
	return out
}

// RasterizePNG draws samples (values expected in [-1,1]) as a filled
// area-under-curve chart and writes it as a PNG to path.
func RasterizePNG(path string, samples []float64, width, height int) error {
	if len(samples) < 2 {
		return errors.New("scope: need at least two samples to plot")
	}
	if width <= 0 || height <= 0 {
		return errors.New("scope: width and height must be positive")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	r := vector.NewRasterizer(width, height)
	stepX := float32(width) / float32(len(samples)-1)

	r.MoveTo(0, sampleY(samples[0], height))
	for i := 1; i < len(samples); i++ {
		r.LineTo(float32(i)*stepX, sampleY(samples[i], height))
	}
	r.LineTo(float32(width), float32(height))
	r.LineTo(0, float32(height))
	r.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(img, img.Bounds(), image.NewUniform(fillColor), image.Point{}, mask, image.Point{}, draw.Over)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// sampleY maps a value in [-1,1] to a pixel row, clamping out-of-range
// values rather than distorting the plot.
func sampleY(v float64, height int) float32 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return float32(height) * float32(1-(v+1)/2)
}
