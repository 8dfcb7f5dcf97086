package scope

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/intuitionamiga/sf2voice/voice"
)

func TestRasterizePNGWritesValidImage(t *testing.T) {
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = float64(i) / 100
	}

	path := filepath.Join(t.TempDir(), "curve.png")
	if err := RasterizePNG(path, samples, 200, 80); err != nil {
		t.Fatalf("RasterizePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening written PNG: %v", err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decoding PNG header: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != 80 {
		t.Errorf("dimensions = %dx%d, want 200x80", cfg.Width, cfg.Height)
	}
}

func TestRasterizePNGRejectsTooFewSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.png")
	if err := RasterizePNG(path, []float64{1}, 200, 80); err == nil {
		t.Error("expected an error for a single-sample curve")
	}
}

func TestSampleEnvelopeAndLFO(t *testing.T) {
	e := voice.NewEnvelope(1000)
	e.SetParameter(voice.EnvAttack, 0)
	samples := SampleEnvelope(e, 50)
	if len(samples) != 50 {
		t.Fatalf("len(samples) = %d, want 50", len(samples))
	}

	l := voice.NewLFO(1000)
	l.SetFrequency(0)
	lfoSamples := SampleLFO(l, 50)
	if len(lfoSamples) != 50 {
		t.Fatalf("len(lfoSamples) = %d, want 50", len(lfoSamples))
	}
}
