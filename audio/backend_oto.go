//go:build !headless

// backend_oto.go - oto v3 audio output implementation
//
// License: GPLv3 or later

package audio

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoSink plays a Source through oto's cross-platform audio output,
// stereo float32LE. It stores the source behind an atomic pointer so the
// realtime Read callback never takes a lock.
type OtoSink struct {
	ctx    *oto.Context
	player *oto.Player

	source atomic.Pointer[Source]

	sampleBuf []float32
	started   bool
	mutex     sync.Mutex // guards Start/Stop/Close only, never the read path
}

// NewDefaultSink returns the build's default Sink: real oto playback.
func NewDefaultSink(sampleRate int) (Sink, error) {
	return NewOtoSink(sampleRate)
}

// NewOtoSink opens an oto context at sampleRate, stereo, float32LE.
func NewOtoSink(sampleRate int) (*OtoSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0, // let oto pick a safe default
	})
	if err != nil {
		return nil, err
	}
	<-ready

	s := &OtoSink{ctx: ctx, sampleBuf: make([]float32, 4096)}
	s.player = ctx.NewPlayer(s)
	return s, nil
}

// SetSource installs the Source the Read callback pulls frames from.
func (s *OtoSink) SetSource(src Source) {
	s.source.Store(&src)
}

// Read implements io.Reader for oto's Player: it fills p with interleaved
// stereo float32LE samples pulled from the installed Source, or silence
// if none is set.
func (s *OtoSink) Read(p []byte) (int, error) {
	srcPtr := s.source.Load()
	if srcPtr == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	src := *srcPtr

	numFrames := len(p) / 8 // 2 channels * 4 bytes
	if cap(s.sampleBuf) < numFrames*2 {
		s.sampleBuf = make([]float32, numFrames*2)
	}
	samples := s.sampleBuf[:numFrames*2]

	for i := 0; i < numFrames; i++ {
		l, r := src.RenderFrame()
		samples[2*i] = l
		samples[2*i+1] = r
	}

	n := copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:len(p)])
	return n, nil
}

// Start begins playback. Calling Start twice is a no-op.
func (s *OtoSink) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.started {
		s.player.Play()
		s.started = true
	}
	return nil
}

// Stop halts playback without releasing the underlying player.
func (s *OtoSink) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.started {
		s.player.Pause()
		s.started = false
	}
}

// Close releases the player and its oto context.
func (s *OtoSink) Close() {
	s.Stop()
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.player != nil {
		s.player.Close()
		s.player = nil
	}
}
