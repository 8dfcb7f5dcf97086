// main.go - interactive demo harness for the voice package
//
// License: GPLv3 or later

package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.design/x/clipboard"
	"golang.org/x/term"

	"github.com/intuitionamiga/sf2voice/audio"
	"github.com/intuitionamiga/sf2voice/patch"
	"github.com/intuitionamiga/sf2voice/voice"
)

// keyRow maps a row of QWERTY keys to ascending MIDI note numbers, the
// same one-octave-per-row convention trackers have used since the
// earliest DOS editors.
const keyRow = "zsxdcvgbhnjm"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "dump" {
		runDump(os.Args[2:])
		return
	}
	runPlay(os.Args[1:])
}

func runPlay(args []string) {
	fs := flag.NewFlagSet("sf2play", flag.ExitOnError)
	rate := fs.Int("rate", 44100, "output sample rate in Hz")
	patchPath := fs.String("patch", "", "path to a Lua patch script (optional)")
	baseKey := fs.Int("basekey", 60, "MIDI key the synthetic tone sample is recorded at")
	fs.Parse(args)

	p, err := loadPatch(*patchPath)
	if err != nil {
		log.Fatalf("sf2play: %v", err)
	}

	sample := synthSample(float64(*rate), *baseKey)

	sink, err := audio.NewDefaultSink(*rate)
	if err != nil {
		log.Fatalf("sf2play: opening audio sink: %v", err)
	}
	defer sink.Close()

	player := newVoicePlayer(sample, p, float64(*rate))
	sink.SetSource(player)
	if err := sink.Start(); err != nil {
		log.Fatalf("sf2play: starting playback: %v", err)
	}

	fmt.Println("sf2play: keys z-m trigger a note, space releases it, q quits")
	host := newKeyboardHost(player)
	host.Start()
	defer host.Stop()

	<-host.done
}

func runDump(args []string) {
	fs := flag.NewFlagSet("sf2play dump", flag.ExitOnError)
	patchPath := fs.String("patch", "", "path to a Lua patch script (optional)")
	fs.Parse(args)

	p, err := loadPatch(*patchPath)
	if err != nil {
		log.Fatalf("sf2play: %v", err)
	}

	text := dumpPatch(p)
	if err := clipboard.Init(); err != nil {
		log.Printf("sf2play: clipboard unavailable (%v), printing instead:\n", err)
		fmt.Println(text)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	fmt.Println("sf2play: patch state copied to clipboard")
}

func loadPatch(path string) (*patch.Patch, error) {
	if path == "" {
		return &patch.Patch{Generators: voice.NewGeneratorSet()}, nil
	}
	return patch.LoadScript(path)
}

// dumpPatch renders the number of a patch's generator overrides and one
// line per extra modulator as plain text, suitable for pasting into a bug
// report.
func dumpPatch(p *patch.Patch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "generators: %d set\n", countNonDefault(p.Generators))
	fmt.Fprintf(&b, "modulators: %d extra\n", len(p.Modulators))
	for i, m := range p.Modulators {
		fmt.Fprintf(&b, "  [%d] source=%d->%d amount=%d\n", i, m.SourceOp.Index, m.Destination, m.Amount)
	}
	return b.String()
}

func countNonDefault(g *voice.GeneratorSet) int {
	def := voice.NewGeneratorSet()
	n := 0
	for gen := voice.Generator(0); gen < voice.Generator(voice.NGenerators); gen++ {
		if g.Get(gen) != def.Get(gen) {
			n++
		}
	}
	return n
}

// synthSample builds a short looped sine tone in memory so the demo needs
// no SoundFont bank file: a synthetic stand-in for the instrument sample
// a real loader would supply.
func synthSample(sampleRate float64, rootKey int) *voice.Sample {
	const cycles = 64
	freq := 440.0
	n := int(cycles * sampleRate / freq)
	buf := make([]int16, n)
	for i := range buf {
		buf[i] = int16(32000 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
	}
	return &voice.Sample{
		Buffer:     buf,
		Start:      0,
		End:        uint32(n),
		StartLoop:  0,
		EndLoop:    uint32(n),
		Mode:       voice.LoopLooped,
		SampleRate: sampleRate,
		Pitch:      float64(rootKey),
	}
}

// voicePlayer holds at most one live voice and satisfies audio.Source by
// rendering it (or silence) one frame at a time.
type voicePlayer struct {
	mutex      sync.Mutex
	sample     *voice.Sample
	patch      *patch.Patch
	outputRate float64
	current    *voice.Voice
	noteSeq    uint64
}

func newVoicePlayer(sample *voice.Sample, p *patch.Patch, outputRate float64) *voicePlayer {
	return &voicePlayer{sample: sample, patch: p, outputRate: outputRate}
}

func (vp *voicePlayer) NoteOn(key, velocity int) {
	vp.mutex.Lock()
	defer vp.mutex.Unlock()
	vp.noteSeq++
	v, err := voice.NewVoice(voice.VoiceParams{
		NoteID:     vp.noteSeq,
		ActualKey:  key,
		Velocity:   velocity,
		RootKey:    int(vp.sample.Pitch),
		Sample:     vp.sample,
		Generators: vp.patch.Generators,
		Modulators: vp.patch.Modulators,
		OutputRate: vp.outputRate,
	})
	if err != nil {
		log.Printf("sf2play: rejecting note-on: %v", err)
		return
	}
	vp.current = v
}

func (vp *voicePlayer) Release() {
	vp.mutex.Lock()
	defer vp.mutex.Unlock()
	if vp.current != nil {
		vp.current.Release()
	}
}

// RenderFrame implements audio.Source.
func (vp *voicePlayer) RenderFrame() (float32, float32) {
	vp.mutex.Lock()
	defer vp.mutex.Unlock()
	if vp.current == nil || !vp.current.IsSounding() {
		return 0, 0
	}
	vp.current.Update()
	frame := vp.current.Render()
	return float32(frame.Left), float32(frame.Right)
}

// keyboardHost puts stdin into raw mode and routes individual keystrokes
// to note-on/note-off against a voicePlayer.
type keyboardHost struct {
	player       *voicePlayer
	fd           int
	oldTermState *term.State
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
}

func newKeyboardHost(player *voicePlayer) *keyboardHost {
	return &keyboardHost{
		player: player,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (h *keyboardHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		log.Printf("sf2play: stdin is not a terminal (%v), keyboard input disabled", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)
		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			if n > 0 {
				if h.routeKey(buf[0]) {
					return
				}
			}
			if err != nil && err != syscall.EAGAIN && err != syscall.EWOULDBLOCK {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

// routeKey handles one raw keystroke; it returns true when the host
// should stop (the user pressed 'q').
func (h *keyboardHost) routeKey(b byte) bool {
	switch {
	case b == 'q':
		return true
	case b == ' ':
		h.player.Release()
	default:
		if idx := strings.IndexByte(keyRow, b); idx >= 0 {
			h.player.NoteOn(60+idx, 100)
		}
	}
	return false
}

func (h *keyboardHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
	}
}
