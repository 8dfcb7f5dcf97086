// Package voice implements the per-voice DSP and modulation kernel of a
// real-time SoundFont 2 synthesizer: fixed-point phase tracking, a DAHDSR
// envelope, a triangle LFO, SF2 modulator routing, and the Voice type that
// ties them together into one sample-accurate stereo renderer.
//
// The kernel is single-threaded and non-suspending. Parsing of bank files, MIDI decoding, voice-pool
// allocation and stealing, and effects sends are the caller's job — this
// package only turns an already-selected Sample, GeneratorSet, and
// ModulatorParameterSet into a stream of stereo frames.
//
// License: GPLv3 or later
package voice
