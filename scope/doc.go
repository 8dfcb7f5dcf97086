// Package scope rasterizes envelope and LFO curves to PNG so voice
// shaping can be inspected without a live audio device or display.
//
// License: GPLv3 or later
package scope
