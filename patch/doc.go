// Package patch loads SF2 generator/modulator patches authored as small
// Lua scripts, giving the gopher-lua stack a real call site: a declarative
// description of one instrument zone's overrides rather than a full
// language binding.
//
// License: GPLv3 or later
package patch
