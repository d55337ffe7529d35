package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/ev-configurator/internal/viewer"
)

// bindings maps keys to control panel commands. Number keys 1-9 and 0 select
// the first ten camera presets.
var bindings = map[sdl.Scancode]viewer.Command{
	sdl.SCANCODE_E:            {Op: viewer.OpToggleExploded},
	sdl.SCANCODE_X:            {Op: viewer.OpToggleCrossSection},
	sdl.SCANCODE_SPACE:        {Op: viewer.OpAssemble},
	sdl.SCANCODE_R:            {Op: viewer.OpPlayAssembly},
	sdl.SCANCODE_T:            {Op: viewer.OpPlayDisassembly},
	sdl.SCANCODE_BACKSPACE:    {Op: viewer.OpStopSequence},
	sdl.SCANCODE_PAGEUP:       {Op: viewer.OpSectionForward},
	sdl.SCANCODE_PAGEDOWN:     {Op: viewer.OpSectionBack},
	sdl.SCANCODE_TAB:          {Op: viewer.OpCycleSectionAxis},
	sdl.SCANCODE_RIGHTBRACKET: {Op: viewer.OpFaster},
	sdl.SCANCODE_LEFTBRACKET:  {Op: viewer.OpSlower},
	sdl.SCANCODE_DELETE:       {Op: viewer.OpClearFocus},
	sdl.SCANCODE_1:            {Op: viewer.OpPreset, Index: 0},
	sdl.SCANCODE_2:            {Op: viewer.OpPreset, Index: 1},
	sdl.SCANCODE_3:            {Op: viewer.OpPreset, Index: 2},
	sdl.SCANCODE_4:            {Op: viewer.OpPreset, Index: 3},
	sdl.SCANCODE_5:            {Op: viewer.OpPreset, Index: 4},
	sdl.SCANCODE_6:            {Op: viewer.OpPreset, Index: 5},
	sdl.SCANCODE_7:            {Op: viewer.OpPreset, Index: 6},
	sdl.SCANCODE_8:            {Op: viewer.OpPreset, Index: 7},
	sdl.SCANCODE_9:            {Op: viewer.OpPreset, Index: 8},
	sdl.SCANCODE_0:            {Op: viewer.OpPreset, Index: 9},
}

// panKeys moves the camera and its target together: forward, right, up.
var panKeys = map[sdl.Scancode][3]float32{
	sdl.SCANCODE_W: {10, 0, 0},
	sdl.SCANCODE_S: {-10, 0, 0},
	sdl.SCANCODE_A: {0, -10, 0},
	sdl.SCANCODE_D: {0, 10, 0},
	sdl.SCANCODE_Q: {0, 0, -10},
	sdl.SCANCODE_Z: {0, 0, 10},
}
