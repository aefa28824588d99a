// Package viz is the terminal host for a verlet simulation.
//
// It drives the simulation from a Bubble Tea tick at 60 Hz and draws points
// and sticks on a Braille canvas:
//
//   - [Model]: the Bubble Tea model wrapping one simulation
//   - [Canvas]: Braille-based pixel canvas
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	Click - Drop a new point at the cursor
//	D     - Drop a new point at a random spot near the top
//	N     - Advance one step while paused
//	R     - Reset to the initial layout
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
