// Package viz renders a running scenario in the terminal.
//
// [DrawSkyMap] projects the bodies around the player onto a braille
// [Canvas]; [WatchModel] wraps it in a Bubble Tea program with a status
// panel and an altitude chart.
//
// # Key Bindings
//
//	Space   pause/resume
//	n       single step while paused
//	< >     halve/double ticks per frame
//	+ -     zoom
//	arrows  rotate the camera
//	t       cycle themes
//	q       quit
package viz
