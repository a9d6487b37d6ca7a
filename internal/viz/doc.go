// Package viz renders event loop walkthroughs in the terminal.
//
// [Project] turns a scenario and a playback state into a [Frame], which
// [Render] draws with lipgloss panels and [RenderPlain] writes as text.
// [App] is the Bubble Tea program built on top of them:
//
//   - a sidebar glossary of the event loop regions
//   - a scenario list and the selected code listing
//   - the live step display with a progress bar
//
// # Key Bindings
//
//	↑/↓ enter - Choose a scenario
//	S         - Start playback from step 0
//	X         - Stop playback
//	←/→       - Step manually while stopped
//	T         - Cycle color themes
//	?         - Toggle full help
//	Q         - Quit
//
// Playback ticks are tea.Tick messages tagged with the controller lease that
// scheduled them; a tick whose lease was revoked by stop, restart or
// selection is dropped without scheduling another.
package viz
