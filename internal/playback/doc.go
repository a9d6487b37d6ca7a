// Package playback drives a scenario walkthrough one step at a time.
//
// [Controller] is the state machine: the selected scenario, the current
// step and whether playback is running. Timers never touch the step index
// directly. Each [Controller.Start] hands out a [Lease], and only ticks that
// present the live lease are applied. Stopping, reselecting, restarting or
// reaching the final step revokes the lease, so a timer that fires late can
// never advance playback.
//
// [Player] pairs a Controller with one time.Ticker goroutine for callers
// outside Bubble Tea. It guarantees the goroutine has exited before Stop,
// Select, Start or Close return.
package playback
