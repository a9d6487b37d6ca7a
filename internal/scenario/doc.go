// Package scenario holds the authored event loop walkthroughs.
//
// A [Scenario] is a literal code listing plus an ordered list of [Step]
// frames. Each frame is a snapshot of every visualized region:
//
//   - Call Stack: synchronous frames currently executing
//   - Web APIs: host timers and other pending async work
//   - Callback Queue: completed macrotask callbacks
//   - Microtask Queue: promise jobs, drained before the callback queue
//   - Script: top-level lines not yet executed
//
// Scenarios are declarative data. The built-in set is embedded YAML parsed
// once by [Default]; nothing in this package interprets the code.
//
// # Invariants
//
// [New] rejects a scenario set unless every scenario has at least one step,
// each step's output extends the previous step's output by append, and each
// step's script is a suffix of the previous step's script.
package scenario
