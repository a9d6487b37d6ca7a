// Package trace executes scenario code in the goja JavaScript engine on a
// deterministic, virtual-time event loop.
//
// The loop provides console, setTimeout, setInterval, clearTimeout,
// clearInterval and queueMicrotask. Promise jobs are drained by goja after
// the script and after every timer callback, which gives the browser
// ordering: all microtasks run before the next macrotask. Timers fire in
// (due time, scheduling order) order and advance a virtual clock instead
// of sleeping, so a 1000ms timeout costs nothing.
//
// Trace results are used to check authored walkthroughs: [Verify] compares
// what the engine prints with a scenario's final output.
package trace
