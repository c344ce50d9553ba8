// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for the audio round trip:
//  1. [SourceListView] : Browse the audio-file sources resolved from the middleware selection
//  2. [ConfirmView] : Confirm the import batch
//  3. [TaskView] : Monitor the active task, one scheduler tick per frame
//  4. [ResultView] : Display the final success/failure counts
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// While a task is active, a frame tick message drives [tasks.Scheduler.Tick]
// from the update loop, so all task steps run on the single bubbletea
// goroutine; progress updates are drained from the task's channel without
// blocking.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
