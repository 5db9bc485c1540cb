// Package viz renders computation results and progress in the terminal.
//
//   - [RenderReport]: lipgloss panel with the run summary
//   - [Progress]: row counter usable as a pairwise.Observer
//   - [ProgressModel]: Bubble Tea view that polls a Progress
//
// Press q to hide the progress view; the computation itself keeps running
// until it finishes.
package viz
