// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for photo transfers:
//  1. [PhotoListView] : Browse VK profile photos and toggle selections
//  2. [ConfirmView] : Confirm the transfer operation
//  3. [TransferView] : Monitor real-time progress updates
//  4. [ResultView] : Display upload counts and failed items
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the TransferEngine, providing non-blocking status reporting during transfers.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
