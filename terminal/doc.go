// Package terminal provides direct ANSI terminal control for the crawl renderer.
//
// Features:
//   - Raw mode on stdin with mouse reporting enabled, restored on Fini
//   - SIGWINCH resize notification
//   - 256-color and true color foreground sequences
//   - Surfaces for the render loop: buffered ANSI output or a tcell screen
//   - Emergency restoration from panic handlers
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
