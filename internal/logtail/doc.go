// Package logtail reads porch's own log file for the "porch logs"
// command.
//
// Read keeps a ring of the last N lines, so memory stays bounded no matter
// how large the file has grown. Parse splits a line into timestamp, level
// and message; Colorize renders it with fatih/color, which disables itself
// when stdout is not a terminal. Follow polls the file for appended lines
// and starts over when the file shrinks.
package logtail
