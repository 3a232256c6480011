// Package review builds review queues and runs review sessions.
//
// A QueueBuilder selects words from a library snapshot according to a Mode
// and gives each one a direction. A Session walks the queue one item at a
// time: Submit grades an answer locally, and Continue or Override commits the
// grade back to the library when the mode is scored.
package review
