// Package events carries review activity from sessions to whoever wants to
// observe it.
//
// Review sessions emit a ReviewEvent when they start, when a word is graded
// and when they complete. Handlers subscribe through an EventEmitter and never
// feed back into the session, so a failing handler cannot change an outcome.
//
// The primary components are:
//   - ReviewEvent: a single fact about a session
//   - EventHandler / EventEmitter: the subscription seam
//   - LogHandler: writes events to structured logs
//   - Tally: counts answers per session for end-of-session summaries
package events
