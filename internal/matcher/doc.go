// Package matcher decides whether a free-text answer counts as correct for an
// expected definition. The expected text may list several accepted variants
// and the comparison tolerates a single-character typo.
//
// Matching is pure and deterministic: there is no randomness and no state.
package matcher
