// Package archive converts groups to and from the portable backup format.
//
// A backup is either a zip container with one JSON document per group, or a
// bare JSON document: a single group ({id, name, words}) or a bundle
// ({groups: [...]}). Zip support is a capability; when the configured
// Container reports it is unsupported, exports fall back to bare documents.
//
// Decoding is lenient: every entry that cannot be decoded is reported as a
// FormatError and skipped, and decoding carries on with the rest.
package archive
