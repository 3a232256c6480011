// Package domain contains the core vocabulary entities (words, groups and the
// library that owns them), the review direction value object, and the sentinel
// errors shared by every layer. It is independent of any storage or
// presentation mechanism.
package domain
