// Package store defines the persistence boundary for the vocabulary library.
// The library is loaded once on startup and saved after every mutation;
// implementations live under internal/platform and may use SQL databases,
// a JSON file, or memory.
package store
