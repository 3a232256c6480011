// Package config loads the vocab settings: logging, the storage backend, an
// optional custom retention ladder and archive options. Values come from
// defaults, an optional vocab.yaml file and VOCAB_* environment variables,
// in increasing order of precedence, and are validated before use.
package config
