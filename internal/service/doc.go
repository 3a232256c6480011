// Package service contains the application use cases of the vocabulary
// trainer. LibraryService owns the in-memory library and is the only writer
// to the store collaborator; the review subpackage drives review sessions on
// top of it.
//
// Every mutation follows the same shape: clone the library, apply the change
// to the clone, save the clone, and only then make it current. A failed save
// leaves the previous state in place.
package service
