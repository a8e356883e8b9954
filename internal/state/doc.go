// Package state persists the applied attributes of a stack between runs.
// The snapshot is passed explicitly into the apply engine, never held as a
// hidden singleton.
package state
