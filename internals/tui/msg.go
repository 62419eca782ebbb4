package tui

// MsgStoreChanged is sent whenever the store state changes.
type MsgStoreChanged struct{}
