package rdb

import "strings"

// EntityId is the canonical (trimmed, lower-cased) identifier of a network
// participant. Two ids are equal iff their canonical forms match.
type EntityId string

type TokenId uint32

// Canonical normalizes a raw identifier into its canonical form.
func Canonical(raw string) EntityId {
	return EntityId(strings.ToLower(strings.TrimSpace(raw)))
}

func (id EntityId) String() string {
	return string(id)
}

// Short returns a truncated form for log lines.
func (id EntityId) Short() string {
	if len(id) <= 12 {
		return string(id)
	}
	return string(id[:6]) + ".." + string(id[len(id)-4:])
}
