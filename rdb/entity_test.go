package rdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	assert.Equal(t, EntityId("alice"), Canonical("  Alice "))
	assert.Equal(t, EntityId(""), Canonical("   "))
	assert.Equal(t, Canonical("0xABcd"), Canonical("0xabcd"))
}

func TestShort(t *testing.T) {
	assert.Equal(t, "alice", EntityId("alice").Short())
	assert.Equal(t, "0x1234..cdef", EntityId("0x1234567890abcdef").Short())
}

func TestAccountKey(t *testing.T) {
	key := NewAccountKey("bob", "alice")
	assert.Equal(t, EntityId("alice"), key.Left)
	assert.Equal(t, EntityId("bob"), key.Right)
	assert.Equal(t, key, NewAccountKey("alice", "bob"))
	assert.Equal(t, "alice:bob", key.String())

	assert.Equal(t, EntityId("bob"), key.Other("alice"))
	assert.Equal(t, EntityId("alice"), key.Other("bob"))
	assert.Equal(t, EntityId(""), key.Other("carol"))

	assert.True(t, key.Valid())
	assert.False(t, NewAccountKey("alice", "alice").Valid())
}

func TestParseAccountKey(t *testing.T) {
	key, err := ParseAccountKey("Bob:Alice")
	require.NoError(t, err)
	assert.Equal(t, NewAccountKey("alice", "bob"), key)

	key, err = ParseAccountKey("alice/bob")
	require.NoError(t, err)
	assert.Equal(t, "alice:bob", key.String())

	for _, raw := range []string{"alice", "a:b:c", ":bob", "alice/ "} {
		_, err := ParseAccountKey(raw)
		assert.Error(t, err, raw)
	}
}
