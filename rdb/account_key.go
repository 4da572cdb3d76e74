package rdb

import (
	"fmt"
	"strings"

	"github.com/go-errors/errors"
)

// AccountKey identifies the bilateral account between two entities. The pair
// is unordered; Left always sorts before Right.
type AccountKey struct {
	Left  EntityId
	Right EntityId
}

func NewAccountKey(a, b EntityId) AccountKey {
	if b < a {
		a, b = b, a
	}
	return AccountKey{Left: a, Right: b}
}

// ParseAccountKey accepts "left:right" or "left/right".
func ParseAccountKey(str string) (AccountKey, error) {
	parts := strings.Split(str, ":")
	if len(parts) != 2 {
		parts = strings.Split(str, "/")
	}

	if len(parts) != 2 {
		return AccountKey{}, errors.Errorf("Unable to parse account key with format left:right or left/right")
	}

	left, right := Canonical(parts[0]), Canonical(parts[1])
	if left == "" || right == "" {
		return AccountKey{}, errors.Errorf("Account key %q has an empty side", str)
	}

	return NewAccountKey(left, right), nil
}

// Other returns the counterparty of id, or "" if id is not part of the account.
func (k AccountKey) Other(id EntityId) EntityId {
	switch id {
	case k.Left:
		return k.Right
	case k.Right:
		return k.Left
	}
	return ""
}

func (k AccountKey) String() string {
	return fmt.Sprintf("%s:%s", k.Left, k.Right)
}

func (k AccountKey) Valid() bool {
	return k.Left != "" && k.Right != "" && k.Left != k.Right
}
