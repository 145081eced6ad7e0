package types

import (
	"bytes"
	"crypto/sha256"
)

// WhitelistLeaf hashes a caller address into a whitelist tree leaf.
func WhitelistLeaf(address string) [32]byte {
	return sha256.Sum256([]byte(address))
}

// VerifyWhitelist checks a sorted-pair merkle proof for leaf against root.
// A zero root means the pool has no whitelist and every caller passes.
//
// Each level hashes the pair in byte order, so proofs carry no position
// bits and the tree is order-independent.
func VerifyWhitelist(root [32]byte, leaf [32]byte, proof [][32]byte) bool {
	if root == ZeroRoot {
		return true
	}

	current := leaf
	for _, sibling := range proof {
		if bytes.Compare(current[:], sibling[:]) <= 0 {
			current = sha256.Sum256(append(current[:], sibling[:]...))
		} else {
			current = sha256.Sum256(append(sibling[:], current[:]...))
		}
	}
	return current == root
}
