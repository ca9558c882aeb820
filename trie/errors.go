package trie

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// MissingNodeError is returned when a hash reference has no entry in the
// backing store. The trie is either pruned past the requested root or the
// store is inconsistent; the in-flight operation cannot proceed and there is
// no point retrying.
type MissingNodeError struct {
	NodeHash common.Hash
	Path     []byte // nibble path from the root to the missing node
}

func (self *MissingNodeError) Error() string {
	return fmt.Sprintf("missing trie node %x (path %x)", self.NodeHash, self.Path)
}

// CorruptNodeError is returned when stored bytes do not decode into any node
// shape.
type CorruptNodeError struct {
	NodeHash common.Hash
	Err      error
}

func (self *CorruptNodeError) Error() string {
	return fmt.Sprintf("corrupt trie node %x: %v", self.NodeHash, self.Err)
}

func (self *CorruptNodeError) Unwrap() error {
	return self.Err
}

// OddLengthError is returned when a nibble sequence of odd length is packed
// into bytes.
type OddLengthError struct {
	Length int
}

func (self *OddLengthError) Error() string {
	return fmt.Sprintf("nibble sequence of odd length %d cannot be packed into bytes", self.Length)
}

// MalformedPathError is returned for a hex-prefix path with a flag nibble
// outside {0,1,2,3}, or with no flag byte at all.
type MalformedPathError struct {
	Path []byte
}

func (self *MalformedPathError) Error() string {
	return fmt.Sprintf("malformed hex-prefix path %x", self.Path)
}
