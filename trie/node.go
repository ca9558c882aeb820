// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package trie

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// node is one of leafNode, extensionNode and branchNode. The empty trie is a
// nil node. Each variant carries only the fields its shape has; children are
// held as Refs, never as in-memory child pointers, so a decoded node never
// pins a subtree.
type node interface {
	encode(w rlp.EncoderBuffer)
	fstring(ind string) string
}

type leafNode struct {
	Suffix []byte // nibbles remaining from this point to the key
	Val    []byte
}

type extensionNode struct {
	Suffix []byte // shared prefix nibbles, never empty
	Child  Ref    // never empty, never another extension
}

type branchNode struct {
	Children [16]Ref
	Val      []byte // value for the key ending at this branch, nil if absent
}

func (n *branchNode) copy() *branchNode { c := *n; return &c }

// Ref refers to a node: nothing at all, the node's encoding inlined (when it
// is shorter than a hash), or the keccak hash the encoding is stored under.
type Ref struct {
	data   []byte
	hashed bool
}

func (r Ref) Empty() bool  { return len(r.data) == 0 }
func (r Ref) IsHash() bool { return r.hashed }

// Hash returns the store key of a hashed ref.
func (r Ref) Hash() common.Hash { return common.BytesToHash(r.data) }

func hashRef(h common.Hash) Ref { return Ref{data: h[:], hashed: true} }
func inlineRef(enc []byte) Ref  { return Ref{data: enc} }

func (n *leafNode) String() string      { return n.fstring("") }
func (n *extensionNode) String() string { return n.fstring("") }
func (n *branchNode) String() string    { return n.fstring("") }

func (n *leafNode) fstring(ind string) string {
	return fmt.Sprintf("{%x: %x} ", n.Suffix, n.Val)
}

func (n *extensionNode) fstring(ind string) string {
	return fmt.Sprintf("{%x: %v} ", n.Suffix, n.Child.fstring(ind+"  "))
}

var indices = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f", "[17]"}

func (n *branchNode) fstring(ind string) string {
	resp := fmt.Sprintf("[\n%s  ", ind)
	for i, c := range &n.Children {
		if c.Empty() {
			resp += fmt.Sprintf("%s: <nil> ", indices[i])
		} else {
			resp += fmt.Sprintf("%s: %v", indices[i], c.fstring(ind+"  "))
		}
	}
	if n.Val != nil {
		resp += fmt.Sprintf("%s: %x", indices[16], n.Val)
	}
	return resp + fmt.Sprintf("\n%s] ", ind)
}

func (r Ref) fstring(ind string) string {
	switch {
	case r.Empty():
		return "<nil> "
	case r.hashed:
		return fmt.Sprintf("<%x> ", r.data)
	default:
		n, err := decodeNode(common.Hash{}, r.data)
		if err != nil {
			return fmt.Sprintf("<corrupt %x> ", r.data)
		}
		return n.fstring(ind)
	}
}

// decodeNode parses the canonical encoding of a node. The hash is carried
// only for error reporting; inline nodes pass the zero hash.
func decodeNode(hash common.Hash, buf []byte) (node, error) {
	if len(buf) == 0 {
		return nil, &CorruptNodeError{NodeHash: hash, Err: fmt.Errorf("empty encoding")}
	}
	elems, _, err := rlp.SplitList(buf)
	if err != nil {
		return nil, &CorruptNodeError{NodeHash: hash, Err: err}
	}
	switch c, _ := rlp.CountValues(elems); c {
	case 2:
		n, err := decodeShort(elems)
		if err != nil {
			return nil, &CorruptNodeError{NodeHash: hash, Err: err}
		}
		return n, nil
	case 17:
		n, err := decodeBranch(elems)
		if err != nil {
			return nil, &CorruptNodeError{NodeHash: hash, Err: err}
		}
		return n, nil
	default:
		return nil, &CorruptNodeError{NodeHash: hash, Err: fmt.Errorf("invalid number of list elements: %v", c)}
	}
}

// decodeShort parses the two-element form shared by leaves and extensions;
// the hex-prefix flag disambiguates.
func decodeShort(elems []byte) (node, error) {
	kbuf, rest, err := rlp.SplitString(elems)
	if err != nil {
		return nil, err
	}
	suffix, is_leaf, err := hexPrefixDecode(kbuf)
	if err != nil {
		return nil, err
	}
	if is_leaf {
		val, _, err := rlp.SplitString(rest)
		if err != nil {
			return nil, err
		}
		return &leafNode{Suffix: suffix, Val: val}, nil
	}
	if len(suffix) == 0 {
		return nil, fmt.Errorf("extension node with empty path")
	}
	child, _, err := decodeRef(rest)
	if err != nil {
		return nil, err
	}
	if child.Empty() {
		return nil, fmt.Errorf("extension node with empty child")
	}
	return &extensionNode{Suffix: suffix, Child: child}, nil
}

func decodeBranch(elems []byte) (*branchNode, error) {
	n := new(branchNode)
	for i := 0; i < 16; i++ {
		child, rest, err := decodeRef(elems)
		if err != nil {
			return nil, fmt.Errorf("child %d: %v", i, err)
		}
		n.Children[i], elems = child, rest
	}
	val, _, err := rlp.SplitString(elems)
	if err != nil {
		return nil, err
	}
	if len(val) > 0 {
		n.Val = val
	}
	return n, nil
}

func decodeRef(buf []byte) (Ref, []byte, error) {
	kind, val, rest, err := rlp.Split(buf)
	if err != nil {
		return Ref{}, buf, err
	}
	switch {
	case kind == rlp.List:
		// 'embedded' node reference. The encoding must be smaller than a
		// hash in order to be valid.
		if size := len(buf) - len(rest); size > common.HashLength {
			return Ref{}, buf, fmt.Errorf("oversized embedded node (size is %d bytes, want size < %d)", size, common.HashLength)
		}
		return inlineRef(buf[:len(buf)-len(rest)]), rest, nil
	case kind == rlp.String && len(val) == 0:
		return Ref{}, rest, nil
	case kind == rlp.String && len(val) == common.HashLength:
		return hashRef(common.BytesToHash(val)), rest, nil
	default:
		return Ref{}, buf, fmt.Errorf("invalid RLP string size %d (want 0 or 32)", len(val))
	}
}
