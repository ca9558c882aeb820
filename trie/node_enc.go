// Copyright 2022 The go-ethereum Authors
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
	"github.com/ethereum/go-ethereum/rlp"
)

// nodeToBytes produces the canonical serialization of a node. The encoding of
// a given node is unique, which the hash-based addressing relies on.
func nodeToBytes(n node) []byte {
	w := rlp.NewEncoderBuffer(nil)
	n.encode(w)
	result := w.ToBytes()
	w.Flush()
	return result
}

func (n *leafNode) encode(w rlp.EncoderBuffer) {
	offset := w.List()
	w.WriteBytes(hexPrefixEncode(n.Suffix, true))
	w.WriteBytes(n.Val)
	w.ListEnd(offset)
}

func (n *extensionNode) encode(w rlp.EncoderBuffer) {
	offset := w.List()
	w.WriteBytes(hexPrefixEncode(n.Suffix, false))
	n.Child.encode(w)
	w.ListEnd(offset)
}

func (n *branchNode) encode(w rlp.EncoderBuffer) {
	offset := w.List()
	for _, c := range &n.Children {
		c.encode(w)
	}
	w.WriteBytes(n.Val)
	w.ListEnd(offset)
}

func (r Ref) encode(w rlp.EncoderBuffer) {
	switch {
	case r.hashed:
		w.WriteBytes(r.data)
	case len(r.data) > 0:
		w.Write(r.data) // already a valid encoding, embed verbatim
	default:
		w.Write(rlp.EmptyString)
	}
}
