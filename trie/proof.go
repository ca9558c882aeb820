// Copyright 2015 The go-ethereum Authors
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
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/layer1-project/mpt/ethdb"
)

// Prove writes the merkle proof for key into proof_db: the encodings of all
// hash-referenced nodes on the path from the root towards key, keyed by their
// hash. Inline nodes travel embedded in their parents and are not separate
// proof elements. If the trie does not contain key, the proof ends at the
// deepest node on the diverging path, which proves absence. With from_level
// set, that many path elements are omitted from the top.
func (self *Trie) Prove(key []byte, from_level uint, proof_db ethdb.Putter) error {
	mpt_key, err := self.strat.MapKey(key)
	if err != nil {
		return err
	}
	k := bytesToNibbles(mpt_key)
	ref, pos := self.root, 0
	for !ref.Empty() {
		n, err := self.resolveRef(ref, k[:pos])
		if err != nil {
			return err
		}
		if ref.IsHash() {
			if from_level > 0 {
				from_level--
			} else {
				if err := proof_db.Put(ref.data, nodeToBytes(n)); err != nil {
					return err
				}
			}
		}
		switch n := n.(type) {
		case *leafNode:
			ref = Ref{}
		case *extensionNode:
			if len(k)-pos < len(n.Suffix) || !bytes.Equal(n.Suffix, k[pos:pos+len(n.Suffix)]) {
				ref = Ref{}
			} else {
				pos += len(n.Suffix)
				ref = n.Child
			}
		case *branchNode:
			if pos == len(k) {
				ref = Ref{}
			} else {
				ref = n.Children[k[pos]]
				pos++
			}
		}
	}
	return nil
}

// VerifyProof checks a proof produced by Prove against a known root hash and
// returns the proven value, or nil if the proof shows the key to be absent.
// The key must already be in its stored form; callers of a key-hashing trie
// pass the hashed key.
func VerifyProof(root_hash common.Hash, key []byte, proof_db ethdb.Getter) ([]byte, error) {
	k := bytesToNibbles(key)
	want := root_hash
	for i := 0; ; i++ {
		buf, _ := proof_db.Get(want[:])
		if len(buf) == 0 {
			return nil, fmt.Errorf("proof node %d (hash %064x) missing", i, want)
		}
		n, err := decodeNode(want, buf)
		if err != nil {
			return nil, err
		}
		rest, next, val, err := proofStep(n, k)
		if err != nil {
			return nil, err
		}
		if next.Empty() {
			return val, nil
		}
		k, want = rest, next.Hash()
	}
}

// proofStep walks as far into a single proof element as possible, through any
// inline children, and reports either the terminal value (next is empty; a
// nil value proves absence) or the hash of the next proof element.
func proofStep(n node, key []byte) (rest []byte, next Ref, val []byte, err error) {
	for {
		var ref Ref
		switch n := n.(type) {
		case *leafNode:
			if bytes.Equal(n.Suffix, key) {
				return nil, Ref{}, n.Val, nil
			}
			return nil, Ref{}, nil, nil
		case *extensionNode:
			if len(key) < len(n.Suffix) || !bytes.Equal(n.Suffix, key[:len(n.Suffix)]) {
				return nil, Ref{}, nil, nil
			}
			key = key[len(n.Suffix):]
			ref = n.Child
		case *branchNode:
			if len(key) == 0 {
				return nil, Ref{}, n.Val, nil
			}
			ref = n.Children[key[0]]
			key = key[1:]
		}
		switch {
		case ref.Empty():
			return nil, Ref{}, nil, nil
		case ref.IsHash():
			return key, ref, nil, nil
		default:
			if n, err = decodeNode(common.Hash{}, ref.data); err != nil {
				return nil, Ref{}, nil, err
			}
		}
	}
}
