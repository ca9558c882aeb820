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

// Package trie implements Merkle Patricia Tries.
package trie

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
)

// emptyRoot is the known root hash of an empty trie: keccak256 of the
// canonical encoding of an empty byte string.
var emptyRoot = common.HexToHash("56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

// Trie is a Merkle Patricia Trie over a content-addressed node store.
//
// All mutations are copy-on-write: they persist new nodes and move the root
// reference, old nodes are never touched. A Trie opened on an older root
// therefore stays valid while another Trie on the same store keeps writing.
// A single Trie value is not safe for concurrent use.
type Trie struct {
	db    Database
	root  Ref
	strat KeyStrategy
	cache *lru.Cache // decoded nodes by hash, nodes are immutable
}

// KeyStrategy maps user keys to the keys actually stored in the trie.
type KeyStrategy = interface {
	MapKey(key []byte) (mpt_key []byte, err error)
}

// New opens a trie rooted at root on top of db. A nil, zero or empty-trie
// root starts an empty trie; any other root must resolve in db or a
// MissingNodeError is returned. cache_size > 0 enables an LRU cache of that
// many decoded nodes.
func New(root *common.Hash, db Database, cache_size int, strat KeyStrategy) (*Trie, error) {
	if db == nil {
		panic("trie.New: database is nil")
	}
	if strat == nil {
		strat = DefaultKeyStrategy(0)
	}
	self := &Trie{db: db, strat: strat}
	if cache_size > 0 {
		self.cache, _ = lru.New(cache_size)
	}
	if root != nil && *root != (common.Hash{}) && *root != emptyRoot {
		ref := hashRef(*root)
		if _, err := self.resolveRef(ref, nil); err != nil {
			return nil, err
		}
		self.root = ref
	}
	return self, nil
}

// NewSecure opens a trie that keccak-hashes every key before use.
func NewSecure(root *common.Hash, db Database, cache_size int) (*Trie, error) {
	return New(root, db, cache_size, KeyHashingStrategy(0))
}

// Hash returns the 32-byte root hash identifying the current content of the
// trie. The root node is always persisted under its full hash, even when its
// encoding is small enough to inline, so the returned hash can reopen the
// trie.
func (self *Trie) Hash() common.Hash {
	if self.root.Empty() {
		return emptyRoot
	}
	return self.root.Hash()
}

// Get returns the value stored under key, or nil if the key is absent.
func (self *Trie) Get(key []byte) ([]byte, error) {
	mpt_key, err := self.strat.MapKey(key)
	if err != nil {
		return nil, err
	}
	v, err := self.get(self.root, bytesToNibbles(mpt_key), 0)
	if err != nil {
		return nil, err
	}
	return common.CopyBytes(v), nil
}

func (self *Trie) get(ref Ref, key []byte, pos int) ([]byte, error) {
	if ref.Empty() {
		return nil, nil
	}
	n, err := self.resolveRef(ref, key[:pos])
	if err != nil {
		return nil, err
	}
	switch n := n.(type) {
	case *leafNode:
		if bytes.Equal(n.Suffix, key[pos:]) {
			return n.Val, nil
		}
		return nil, nil
	case *extensionNode:
		if len(key)-pos < len(n.Suffix) || !bytes.Equal(n.Suffix, key[pos:pos+len(n.Suffix)]) {
			return nil, nil
		}
		return self.get(n.Child, key, pos+len(n.Suffix))
	case *branchNode:
		if pos == len(key) {
			return n.Val, nil
		}
		return self.get(n.Children[key[pos]], key, pos+1)
	default:
		panic("impossible")
	}
}

// Insert stores value under key and moves the root. Inserting an empty value
// removes the key.
func (self *Trie) Insert(key, value []byte) error {
	if len(value) == 0 {
		return self.Delete(key)
	}
	mpt_key, err := self.strat.MapKey(key)
	if err != nil {
		return err
	}
	k := bytesToNibbles(mpt_key)
	var root node
	if !self.root.Empty() {
		if root, err = self.resolveRef(self.root, nil); err != nil {
			return err
		}
	}
	n, err := self.insert(root, k, 0, common.CopyBytes(value))
	if err != nil {
		return err
	}
	self.root, err = self.commitRoot(n)
	return err
}

func (self *Trie) insert(n node, key []byte, pos int, value []byte) (node, error) {
	switch n := n.(type) {
	case nil:
		return &leafNode{Suffix: concat(key[pos:]), Val: value}, nil

	case *leafNode:
		matchlen := prefixLen(n.Suffix, key[pos:])
		// If the whole path matches, only the value changes.
		if matchlen == len(n.Suffix) && matchlen == len(key)-pos {
			return &leafNode{Suffix: n.Suffix, Val: value}, nil
		}
		// Otherwise fork into a branch at the point of divergence, one arm
		// keeping the old payload, one the new.
		branch := new(branchNode)
		old_tail := n.Suffix[matchlen:]
		if len(old_tail) == 0 {
			branch.Val = n.Val
		} else {
			ref, err := self.commitNode(&leafNode{Suffix: concat(old_tail[1:]), Val: n.Val})
			if err != nil {
				return nil, err
			}
			branch.Children[old_tail[0]] = ref
		}
		new_tail := key[pos+matchlen:]
		if len(new_tail) == 0 {
			branch.Val = value
		} else {
			ref, err := self.commitNode(&leafNode{Suffix: concat(new_tail[1:]), Val: value})
			if err != nil {
				return nil, err
			}
			branch.Children[new_tail[0]] = ref
		}
		if matchlen == 0 {
			return branch, nil
		}
		ref, err := self.commitNode(branch)
		if err != nil {
			return nil, err
		}
		return &extensionNode{Suffix: concat(key[pos : pos+matchlen]), Child: ref}, nil

	case *extensionNode:
		matchlen := prefixLen(n.Suffix, key[pos:])
		// The whole extension matches, descend into its child.
		if matchlen == len(n.Suffix) {
			child, err := self.resolveRef(n.Child, key[:pos+matchlen])
			if err != nil {
				return nil, err
			}
			nn, err := self.insert(child, key, pos+matchlen, value)
			if err != nil {
				return nil, err
			}
			ref, err := self.commitNode(nn)
			if err != nil {
				return nil, err
			}
			return &extensionNode{Suffix: n.Suffix, Child: ref}, nil
		}
		// Fork. The non-matching part of the extension keeps pointing at the
		// old child; a single leftover nibble indexes the child directly,
		// a longer one survives as a shorter extension.
		branch := new(branchNode)
		old_tail := n.Suffix[matchlen:]
		if len(old_tail) == 1 {
			branch.Children[old_tail[0]] = n.Child
		} else {
			ref, err := self.commitNode(&extensionNode{Suffix: concat(old_tail[1:]), Child: n.Child})
			if err != nil {
				return nil, err
			}
			branch.Children[old_tail[0]] = ref
		}
		new_tail := key[pos+matchlen:]
		if len(new_tail) == 0 {
			branch.Val = value
		} else {
			ref, err := self.commitNode(&leafNode{Suffix: concat(new_tail[1:]), Val: value})
			if err != nil {
				return nil, err
			}
			branch.Children[new_tail[0]] = ref
		}
		if matchlen == 0 {
			return branch, nil
		}
		ref, err := self.commitNode(branch)
		if err != nil {
			return nil, err
		}
		return &extensionNode{Suffix: concat(key[pos : pos+matchlen]), Child: ref}, nil

	case *branchNode:
		nb := n.copy()
		if pos == len(key) {
			nb.Val = value
			return nb, nil
		}
		child, err := self.resolveRef(n.Children[key[pos]], key[:pos+1])
		if err != nil {
			return nil, err
		}
		nn, err := self.insert(child, key, pos+1, value)
		if err != nil {
			return nil, err
		}
		ref, err := self.commitNode(nn)
		if err != nil {
			return nil, err
		}
		nb.Children[key[pos]] = ref
		return nb, nil

	default:
		panic("impossible")
	}
}

// Delete removes key from the trie and moves the root. Deleting an absent
// key leaves the root untouched.
func (self *Trie) Delete(key []byte) error {
	mpt_key, err := self.strat.MapKey(key)
	if err != nil {
		return err
	}
	if self.root.Empty() {
		return nil
	}
	root, err := self.resolveRef(self.root, nil)
	if err != nil {
		return err
	}
	n, changed, err := self.remove(root, bytesToNibbles(mpt_key), 0)
	if err != nil || !changed {
		return err
	}
	if n == nil {
		self.root = Ref{}
		return nil
	}
	self.root, err = self.commitRoot(n)
	return err
}

// remove deletes key below n and restores the trie invariants on the way
// back up: a branch left with a single live slot collapses into its
// surviving child, and extensions merge with whatever short node the
// collapse produces so that no extension ever points at another extension.
func (self *Trie) remove(n node, key []byte, pos int) (node, bool, error) {
	switch n := n.(type) {
	case nil:
		return nil, false, nil

	case *leafNode:
		if bytes.Equal(n.Suffix, key[pos:]) {
			return nil, true, nil
		}
		return n, false, nil

	case *extensionNode:
		if len(key)-pos < len(n.Suffix) || !bytes.Equal(n.Suffix, key[pos:pos+len(n.Suffix)]) {
			return n, false, nil
		}
		child, err := self.resolveRef(n.Child, key[:pos+len(n.Suffix)])
		if err != nil {
			return nil, false, err
		}
		nn, changed, err := self.remove(child, key, pos+len(n.Suffix))
		if err != nil || !changed {
			return n, false, err
		}
		switch nn := nn.(type) {
		case nil:
			return nil, true, nil
		case *leafNode:
			return &leafNode{Suffix: concat(n.Suffix, nn.Suffix...), Val: nn.Val}, true, nil
		case *extensionNode:
			return &extensionNode{Suffix: concat(n.Suffix, nn.Suffix...), Child: nn.Child}, true, nil
		default:
			ref, err := self.commitNode(nn)
			if err != nil {
				return nil, false, err
			}
			return &extensionNode{Suffix: n.Suffix, Child: ref}, true, nil
		}

	case *branchNode:
		nb := n.copy()
		if pos == len(key) {
			if n.Val == nil {
				return n, false, nil
			}
			nb.Val = nil
		} else {
			child_ref := n.Children[key[pos]]
			if child_ref.Empty() {
				return n, false, nil
			}
			child, err := self.resolveRef(child_ref, key[:pos+1])
			if err != nil {
				return nil, false, err
			}
			nn, changed, err := self.remove(child, key, pos+1)
			if err != nil || !changed {
				return n, false, err
			}
			if nn == nil {
				nb.Children[key[pos]] = Ref{}
			} else {
				ref, err := self.commitNode(nn)
				if err != nil {
					return nil, false, err
				}
				nb.Children[key[pos]] = ref
			}
		}
		// Count what is left. With two or more live slots the branch is
		// still legal as is.
		live_pos, live_cnt := -1, 0
		for i, c := range &nb.Children {
			if !c.Empty() {
				live_pos = i
				live_cnt++
			}
		}
		if nb.Val != nil {
			if live_cnt == 0 {
				// Value-only branch degenerates into a leaf ending here; a
				// parent extension merges it into its own suffix.
				return &leafNode{Suffix: []byte{}, Val: nb.Val}, true, nil
			}
			return nb, true, nil
		}
		switch live_cnt {
		case 0:
			return nil, true, nil
		case 1:
			// The surviving child absorbs the branch. Short nodes take the
			// indexing nibble onto their suffix, a branch gets indexed
			// through a fresh one-nibble extension.
			child, err := self.resolveRef(nb.Children[live_pos], concat(key[:pos], byte(live_pos)))
			if err != nil {
				return nil, false, err
			}
			switch child := child.(type) {
			case *leafNode:
				return &leafNode{Suffix: concat([]byte{byte(live_pos)}, child.Suffix...), Val: child.Val}, true, nil
			case *extensionNode:
				return &extensionNode{Suffix: concat([]byte{byte(live_pos)}, child.Suffix...), Child: child.Child}, true, nil
			default:
				return &extensionNode{Suffix: []byte{byte(live_pos)}, Child: nb.Children[live_pos]}, true, nil
			}
		default:
			return nb, true, nil
		}

	default:
		panic("impossible")
	}
}

// commitNode is the single chokepoint through which nodes enter the store:
// encodings shorter than a hash stay inline in their parent, everything else
// is persisted under its keccak hash.
func (self *Trie) commitNode(n node) (Ref, error) {
	enc := nodeToBytes(n)
	if len(enc) < common.HashLength {
		return inlineRef(enc), nil
	}
	return self.store(n, enc)
}

// commitRoot persists the top node. Unlike internal nodes the root is always
// stored under its full hash, however small, so that Hash() can identify the
// trie and New can reopen it.
func (self *Trie) commitRoot(n node) (Ref, error) {
	return self.store(n, nodeToBytes(n))
}

func (self *Trie) store(n node, enc []byte) (Ref, error) {
	h := hashData(enc)
	if err := self.db.Put(h[:], enc); err != nil {
		return Ref{}, err
	}
	node_write_cnt.Inc(1)
	if self.cache != nil {
		self.cache.Add(h, n)
	}
	return hashRef(h), nil
}

// resolveRef loads the node behind ref. Inline references decode in place
// without touching the store. The prefix is the nibble path consumed so far,
// reported when the node turns out to be missing.
func (self *Trie) resolveRef(ref Ref, prefix []byte) (node, error) {
	if ref.Empty() {
		return nil, nil
	}
	if !ref.IsHash() {
		return decodeNode(common.Hash{}, ref.data)
	}
	hash := ref.Hash()
	if self.cache != nil {
		if v, ok := self.cache.Get(hash); ok {
			return v.(node), nil
		}
	}
	cache_miss_cnt.Inc(1)
	enc, err := self.db.Get(ref.data)
	if len(enc) == 0 {
		return nil, &MissingNodeError{NodeHash: hash, Path: common.CopyBytes(prefix)}
	}
	if err != nil {
		return nil, err
	}
	node_read_cnt.Inc(1)
	n, err := decodeNode(hash, enc)
	if err != nil {
		return nil, err
	}
	if self.cache != nil {
		self.cache.Add(hash, n)
	}
	return n, nil
}
