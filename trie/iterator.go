package trie

// Iterator walks all key/value pairs of a trie in key order. It resolves
// nodes lazily and never mutates the trie, so it can run against a root that
// another Trie keeps deriving from. For a key-hashing trie the reported keys
// are the hashed ones.
type Iterator struct {
	// Key and Value of the pair the iterator currently points at. Valid
	// until the next call to Next.
	Key   []byte
	Value []byte
	// Err terminates the walk when resolution or decoding fails.
	Err error

	trie    *Trie
	stack   []*iterState
	started bool
}

type iterState struct {
	n      node
	prefix []byte // nibble path from the root to this node
	child  int    // next branch slot to visit, -1 before the branch value
}

func (self *Trie) NewIterator() *Iterator {
	return &Iterator{trie: self}
}

// Next advances to the following pair in key order, returning false when the
// walk is exhausted or failed.
func (self *Iterator) Next() bool {
	if self.Err != nil {
		return false
	}
	if !self.started {
		self.started = true
		if self.trie.root.Empty() {
			return false
		}
		root, err := self.trie.resolveRef(self.trie.root, nil)
		if err != nil {
			self.Err = err
			return false
		}
		self.stack = append(self.stack, &iterState{n: root, child: -1})
	}
	for len(self.stack) > 0 {
		st := self.stack[len(self.stack)-1]
		switch n := st.n.(type) {
		case *leafNode:
			self.pop()
			return self.emit(concat(st.prefix, n.Suffix...), n.Val)
		case *extensionNode:
			self.pop()
			if !self.push(n.Child, concat(st.prefix, n.Suffix...)) {
				return false
			}
		case *branchNode:
			if st.child == -1 {
				st.child = 0
				if n.Val != nil {
					// a key ending exactly here sorts before all child keys
					return self.emit(st.prefix, n.Val)
				}
			}
			descended := false
			for st.child < 16 {
				i := st.child
				st.child++
				if !n.Children[i].Empty() {
					if !self.push(n.Children[i], concat(st.prefix, byte(i))) {
						return false
					}
					descended = true
					break
				}
			}
			if !descended && st.child >= 16 {
				self.pop()
			}
		}
	}
	return false
}

func (self *Iterator) pop() {
	self.stack = self.stack[:len(self.stack)-1]
}

func (self *Iterator) push(ref Ref, prefix []byte) bool {
	n, err := self.trie.resolveRef(ref, prefix)
	if err != nil {
		self.Err = err
		return false
	}
	self.stack = append(self.stack, &iterState{n: n, prefix: prefix, child: -1})
	return true
}

func (self *Iterator) emit(path []byte, val []byte) bool {
	key, err := nibblesToBytes(path)
	if err != nil {
		self.Err = err
		return false
	}
	self.Key = key
	self.Value = val
	return true
}
