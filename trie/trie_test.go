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
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/layer1-project/mpt/ethdb"
)

func newEmpty() *Trie {
	tr, err := New(nil, ethdb.NewMemDatabase(), 0, nil)
	if err != nil {
		panic(err)
	}
	return tr
}

func updateString(t *testing.T, tr *Trie, k, v string) {
	require.NoError(t, tr.Insert([]byte(k), []byte(v)))
}

func deleteString(t *testing.T, tr *Trie, k string) {
	require.NoError(t, tr.Delete([]byte(k)))
}

func getString(t *testing.T, tr *Trie, k string) []byte {
	v, err := tr.Get([]byte(k))
	require.NoError(t, err)
	return v
}

func TestEmptyTrie(t *testing.T) {
	tr := newEmpty()
	require.Equal(t, emptyRoot, tr.Hash())
}

func TestNull(t *testing.T) {
	tr := newEmpty()
	updateString(t, tr, "test", "test")
	require.Nil(t, getString(t, tr, "missing"))
	require.Equal(t, []byte("test"), getString(t, tr, "test"))
}

func TestInsert(t *testing.T) {
	tr := newEmpty()
	updateString(t, tr, "doe", "reindeer")
	updateString(t, tr, "dog", "puppy")
	updateString(t, tr, "dogglesworth", "cat")

	exp := common.HexToHash("8aad789dff2f538bca5d8ea56e8abe10f4c7ba3a5dea95fea4cd6e7c3a1168d3")
	require.Equal(t, exp, tr.Hash())

	tr = newEmpty()
	updateString(t, tr, "A", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	exp = common.HexToHash("d23786fb4a010da3ce639d66d5e904a11dbc02746d1ce25029e53290cabf28ab")
	require.Equal(t, exp, tr.Hash())
}

func TestGet(t *testing.T) {
	tr := newEmpty()
	updateString(t, tr, "doe", "reindeer")
	updateString(t, tr, "dog", "puppy")
	updateString(t, tr, "dogglesworth", "cat")

	require.Equal(t, []byte("puppy"), getString(t, tr, "dog"))
	require.Equal(t, []byte("cat"), getString(t, tr, "dogglesworth"))
	require.Nil(t, getString(t, tr, "unknown"))
	require.Nil(t, getString(t, tr, "do")) // prefix of a stored key, but absent
}

func TestDelete(t *testing.T) {
	tr := newEmpty()
	vals := []struct{ k, v string }{
		{"do", "verb"},
		{"ether", "wookiedoo"},
		{"horse", "stallion"},
		{"shaman", "horse"},
		{"doge", "coin"},
		{"ether", ""},
		{"dog", "puppy"},
		{"shaman", ""},
	}
	for _, val := range vals {
		if val.v != "" {
			updateString(t, tr, val.k, val.v)
		} else {
			deleteString(t, tr, val.k)
		}
	}

	exp := common.HexToHash("5991bb8c6514148a29db676a14ac506cd2cd5775ace63c30a4fe457715e9ac84")
	require.Equal(t, exp, tr.Hash())
}

// Inserting an empty value is a deletion and must produce the same root as
// an explicit delete.
func TestEmptyValues(t *testing.T) {
	tr := newEmpty()
	vals := []struct{ k, v string }{
		{"do", "verb"},
		{"ether", "wookiedoo"},
		{"horse", "stallion"},
		{"shaman", "horse"},
		{"doge", "coin"},
		{"ether", ""},
		{"dog", "puppy"},
		{"shaman", ""},
	}
	for _, val := range vals {
		updateString(t, tr, val.k, val.v)
	}

	exp := common.HexToHash("5991bb8c6514148a29db676a14ac506cd2cd5775ace63c30a4fe457715e9ac84")
	require.Equal(t, exp, tr.Hash())
}

func TestDeleteAbsentKey(t *testing.T) {
	tr := newEmpty()
	updateString(t, tr, "dog", "puppy")
	root := tr.Hash()

	deleteString(t, tr, "doge")
	deleteString(t, tr, "d")
	deleteString(t, tr, "unrelated")
	require.Equal(t, root, tr.Hash())

	empty := newEmpty()
	require.NoError(t, empty.Delete([]byte("anything")))
	require.Equal(t, emptyRoot, empty.Hash())
}

func TestIdempotentReinsert(t *testing.T) {
	tr := newEmpty()
	updateString(t, tr, "dog", "puppy")
	updateString(t, tr, "doge", "coin")
	root := tr.Hash()

	updateString(t, tr, "dog", "puppy")
	require.Equal(t, root, tr.Hash())
}

// The root hash must not depend on insertion order.
func TestInsertOrderIndependence(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	keys := make([][]byte, 40)
	for i := range keys {
		keys[i] = make([]byte, 1+rnd.Intn(8))
		rnd.Read(keys[i])
	}
	value := func(k []byte) []byte {
		return append([]byte("value of "), k...)
	}

	var want common.Hash
	for round := 0; round < 5; round++ {
		tr := newEmpty()
		for _, i := range rnd.Perm(len(keys)) {
			require.NoError(t, tr.Insert(keys[i], value(keys[i])))
		}
		if round == 0 {
			want = tr.Hash()
			continue
		}
		require.Equal(t, want, tr.Hash(), "insertion order changed the root")
	}
}

// Deleting a key must restore the exact root hash from before its insertion.
func TestDeleteInverse(t *testing.T) {
	tr := newEmpty()
	updateString(t, tr, "do", "verb")
	updateString(t, tr, "dog", "puppy")
	updateString(t, tr, "horse", "stallion")
	root := tr.Hash()

	updateString(t, tr, "doge", "coin")
	require.NotEqual(t, root, tr.Hash())

	deleteString(t, tr, "doge")
	require.Nil(t, getString(t, tr, "doge"))
	require.Equal(t, root, tr.Hash())
}

// Deleting down to one key must leave the canonical single-leaf shape, not
// merely a trie with correct lookups.
func TestBranchCollapse(t *testing.T) {
	tr := newEmpty()
	keys := [][]byte{{0x00, 0x00}, {0x00, 0x01}, {0x00, 0x10}}
	for i, k := range keys {
		require.NoError(t, tr.Insert(k, []byte{byte(0xa0 + i)}))
	}
	require.NoError(t, tr.Delete(keys[1]))
	require.NoError(t, tr.Delete(keys[2]))

	want := newEmpty()
	require.NoError(t, want.Insert(keys[0], []byte{0xa0}))

	if tr.Hash() != want.Hash() {
		t.Fatalf("collapsed trie is not canonical:\nhave %s\nwant %s", spew.Sdump(tr), spew.Sdump(want))
	}
	require.Equal(t, []byte{0xa0}, getString(t, tr, string(keys[0])))
}

// Insert then delete of a large random batch must drain back to the empty
// root, exercising every collapse transition on the way.
func TestRandomInsertDelete(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	kvs := make(map[string][]byte)
	for len(kvs) < 60 {
		k := make([]byte, 1+rnd.Intn(6))
		rnd.Read(k)
		kvs[string(k)] = []byte(fmt.Sprintf("val-%d", len(kvs)))
	}

	tr := newEmpty()
	for k, v := range kvs {
		require.NoError(t, tr.Insert([]byte(k), v))
	}
	for k, v := range kvs {
		require.Equal(t, v, getString(t, tr, k))
	}
	for k := range kvs {
		require.NoError(t, tr.Delete([]byte(k)))
		require.Nil(t, getString(t, tr, k))
	}
	require.Equal(t, emptyRoot, tr.Hash())
}

func TestMissingNode(t *testing.T) {
	db := ethdb.NewMemDatabase()
	bogus := common.HexToHash("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")

	_, err := New(&bogus, db, 0, nil)
	var missing *MissingNodeError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, bogus, missing.NodeHash)
}

func TestCorruptNode(t *testing.T) {
	db := ethdb.NewMemDatabase()
	bogus := common.HexToHash("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	require.NoError(t, db.Put(bogus[:], []byte{0x01, 0x02, 0x03}))

	_, err := New(&bogus, db, 0, nil)
	var corrupt *CorruptNodeError
	require.True(t, errors.As(err, &corrupt))
}

func TestReopen(t *testing.T) {
	db := ethdb.NewMemDatabase()
	tr, err := New(nil, db, 0, nil)
	require.NoError(t, err)
	updateString(t, tr, "doe", "reindeer")
	updateString(t, tr, "dog", "puppy")
	root := tr.Hash()

	reopened, err := New(&root, db, 0, nil)
	require.NoError(t, err)
	require.Equal(t, []byte("reindeer"), getString(t, reopened, "doe"))
	require.Equal(t, []byte("puppy"), getString(t, reopened, "dog"))
	require.Equal(t, root, reopened.Hash())
}

// A reader holding an older root must keep seeing the old content while a
// writer derives new roots on the same store.
func TestOldRootStaysReadable(t *testing.T) {
	db := ethdb.NewMemDatabase()
	writer, err := New(nil, db, 0, nil)
	require.NoError(t, err)
	updateString(t, writer, "alpha", "1")
	updateString(t, writer, "beta", "2")
	old := writer.Hash()

	updateString(t, writer, "gamma", "3")
	deleteString(t, writer, "alpha")

	reader, err := New(&old, db, 0, nil)
	require.NoError(t, err)
	require.Equal(t, []byte("1"), getString(t, reader, "alpha"))
	require.Equal(t, []byte("2"), getString(t, reader, "beta"))
	require.Nil(t, getString(t, reader, "gamma"))
	require.Equal(t, old, reader.Hash())
}

// A node-caching trie must behave exactly like an uncached one.
func TestNodeCacheTransparency(t *testing.T) {
	plain := newEmpty()
	cached, err := New(nil, ethdb.NewMemDatabase(), 16, nil)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		k := make([]byte, 1+rnd.Intn(5))
		rnd.Read(k)
		v := []byte(fmt.Sprintf("v%d", i))
		require.NoError(t, plain.Insert(k, v))
		require.NoError(t, cached.Insert(k, v))
		require.Equal(t, plain.Hash(), cached.Hash())
	}
}

func TestSecureTrie(t *testing.T) {
	db := ethdb.NewMemDatabase()
	tr, err := NewSecure(nil, db, 0)
	require.NoError(t, err)
	updateString(t, tr, "foo", "bar")
	updateString(t, tr, "food", "baz")

	require.Equal(t, []byte("bar"), getString(t, tr, "foo"))
	require.Equal(t, []byte("baz"), getString(t, tr, "food"))

	plain := newEmpty()
	updateString(t, plain, "foo", "bar")
	updateString(t, plain, "food", "baz")
	require.NotEqual(t, plain.Hash(), tr.Hash())

	root := tr.Hash()
	reopened, err := NewSecure(&root, db, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("bar"), getString(t, reopened, "foo"))
}

// Values returned by Get must be detached from the trie internals.
func TestGetDetachesValue(t *testing.T) {
	tr := newEmpty()
	updateString(t, tr, "dog", "puppy")
	v := getString(t, tr, "dog")
	v[0] = 'x'
	require.Equal(t, []byte("puppy"), getString(t, tr, "dog"))
}

func TestKeyPrefixOfOtherKey(t *testing.T) {
	tr := newEmpty()
	updateString(t, tr, "do", "verb")
	updateString(t, tr, "dog", "puppy")
	updateString(t, tr, "dogglesworth", "cat")

	require.Equal(t, []byte("verb"), getString(t, tr, "do"))
	require.Equal(t, []byte("puppy"), getString(t, tr, "dog"))

	// deleting the middle key keeps both neighbours intact
	deleteString(t, tr, "dog")
	require.Nil(t, getString(t, tr, "dog"))
	require.Equal(t, []byte("verb"), getString(t, tr, "do"))
	require.Equal(t, []byte("cat"), getString(t, tr, "dogglesworth"))

	if !bytes.Equal(getString(t, tr, "dogglesworth"), []byte("cat")) {
		t.Fatal("unreachable")
	}
}
