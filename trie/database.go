package trie

import "github.com/layer1-project/mpt/ethdb"

type Database interface {
	ethdb.Putter
	ethdb.Getter
}
