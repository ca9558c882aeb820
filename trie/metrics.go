package trie

import "github.com/ethereum/go-ethereum/metrics"

var cache_miss_cnt = metrics.NewRegisteredCounter("trie/cachemiss", nil)
var node_read_cnt = metrics.NewRegisteredCounter("trie/noderead", nil)
var node_write_cnt = metrics.NewRegisteredCounter("trie/nodewrite", nil)

func CacheMisses() int64 {
	return cache_miss_cnt.Count()
}

func NodeReads() int64 {
	return node_read_cnt.Count()
}

func NodeWrites() int64 {
	return node_write_cnt.Count()
}
