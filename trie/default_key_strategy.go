package trie

type DefaultKeyStrategy byte

func (DefaultKeyStrategy) MapKey(key []byte) (mpt_key []byte, err error) {
	return key, nil
}
