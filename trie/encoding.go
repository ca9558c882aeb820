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

// Trie keys are dealt with in two distinct encodings:
//
// NIBBLES encoding contains one byte in [0,15] for each half-byte of the key,
// high nibble first. It is the working representation for all in-memory paths.
//
// HEX-PREFIX (compact) encoding is defined by the Ethereum Yellow Paper and
// contains the nibbles of a path packed back into bytes behind a flag nibble.
// The flag encodes whether the path terminates in a leaf and whether the
// nibble count is odd; an odd path keeps its first nibble in the low half of
// the flag byte. Hex-prefix encoding is used for the paths of serialized leaf
// and extension nodes, never for branches.

const (
	hpOddFlag  = 0x10
	hpLeafFlag = 0x20
)

// bytesToNibbles expands key bytes into nibbles, high half first.
func bytesToNibbles(str []byte) []byte {
	nibbles := make([]byte, len(str)*2)
	for i, b := range str {
		nibbles[i*2] = b / 16
		nibbles[i*2+1] = b % 16
	}
	return nibbles
}

// nibblesToBytes packs a nibble sequence back into bytes. The sequence must
// contain whole nibble pairs.
func nibblesToBytes(nibbles []byte) ([]byte, error) {
	if len(nibbles)&1 != 0 {
		return nil, &OddLengthError{Length: len(nibbles)}
	}
	str := make([]byte, len(nibbles)/2)
	packNibbles(nibbles, str)
	return str, nil
}

func packNibbles(nibbles []byte, str []byte) {
	for bi, ni := 0, 0; ni < len(nibbles); bi, ni = bi+1, ni+2 {
		str[bi] = nibbles[ni]<<4 | nibbles[ni+1]
	}
}

// hexPrefixEncode packs a nibble path into hex-prefix form, marking it as
// leaf-terminating or not.
func hexPrefixEncode(nibbles []byte, is_leaf bool) []byte {
	ret := make([]byte, len(nibbles)/2+1)
	if is_leaf {
		ret[0] = hpLeafFlag
	}
	if len(nibbles)&1 == 1 {
		ret[0] |= hpOddFlag | nibbles[0] // first nibble rides in the flag byte
		nibbles = nibbles[1:]
	}
	packNibbles(nibbles, ret[1:])
	return ret
}

// hexPrefixDecode is the inverse of hexPrefixEncode.
func hexPrefixDecode(compact []byte) (nibbles []byte, is_leaf bool, err error) {
	if len(compact) == 0 {
		return nil, false, &MalformedPathError{Path: compact}
	}
	flag := compact[0] >> 4
	if flag > 3 {
		return nil, false, &MalformedPathError{Path: compact}
	}
	is_leaf = flag&2 != 0
	nibbles = bytesToNibbles(compact)
	if flag&1 == 1 {
		nibbles = nibbles[1:] // odd length, low half of the flag byte counts
	} else {
		nibbles = nibbles[2:]
	}
	return nibbles, is_leaf, nil
}

// prefixLen returns the length of the common prefix of a and b.
func prefixLen(a, b []byte) int {
	var i, length = 0, len(a)
	if len(b) < length {
		length = len(b)
	}
	for ; i < length; i++ {
		if a[i] != b[i] {
			break
		}
	}
	return i
}

// concat returns s1 ++ s2 in a fresh slice. Paths are shared between nodes,
// so merging suffixes must never append in place.
func concat(s1 []byte, s2 ...byte) []byte {
	r := make([]byte, len(s1)+len(s2))
	copy(r, s1)
	copy(r[len(s1):], s2)
	return r
}
