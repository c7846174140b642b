package cluster

import "github.com/rotisserie/eris"

// MaxGroupIndex is the largest group index the two-letter encoding can
// represent ("ZZ").
const MaxGroupIndex = 26*26 - 1

// GroupID encodes a group index as a two-letter identifier using base-26
// positional encoding: 0="AA", 1="AB", 25="AZ", 26="BA", 675="ZZ". Indexes
// beyond MaxGroupIndex would push the first letter past 'Z', so they are
// rejected rather than silently wrapped.
func GroupID(n int) (string, error) {
	if n < 0 || n > MaxGroupIndex {
		return "", eris.Errorf("cluster: group index %d out of range [0, %d]", n, MaxGroupIndex)
	}
	return string([]byte{byte('A' + n/26), byte('A' + n%26)}), nil
}

// ParseGroupID decodes a two-letter group identifier back to its index.
func ParseGroupID(id string) (int, error) {
	if len(id) != 2 {
		return 0, eris.Errorf("cluster: group id %q must be two letters", id)
	}
	hi, lo := id[0], id[1]
	if hi < 'A' || hi > 'Z' || lo < 'A' || lo > 'Z' {
		return 0, eris.Errorf("cluster: group id %q must be two letters A-Z", id)
	}
	return int(hi-'A')*26 + int(lo-'A'), nil
}
