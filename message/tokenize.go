package message

import "bytes"

// tagValue is one wire record: the ASCII decimal tag and the raw value bytes.
type tagValue struct {
	tag   []byte
	value []byte
}

// tokenize splits a framed buffer into its (tag, value) records. The buffer
// ends with a separator, so the trailing empty element of the split is
// discarded. No semantic validation happens here.
func tokenize(buf []byte, sep byte) []tagValue {
	items := bytes.Split(buf, []byte{sep})
	items = items[:len(items)-1]

	pairs := make([]tagValue, len(items))
	for i, item := range items {
		tag, value, _ := bytes.Cut(item, []byte{'='})
		pairs[i] = tagValue{tag: tag, value: value}
	}

	return pairs
}
