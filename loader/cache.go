package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
)

// parseCache holds parsed dictionaries keyed by the xxHash64 fingerprint of
// the raw dictionary bytes. The intermediate form is dial-independent and
// read-only after parsing, so one entry serves every protocol configuration
// of the same document.
var parseCache = struct {
	mu    sync.RWMutex
	dicts map[uint64]*dictionary
}{dicts: make(map[uint64]*dictionary)}

// Fingerprint computes the xxHash64 content fingerprint used as the cache
// key for dictionary bytes.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

func cachedParse(data []byte, parse func([]byte) (*dictionary, error)) (*dictionary, error) {
	key := Fingerprint(data)

	parseCache.mu.RLock()
	dict, ok := parseCache.dicts[key]
	parseCache.mu.RUnlock()
	if ok {
		return dict, nil
	}

	dict, err := parse(data)
	if err != nil {
		return nil, err
	}

	parseCache.mu.Lock()
	parseCache.dicts[key] = dict
	parseCache.mu.Unlock()

	return dict, nil
}

// readDictionaryFile reads a dictionary file, decompressing it when the path
// carries a ".gz" suffix.
func readDictionaryFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return data, nil
	}

	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s is not a gzip stream: %w", path, err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}

	return raw, nil
}
