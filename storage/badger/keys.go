package badger

import (
	"encoding/binary"

	"github.com/poiesic/sandhi/core"
)

// Key prefixes for different data types
const (
	ruleRecordPrefix = "rulrec"
	ruleKeyPrefix    = "rulkey"
	ruleIDSeq        = "rulseq"
	ruleGenSeq       = "rulgenseq"
	activeGenKey     = "rulgen"
	manifestPrefix   = "manifest"
)

// keySeparator ends the combined form in index keys so that the key "a"
// does not match entries for "ai".
const keySeparator = 0x00

// Rule keys carry the generation they belong to. Only the active
// generation is visible to readers.

// makeGenerationPrefix generates the prefix shared by all keys of a generation.
// Format: prefix:gen
func makeGenerationPrefix(prefix string, gen uint64) []byte {
	buf := make([]byte, len(prefix)+1+8)
	offset := copy(buf, prefix+":")
	binary.BigEndian.PutUint64(buf[offset:], gen)
	return buf
}

// makeRuleKey generates a key for a rule by ID.
// Format: prefix:gen id
// The ID is written BigEndian so lexicographic order equals insertion order.
func makeRuleKey(gen uint64, id core.ID) []byte {
	return binary.BigEndian.AppendUint64(makeGenerationPrefix(ruleRecordPrefix, gen), uint64(id))
}

// makeRuleKeyIndexKey generates a composite key for the combined form index.
// Format: prefix:gen combined\x00id
func makeRuleKeyIndexKey(gen uint64, combined string, id core.ID) []byte {
	return binary.BigEndian.AppendUint64(makePartialRuleKeyIndexKey(gen, combined), uint64(id))
}

// makePartialRuleKeyIndexKey generates a partial key for combined form queries.
// Format: prefix:gen combined\x00
func makePartialRuleKeyIndexKey(gen uint64, combined string) []byte {
	buf := makeGenerationPrefix(ruleKeyPrefix, gen)
	buf = append(buf, combined...)
	return append(buf, keySeparator)
}

// makeManifestKey generates a key for the manifest of a rule source.
func makeManifestKey(source string) []byte {
	return []byte(manifestPrefix + ":" + source)
}

func encodeGeneration(gen uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, gen)
}

func decodeGeneration(val []byte) (uint64, bool) {
	if len(val) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(val), true
}
