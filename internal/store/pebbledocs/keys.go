package pebbledocs

import (
	"github.com/nitishkumar0777/log-ingestor-system/pkg/id"
)

// Key layout:
//
//	doc/<16-byte id>  -> JSON-encoded LogEvent
//	docmeta/seq       -> big-endian uint64 last assigned sequence
//
// Document IDs embed the event timestamp, so ascending key order is
// ascending event-time order with insertion order as the tie-break.

var (
	docPrefix = []byte("doc/")
	seqKey    = []byte("docmeta/seq")
)

func docKey(docID id.ID) []byte {
	k := make([]byte, 0, len(docPrefix)+16)
	k = append(k, docPrefix...)
	k = append(k, docID[:]...)
	return k
}

func idFromKey(key []byte) (id.ID, bool) {
	if len(key) != len(docPrefix)+16 {
		return id.ID{}, false
	}
	var docID id.ID
	copy(docID[:], key[len(docPrefix):])
	return docID, true
}
