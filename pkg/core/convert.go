package core

import "github.com/evotext/evotext-go/pkg/storage"

// fromStorageRecord converts a storage.Record to core.Record.
//
// This function is used internally to convert between package types.
func fromStorageRecord(r *storage.Record) *Record {
	return &Record{
		ID:        r.ID,
		Content:   r.Content,
		Embedding: r.Embedding,
		Response:  r.Response,
		CreatedAt: r.CreatedAt,
	}
}

// fromStorageRecords converts a slice of storage.Record to a slice of
// core.Record.
func fromStorageRecords(records []*storage.Record) []*Record {
	result := make([]*Record, len(records))
	for i, r := range records {
		result[i] = fromStorageRecord(r)
	}
	return result
}
