// Package snapshot encodes the record list in the storage item shape
// {imei, code, serial, at} shared by every persistence adapter.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"labelkit/internal/domain/labels"
)

// Key is the storage key the record list lives under.
const Key = "labels_items_v1"

type item struct {
	IMEI   string `json:"imei"`
	Code   string `json:"code"`
	Serial string `json:"serial"`
	At     int64  `json:"at"` // unix milliseconds
}

// Encode serializes records in store order.
func Encode(records []labels.Record) ([]byte, error) {
	items := make([]item, len(records))
	for i, r := range records {
		items[i] = item{
			IMEI:   r.Identifier,
			Code:   r.PrefixCode,
			Serial: r.Serial,
		}
		if !r.CreatedAt.IsZero() {
			items[i].At = r.CreatedAt.UnixMilli()
		}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot. Empty input and JSON null decode to an empty list.
func Decode(data []byte) ([]labels.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []labels.Record{}, nil
	}

	var items []item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	records := make([]labels.Record, len(items))
	for i, it := range items {
		records[i] = labels.Record{
			Identifier: it.IMEI,
			PrefixCode: it.Code,
			Serial:     it.Serial,
		}
		if it.At != 0 {
			records[i].CreatedAt = time.UnixMilli(it.At).UTC()
		}
	}
	return records, nil
}
