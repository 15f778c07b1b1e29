package dto

import (
	"time"

	"labelkit/internal/domain/labels"
)

// --- Request DTOs ---

// AddLabelRequest is the request body for adding a record.
type AddLabelRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	PrefixCode string `json:"prefixCode" binding:"required"`
}

// --- Response DTOs ---

// LabelResponse is one stored record with its list position.
type LabelResponse struct {
	Index      int       `json:"index"`
	Identifier string    `json:"identifier"`
	PrefixCode string    `json:"prefixCode"`
	Serial     string    `json:"serial"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromRecord converts a domain record at position index.
func FromRecord(index int, r labels.Record) LabelResponse {
	return LabelResponse{
		Index:      index,
		Identifier: r.Identifier,
		PrefixCode: r.PrefixCode,
		Serial:     r.Serial,
		CreatedAt:  r.CreatedAt,
	}
}

// LabelListResponse is the ordered record list.
type LabelListResponse struct {
	Items []LabelResponse `json:"items"`
	Total int             `json:"total"`
}

// FromRecords converts the whole list, keeping store positions.
func FromRecords(records []labels.Record) LabelListResponse {
	items := make([]LabelResponse, len(records))
	for i, r := range records {
		items[i] = FromRecord(i, r)
	}
	return LabelListResponse{Items: items, Total: len(items)}
}
