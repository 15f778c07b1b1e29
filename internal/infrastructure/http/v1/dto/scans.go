package dto

import (
	"time"

	"labelkit/internal/domain/scan"
)

// ScanResponse reports a scan session.
type ScanResponse struct {
	ID         string    `json:"id"`
	Backend    string    `json:"backend"`
	Status     string    `json:"status"`
	Identifier string    `json:"identifier,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
}

// FromSession snapshots a session's state.
func FromSession(s *scan.Session) ScanResponse {
	status, identifier, err := s.Status()
	out := ScanResponse{
		ID:         s.ID().String(),
		Backend:    s.Backend(),
		Status:     string(status),
		Identifier: identifier,
		StartedAt:  s.StartedAt(),
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}

// ScanListResponse lists tracked sessions and backend availability.
type ScanListResponse struct {
	Items    []ScanResponse  `json:"items"`
	Backends map[string]bool `json:"backends"`
}
