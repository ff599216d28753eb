package dto

import "time"

// AnalyzeArchiveRequest carries arbitrary structured archive data (object or
// list) for the synchronous analysis endpoint.
type AnalyzeArchiveRequest struct {
	ArchiveData interface{} `json:"archive_data" validate:"required"`
}

type AnalyzeArchiveResponse struct {
	Analysis string `json:"analysis"`
}

type RefreshResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

// LiveSessionResponse describes one active chat connection.
type LiveSessionResponse struct {
	Id          string    `json:"id"`
	ConnectedAt time.Time `json:"connected_at"`
	Turns       int       `json:"turns"`
}

type LiveSessionsResponse struct {
	Count    int                   `json:"count"`
	Sessions []LiveSessionResponse `json:"sessions"`
}
