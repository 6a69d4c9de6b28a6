package handlers

import "github.com/rogerio-castellano/product-catalog/internal/importer"

type ImportRunsResult struct {
	Data []importer.Run `json:"data"`
	Meta Meta           `json:"meta"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
