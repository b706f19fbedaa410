// Package api contains the request and response contracts of the REST surface.
package api

// SaveChartRequest is the body of POST /api/chart/save
type SaveChartRequest struct {
	Name       string `json:"name" label:"Chart name" validate:"notblank"`
	ConfigJSON string `json:"configJson" label:"Config JSON" validate:"notblank"`
}

// SheetsResponse lists the sheet names of an uploaded workbook
type SheetsResponse struct {
	Sheets []string `json:"sheets"`
}
