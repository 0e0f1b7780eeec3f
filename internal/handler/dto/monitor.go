// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/keywatch/keywatch/internal/model"

// CreateMonitorRequest represents the request body for creating a monitor.
type CreateMonitorRequest struct {
	Keyword   string `json:"keyword"`
	UserEmail string `json:"userEmail"`
}

// MonitorResponse represents a monitor in API responses.
type MonitorResponse struct {
	ID        string `json:"id"`
	Keyword   string `json:"keyword"`
	UserEmail string `json:"userEmail"`
}

// MonitorListResponse wraps a list of monitors. Data is never null.
type MonitorListResponse struct {
	Data []MonitorResponse `json:"data"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToMonitorResponse converts a Monitor model to MonitorResponse DTO.
func ToMonitorResponse(m *model.Monitor) *MonitorResponse {
	return &MonitorResponse{
		ID:        m.ID,
		Keyword:   m.Keyword,
		UserEmail: m.UserEmail,
	}
}

// ToMonitorListResponse converts monitors to MonitorListResponse.
func ToMonitorListResponse(monitors []*model.Monitor) *MonitorListResponse {
	responses := make([]MonitorResponse, len(monitors))
	for i, m := range monitors {
		responses[i] = *ToMonitorResponse(m)
	}
	return &MonitorListResponse{Data: responses}
}
