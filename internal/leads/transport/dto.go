// Package transport holds the JSON shapes of the leads endpoints.
package transport

import (
	"time"

	"photo_portal_backend/internal/leads/domain"
)

// SubmitLeadResponse is returned by the public intake endpoint on success.
type SubmitLeadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  string `json:"leadId"`
}

// ListLeadsRequest binds the dashboard listing query string.
type ListLeadsRequest struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ProjectResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type LeadResponse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            *string          `json:"phone"`
	Message          string           `json:"message"`
	ServiceType      *string          `json:"serviceType"`
	EventDate        *time.Time       `json:"eventDate"`
	EventLocation    *string          `json:"eventLocation"`
	EstimatedBudget  *string          `json:"estimatedBudget"`
	ReferenceFileURL *string          `json:"referenceFileUrl"`
	ProjectID        *string          `json:"projectId"`
	Project          *ProjectResponse `json:"project,omitempty"`
	Source           string           `json:"source"`
	CreatedAt        time.Time        `json:"createdAt"`
}

type StatsResponse struct {
	Total     int `json:"total"`
	ThisMonth int `json:"thisMonth"`
	ThisWeek  int `json:"thisWeek"`
}

type ListLeadsResponse struct {
	Items    []LeadResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	Stats    StatsResponse  `json:"stats"`
}

func ToLeadResponse(l domain.Lead) LeadResponse {
	return LeadResponse{
		ID:               l.ID.String(),
		Name:             l.Name,
		Email:            l.Email,
		Phone:            l.Phone,
		Message:          l.Message,
		ServiceType:      l.ServiceType,
		EventDate:        l.EventDate,
		EventLocation:    l.EventLocation,
		EstimatedBudget:  l.EstimatedBudget,
		ReferenceFileURL: l.ReferenceFileURL,
		ProjectID:        l.ProjectID,
		Source:           l.Source,
		CreatedAt:        l.CreatedAt,
	}
}

func ToLeadWithProjectResponse(l domain.LeadWithProject) LeadResponse {
	resp := ToLeadResponse(l.Lead)
	if l.Project != nil {
		resp.Project = &ProjectResponse{ID: l.Project.ID, Title: l.Project.Title, Slug: l.Project.Slug}
	}
	return resp
}

func ToStatsResponse(s domain.Stats) StatsResponse {
	return StatsResponse{Total: s.Total, ThisMonth: s.ThisMonth, ThisWeek: s.ThisWeek}
}
