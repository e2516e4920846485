package handler

import (
	"time"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Name        string `json:"name"         validate:"required"`
	Password    string `json:"password"     validate:"required,min=8"`
	CompanyName string `json:"company_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type inviteRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,oneof=manager agent client"`
}

type siteAccessRequest struct {
	SiteID string `json:"site_id" validate:"required"`
}

type principalResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name"`
	Role        string    `json:"role"`
	ParentID    string    `json:"parent_id,omitempty"`
	SiteAccess  []string  `json:"site_access,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  principalResponse `json:"user"`
}

func toPrincipalResponse(p *domain.Principal) principalResponse {
	return principalResponse{
		ID:          p.ID,
		Email:       p.Email,
		Name:        p.Name,
		CompanyName: p.CompanyName,
		Role:        string(p.Role),
		ParentID:    p.ParentID,
		SiteAccess:  p.SiteAccess,
		CreatedAt:   p.CreatedAt,
	}
}
