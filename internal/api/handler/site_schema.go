package handler

import (
	"time"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// Money crosses the wire as decimal strings so amounts survive JSON without
// float rounding.

type createSiteRequest struct {
	Name          string `json:"name"           validate:"required"`
	Address       string `json:"address"`
	ContractValue string `json:"contract_value" validate:"required"`
	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"   validate:"omitempty,email"`
	ClientPhone   string `json:"client_phone"`
}

type siteResponse struct {
	ID            string    `json:"id"`
	CompanyName   string    `json:"company_name"`
	OwnerUserID   string    `json:"owner_user_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address,omitempty"`
	ContractValue string    `json:"contract_value"`
	ClientName    string    `json:"client_name,omitempty"`
	ClientEmail   string    `json:"client_email,omitempty"`
	ClientPhone   string    `json:"client_phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type listSitesResponse struct {
	Data []siteResponse `json:"data"`
}

func toSiteResponse(s *domain.Site) siteResponse {
	return siteResponse{
		ID:            s.ID,
		CompanyName:   s.CompanyName,
		OwnerUserID:   s.OwnerUserID,
		Name:          s.Name,
		Address:       s.Address,
		ContractValue: s.ContractValue.StringFixed(2),
		ClientName:    s.ClientName,
		ClientEmail:   s.ClientEmail,
		ClientPhone:   s.ClientPhone,
		CreatedAt:     s.CreatedAt,
	}
}
