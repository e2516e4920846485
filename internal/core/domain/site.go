package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Site is a construction project owned by exactly one tenant.
type Site struct {
	ID            string          `json:"id"`
	CompanyName   string          `json:"company_name"`
	OwnerUserID   string          `json:"owner_user_id"`
	Name          string          `json:"name"`
	Address       string          `json:"address,omitempty"`
	ContractValue decimal.Decimal `json:"contract_value"`
	ClientName    string          `json:"client_name,omitempty"`
	ClientEmail   string          `json:"client_email,omitempty"`
	ClientPhone   string          `json:"client_phone,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CanAccess decides whether a principal may act on a site. The OR ordering is
// the authorization backbone used by every resource endpoint:
//
//  1. allow when the site belongs to the principal's company (tenant-wide
//     access for admin/manager/agent),
//  2. else allow when the principal holds an explicit grant for the site
//     (the path used by client principals),
//  3. else deny.
func CanAccess(p *Principal, s *Site) bool {
	if s.CompanyName == p.CompanyName {
		return true
	}
	return p.HasSiteGrant(s.ID)
}

// OwnedBy is the listing predicate: a site appears in a principal's listings
// when its creator id falls inside the principal's resolved scope.
func (s *Site) OwnedBy(scope AccessScope) bool {
	return scope.Contains(s.OwnerUserID)
}
