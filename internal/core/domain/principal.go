package domain

import "time"

// Role is the closed set of roles a principal can hold. Role is fixed at
// creation time and never changes afterwards.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
	RoleClient  Role = "client"
)

// ParseRole validates a raw role string coming from the transport boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleAgent, RoleClient:
		return Role(s), nil
	}
	return "", ErrValidation
}

// CanManageDocuments reports whether the role may create financial documents
// on a site it has access to. Clients are read-only.
func (r Role) CanManageDocuments() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleAgent
}

// Principal models an authenticated actor in the system.
//
// CompanyName is the tenant identifier. For non-admin principals it always
// equals the company of the admin who invited them (ParentID's owner).
// SiteAccess is only meaningful for client principals: the explicit list of
// site ids they have been granted.
type Principal struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CompanyName  string    `json:"company_name"`
	Role         Role      `json:"role"`
	ParentID     string    `json:"parent_id,omitempty"`
	SiteAccess   []string  `json:"site_access,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasSiteGrant reports whether the principal holds an explicit grant for the
// given site id.
func (p *Principal) HasSiteGrant(siteID string) bool {
	for _, id := range p.SiteAccess {
		if id == siteID {
			return true
		}
	}
	return false
}

// AccessScope is the visibility scope of a principal: its tenant plus the
// set of owner ids whose resources it may see in listings.
type AccessScope struct {
	CompanyName  string
	OwnedUserIDs []string
}

// Contains reports whether ownerID falls inside the scope.
func (s AccessScope) Contains(ownerID string) bool {
	for _, id := range s.OwnedUserIDs {
		if id == ownerID {
			return true
		}
	}
	return false
}

// ResolveScope derives the access scope of a principal. A tenant root (no
// parent) sees only resources keyed by its own id. An invited principal sees
// resources keyed by its own id or by the inviting admin's id, since sites
// and feed entries are keyed by creator id rather than by company alone.
// Pure function: no side effects, no storage access.
func ResolveScope(p *Principal) AccessScope {
	owned := []string{p.ID}
	if p.ParentID != "" {
		owned = append(owned, p.ParentID)
	}
	return AccessScope{CompanyName: p.CompanyName, OwnedUserIDs: owned}
}
