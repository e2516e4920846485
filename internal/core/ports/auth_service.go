package ports

import (
	"context"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// RegisterInput creates a tenant root: the first user of a company, always an
// admin with no parent.
type RegisterInput struct {
	Email       string
	Name        string
	Password    string
	CompanyName string
}

// InviteInput creates a teammate under the inviting admin. The invitee
// inherits the inviter's company and records the inviter as parent; the role
// is fixed at creation.
type InviteInput struct {
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

// AuthService implements registration, login, and the invite hierarchy.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Principal, error)
	Login(ctx context.Context, email, password string) (string, *domain.Principal, error)
	Invite(ctx context.Context, inviter *domain.Principal, in InviteInput) (*domain.Principal, error)
	// GrantSiteAccess adds an explicit site grant to a client principal of
	// the admin's company.
	GrantSiteAccess(ctx context.Context, actor *domain.Principal, principalID, siteID string) error
}
