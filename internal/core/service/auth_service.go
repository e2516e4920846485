package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

// AuthService implements registration, login, and the invite hierarchy.
type AuthService struct {
	principals ports.PrincipalRepository
	sites      ports.SiteRepository
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewAuthService(principals ports.PrincipalRepository, sites ports.SiteRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{principals: principals, sites: sites, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates a tenant root: the first principal of a company, always an
// admin with no parent.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Principal, error) {
	if in.Email == "" || in.Password == "" || in.CompanyName == "" || in.Name == "" {
		return nil, fmt.Errorf("register: %w", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Principal{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		CompanyName:  in.CompanyName,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.principals.Create(ctx, p)
}

// Invite creates a teammate under the inviting admin. The invitee inherits
// the inviter's company and records the inviter as parent; role is fixed at
// creation and never changes.
func (s *AuthService) Invite(ctx context.Context, inviter *domain.Principal, in ports.InviteInput) (*domain.Principal, error) {
	if inviter.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("invite: %w", domain.ErrForbidden)
	}
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, fmt.Errorf("invite: %w", domain.ErrValidation)
	}
	if _, err := domain.ParseRole(string(in.Role)); err != nil {
		return nil, fmt.Errorf("invite: role: %w", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Principal{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		CompanyName:  inviter.CompanyName,
		Role:         in.Role,
		ParentID:     inviter.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.principals.Create(ctx, p)
}

// GrantSiteAccess appends an explicit site grant to a client principal of the
// admin's own company.
func (s *AuthService) GrantSiteAccess(ctx context.Context, actor *domain.Principal, principalID, siteID string) error {
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("grant site access: %w", domain.ErrForbidden)
	}

	target, err := s.principals.FindByID(ctx, principalID)
	if err != nil {
		return fmt.Errorf("grant site access: %w", err)
	}
	if target.CompanyName != actor.CompanyName {
		return fmt.Errorf("grant site access: %w", domain.ErrPrincipalNotFound)
	}
	if target.Role != domain.RoleClient {
		return fmt.Errorf("grant site access: %w", domain.ErrValidation)
	}

	site, err := s.sites.FindByID(ctx, siteID)
	if err != nil {
		return fmt.Errorf("grant site access: %w", err)
	}
	if site.CompanyName != actor.CompanyName {
		return fmt.Errorf("grant site access: %w", domain.ErrSiteAccessDenied)
	}

	return s.principals.AddSiteGrant(ctx, principalID, siteID)
}

// Login verifies credentials and issues a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Principal, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	p, err := s.principals.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(p)
	if err != nil {
		return "", nil, err
	}
	return token, p, nil
}

func (s *AuthService) generateToken(p *domain.Principal) (string, error) {
	claims := jwt.MapClaims{
		"user_id":      p.ID,
		"role":         string(p.Role),
		"company_name": p.CompanyName,
		"parent_id":    p.ParentID,
		"exp":          time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
