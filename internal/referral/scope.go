package referral

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
)

// SelectorAll and SelectorDirectLead are the admin-only narrowing selectors.
// Any other non-empty selector value must parse as a salesman id.
const (
	SelectorAll        = "all"
	SelectorDirectLead = "directLead"
)

// Actor is the authenticated principal whose visibility is being resolved.
type Actor struct {
	ID   uuid.UUID
	Role string
}

type scopeKind int

const (
	scopeAll scopeKind = iota
	scopeDirectLead
	scopeSalesman
)

// Scope is the visibility filter applied to every staff list and stat query.
// It restricts at the User level; owned entities (orders, profiles, payments,
// leads) inherit the restriction through their owner id.
type Scope struct {
	kind       scopeKind
	salesmanID uuid.UUID
}

// Unrestricted reports whether the scope matches every user.
func (s Scope) Unrestricted() bool {
	return s.kind == scopeAll
}

// SalesmanID returns the salesman the scope is narrowed to, if any.
func (s Scope) SalesmanID() (uuid.UUID, bool) {
	if s.kind != scopeSalesman {
		return uuid.Nil, false
	}
	return s.salesmanID, true
}

// ApplyToUsers narrows a query over the users table.
func (s Scope) ApplyToUsers(q *gorm.DB) *gorm.DB {
	switch s.kind {
	case scopeDirectLead:
		return q.Where("referral_id IS NULL")
	case scopeSalesman:
		return q.Where("referral_id = ?", s.salesmanID)
	default:
		return q
	}
}

// ApplyToOwned narrows a query over an owned table through its owner column,
// using a subquery on users.
func (s Scope) ApplyToOwned(q *gorm.DB, ownerColumn string) *gorm.DB {
	switch s.kind {
	case scopeDirectLead:
		return q.Where(ownerColumn+" IN (?)",
			q.Session(&gorm.Session{NewDB: true}).Table("users").Select("id").Where("referral_id IS NULL"))
	case scopeSalesman:
		return q.Where(ownerColumn+" IN (?)",
			q.Session(&gorm.Session{NewDB: true}).Table("users").Select("id").Where("referral_id = ?", s.salesmanID))
	default:
		return q
	}
}

// Resolve computes the visibility scope for the actor. Admins see everything
// unless they narrow with a selector; sales actors are always pinned to their
// own downline; every other role is denied.
func Resolve(actor Actor, selector string) (Scope, error) {
	role, err := enums.ParseRole(actor.Role)
	if err != nil {
		return Scope{}, pkgerrors.New(pkgerrors.CodeForbidden, "role not permitted for scoped access")
	}

	switch role {
	case enums.RoleAdmin:
		return resolveAdminSelector(selector)
	case enums.RoleSales:
		if actor.ID == uuid.Nil {
			return Scope{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
		}
		return Scope{kind: scopeSalesman, salesmanID: actor.ID}, nil
	default:
		return Scope{}, pkgerrors.New(pkgerrors.CodeForbidden, "role not permitted for scoped access")
	}
}

func resolveAdminSelector(selector string) (Scope, error) {
	selector = strings.TrimSpace(selector)
	switch selector {
	case "", SelectorAll:
		return Scope{kind: scopeAll}, nil
	case SelectorDirectLead:
		return Scope{kind: scopeDirectLead}, nil
	}

	salesmanID, err := uuid.Parse(selector)
	if err != nil {
		return Scope{}, pkgerrors.New(pkgerrors.CodeValidation, "salesman selector must be \"all\", \"directLead\", or a salesman id")
	}
	return Scope{kind: scopeSalesman, salesmanID: salesmanID}, nil
}
