package teams

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/internal/profiles"
	"github.com/taptune/taptune-backend/internal/users"
	"github.com/taptune/taptune-backend/pkg/db/models"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
)

// CreateTeamInput names a team and its member profiles. The lead must be
// one of the members.
type CreateTeamInput struct {
	Name       string      `json:"name" validate:"required,min=2,max=120"`
	TeamLeadID uuid.UUID   `json:"teamLeadId" validate:"required"`
	Members    []uuid.UUID `json:"members" validate:"required,min=1"`
}

// UpdateTeamInput carries team edits. Nil fields are left as is.
type UpdateTeamInput struct {
	Name       *string     `json:"name" validate:"omitempty,min=2,max=120"`
	TeamLeadID *uuid.UUID  `json:"teamLeadId"`
	Members    []uuid.UUID `json:"members" validate:"omitempty,min=1"`
}

// CreatePlanInput is the admin payload for a subscription tier.
type CreatePlanInput struct {
	Name         string `json:"name" validate:"required,min=2,max=120"`
	TeamLimit    int    `json:"teamLimit" validate:"required,gte=1"`
	PricePaise   int64  `json:"pricePaise" validate:"required,gte=0"`
	DurationDays int    `json:"durationDays" validate:"required,gte=1"`
}

// TeamView is the wire shape for a team.
type TeamView struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"userId"`
	Name       string      `json:"name"`
	TeamLeadID uuid.UUID   `json:"teamLeadId"`
	Members    []uuid.UUID `json:"members"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// PlanView is the wire shape for a plan.
type PlanView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	TeamLimit    int       `json:"teamLimit"`
	PricePaise   int64     `json:"pricePaise"`
	DurationDays int       `json:"durationDays"`
	IsActive     bool      `json:"isActive"`
}

// NewTeamView maps the model to its wire shape.
func NewTeamView(team *models.Team) TeamView {
	return TeamView{
		ID:         team.ID,
		UserID:     team.UserID,
		Name:       team.Name,
		TeamLeadID: team.TeamLeadID,
		Members:    team.Members,
		CreatedAt:  team.CreatedAt,
	}
}

// NewPlanView maps the model to its wire shape.
func NewPlanView(plan *models.Plan) PlanView {
	return PlanView{
		ID:           plan.ID,
		Name:         plan.Name,
		TeamLimit:    plan.TeamLimit,
		PricePaise:   plan.PricePaise,
		DurationDays: plan.DurationDays,
		IsActive:     plan.IsActive,
	}
}

// Service exposes team management over profiles plus the plan catalog.
type Service interface {
	CreateTeam(ctx context.Context, ownerID uuid.UUID, input CreateTeamInput) (*TeamView, error)
	GetTeam(ctx context.Context, ownerID, id uuid.UUID) (*TeamView, error)
	ListTeams(ctx context.Context, ownerID uuid.UUID) ([]TeamView, error)
	UpdateTeam(ctx context.Context, ownerID, id uuid.UUID, input UpdateTeamInput) (*TeamView, error)
	DeleteTeam(ctx context.Context, ownerID, id uuid.UUID) error

	CreatePlan(ctx context.Context, input CreatePlanInput) (*PlanView, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]PlanView, error)
	SetPlanActive(ctx context.Context, id uuid.UUID, active bool) error
	AssignPlan(ctx context.Context, userID, planID uuid.UUID) error
}

type service struct {
	repo     Repository
	users    users.Repository
	profiles profiles.Repository
}

// NewService builds the team service.
func NewService(repo Repository, userRepo users.Repository, profileRepo profiles.Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "teams: repository is required")
	}
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "teams: user repository is required")
	}
	if profileRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "teams: profile repository is required")
	}
	return &service{repo: repo, users: userRepo, profiles: profileRepo}, nil
}

// CreateTeam groups the owner's profiles under a lead. Membership is
// checked against the owner's plan limit and a profile may sit in only one
// of the owner's teams.
func (s *service) CreateTeam(ctx context.Context, ownerID uuid.UUID, input CreateTeamInput) (*TeamView, error) {
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.checkMembers(ctx, owner, uuid.Nil, input.TeamLeadID, input.Members); err != nil {
		return nil, err
	}

	team := &models.Team{
		UserID:     owner.ID,
		Name:       input.Name,
		TeamLeadID: input.TeamLeadID,
		Members:    input.Members,
	}
	created, err := s.repo.Create(ctx, team)
	if err != nil {
		return nil, err
	}
	view := NewTeamView(created)
	return &view, nil
}

func (s *service) checkMembers(ctx context.Context, owner *models.User, teamID uuid.UUID, leadID uuid.UUID, members []uuid.UUID) error {
	if len(members) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "team needs at least one member")
	}

	leadInMembers := false
	seen := make(map[uuid.UUID]bool, len(members))
	for _, m := range members {
		if seen[m] {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate team member")
		}
		seen[m] = true
		if m == leadID {
			leadInMembers = true
		}
		profile, err := s.profiles.FindByID(ctx, m)
		if err != nil {
			return err
		}
		if profile.UserID != owner.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "profile belongs to another user")
		}
	}
	if !leadInMembers {
		return pkgerrors.New(pkgerrors.CodeValidation, "team lead must be a member")
	}

	if owner.PlanID == nil {
		return pkgerrors.New(pkgerrors.CodeForbidden, "user has no team plan")
	}
	plan, err := s.repo.FindPlan(ctx, *owner.PlanID)
	if err != nil {
		return err
	}
	if len(members) > plan.TeamLimit {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("plan allows at most %d members", plan.TeamLimit))
	}

	existing, err := s.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return err
	}
	for _, t := range existing {
		if t.ID == teamID {
			continue
		}
		for _, m := range t.Members {
			if seen[m] {
				return pkgerrors.New(pkgerrors.CodeConflict, "profile already belongs to a team")
			}
		}
	}
	return nil
}

func (s *service) GetTeam(ctx context.Context, ownerID, id uuid.UUID) (*TeamView, error) {
	team, err := s.ownedTeam(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	view := NewTeamView(team)
	return &view, nil
}

func (s *service) ownedTeam(ctx context.Context, ownerID, id uuid.UUID) (*models.Team, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != uuid.Nil && team.UserID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "team belongs to another user")
	}
	return team, nil
}

func (s *service) ListTeams(ctx context.Context, ownerID uuid.UUID) ([]TeamView, error) {
	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]TeamView, 0, len(list))
	for i := range list {
		out = append(out, NewTeamView(&list[i]))
	}
	return out, nil
}

func (s *service) UpdateTeam(ctx context.Context, ownerID, id uuid.UUID, input UpdateTeamInput) (*TeamView, error) {
	team, err := s.ownedTeam(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.FindByID(ctx, team.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		team.Name = *input.Name
	}
	if input.TeamLeadID != nil {
		team.TeamLeadID = *input.TeamLeadID
	}
	if input.Members != nil {
		team.Members = input.Members
	}
	if err := s.checkMembers(ctx, owner, team.ID, team.TeamLeadID, team.Members); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, team); err != nil {
		return nil, err
	}
	view := NewTeamView(team)
	return &view, nil
}

func (s *service) DeleteTeam(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.ownedTeam(ctx, ownerID, id); err != nil {
		return err
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "team not found")
	}
	return nil
}

func (s *service) CreatePlan(ctx context.Context, input CreatePlanInput) (*PlanView, error) {
	plan := &models.Plan{
		Name:         input.Name,
		TeamLimit:    input.TeamLimit,
		PricePaise:   input.PricePaise,
		DurationDays: input.DurationDays,
		IsActive:     true,
	}
	created, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	view := NewPlanView(created)
	return &view, nil
}

func (s *service) ListPlans(ctx context.Context, activeOnly bool) ([]PlanView, error) {
	list, err := s.repo.ListPlans(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]PlanView, 0, len(list))
	for i := range list {
		out = append(out, NewPlanView(&list[i]))
	}
	return out, nil
}

func (s *service) SetPlanActive(ctx context.Context, id uuid.UUID, active bool) error {
	affected, err := s.repo.SetPlanActive(ctx, id, active)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	return nil
}

// AssignPlan subscribes a user to a plan. Inactive plans cannot be newly
// assigned.
func (s *service) AssignPlan(ctx context.Context, userID, planID uuid.UUID) error {
	plan, err := s.repo.FindPlan(ctx, planID)
	if err != nil {
		return err
	}
	if !plan.IsActive {
		return pkgerrors.New(pkgerrors.CodeValidation, "plan is not active")
	}
	return s.users.SetPlan(ctx, userID, &plan.ID)
}
