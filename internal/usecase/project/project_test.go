package project_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
	"github.com/ignatzorin/barter-backend/internal/usecase/bid"
	"github.com/ignatzorin/barter-backend/internal/usecase/project"
	"github.com/ignatzorin/barter-backend/internal/usecase/usecasetest"
)

func TestCreateProject(t *testing.T) {
	store := usecasetest.NewStore()
	client := store.AddUser("client", valueobject.RoleClient)
	uc := project.NewCreateProjectUseCase(store.Projects())

	p, err := uc.Execute(context.Background(), project.CreateProjectInput{
		ClientID:       client.ID,
		Title:          "Logo Design",
		SkillsRequired: []string{"illustration"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != valueobject.ProjectStatusOpen || p.PreferredPaymentMethod != valueobject.PaymentMethodMoney {
		t.Errorf("unexpected defaults: %s, %s", p.Status, p.PreferredPaymentMethod)
	}

	_, err = uc.Execute(context.Background(), project.CreateProjectInput{ClientID: client.ID})
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error for missing title, got %v", err)
	}

	_, err = uc.Execute(context.Background(), project.CreateProjectInput{ClientID: client.ID, Title: "X", PreferredPaymentMethod: "crypto"})
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error for unknown payment method, got %v", err)
	}
}

func TestListProjects(t *testing.T) {
	ctx := context.Background()
	store := usecasetest.NewStore()
	client := store.AddUser("client", valueobject.RoleClient)
	create := project.NewCreateProjectUseCase(store.Projects())
	list := project.NewListProjectsUseCase(store.Projects())

	first, _ := create.Execute(ctx, project.CreateProjectInput{ClientID: client.ID, Title: "First", PreferredPaymentMethod: "skill", SkillsRequired: []string{"Go"}})
	second, _ := create.Execute(ctx, project.CreateProjectInput{ClientID: client.ID, Title: "Second"})
	closed, _ := create.Execute(ctx, project.CreateProjectInput{ClientID: client.ID, Title: "Closed"})
	if err := store.Projects().UpdateStatus(ctx, closed.ID, valueobject.ProjectStatusOpen, valueobject.ProjectStatusInProgress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	open, err := list.ListOpen(ctx, project.ListFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(open) != 2 || open[0].ID != first.ID || open[1].ID != second.ID {
		t.Fatalf("expected open projects oldest first, got %d", len(open))
	}
	if open[0].Client.Username != "client" {
		t.Errorf("expected client username attached, got %q", open[0].Client.Username)
	}

	filtered, _ := list.ListOpen(ctx, project.ListFilter{Skill: "go", PaymentMethod: "skill"})
	if len(filtered) != 1 || filtered[0].ID != first.ID {
		t.Errorf("expected filter to match first project, got %d", len(filtered))
	}

	if _, err := list.ListOpen(ctx, project.ListFilter{PaymentMethod: "barter"}); !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	mine, _ := list.ListMine(ctx, client.ID)
	if len(mine) != 3 || mine[0].ID != closed.ID {
		t.Errorf("expected all own projects newest first, got %d", len(mine))
	}
}

func TestGetProject(t *testing.T) {
	store := usecasetest.NewStore()
	uc := project.NewGetProjectUseCase(store.Projects())

	if _, err := uc.Execute(context.Background(), uuid.New()); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProjectStatus(t *testing.T) {
	ctx := context.Background()
	store := usecasetest.NewStore()
	client := store.AddUser("client", valueobject.RoleClient)
	freelancer := store.AddUser("f", valueobject.RoleFreelancer)
	p, _ := project.NewCreateProjectUseCase(store.Projects()).Execute(ctx, project.CreateProjectInput{ClientID: client.ID, Title: "Site"})
	uc := project.NewUpdateProjectStatusUseCase(store.Projects())

	if _, err := uc.Execute(ctx, uuid.New(), client.ID, "completed"); !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := uc.Execute(ctx, p.ID, freelancer.ID, "completed"); !apperror.IsForbidden(err) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if _, err := uc.Execute(ctx, p.ID, client.ID, "archived"); !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := uc.Execute(ctx, p.ID, client.ID, "in progress"); !apperror.IsConflict(err) {
		t.Errorf("expected conflict for manual start, got %v", err)
	}

	submit := bid.NewSubmitBidUseCase(store.Bids(), store.Projects(), bid.NoopNotifier{})
	b, err := submit.Execute(ctx, bid.SubmitBidInput{ProjectID: p.ID, FreelancerID: freelancer.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := bid.NewSetBidStatusUseCase(store.Bids(), store.Projects(), nil).Execute(ctx, b.ID, client.ID, "accepted"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := uc.Execute(ctx, p.ID, client.ID, "completed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != valueobject.ProjectStatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}
	if _, err := uc.Execute(ctx, p.ID, client.ID, "open"); !apperror.IsConflict(err) {
		t.Errorf("expected conflict reopening project, got %v", err)
	}
}

func TestDeleteProject(t *testing.T) {
	ctx := context.Background()
	store := usecasetest.NewStore()
	client := store.AddUser("client", valueobject.RoleClient)
	freelancer := store.AddUser("f", valueobject.RoleFreelancer)
	create := project.NewCreateProjectUseCase(store.Projects())
	uc := project.NewDeleteProjectUseCase(store.Projects())

	open, _ := create.Execute(ctx, project.CreateProjectInput{ClientID: client.ID, Title: "Open"})
	b, _ := bid.NewSubmitBidUseCase(store.Bids(), store.Projects(), nil).Execute(ctx, bid.SubmitBidInput{ProjectID: open.ID, FreelancerID: freelancer.ID})

	if err := uc.Execute(ctx, open.ID, freelancer.ID); !apperror.IsForbidden(err) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if err := uc.Execute(ctx, open.ID, client.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Bids().FindByID(ctx, b.ID); !apperror.IsNotFound(err) {
		t.Errorf("expected bids to be deleted with project, got %v", err)
	}
	if err := uc.Execute(ctx, open.ID, client.ID); !apperror.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}

	started, _ := create.Execute(ctx, project.CreateProjectInput{ClientID: client.ID, Title: "Started"})
	_ = store.Projects().UpdateStatus(ctx, started.ID, valueobject.ProjectStatusOpen, valueobject.ProjectStatusInProgress)
	if err := uc.Execute(ctx, started.ID, client.ID); !apperror.IsConflict(err) {
		t.Errorf("expected conflict deleting in-progress project, got %v", err)
	}
}
