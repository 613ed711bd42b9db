package bid_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/logger"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
	"github.com/ignatzorin/barter-backend/internal/usecase/bid"
	"github.com/ignatzorin/barter-backend/internal/usecase/usecasetest"
)

type sentEvent struct {
	userID uuid.UUID
	event  string
	data   bid.BidEvent
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{userID: userID, event: event, data: data.(bid.BidEvent)})
	return nil
}

func (n *recordingNotifier) to(userID uuid.UUID) []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var result []sentEvent
	for _, e := range n.events {
		if e.userID == userID {
			result = append(result, e)
		}
	}
	return result
}

type fixture struct {
	store    *usecasetest.Store
	notifier *recordingNotifier
	submit   *bid.SubmitBidUseCase
	setState *bid.SetBidStatusUseCase
	listProj *bid.ListProjectBidsUseCase
	listMine *bid.ListMyBidsUseCase
	client   *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger.Discard()

	store := usecasetest.NewStore()
	notifier := &recordingNotifier{}
	return &fixture{
		store:    store,
		notifier: notifier,
		submit:   bid.NewSubmitBidUseCase(store.Bids(), store.Projects(), notifier),
		setState: bid.NewSetBidStatusUseCase(store.Bids(), store.Projects(), notifier),
		listProj: bid.NewListProjectBidsUseCase(store.Bids(), store.Projects()),
		listMine: bid.NewListMyBidsUseCase(store.Bids()),
		client:   store.AddUser("client", valueobject.RoleClient),
	}
}

func (f *fixture) project(t *testing.T, title string) *entity.Project {
	t.Helper()
	p, err := entity.NewProject(f.client.ID, title, "", "both", []string{"illustration"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.store.Projects().Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func (f *fixture) bid(t *testing.T, projectID, freelancerID uuid.UUID) *entity.Bid {
	t.Helper()
	b, err := f.submit.Execute(context.Background(), bid.SubmitBidInput{
		ProjectID:    projectID,
		FreelancerID: freelancerID,
		ProposalText: "I can help",
		BarterOffer:  []string{"translation"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func TestLogoDesignScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f1 := f.store.AddUser("f1", valueobject.RoleFreelancer)
	f2 := f.store.AddUser("f2", valueobject.RoleFreelancer)
	f3 := f.store.AddUser("f3", valueobject.RoleFreelancer)

	project := f.project(t, "Logo Design")
	bid1 := f.bid(t, project.ID, f1.ID)
	bid2 := f.bid(t, project.ID, f2.ID)

	if got := len(f.notifier.to(f.client.ID)); got != 2 {
		t.Fatalf("expected 2 bids.new events for client, got %d", got)
	}

	updated, err := f.setState.Execute(ctx, bid1.ID, f.client.ID, "accepted")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != valueobject.BidStatusAccepted {
		t.Errorf("expected accepted, got %s", updated.Status)
	}
	if updated.Project.Status != valueobject.ProjectStatusInProgress {
		t.Errorf("expected project in progress, got %s", updated.Project.Status)
	}
	if updated.Freelancer.Username != "f1" || updated.Freelancer.Email != "f1@example.com" {
		t.Errorf("expected freelancer attached, got %+v", updated.Freelancer)
	}

	if got := f.store.Bid(bid2.ID).Status; got != valueobject.BidStatusRejected {
		t.Errorf("expected sibling rejected, got %s", got)
	}
	if got := f.store.Project(project.ID).Status; got != valueobject.ProjectStatusInProgress {
		t.Errorf("expected project in progress, got %s", got)
	}

	events := f.notifier.to(f2.ID)
	if len(events) != 1 || events[0].event != bid.EventBidUpdated || events[0].data.Status != "rejected" {
		t.Errorf("expected rejected sibling to be notified, got %+v", events)
	}

	_, err = f.submit.Execute(ctx, bid.SubmitBidInput{ProjectID: project.ID, FreelancerID: f3.ID})
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict for bid on in-progress project, got %v", err)
	}

	_, err = f.setState.Execute(ctx, bid2.ID, f.client.ID, "accepted")
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict accepting rejected bid, got %v", err)
	}
	if got := f.store.Bid(bid1.ID).Status; got != valueobject.BidStatusAccepted {
		t.Errorf("expected first bid to stay accepted, got %s", got)
	}
}

func TestSubmitBid_SelfBidForbidden(t *testing.T) {
	f := newFixture(t)
	project := f.project(t, "Own project")

	_, err := f.submit.Execute(context.Background(), bid.SubmitBidInput{
		ProjectID:    project.ID,
		FreelancerID: f.client.ID,
	})
	if !apperror.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	bids, _ := f.store.Bids().ListByProject(context.Background(), project.ID)
	if len(bids) != 0 {
		t.Errorf("expected no bids to be stored, got %d", len(bids))
	}
}

func TestSubmitBid_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	freelancer := f.store.AddUser("f", valueobject.RoleFreelancer)
	project := f.project(t, "Site")

	_, err := f.submit.Execute(ctx, bid.SubmitBidInput{ProjectID: uuid.New(), FreelancerID: freelancer.ID})
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	negative := -10.0
	_, err = f.submit.Execute(ctx, bid.SubmitBidInput{ProjectID: project.ID, FreelancerID: freelancer.ID, PaymentOffer: &negative})
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	f.bid(t, project.ID, freelancer.ID)
	_, err = f.submit.Execute(ctx, bid.SubmitBidInput{ProjectID: project.ID, FreelancerID: freelancer.ID})
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict for duplicate bid, got %v", err)
	}
}

func TestSubmitBid_PaymentOfferMustFitColumn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Logo")

	for _, amount := range []float64{1e13, valueobject.MaxMoneyAmount + 1, 10.005} {
		amount := amount
		freelancer := f.store.AddUser("f", valueobject.RoleFreelancer)
		_, err := f.submit.Execute(ctx, bid.SubmitBidInput{ProjectID: project.ID, FreelancerID: freelancer.ID, PaymentOffer: &amount})
		if !apperror.IsValidation(err) {
			t.Errorf("%v: expected validation error, got %v", amount, err)
		}
	}

	limit := valueobject.MaxMoneyAmount
	freelancer := f.store.AddUser("rich", valueobject.RoleFreelancer)
	b, err := f.submit.Execute(ctx, bid.SubmitBidInput{ProjectID: project.ID, FreelancerID: freelancer.ID, PaymentOffer: &limit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *b.PaymentAmount() != valueobject.MaxMoneyAmount {
		t.Errorf("expected %v, got %v", valueobject.MaxMoneyAmount, *b.PaymentAmount())
	}
}

func TestSubmitBid_LeavesProjectUntouched(t *testing.T) {
	f := newFixture(t)
	freelancer := f.store.AddUser("f", valueobject.RoleFreelancer)
	project := f.project(t, "Site")

	amount := 150.0
	b, err := f.submit.Execute(context.Background(), bid.SubmitBidInput{
		ProjectID:    project.ID,
		FreelancerID: freelancer.ID,
		BarterOffer:  []string{"copywriting", "copywriting", " "},
		PaymentOffer: &amount,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != valueobject.BidStatusPending {
		t.Errorf("expected pending, got %s", b.Status)
	}
	if len(b.BarterOffer) != 1 || *b.PaymentAmount() != 150 {
		t.Errorf("unexpected offer: %v %v", b.BarterOffer, b.PaymentAmount())
	}
	if got := f.store.Project(project.ID).Status; got != valueobject.ProjectStatusOpen {
		t.Errorf("expected project to stay open, got %s", got)
	}
}

func TestSetBidStatus_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	freelancer := f.store.AddUser("f", valueobject.RoleFreelancer)
	project := f.project(t, "Site")
	b := f.bid(t, project.ID, freelancer.ID)

	if _, err := f.setState.Execute(ctx, b.ID, f.client.ID, "pending"); !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := f.setState.Execute(ctx, uuid.New(), f.client.ID, "accepted"); !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := f.setState.Execute(ctx, b.ID, freelancer.ID, "accepted"); !apperror.IsForbidden(err) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if got := f.store.Bid(b.ID).Status; got != valueobject.BidStatusPending {
		t.Errorf("expected bid untouched, got %s", got)
	}
}

func TestSetBidStatus_RejectKeepsProjectOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	freelancer := f.store.AddUser("f", valueobject.RoleFreelancer)
	project := f.project(t, "Site")
	b := f.bid(t, project.ID, freelancer.ID)

	updated, err := f.setState.Execute(ctx, b.ID, f.client.ID, "rejected")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != valueobject.BidStatusRejected || updated.Project.Status != valueobject.ProjectStatusOpen {
		t.Errorf("unexpected state: bid %s, project %s", updated.Status, updated.Project.Status)
	}

	if _, err := f.setState.Execute(ctx, b.ID, f.client.ID, "accepted"); !apperror.IsConflict(err) {
		t.Errorf("expected conflict for rejected bid, got %v", err)
	}
	if _, err := f.setState.Execute(ctx, b.ID, f.client.ID, "rejected"); !apperror.IsConflict(err) {
		t.Errorf("expected conflict re-rejecting bid, got %v", err)
	}
}

func TestSetBidStatus_ConcurrentAcceptsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	project := f.project(t, "Race")

	const n = 8
	bids := make([]*entity.Bid, n)
	for i := range bids {
		freelancer := f.store.AddUser(uuid.NewString()[:8], valueobject.RoleFreelancer)
		bids[i] = f.bid(t, project.ID, freelancer.ID)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   int
		conflicts int
	)
	for _, b := range bids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := f.setState.Execute(context.Background(), id, f.client.ID, "accepted")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case apperror.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(b.ID)
	}
	wg.Wait()

	if winners != 1 || conflicts != n-1 {
		t.Fatalf("expected 1 winner and %d conflicts, got %d and %d", n-1, winners, conflicts)
	}

	accepted := 0
	for _, b := range bids {
		switch f.store.Bid(b.ID).Status {
		case valueobject.BidStatusAccepted:
			accepted++
		case valueobject.BidStatusPending:
			t.Errorf("bid %s left pending", b.ID)
		}
	}
	if accepted != 1 {
		t.Errorf("expected exactly one accepted bid, got %d", accepted)
	}
}

func TestListProjectBids(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	freelancer := f.store.AddUser("artist", valueobject.RoleFreelancer)
	project := f.project(t, "Site")
	f.bid(t, project.ID, freelancer.ID)

	if _, err := f.listProj.Execute(ctx, project.ID, freelancer.ID); !apperror.IsForbidden(err) {
		t.Errorf("expected forbidden for non-owner, got %v", err)
	}
	if _, err := f.listProj.Execute(ctx, uuid.New(), f.client.ID); !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	bids, err := f.listProj.Execute(ctx, project.ID, f.client.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bids) != 1 || bids[0].Freelancer.Username != "artist" {
		t.Errorf("expected one bid with freelancer attached, got %+v", bids)
	}
}

func TestListMyBids_NewestFirst(t *testing.T) {
	f := newFixture(t)
	freelancer := f.store.AddUser("f", valueobject.RoleFreelancer)
	older := f.project(t, "Older")
	newer := f.project(t, "Newer")
	f.bid(t, older.ID, freelancer.ID)
	f.bid(t, newer.ID, freelancer.ID)

	bids, err := f.listMine.Execute(context.Background(), freelancer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bids) != 2 {
		t.Fatalf("expected 2 bids, got %d", len(bids))
	}
	if bids[0].Project.Title != "Newer" || bids[1].Project.Title != "Older" {
		t.Errorf("expected newest first, got %s, %s", bids[0].Project.Title, bids[1].Project.Title)
	}
	if bids[0].Client.Username != "client" {
		t.Errorf("expected client username attached, got %q", bids[0].Client.Username)
	}
}
