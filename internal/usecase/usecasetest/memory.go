// Package usecasetest содержит хранилище в памяти для тестов сценариев.
// Оно повторяет контракт репозиториев Postgres: ошибки NotFound и Conflict,
// условные обновления и атомарное принятие заявки.
package usecasetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/repository"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

type Store struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	projects map[uuid.UUID]*entity.Project
	bids     map[uuid.UUID]*entity.Bid
	seq      map[uuid.UUID]int
	next     int
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*entity.User),
		projects: make(map[uuid.UUID]*entity.Project),
		bids:     make(map[uuid.UUID]*entity.Bid),
		seq:      make(map[uuid.UUID]int),
	}
}

func (s *Store) Users() repository.UserRepository { return userRepo{s} }
func (s *Store) Projects() repository.ProjectRepository { return projectRepo{s} }
func (s *Store) Bids() repository.BidRepository { return bidRepo{s} }

// AddUser кладёт пользователя напрямую, минуя регистрацию.
func (s *Store) AddUser(username string, role valueobject.Role) *entity.User {
	u := entity.NewUser(username, username+"@example.com", "", role, nil, nil)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	s.stamp(u.ID)
	return u
}

// Project и Bid возвращают текущее состояние без копирования, только для проверок.
func (s *Store) Project(id uuid.UUID) *entity.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects[id]
}

func (s *Store) Bid(id uuid.UUID) *entity.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bids[id]
}

func (s *Store) stamp(id uuid.UUID) {
	s.next++
	s.seq[id] = s.next
}

func (s *Store) summary(id uuid.UUID) entity.UserSummary {
	if u, ok := s.users[id]; ok {
		return u.Summary()
	}
	return entity.UserSummary{ID: id}
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func copyProject(p *entity.Project) *entity.Project {
	c := *p
	return &c
}

func copyBid(b *entity.Bid) *entity.Bid {
	c := *b
	return &c
}

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkUnique(user); err != nil {
		return err
	}
	r.s.users[user.ID] = copyUser(user)
	r.s.stamp(user.ID)
	return nil
}

func (r userRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return apperror.ErrUserNotFound
	}
	if err := r.s.checkUnique(user); err != nil {
		return err
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (s *Store) checkUnique(user *entity.User) error {
	for _, u := range s.users {
		if u.ID == user.ID {
			continue
		}
		if u.Email == user.Email || u.Username == user.Username {
			return apperror.New(apperror.ErrCodeConflict, "пользователь с таким email или username уже существует")
		}
	}
	return nil
}

func (r userRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, apperror.ErrUserNotFound
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == entity.NormalizeEmail(email) {
			return copyUser(u), nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

func (r userRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

type projectRepo struct{ s *Store }

func (r projectRepo) Create(ctx context.Context, project *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.projects[project.ID] = copyProject(project)
	r.s.stamp(project.ID)
	return nil
}

func (r projectRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.projects[id]; ok {
		return copyProject(p), nil
	}
	return nil, apperror.ErrProjectNotFound
}

func (r projectRepo) FindByIDWithClient(ctx context.Context, id uuid.UUID) (*entity.ProjectWithClient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, apperror.ErrProjectNotFound
	}
	return &entity.ProjectWithClient{Project: copyProject(p), Client: r.s.summary(p.ClientID)}, nil
}

func (r projectRepo) ListOpen(ctx context.Context, filter repository.ProjectFilter) ([]*entity.ProjectWithClient, error) {
	return r.list(func(p *entity.Project) bool {
		if !p.IsOpen() {
			return false
		}
		if filter.Skill != "" && !p.SkillsRequired.Contains(filter.Skill) {
			return false
		}
		return filter.PaymentMethod == "" || p.PreferredPaymentMethod == filter.PaymentMethod
	}, false), nil
}

func (r projectRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.ProjectWithClient, error) {
	return r.list(func(p *entity.Project) bool { return p.ClientID == clientID }, true), nil
}

func (r projectRepo) list(match func(*entity.Project) bool, newestFirst bool) []*entity.ProjectWithClient {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.ProjectWithClient, 0)
	for _, p := range r.s.projects {
		if match(p) {
			result = append(result, &entity.ProjectWithClient{Project: copyProject(p), Client: r.s.summary(p.ClientID)})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if newestFirst {
			return r.s.seq[result[i].ID] > r.s.seq[result[j].ID]
		}
		return r.s.seq[result[i].ID] < r.s.seq[result[j].ID]
	})
	return result
}

func (r projectRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.ProjectStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return apperror.ErrProjectNotFound
	}
	if p.Status != from {
		return apperror.New(apperror.ErrCodeConflict, "статус проекта изменился")
	}
	p.Status = to
	p.UpdatedAt = time.Now()
	return nil
}

func (r projectRepo) DeleteIfOpen(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return apperror.ErrProjectNotFound
	}
	if !p.IsOpen() {
		return apperror.New(apperror.ErrCodeConflict, "удалить можно только открытый проект")
	}
	delete(r.s.projects, id)
	for bidID, b := range r.s.bids {
		if b.ProjectID == id {
			delete(r.s.bids, bidID)
		}
	}
	return nil
}

type bidRepo struct{ s *Store }

func (r bidRepo) Create(ctx context.Context, bid *entity.Bid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bids {
		if b.ProjectID == bid.ProjectID && b.FreelancerID == bid.FreelancerID {
			return apperror.New(apperror.ErrCodeConflict, "вы уже откликнулись на этот проект")
		}
	}
	r.s.bids[bid.ID] = copyBid(bid)
	r.s.stamp(bid.ID)
	return nil
}

func (r bidRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bids[id]; ok {
		return copyBid(b), nil
	}
	return nil, apperror.ErrBidNotFound
}

func (r bidRepo) FindByProjectAndFreelancer(ctx context.Context, projectID, freelancerID uuid.UUID) (*entity.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bids {
		if b.ProjectID == projectID && b.FreelancerID == freelancerID {
			return copyBid(b), nil
		}
	}
	return nil, apperror.ErrBidNotFound
}

func (r bidRepo) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*entity.BidWithDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bids[id]
	if !ok {
		return nil, apperror.ErrBidNotFound
	}
	p, ok := r.s.projects[b.ProjectID]
	if !ok {
		return nil, apperror.ErrProjectNotFound
	}
	return &entity.BidWithDetails{
		Bid:        copyBid(b),
		Project:    copyProject(p),
		Freelancer: r.s.summary(b.FreelancerID),
	}, nil
}

func (r bidRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*entity.BidWithFreelancer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.BidWithFreelancer, 0)
	for _, b := range r.s.sortedBids(false) {
		if b.ProjectID == projectID {
			result = append(result, &entity.BidWithFreelancer{Bid: copyBid(b), Freelancer: r.s.summary(b.FreelancerID)})
		}
	}
	return result, nil
}

func (r bidRepo) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.BidWithProject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.BidWithProject, 0)
	for _, b := range r.s.sortedBids(true) {
		if b.FreelancerID != freelancerID {
			continue
		}
		p := r.s.projects[b.ProjectID]
		result = append(result, &entity.BidWithProject{
			Bid:     copyBid(b),
			Project: copyProject(p),
			Client:  r.s.summary(p.ClientID),
		})
	}
	return result, nil
}

func (s *Store) sortedBids(newestFirst bool) []*entity.Bid {
	bids := make([]*entity.Bid, 0, len(s.bids))
	for _, b := range s.bids {
		bids = append(bids, b)
	}
	sort.Slice(bids, func(i, j int) bool {
		if newestFirst {
			return s.seq[bids[i].ID] > s.seq[bids[j].ID]
		}
		return s.seq[bids[i].ID] < s.seq[bids[j].ID]
	})
	return bids
}

func (r bidRepo) Accept(ctx context.Context, bidID, projectID uuid.UUID) ([]*entity.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[projectID]
	if !ok {
		return nil, apperror.ErrProjectNotFound
	}
	if !p.IsOpen() {
		return nil, apperror.New(apperror.ErrCodeConflict, "проект уже не принимает заявки")
	}
	b, ok := r.s.bids[bidID]
	if !ok || b.ProjectID != projectID {
		return nil, apperror.ErrBidNotFound
	}
	if !b.IsPending() {
		return nil, apperror.New(apperror.ErrCodeConflict, "заявка уже обработана")
	}

	now := time.Now()
	b.Status = valueobject.BidStatusAccepted
	b.UpdatedAt = now
	p.Status = valueobject.ProjectStatusInProgress
	p.UpdatedAt = now

	rejected := make([]*entity.Bid, 0)
	for _, sibling := range r.s.sortedBids(false) {
		if sibling.ProjectID == projectID && sibling.ID != bidID && sibling.IsPending() {
			sibling.Status = valueobject.BidStatusRejected
			sibling.UpdatedAt = now
			rejected = append(rejected, copyBid(sibling))
		}
	}
	return rejected, nil
}

func (r bidRepo) Reject(ctx context.Context, bidID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bids[bidID]
	if !ok {
		return apperror.ErrBidNotFound
	}
	if !b.IsPending() {
		return apperror.New(apperror.ErrCodeConflict, "заявка уже обработана")
	}
	b.Status = valueobject.BidStatusRejected
	b.UpdatedAt = time.Now()
	return nil
}
