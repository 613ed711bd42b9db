package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/barter-backend/internal/apitest"
	"github.com/ignatzorin/barter-backend/pkg/client"
)

func newServer(t *testing.T) *httptest.Server {
	return apitest.NewServer(t)
}

func register(t *testing.T, baseURL, username, role string) *client.Client {
	t.Helper()
	c := client.New(baseURL)
	s, err := c.Register(context.Background(), client.RegisterParams{
		Username: username,
		Email:    username + "@example.com",
		Password: "Secret123",
		Role:     role,
	})
	require.NoError(t, err)
	assert.Equal(t, role, s.Role)
	assert.Equal(t, s.Token, c.Token())
	return c
}

func TestBarterFlow(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	alice := register(t, srv.URL, "alice", "client")
	bob := register(t, srv.URL, "bob", "freelancer")

	p, err := alice.CreateProject(ctx, client.NewProject{
		Title:                  "Logo Design",
		PreferredPaymentMethod: "skill",
		SkillsRequired:         []string{"design"},
	})
	require.NoError(t, err)
	assert.Equal(t, "open", p.Status)

	open, err := bob.ListProjects(ctx, client.ProjectFilter{Skill: "design"})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "alice", open[0].Client.Username)

	offer := 80.0
	b, err := bob.SubmitBid(ctx, client.NewBid{ProjectID: p.ID, ProposalText: "Deal", BarterOffer: []string{"copywriting"}, PaymentOffer: &offer})
	require.NoError(t, err)
	assert.Equal(t, "pending", b.Status)

	_, err = bob.SubmitBid(ctx, client.NewBid{ProjectID: p.ID})
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "CONFLICT", apiErr.Code)

	bids, err := alice.ProjectBids(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.Equal(t, "bob", bids[0].Freelancer.Username)

	accepted, err := alice.SetBidStatus(ctx, b.ID, "accepted")
	require.NoError(t, err)
	assert.Equal(t, "accepted", accepted.Status)
	assert.Equal(t, "in progress", accepted.Project.Status)

	mine, err := bob.MyBids(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "accepted", mine[0].Status)
	require.NotNil(t, mine[0].PaymentOffer)
	assert.Equal(t, 80.0, *mine[0].PaymentOffer)

	completed, err := alice.UpdateProjectStatus(ctx, p.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)

	err = alice.DeleteProject(ctx, p.ID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "CONFLICT", apiErr.Code)
}

func TestProfileAndLogin(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	register(t, srv.URL, "carol", "freelancer")

	c := client.New(srv.URL)
	_, err := c.Profile(ctx)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, err = c.Login(ctx, "carol@example.com", "Secret123")
	require.NoError(t, err)

	name := "carol_dev"
	u, err := c.UpdateProfile(ctx, client.ProfileUpdate{Username: &name, Skills: []string{"go", "sql"}})
	require.NoError(t, err)
	assert.Equal(t, "carol_dev", u.Username)
	assert.Equal(t, []string{"go", "sql"}, u.Skills)

	u, err = c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "freelancer", u.Role)
}

func TestNonEnvelopeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).MyBids(context.Background())
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "BAD_RESPONSE", apiErr.Code)
}
