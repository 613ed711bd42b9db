package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/barter-backend/internal/apitest"
	"github.com/ignatzorin/barter-backend/pkg/client"
)

type cli struct {
	t       *testing.T
	server  string
	session string
}

func newCLI(t *testing.T, server, user string) *cli {
	return &cli{t: t, server: server, session: filepath.Join(t.TempDir(), user+".json")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	full := append([]string{"--server", c.server, "--session", c.session}, args...)
	err := run(context.Background(), full, &out)
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

// fieldAfter возвращает первое слово после prefix в строке, которая с него начинается.
func fieldAfter(out, prefix string) string {
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			if fields := strings.Fields(rest); len(fields) > 0 {
				return fields[0]
			}
		}
	}
	return ""
}

func TestBarterctlFlow(t *testing.T) {
	srv := apitest.NewServer(t)
	alice := newCLI(t, srv.URL, "alice")
	bob := newCLI(t, srv.URL, "bob")

	out := alice.mustRun("register", "--username", "alice", "--email", "alice@example.com", "--password", "Secret123", "--role", "client")
	assert.Contains(t, out, "alice (client)")

	sess, err := loadSession(alice.session)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, srv.URL, sess.Server)

	bob.mustRun("register", "--username", "bob", "--email", "bob@example.com", "--password", "Secret123", "--role", "freelancer", "--barter-skills", "copywriting")

	out = alice.mustRun("post", "--title", "Logo Design", "--payment", "both", "--skills", "design,illustrator")
	projectID := fieldAfter(out, "Проект опубликован:")
	require.NotEmpty(t, projectID)

	out = bob.mustRun("projects", "--skill", "design")
	assert.Contains(t, out, "Logo Design")
	assert.Contains(t, out, "design, illustrator")

	out = bob.mustRun("bid", projectID, "--text", "Swap?", "--barter", "copywriting", "--payment", "50")
	assert.Contains(t, out, "pending")
	bidID := fieldAfter(out, "Заявка отправлена:")
	require.NotEmpty(t, bidID)

	out = alice.mustRun("bids", projectID)
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "50.00")

	out = bob.mustRun("my-bids")
	assert.Contains(t, out, "Logo Design")

	assert.Contains(t, out, bidID)

	_, err = bob.run("accept", bidID)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "FORBIDDEN", apiErr.Code)

	out = alice.mustRun("accept", bidID)
	assert.Contains(t, out, "accepted")
	assert.Contains(t, out, "in progress")

	_, err = alice.run("delete", projectID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "CONFLICT", apiErr.Code)

	out = alice.mustRun("complete", projectID)
	assert.Contains(t, out, "completed")

	out = alice.mustRun("project", projectID)
	assert.Contains(t, out, "alice@example.com")
}

func TestProfileCommand(t *testing.T) {
	srv := apitest.NewServer(t)
	carol := newCLI(t, srv.URL, "carol")

	_, err := carol.run("profile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login")

	carol.mustRun("register", "--email", "carol@example.com", "--password", "Secret123", "--role", "freelancer")
	out := carol.mustRun("profile", "--skills", "go,sql", "--barter-skills", "")
	assert.Contains(t, out, "go, sql")

	other := newCLI(t, srv.URL, "carol-again")
	other.mustRun("login", "--email", "carol@example.com", "--password", "Secret123")
	out = other.mustRun("profile")
	assert.Contains(t, out, "carol")
	assert.Contains(t, out, "freelancer")
}

func TestArgumentErrors(t *testing.T) {
	c := newCLI(t, "http://127.0.0.1:1", "nobody")

	out, err := c.run()
	require.NoError(t, err)
	assert.Contains(t, out, "my-bids")

	_, err = c.run("fly")
	assert.ErrorContains(t, err, "неизвестная команда")

	_, err = c.run("project")
	assert.ErrorContains(t, err, "<id>")

	_, err = c.run("my-bids", "extra")
	assert.ErrorContains(t, err, "лишние аргументы")

	_, err = c.run("watch", "--interval", "soon")
	assert.Error(t, err)
}

type scriptedFetch struct {
	mu    sync.Mutex
	steps [][]client.Bid
	calls int
	done  chan struct{}
}

func (s *scriptedFetch) fetch(context.Context) ([]client.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls > len(s.steps) {
		// к пятому вызову вывод четвёртого уже записан
		if s.calls == len(s.steps)+2 {
			close(s.done)
		}
		return nil, errors.New("server down")
	}
	return s.steps[s.calls-1], nil
}

func TestWatchBidsReportsChanges(t *testing.T) {
	project := &client.BidProject{Title: "Logo Design"}
	f := &scriptedFetch{
		done: make(chan struct{}),
		steps: [][]client.Bid{
			{{ID: "b1", Status: "pending", Project: project}},
			{{ID: "b1", Status: "pending", Project: project}},
			{{ID: "b1", Status: "accepted", Project: project}, {ID: "b2", Status: "pending"}},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	finished := make(chan error, 1)
	go func() { finished <- watchBids(ctx, f.fetch, 5*time.Millisecond, &out) }()

	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not poll")
	}
	cancel()
	require.NoError(t, <-finished)

	text := out.String()
	assert.Contains(t, text, "Logo Design: pending -> accepted")
	assert.Contains(t, text, "b2: - -> pending")
	assert.Equal(t, 2, strings.Count(text, "->"))
	assert.Contains(t, text, "опрос не удался")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
