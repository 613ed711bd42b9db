package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/ignatzorin/barter-backend/pkg/client"
)

func commands() map[string]command {
	list := []command{
		{"register", "register --email E --password P --role client|freelancer", "регистрация", runRegister},
		{"login", "login --email E --password P", "вход", runLogin},
		{"profile", "profile [--username U] [--email E] [--skills a,b] [--barter-skills a,b]", "показать или изменить профиль", runProfile},
		{"projects", "projects [--skill S] [--payment skill|money|both] [--mine]", "открытые проекты или свои", runProjects},
		{"project", "project <id>", "карточка проекта", runProject},
		{"post", "post --title T [--description D] [--payment M] [--skills a,b]", "опубликовать проект", runPost},
		{"complete", "complete <projectId>", "отметить проект выполненным", runComplete},
		{"delete", "delete <projectId>", "удалить открытый проект", runDelete},
		{"bid", "bid <projectId> [--text T] [--barter a,b] [--payment N]", "откликнуться на проект", runBid},
		{"bids", "bids <projectId>", "заявки на ваш проект", runBids},
		{"my-bids", "my-bids", "ваши заявки", runMyBids},
		{"accept", "accept <bidId>", "принять заявку", decideBid("accepted")},
		{"reject", "reject <bidId>", "отклонить заявку", decideBid("rejected")},
		{"watch", "watch [--interval 30s]", "следить за статусами ваших заявок", runWatch},
	}

	byName := make(map[string]command, len(list))
	for _, c := range list {
		byName[c.name] = c
	}
	return byName
}

func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseArgs разбирает флаги и проверяет число позиционных аргументов.
func parseArgs(fs *pflag.FlagSet, args []string, positional ...string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%s: %w", fs.Name(), err)
	}
	if fs.NArg() != len(positional) {
		if len(positional) == 0 {
			return nil, fmt.Errorf("%s: лишние аргументы: %s", fs.Name(), strings.Join(fs.Args(), " "))
		}
		return nil, fmt.Errorf("%s: ожидается %s", fs.Name(), strings.Join(positional, " "))
	}
	return fs.Args(), nil
}

func (a *app) requireLogin() error {
	if a.session.Token == "" {
		return errors.New("сначала выполните barterctl login")
	}
	return nil
}

func (a *app) remember(s *client.Session) error {
	a.session.Token = s.Token
	a.session.UserID = s.ID
	a.session.Username = s.Username
	a.session.Role = s.Role
	return a.session.save(a.sessionPath)
}

func runRegister(ctx context.Context, a *app, args []string) error {
	var params client.RegisterParams
	fs := newFlags("register")
	fs.StringVar(&params.Username, "username", "", "имя пользователя (по умолчанию из email)")
	fs.StringVar(&params.Email, "email", "", "email")
	fs.StringVar(&params.Password, "password", "", "пароль")
	fs.StringVar(&params.Role, "role", "", "client или freelancer")
	fs.StringSliceVar(&params.Skills, "skills", nil, "ваши навыки")
	fs.StringSliceVar(&params.BarterSkills, "barter-skills", nil, "навыки, которые готовы предложить в обмен")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	s, err := a.api.Register(ctx, params)
	if err != nil {
		return err
	}
	if err := a.remember(s); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Зарегистрирован %s (%s).\n", s.Username, s.Role)
	return nil
}

func runLogin(ctx context.Context, a *app, args []string) error {
	var email, password string
	fs := newFlags("login")
	fs.StringVar(&email, "email", "", "email")
	fs.StringVar(&password, "password", "", "пароль")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	s, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.remember(s); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Вы вошли как %s (%s).\n", s.Username, s.Role)
	return nil
}

func runProfile(ctx context.Context, a *app, args []string) error {
	var username, email string
	var skills, barterSkills []string
	fs := newFlags("profile")
	fs.StringVar(&username, "username", "", "новое имя пользователя")
	fs.StringVar(&email, "email", "", "новый email")
	fs.StringSliceVar(&skills, "skills", nil, "навыки (заменяют текущие)")
	fs.StringSliceVar(&barterSkills, "barter-skills", nil, "навыки для обмена (заменяют текущие)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	var update client.ProfileUpdate
	changed := false
	if fs.Changed("username") {
		update.Username, changed = &username, true
	}
	if fs.Changed("email") {
		update.Email, changed = &email, true
	}
	if fs.Changed("skills") {
		update.Skills, changed = nonNil(skills), true
	}
	if fs.Changed("barter-skills") {
		update.BarterSkills, changed = nonNil(barterSkills), true
	}

	var (
		u   *client.User
		err error
	)
	if changed {
		u, err = a.api.UpdateProfile(ctx, update)
	} else {
		u, err = a.api.Profile(ctx)
	}
	if err != nil {
		return err
	}
	renderUser(a.out, u)
	return nil
}

func runProjects(ctx context.Context, a *app, args []string) error {
	var filter client.ProjectFilter
	var mine bool
	fs := newFlags("projects")
	fs.StringVar(&filter.Skill, "skill", "", "только проекты, где нужен навык")
	fs.StringVar(&filter.PaymentMethod, "payment", "", "skill, money или both")
	fs.BoolVar(&mine, "mine", false, "ваши проекты в любом статусе")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	var (
		projects []client.Project
		err      error
	)
	if mine {
		if err := a.requireLogin(); err != nil {
			return err
		}
		projects, err = a.api.MyProjects(ctx)
	} else {
		projects, err = a.api.ListProjects(ctx, filter)
	}
	if err != nil {
		return err
	}
	renderProjects(a.out, projects)
	return nil
}

func runProject(ctx context.Context, a *app, args []string) error {
	pos, err := parseArgs(newFlags("project"), args, "<id>")
	if err != nil {
		return err
	}

	p, err := a.api.GetProject(ctx, pos[0])
	if err != nil {
		return err
	}
	renderProject(a.out, p)
	return nil
}

func runPost(ctx context.Context, a *app, args []string) error {
	var p client.NewProject
	fs := newFlags("post")
	fs.StringVar(&p.Title, "title", "", "название")
	fs.StringVar(&p.Description, "description", "", "описание")
	fs.StringVar(&p.PreferredPaymentMethod, "payment", "money", "skill, money или both")
	fs.StringSliceVar(&p.SkillsRequired, "skills", nil, "нужные навыки")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	created, err := a.api.CreateProject(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Проект опубликован: %s\n", created.ID)
	return nil
}

func runComplete(ctx context.Context, a *app, args []string) error {
	pos, err := parseArgs(newFlags("complete"), args, "<projectId>")
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	p, err := a.api.UpdateProjectStatus(ctx, pos[0], "completed")
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Проект %q: %s\n", p.Title, p.Status)
	return nil
}

func runDelete(ctx context.Context, a *app, args []string) error {
	pos, err := parseArgs(newFlags("delete"), args, "<projectId>")
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	if err := a.api.DeleteProject(ctx, pos[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Проект удалён.")
	return nil
}

func runBid(ctx context.Context, a *app, args []string) error {
	var b client.NewBid
	var payment float64
	fs := newFlags("bid")
	fs.StringVar(&b.ProposalText, "text", "", "текст предложения")
	fs.StringSliceVar(&b.BarterOffer, "barter", nil, "навыки, которые предлагаете в обмен")
	fs.Float64Var(&payment, "payment", 0, "сумма оплаты")
	pos, err := parseArgs(fs, args, "<projectId>")
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	b.ProjectID = pos[0]
	if fs.Changed("payment") {
		b.PaymentOffer = &payment
	}

	created, err := a.api.SubmitBid(ctx, b)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Заявка отправлена: %s (%s)\n", created.ID, created.Status)
	return nil
}

func runBids(ctx context.Context, a *app, args []string) error {
	pos, err := parseArgs(newFlags("bids"), args, "<projectId>")
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	bids, err := a.api.ProjectBids(ctx, pos[0])
	if err != nil {
		return err
	}
	renderProjectBids(a.out, bids)
	return nil
}

func runMyBids(ctx context.Context, a *app, args []string) error {
	if _, err := parseArgs(newFlags("my-bids"), args); err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	bids, err := a.api.MyBids(ctx)
	if err != nil {
		return err
	}
	renderMyBids(a.out, bids)
	return nil
}

func decideBid(status string) func(ctx context.Context, a *app, args []string) error {
	return func(ctx context.Context, a *app, args []string) error {
		pos, err := parseArgs(newFlags(strings.TrimSuffix(status, "ed")), args, "<bidId>")
		if err != nil {
			return err
		}
		if err := a.requireLogin(); err != nil {
			return err
		}

		b, err := a.api.SetBidStatus(ctx, pos[0], status)
		if err != nil {
			return err
		}
		renderBid(a.out, b)
		return nil
	}
}

func runWatch(ctx context.Context, a *app, args []string) error {
	var interval time.Duration
	fs := newFlags("watch")
	fs.DurationVar(&interval, "interval", 30*time.Second, "период опроса")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}
	if interval <= 0 {
		return errors.New("watch: --interval должен быть положительным")
	}

	fmt.Fprintf(a.out, "Слежу за заявками каждые %s, Ctrl+C для выхода.\n", interval)
	return watchBids(ctx, a.api.MyBids, interval, a.out)
}

// watchBids опрашивает заявки до отмены ctx и печатает смену статусов.
// Ошибка одного опроса не прерывает наблюдение.
func watchBids(ctx context.Context, fetch func(context.Context) ([]client.Bid, error), interval time.Duration, out io.Writer) error {
	known := make(map[string]string)
	first := true

	poll := func() {
		bids, err := fetch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintf(out, "%s  опрос не удался: %v\n", time.Now().Format("15:04:05"), err)
			}
			return
		}
		if first {
			renderMyBids(out, bids)
		}
		for _, b := range bids {
			prev, seen := known[b.ID]
			if !first && (!seen || prev != b.Status) {
				fmt.Fprintf(out, "%s  %s: %s -> %s\n", time.Now().Format("15:04:05"), bidTitle(b), orDash(prev), b.Status)
			}
			known[b.ID] = b.Status
		}
		first = false
	}

	poll()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			poll()
		}
	}
}

func bidTitle(b client.Bid) string {
	if b.Project != nil && b.Project.Title != "" {
		return b.Project.Title
	}
	return b.ID
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
