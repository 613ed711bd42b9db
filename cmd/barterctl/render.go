package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ignatzorin/barter-backend/pkg/client"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func renderProjects(w io.Writer, projects []client.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "Проектов нет.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tНАЗВАНИЕ\tОПЛАТА\tНАВЫКИ\tСТАТУС\tЗАКАЗЧИК")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Title, p.PreferredPaymentMethod, joinOrDash(p.SkillsRequired), p.Status, personName(p.Client))
	}
	_ = tw.Flush()
}

func renderProject(w io.Writer, p *client.Project) {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Название:\t%s\n", p.Title)
	fmt.Fprintf(tw, "Описание:\t%s\n", orDash(p.Description))
	fmt.Fprintf(tw, "Оплата:\t%s\n", p.PreferredPaymentMethod)
	fmt.Fprintf(tw, "Навыки:\t%s\n", joinOrDash(p.SkillsRequired))
	fmt.Fprintf(tw, "Статус:\t%s\n", p.Status)
	if p.Client != nil {
		fmt.Fprintf(tw, "Заказчик:\t%s %s\n", p.Client.Username, p.Client.Email)
	}
	fmt.Fprintf(tw, "Создан:\t%s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
	_ = tw.Flush()
}

// renderProjectBids: заявки на проект глазами заказчика.
func renderProjectBids(w io.Writer, bids []client.Bid) {
	if len(bids) == 0 {
		fmt.Fprintln(w, "Заявок пока нет.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tФРИЛАНСЕР\tДЕНЬГИ\tБАРТЕР\tСТАТУС\tПРЕДЛОЖЕНИЕ")
	for _, b := range bids {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, personName(b.Freelancer), money(b.PaymentOffer), joinOrDash(b.BarterOffer), b.Status, truncate(b.ProposalText, 40))
	}
	_ = tw.Flush()
}

// renderMyBids: заявки фрилансера с проектами.
func renderMyBids(w io.Writer, bids []client.Bid) {
	if len(bids) == 0 {
		fmt.Fprintln(w, "Вы ещё не откликались на проекты.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tПРОЕКТ\tЗАКАЗЧИК\tДЕНЬГИ\tБАРТЕР\tСТАТУС")
	for _, b := range bids {
		title, clientName := "-", "-"
		if b.Project != nil {
			title = b.Project.Title
			clientName = personName(b.Project.Client)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, title, clientName, money(b.PaymentOffer), joinOrDash(b.BarterOffer), b.Status)
	}
	_ = tw.Flush()
}

func renderBid(w io.Writer, b *client.Bid) {
	fmt.Fprintf(w, "Заявка %s: %s\n", b.ID, b.Status)
	if b.Project != nil {
		fmt.Fprintf(w, "Проект %q: %s\n", b.Project.Title, b.Project.Status)
	}
}

func renderUser(w io.Writer, u *client.User) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Имя:\t%s\n", u.Username)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Роль:\t%s\n", u.Role)
	fmt.Fprintf(tw, "Навыки:\t%s\n", joinOrDash(u.Skills))
	fmt.Fprintf(tw, "Навыки для обмена:\t%s\n", joinOrDash(u.BarterSkills))
	_ = tw.Flush()
}

func personName(p *client.Person) string {
	if p == nil || p.Username == "" {
		return "-"
	}
	return p.Username
}

func money(amount *float64) string {
	if amount == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *amount)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
