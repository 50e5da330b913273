package http

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"tabungan/internal/core"
)

const (
	// previewSize is how many members and entries the summary tab shows.
	previewSize = 4
	defaultNote = "Setoran tabungan"
)

type tabLink struct {
	Label  string
	URL    string
	Active bool
}

type groupView struct {
	Name        string
	Description string
	AvatarURL   string
	Initial     string
	Saved       string
	Target      string
	Percent     string
	Bar         int
	MemberCount int
}

type memberView struct {
	ID        string
	Name      string
	AvatarURL string
	Initial   string
	Saved     string
	Target    string
	Percent   string
	Bar       int
	DetailURL string
	Selected  bool
}

type entryView struct {
	ID         string
	MemberName string
	Amount     string
	Date       string
	Note       string
	TypeLabel  string
	Sign       string
	Deposit    bool
}

type modalView struct {
	Member     memberView
	Summary    string
	Percent    string
	EntryCount int
	Entries    []entryView
	CloseURL   string
}

// dashboardPage is the data of the dashboard_page template.
type dashboardPage struct {
	Group   groupView
	Tabs    []tabLink
	Tab     Tab
	State   ViewState
	Members []memberView
	Entries []entryView

	PreviewMembers []memberView
	PreviewEntries []entryView
	EntryCount     int

	MembersURL      string
	TransactionsURL string

	Modal *modalView
}

func newDashboardPage(snap *core.Snapshot, vs ViewState) dashboardPage {
	page := dashboardPage{
		Group:           newGroupView(snap.Group),
		Tab:             vs.Tab,
		State:           vs,
		EntryCount:      len(snap.Entries),
		MembersURL:      vs.WithTab(TabMembers).URL(),
		TransactionsURL: vs.WithTab(TabTransactions).URL(),
	}

	for _, t := range Tabs {
		page.Tabs = append(page.Tabs, tabLink{
			Label:  t.Label(),
			URL:    vs.WithTab(t).URL(),
			Active: t == vs.Tab,
		})
	}

	page.Members = make([]memberView, 0, len(snap.Members))
	for _, m := range snap.Members {
		mv := newMemberView(m)
		mv.DetailURL = vs.WithMember(m.ID).URL()
		mv.Selected = m.ID == vs.SelectedMemberID
		page.Members = append(page.Members, mv)
	}
	page.Entries = newEntryViews(snap.Entries)
	page.PreviewMembers = head(page.Members, previewSize)
	page.PreviewEntries = head(page.Entries, previewSize)

	if vs.ShowMemberModal {
		if m, ok := snap.Member(vs.SelectedMemberID); ok {
			entries := newEntryViews(snap.EntriesOf(m.ID))
			page.Modal = &modalView{
				Member:     newMemberView(m),
				Summary:    "Total setoran: " + core.FormatRupiah(m.Saved.Cents) + " / " + core.FormatRupiah(m.Target.Cents),
				Percent:    core.FormatPercent(m.ProgressPct),
				EntryCount: len(entries),
				Entries:    entries,
				CloseURL:   vs.CloseModal().URL(),
			}
		}
	}
	return page
}

func newGroupView(g core.GroupStat) groupView {
	return groupView{
		Name:        g.Name,
		Description: g.Description,
		AvatarURL:   g.AvatarURL,
		Initial:     initial(g.Name),
		Saved:       core.FormatRupiah(g.Saved.Cents),
		Target:      core.FormatRupiah(g.Target.Cents),
		Percent:     core.FormatPercent(g.ProgressPct),
		Bar:         barWidth(g.ProgressPct),
		MemberCount: g.MemberCount,
	}
}

func newMemberView(m core.MemberStat) memberView {
	return memberView{
		ID:        m.ID,
		Name:      m.DisplayName,
		AvatarURL: m.AvatarURL,
		Initial:   initial(m.DisplayName),
		Saved:     core.FormatRupiah(m.Saved.Cents),
		Target:    core.FormatRupiah(m.Target.Cents),
		Percent:   core.FormatPercent(m.ProgressPct),
		Bar:       barWidth(m.ProgressPct),
	}
}

func newEntryViews(entries []core.EntryView) []entryView {
	out := make([]entryView, 0, len(entries))
	for _, e := range entries {
		ev := entryView{
			ID:         e.ID,
			MemberName: e.MemberName,
			Amount:     core.FormatRupiah(e.Amount.Cents),
			Date:       e.Date.Display(),
			Note:       noteOrDefault(e.Note),
			Deposit:    e.Type == core.Deposit,
		}
		if ev.Deposit {
			ev.TypeLabel, ev.Sign = "Deposit", "+"
		} else {
			ev.TypeLabel, ev.Sign = "Withdraw", "-"
		}
		out = append(out, ev)
	}
	return out
}

func head[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// initial is the avatar fallback: the first letter of name, upper-cased.
func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

func noteOrDefault(note string) string {
	if strings.TrimSpace(note) == "" {
		return defaultNote
	}
	return note
}

// barWidth clamps a progress percentage to a 0..100 bar width.
func barWidth(pct float64) int {
	switch {
	case pct <= 0:
		return 0
	case pct >= 100:
		return 100
	}
	return int(pct + 0.5)
}

func memberCountLabel(n int) string {
	return strconv.Itoa(n) + " anggota"
}

func entryCountLabel(n int) string {
	return strconv.Itoa(n) + " transaksi"
}
