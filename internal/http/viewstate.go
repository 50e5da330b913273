package http

import (
	"net/url"
	"strings"

	"tabungan/internal/core"
)

type Tab string

const (
	TabSummary      Tab = "summary"
	TabMembers      Tab = "members"
	TabTransactions Tab = "transactions"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{TabSummary, TabMembers, TabTransactions}

func (t Tab) Label() string {
	switch t {
	case TabMembers:
		return "Anggota"
	case TabTransactions:
		return "Transaksi"
	default:
		return "Ringkasan"
	}
}

func parseTab(s string) Tab {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabMembers:
		return TabMembers
	case TabTransactions:
		return TabTransactions
	default:
		return TabSummary
	}
}

// ViewState is the UI state of one dashboard page view, carried entirely in
// the query string: ?tab=members&member=<id>&modal=1
type ViewState struct {
	Tab              Tab
	SelectedMemberID string
	ShowMemberModal  bool
}

// ParseViewState reads the view state from q. An unknown tab falls back to
// the summary, the selected member defaults to the first member, and the
// member modal is only shown for a member that exists in snap.
func ParseViewState(q url.Values, snap *core.Snapshot) ViewState {
	vs := ViewState{Tab: parseTab(q.Get("tab"))}
	if snap == nil || len(snap.Members) == 0 {
		return vs
	}

	vs.SelectedMemberID = snap.Members[0].ID
	requested := strings.TrimSpace(q.Get("member"))
	if requested == "" {
		return vs
	}
	if _, ok := snap.Member(requested); !ok {
		return vs
	}
	vs.SelectedMemberID = requested
	vs.ShowMemberModal = isTruthy(q.Get("modal"))
	return vs
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Query encodes the state back into query parameters. The default tab and
// a closed modal are left out.
func (vs ViewState) Query() url.Values {
	q := url.Values{}
	if vs.Tab != "" && vs.Tab != TabSummary {
		q.Set("tab", string(vs.Tab))
	}
	if vs.ShowMemberModal && vs.SelectedMemberID != "" {
		q.Set("member", vs.SelectedMemberID)
		q.Set("modal", "1")
	}
	return q
}

// URL returns the dashboard path for the state.
func (vs ViewState) URL() string {
	if q := vs.Query().Encode(); q != "" {
		return "/?" + q
	}
	return "/"
}

// WithTab switches tab and closes the modal.
func (vs ViewState) WithTab(t Tab) ViewState {
	vs.Tab = t
	vs.ShowMemberModal = false
	return vs
}

// WithMember opens the modal for the given member on the current tab.
func (vs ViewState) WithMember(id string) ViewState {
	vs.SelectedMemberID = id
	vs.ShowMemberModal = true
	return vs
}

func (vs ViewState) CloseModal() ViewState {
	vs.ShowMemberModal = false
	return vs
}
