package http

import "tabungan/internal/core"

// dashboardResponse is the JSON body of GET /api/dashboard.
type dashboardResponse struct {
	Group   groupJSON    `json:"group"`
	Members []memberJSON `json:"members"`
	Entries []entryJSON  `json:"entries"`
}

type groupJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	AvatarURL   string  `json:"avatarUrl,omitempty"`
	TargetCents int64   `json:"targetCents"`
	SavedCents  int64   `json:"savedCents"`
	ProgressPct float64 `json:"progressPct"`
	MemberCount int     `json:"memberCount"`
}

type memberJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	AvatarURL   string  `json:"avatarUrl,omitempty"`
	TargetCents int64   `json:"targetCents"`
	SavedCents  int64   `json:"savedCents"`
	ProgressPct float64 `json:"progressPct"`
}

type entryJSON struct {
	ID          string `json:"id"`
	MemberID    string `json:"memberId"`
	MemberName  string `json:"memberName"`
	AmountCents int64  `json:"amountCents"`
	Type        string `json:"type"`
	Note        string `json:"note,omitempty"`
	Date        string `json:"date"`
}

func newDashboardResponse(snap *core.Snapshot) dashboardResponse {
	g := snap.Group
	resp := dashboardResponse{
		Group: groupJSON{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			AvatarURL:   g.AvatarURL,
			TargetCents: g.Target.Cents,
			SavedCents:  g.Saved.Cents,
			ProgressPct: g.ProgressPct,
			MemberCount: g.MemberCount,
		},
		Members: make([]memberJSON, 0, len(snap.Members)),
		Entries: make([]entryJSON, 0, len(snap.Entries)),
	}
	for _, m := range snap.Members {
		resp.Members = append(resp.Members, memberJSON{
			ID:          m.ID,
			Name:        m.DisplayName,
			AvatarURL:   m.AvatarURL,
			TargetCents: m.Target.Cents,
			SavedCents:  m.Saved.Cents,
			ProgressPct: m.ProgressPct,
		})
	}
	for _, e := range snap.Entries {
		resp.Entries = append(resp.Entries, entryJSON{
			ID:          e.ID,
			MemberID:    e.MemberID,
			MemberName:  e.MemberName,
			AmountCents: e.Amount.Cents,
			Type:        string(e.Type),
			Note:        e.Note,
			Date:        e.Date.Format("2006-01-02"),
		})
	}
	return resp
}
