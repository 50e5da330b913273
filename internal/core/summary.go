package core

import "github.com/shopspring/decimal"

// UnknownMemberName labels entries whose member is not part of the group.
const UnknownMemberName = "Tidak diketahui"

var hundred = decimal.NewFromInt(100)

// MemberStat is a member with its signed savings and progress.
type MemberStat struct {
	Member
	Saved       Money
	ProgressPct float64
}

// GroupStat is the group with the signed total of every entry.
type GroupStat struct {
	Group
	Saved       Money
	ProgressPct float64
	MemberCount int
}

// EntryView is an entry enriched with its member display name.
type EntryView struct {
	Entry
	MemberName string
}

// Snapshot is the immutable dashboard view model.
type Snapshot struct {
	Group   GroupStat
	Members []MemberStat
	Entries []EntryView
}

// ProgressPct returns saved as a percentage of target, capped at 100.
// A zero or negative target yields 0. There is no lower bound: a negative
// saved amount produces a negative percentage.
func ProgressPct(saved, target int64) float64 {
	if target <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(saved).Mul(hundred).Div(decimal.NewFromInt(target))
	return decimal.Min(pct, hundred).InexactFloat64()
}

// BuildSnapshot aggregates members and entries of one group. Entries are
// expected newest-first and keep their order; members keep theirs.
func BuildSnapshot(group Group, members []Member, entries []Entry) Snapshot {
	savedByMember := make(map[string]int64, len(members))
	var total int64
	for _, e := range entries {
		signed := e.SignedCents()
		savedByMember[e.MemberID] += signed
		total += signed
	}

	names := make(map[string]string, len(members))
	stats := make([]MemberStat, 0, len(members))
	for _, m := range members {
		names[m.ID] = m.DisplayName
		saved := savedByMember[m.ID]
		stats = append(stats, MemberStat{
			Member:      m,
			Saved:       Money{Cents: saved},
			ProgressPct: ProgressPct(saved, m.Target.Cents),
		})
	}

	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		name, ok := names[e.MemberID]
		if !ok {
			name = UnknownMemberName
		}
		views = append(views, EntryView{Entry: e, MemberName: name})
	}

	return Snapshot{
		Group: GroupStat{
			Group:       group,
			Saved:       Money{Cents: total},
			ProgressPct: ProgressPct(total, group.Target.Cents),
			MemberCount: len(members),
		},
		Members: stats,
		Entries: views,
	}
}

// Member returns the stat of the given member id.
func (s Snapshot) Member(id string) (MemberStat, bool) {
	for _, m := range s.Members {
		if m.ID == id {
			return m, true
		}
	}
	return MemberStat{}, false
}

// EntriesOf returns the entries of one member in snapshot order.
func (s Snapshot) EntriesOf(memberID string) []EntryView {
	out := make([]EntryView, 0)
	for _, e := range s.Entries {
		if e.MemberID == memberID {
			out = append(out, e)
		}
	}
	return out
}

// IsEmpty reports whether the group has neither members nor entries.
func (s Snapshot) IsEmpty() bool {
	return len(s.Members) == 0 && len(s.Entries) == 0
}
