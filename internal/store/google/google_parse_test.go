package google

import (
	"strings"
	"testing"

	"tabungan/internal/core"
)

func TestParseGroups(t *testing.T) {
	values := [][]interface{}{
		{"id", "name", "description", "target_total_cents", "avatar_url", "created_at"},
		{"g1", "Liburan", "Bali 2026", "10,000,000", "", "2025-01-01T00:00:00Z"},
		{"", "", "", "", "", ""}, // blank line
		{"g2", "Rumah", "", "100", "", "2025-01-02"},
	}
	groups, err := parseGroups(values)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d: %+v", len(groups), groups)
	}
	g := groups[0]
	if g.ID != "g1" || g.Target.Cents != 10000000 || g.Description != "Bali 2026" || g.CreatedAt.IsZero() {
		t.Fatalf("unexpected group: %+v", g)
	}
}

func TestParseGroups_BadRowFails(t *testing.T) {
	tests := []struct {
		name string
		row  []interface{}
		want string
	}{
		{"missing name", []interface{}{"g2", "", "", "100", "", "2025-01-02"}, "row 3: empty name"},
		{"dotted target", []interface{}{"g2", "Rumah", "", "1.000.000", "", ""}, "row 3: target_total_cents: invalid amount"},
		{"text target", []interface{}{"g2", "Rumah", "", "abc", "", ""}, "row 3: target_total_cents"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := [][]interface{}{
				{"id", "name", "description", "target_total_cents", "avatar_url", "created_at"},
				{"g1", "Liburan", "", "100", "", ""},
				tt.row,
			}
			groups, err := parseGroups(values)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
			if groups != nil {
				t.Fatalf("expected no groups on error, got %+v", groups)
			}
		})
	}
}

func TestParseMembers_OptionalTarget(t *testing.T) {
	values := [][]interface{}{
		{"ID", "Group_ID", "Display_Name", "Target_Amount_Cents"},
		{"m1", "g1", "Ayu", "500000"},
		{"m2", "g1", "Budi", ""},
	}
	members, err := parseMembers(values)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %+v", members)
	}
	if members[0].Target.Cents != 500000 || members[1].Target.Cents != 0 {
		t.Fatalf("unexpected targets: %+v", members)
	}
}

func TestParseMembers_BadRowFails(t *testing.T) {
	values := [][]interface{}{
		{"id", "group_id", "display_name", "target_amount_cents"},
		{"m1", "g1", "Ayu", "500000"},
		{"m3", "g1", "Citra", "-5"},
	}
	_, err := parseMembers(values)
	if err == nil || !strings.Contains(err.Error(), "row 3: target_amount_cents") {
		t.Fatalf("expected negative target error, got %v", err)
	}
}

func TestParseEntries(t *testing.T) {
	values := [][]interface{}{
		{"id", "group_id", "member_id", "transaction_date", "amount_cents", "type", "note"},
		{"e1", "g1", "m1", "2025-10-05", "40000", "deposit", "Gajian"},
		{},
		{"e2", "g1", "m1", "2025-10-06", "10000", "withdraw"},
	}
	entries, err := parseEntries(values)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	if entries[0].Type != core.Deposit || entries[0].Note != "Gajian" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].SignedCents() != -10000 || entries[1].Note != "" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestParseEntries_BadRowFails(t *testing.T) {
	tests := []struct {
		name string
		row  []interface{}
		want string
	}{
		{"bad date", []interface{}{"e3", "g1", "m1", "06/10/2025", "10000", "withdraw", ""}, "row 3: transaction_date"},
		{"unknown type", []interface{}{"e3", "g1", "m1", "2025-10-07", "10000", "withdrawal", ""}, "row 3: invalid entry type"},
		{"bad amount", []interface{}{"e3", "g1", "m1", "2025-10-07", "10k", "deposit", ""}, "row 3: amount_cents"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := [][]interface{}{
				{"id", "group_id", "member_id", "transaction_date", "amount_cents", "type", "note"},
				{"e1", "g1", "m1", "2025-10-05", "40000", "deposit", ""},
				tt.row,
			}
			_, err := parseEntries(values)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseMissingHeader(t *testing.T) {
	values := [][]interface{}{
		{"id", "group_id", "transaction_date", "amount_cents", "type"},
		{"e1", "g1", "2025-10-05", "1", "deposit"},
	}
	_, err := parseEntries(values)
	if err == nil || !strings.Contains(err.Error(), "unexpected header: missing member_id") {
		t.Fatalf("expected missing header error, got %v", err)
	}
}

func TestParseEmptySheet(t *testing.T) {
	groups, err := parseGroups(nil)
	if err != nil || len(groups) != 0 {
		t.Fatalf("expected empty result, got %v err=%v", groups, err)
	}
}

func TestParseTimestamp(t *testing.T) {
	if parseTimestamp("2025-01-02T03:04:05Z").IsZero() {
		t.Fatalf("rfc3339 not parsed")
	}
	if parseTimestamp("2025-01-02 03:04:05").IsZero() {
		t.Fatalf("sql timestamp not parsed")
	}
	if parseTimestamp("2025-01-02").IsZero() {
		t.Fatalf("date not parsed")
	}
	if !parseTimestamp("yesterday").IsZero() {
		t.Fatalf("garbage should be zero")
	}
}
