package google

import (
	"fmt"
	"strings"
	"time"

	"tabungan/internal/core"
)

var (
	groupColumns  = []string{"id", "name", "description", "target_total_cents", "avatar_url", "created_at"}
	memberColumns = []string{"id", "group_id", "display_name", "target_amount_cents", "avatar_url", "created_at"}
	entryColumns  = []string{"id", "group_id", "member_id", "transaction_date", "amount_cents", "type", "note"}
)

// Optional columns may be absent from the header row.
var optionalColumns = map[string]bool{
	"description":         true,
	"avatar_url":          true,
	"created_at":          true,
	"target_amount_cents": true,
	"note":                true,
}

// row gives access to a sheet row by header name.
type row struct {
	cols  []string
	index map[string]int
	line  int // 1-based sheet row number
}

func (r row) get(name string) string {
	idx, ok := r.index[name]
	if !ok {
		return ""
	}
	return safeGet(r.cols, idx)
}

// headerIndex maps the expected column names to their position in the header row.
func headerIndex(header []string, want []string) (map[string]int, error) {
	index := make(map[string]int, len(want))
	var missing []string
	for _, name := range want {
		i := indexOf(header, name)
		if i == -1 {
			if !optionalColumns[name] {
				missing = append(missing, name)
			}
			continue
		}
		index[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected header: missing %s; got headers=%v", strings.Join(missing, ","), header)
	}
	return index, nil
}

// rows splits a values matrix into its data rows, skipping blank lines.
func rows(values [][]interface{}, want []string) ([]row, error) {
	if len(values) == 0 {
		return nil, nil
	}
	index, err := headerIndex(toStrings(values[0]), want)
	if err != nil {
		return nil, err
	}
	out := make([]row, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		cols := toStrings(values[i])
		if strings.Join(cols, "") == "" {
			continue
		}
		out = append(out, row{cols: cols, index: index, line: i + 1})
	}
	return out, nil
}

// The parse functions fail on the first malformed data row. A partially
// read tab would hide a group from selection or skew the totals.

func parseGroups(values [][]interface{}) ([]core.Group, error) {
	rs, err := rows(values, groupColumns)
	if err != nil {
		return nil, err
	}
	out := make([]core.Group, 0, len(rs))
	for _, r := range rs {
		target, err := core.ParseCents(r.get("target_total_cents"))
		if err != nil {
			return nil, fmt.Errorf("row %d: target_total_cents: %w", r.line, err)
		}
		g := core.Group{
			ID:          r.get("id"),
			Name:        r.get("name"),
			Description: r.get("description"),
			Target:      core.Money{Cents: target},
			AvatarURL:   r.get("avatar_url"),
			CreatedAt:   parseTimestamp(r.get("created_at")),
		}
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", r.line, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func parseMembers(values [][]interface{}) ([]core.Member, error) {
	rs, err := rows(values, memberColumns)
	if err != nil {
		return nil, err
	}
	out := make([]core.Member, 0, len(rs))
	for _, r := range rs {
		m := core.Member{
			ID:          r.get("id"),
			GroupID:     r.get("group_id"),
			DisplayName: r.get("display_name"),
			AvatarURL:   r.get("avatar_url"),
			CreatedAt:   parseTimestamp(r.get("created_at")),
		}
		// An empty target cell means no personal target.
		if v := r.get("target_amount_cents"); v != "" {
			target, err := core.ParseCents(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: target_amount_cents: %w", r.line, err)
			}
			m.Target = core.Money{Cents: target}
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", r.line, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func parseEntries(values [][]interface{}) ([]core.Entry, error) {
	rs, err := rows(values, entryColumns)
	if err != nil {
		return nil, err
	}
	out := make([]core.Entry, 0, len(rs))
	for _, r := range rs {
		e, err := parseEntry(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r.line, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func parseEntry(r row) (core.Entry, error) {
	date, err := core.ParseDate(r.get("transaction_date"))
	if err != nil {
		return core.Entry{}, fmt.Errorf("transaction_date: %w", err)
	}
	cents, err := core.ParseCents(r.get("amount_cents"))
	if err != nil {
		return core.Entry{}, fmt.Errorf("amount_cents: %w", err)
	}
	typ, err := core.ParseEntryType(r.get("type"))
	if err != nil {
		return core.Entry{}, err
	}
	e := core.Entry{
		ID:       r.get("id"),
		GroupID:  r.get("group_id"),
		MemberID: r.get("member_id"),
		Date:     date,
		Amount:   core.Money{Cents: cents},
		Type:     typ,
		Note:     r.get("note"),
	}
	return e, e.Validate()
}

// parseTimestamp accepts RFC3339 or a plain date; anything else sorts first.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if d, err := core.ParseDate(s); err == nil {
		return d.Time
	}
	return time.Time{}
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
