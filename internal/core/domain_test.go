package core

import (
	"testing"
	"time"
)

func TestParseEntryType(t *testing.T) {
	cases := []struct {
		in  string
		out EntryType
		ok  bool
	}{
		{"deposit", Deposit, true},
		{"withdraw", Withdraw, true},
		{" Deposit ", Deposit, true},
		{"WITHDRAW", Withdraw, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseEntryType(tc.in)
		if tc.ok && (err != nil || got != tc.out) {
			t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.out, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestEntrySignedCents(t *testing.T) {
	dep := Entry{Type: Deposit, Amount: Money{Cents: 40000}}
	wd := Entry{Type: Withdraw, Amount: Money{Cents: 10000}}
	if dep.SignedCents() != 40000 {
		t.Fatalf("deposit expected 40000, got %d", dep.SignedCents())
	}
	if wd.SignedCents() != -10000 {
		t.Fatalf("withdraw expected -10000, got %d", wd.SignedCents())
	}
}

func TestEntryValidate(t *testing.T) {
	good := Entry{
		ID:       "e1",
		MemberID: "m1",
		Date:     NewDate(2025, 10, 5),
		Amount:   Money{Cents: 0},
		Type:     Deposit,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Entry{
		{ID: "", MemberID: "m1", Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Type: Deposit},
		{ID: "e1", MemberID: "", Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Type: Deposit},
		{ID: "e1", MemberID: "m1", Date: Date{Time: time.Time{}}, Amount: Money{Cents: 1}, Type: Deposit}, // zero date
		{ID: "e1", MemberID: "m1", Date: NewDate(2025, 1, 1), Amount: Money{Cents: -1}, Type: Deposit},
		{ID: "e1", MemberID: "m1", Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Type: "refund"},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGroupAndMemberValidate(t *testing.T) {
	if err := (Group{ID: "g1", Name: "Liburan"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Group{ID: "g1"}).Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Member{ID: "m1", GroupID: "g1", DisplayName: "Ayu"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Member{ID: "m1", DisplayName: "Ayu"}).Validate(); err != ErrEmptyID {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
}

func TestParseDateAndDisplay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-10-05", "5 Okt 2025"},
		{"2025-05-17T08:30:00Z", "17 Mei 2025"},
		{"2024-08-01", "1 Agu 2024"},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if got := d.Display(); got != tc.want {
			t.Fatalf("%q expected %q, got %q", tc.in, tc.want, got)
		}
	}
	if _, err := ParseDate("05/10/2025"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
	if (Date{}).Display() != "" {
		t.Fatalf("zero date should display empty")
	}
}
