package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	Deposit  EntryType = "deposit"
	Withdraw EntryType = "withdraw"
)

type (
	EntryType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Group is a named collective savings goal.
	Group struct {
		ID          string
		Name        string
		Description string
		Target      Money
		AvatarURL   string
		CreatedAt   time.Time
	}

	// Member belongs to exactly one group.
	Member struct {
		ID          string
		GroupID     string
		DisplayName string
		Target      Money // zero when the store has no target
		AvatarURL   string
		CreatedAt   time.Time
	}

	// Entry is a single dated deposit or withdrawal of one member.
	Entry struct {
		ID       string
		GroupID  string
		MemberID string
		Date     Date
		Amount   Money // magnitude, sign comes from Type
		Type     EntryType
		Note     string
	}
)

var (
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrEmptyID          = errors.New("empty id")
	ErrEmptyName        = errors.New("empty name")
)

// ParseEntryType accepts the store spelling of an entry kind.
func ParseEntryType(s string) (EntryType, error) {
	switch EntryType(strings.ToLower(strings.TrimSpace(s))) {
	case Deposit:
		return Deposit, nil
	case Withdraw:
		return Withdraw, nil
	default:
		return "", ErrInvalidEntryType
	}
}

// Sign is +1 for deposits and -1 for withdrawals.
func (t EntryType) Sign() int64 {
	if t == Withdraw {
		return -1
	}
	return 1
}

func (t EntryType) IsValid() bool {
	return t == Deposit || t == Withdraw
}

// SignedCents returns the entry amount with its direction applied.
func (e Entry) SignedCents() int64 {
	return e.Type.Sign() * e.Amount.Cents
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts a plain date (2006-01-02) or an RFC3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

func (g Group) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	return g.Target.Validate()
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.ID) == "" || strings.TrimSpace(m.GroupID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(m.DisplayName) == "" {
		return ErrEmptyName
	}
	return m.Target.Validate()
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.MemberID) == "" {
		return ErrEmptyID
	}
	if e.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if !e.Type.IsValid() {
		return ErrInvalidEntryType
	}
	return e.Amount.Validate()
}

var shortMonthsID = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// Display formats the date the way Indonesian locale short dates read, e.g. "5 Okt 2025".
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return strconv.Itoa(d.Day()) + " " + shortMonthsID[d.Month()-1] + " " + strconv.Itoa(d.Year())
}
