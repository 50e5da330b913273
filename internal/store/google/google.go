package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"tabungan/internal/core"
	"tabungan/internal/store"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Default tab names, one tab per table.
const (
	DefaultGroupsSheet  = "Groups"
	DefaultMembersSheet = "Members"
	DefaultEntriesSheet = "Entries"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	groupsSheet   string
	membersSheet  string
	entriesSheet  string
}

// Ensure interface conformance
var _ store.Reader = (*Client)(nil)

// Config selects the spreadsheet, its tabs and the service account credentials.
type Config struct {
	SpreadsheetID string
	// Service account key, inline JSON takes precedence over the file.
	CredentialsJSON string
	CredentialsFile string

	GroupsSheet  string
	MembersSheet string
	EntriesSheet string
}

// New creates a read-only Sheets client using service account credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	creds, err := loadCredentials(ctx, cfg)
	if err != nil {
		return nil, err
	}
	svc, err := newSheetsService(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, cfg Config) *Client {
	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID),
		groupsSheet:   orDefault(cfg.GroupsSheet, DefaultGroupsSheet),
		membersSheet:  orDefault(cfg.MembersSheet, DefaultMembersSheet),
		entriesSheet:  orDefault(cfg.EntriesSheet, DefaultEntriesSheet),
	}
}

func loadCredentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && file == "" {
		// Also check the standard Google Cloud environment variable
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		return []byte(inline), nil
	case file != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", file)
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// newSheetsService initializes a read-only Sheets Service.
func newSheetsService(ctx context.Context, credentialsJSON []byte) (*gsheet.Service, error) {
	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsReadonlyScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) FindGroupByName(ctx context.Context, name string) (core.Group, error) {
	groups, err := c.readGroups(ctx)
	if err != nil {
		return core.Group{}, err
	}
	for _, g := range groups {
		if g.Name == name {
			return g, nil
		}
	}
	return core.Group{}, store.ErrNotFound
}

func (c *Client) FindEarliestGroup(ctx context.Context) (core.Group, error) {
	groups, err := c.readGroups(ctx)
	if err != nil {
		return core.Group{}, err
	}
	if len(groups) == 0 {
		return core.Group{}, store.ErrNotFound
	}
	return groups[0], nil
}

func (c *Client) ListMembers(ctx context.Context, groupID string) ([]core.Member, error) {
	values, err := c.readSheet(ctx, c.membersSheet)
	if err != nil {
		return nil, err
	}
	all, err := parseMembers(values)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.membersSheet, err)
	}
	out := make([]core.Member, 0)
	for _, m := range all {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (c *Client) ListEntries(ctx context.Context, groupID string) ([]core.Entry, error) {
	values, err := c.readSheet(ctx, c.entriesSheet)
	if err != nil {
		return nil, err
	}
	all, err := parseEntries(values)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.entriesSheet, err)
	}
	out := make([]core.Entry, 0)
	for _, e := range all {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out, nil
}

// readGroups returns every group sorted by creation time ascending.
func (c *Client) readGroups(ctx context.Context) ([]core.Group, error) {
	values, err := c.readSheet(ctx, c.groupsSheet)
	if err != nil {
		return nil, err
	}
	groups, err := parseGroups(values)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.groupsSheet, err)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].CreatedAt.Before(groups[j].CreatedAt) })
	return groups, nil
}

func (c *Client) readSheet(ctx context.Context, sheetName string) ([][]interface{}, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:Z", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
