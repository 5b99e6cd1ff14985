// Package mockapi is an in-memory stand-in for the hosted backend: password
// auth, the REST tables of one business and the realtime change feed.
package mockapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Seeded credentials.
const (
	DefaultAnonKey  = "mock-anon-key"
	DefaultEmail    = "owner@example.com"
	DefaultPassword = "password"
)

// TokenTTL is how long issued access tokens stay valid.
const TokenTTL = time.Hour

var (
	errInvalidCredentials = errors.New("Invalid login credentials")
	errInvalidToken       = errors.New("invalid JWT")
	errUnknownTable       = errors.New("relation does not exist")
)

// Row is one record as it is stored and served.
type Row = map[string]interface{}

// Account is a user that can sign in.
type Account struct {
	ID         string
	Email      string
	Password   string
	BusinessID string
	FullName   string
}

// Change is a row mutation published to realtime subscribers.
type Change struct {
	Table     string
	Type      string
	Record    Row
	OldRecord Row
}

type grant struct {
	userID  string
	expires time.Time
}

// State holds every table and session of the mock backend.
type State struct {
	mu       sync.RWMutex
	accounts map[string]*Account // keyed by email
	tables   map[string][]Row
	access   map[string]grant
	refresh  map[string]string // refresh token -> user id
	now      func() time.Time

	subMu sync.Mutex
	subs  map[int]chan Change
	next  int
}

// NewState returns a state seeded with one business and its records.
func NewState() *State {
	s := NewEmptyState()
	s.Seed(time.Now())

	return s
}

// NewEmptyState returns a state with known tables but no rows.
func NewEmptyState() *State {
	s := &State{
		accounts: make(map[string]*Account),
		tables:   make(map[string][]Row),
		access:   make(map[string]grant),
		refresh:  make(map[string]string),
		now:      time.Now,
		subs:     make(map[int]chan Change),
	}

	for _, table := range Tables {
		s.tables[table] = []Row{}
	}

	return s
}

// Tables served under /rest/v1/.
var Tables = []string{"businesses", "users", "bookings", "services", "faqs", "call_logs"}

// AddAccount registers a user and its row in the users table.
func (s *State) AddAccount(acc Account) *Account {
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.accounts[strings.ToLower(acc.Email)] = &acc
	s.tables["users"] = append(s.tables["users"], Row{
		"id":             acc.ID,
		"business_id":    acc.BusinessID,
		"email":          acc.Email,
		"full_name":      acc.FullName,
		"role":           "owner",
		"email_verified": true,
	})
	s.mu.Unlock()

	return &acc
}

// SignIn checks credentials and issues a fresh token pair.
func (s *State) SignIn(email, password string) (*Account, string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[strings.ToLower(email)]
	if !ok || acc.Password != password {
		return nil, "", "", errInvalidCredentials
	}

	access, refresh := s.issueLocked(acc.ID)

	return acc, access, refresh, nil
}

// Refresh trades a refresh token for a new pair. Refresh tokens are single use.
func (s *State) Refresh(token string) (*Account, string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.refresh[token]
	if !ok {
		return nil, "", "", errInvalidToken
	}
	delete(s.refresh, token)

	acc := s.accountLocked(userID)
	if acc == nil {
		return nil, "", "", errInvalidToken
	}

	access, refresh := s.issueLocked(acc.ID)

	return acc, access, refresh, nil
}

// Authenticate resolves an access token to its account.
func (s *State) Authenticate(token string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.access[token]
	if !ok || !s.now().Before(g.expires) {
		return nil, errInvalidToken
	}

	acc := s.accountLocked(g.userID)
	if acc == nil {
		return nil, errInvalidToken
	}

	return acc, nil
}

// Revoke drops every token of the user holding access.
func (s *State) Revoke(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.access[access]
	if !ok {
		return
	}

	for token, grant := range s.access {
		if grant.userID == g.userID {
			delete(s.access, token)
		}
	}
	for token, userID := range s.refresh {
		if userID == g.userID {
			delete(s.refresh, token)
		}
	}
}

// ExpireTokens invalidates every access token but keeps refresh tokens.
func (s *State) ExpireTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.access)
}

func (s *State) issueLocked(userID string) (string, string) {
	access := "access-" + uuid.NewString()
	refresh := "refresh-" + uuid.NewString()

	s.access[access] = grant{userID: userID, expires: s.now().Add(TokenTTL)}
	s.refresh[refresh] = userID

	return access, refresh
}

func (s *State) accountLocked(userID string) *Account {
	for _, acc := range s.accounts {
		if acc.ID == userID {
			return acc
		}
	}

	return nil
}

// Select returns copies of the rows of table matching every filter, in the
// given order ("column.asc" or "column.desc", comma separated).
func (s *State) Select(table string, filters []Filter, order string) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("%q: %w", table, errUnknownTable)
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if matchAll(row, filters) {
			out = append(out, copyRow(row))
		}
	}

	if order != "" {
		sortRows(out, order)
	}

	return out, nil
}

// Insert stores rows, filling id and timestamps, and publishes INSERT changes.
func (s *State) Insert(table string, rows []Row) ([]Row, error) {
	now := s.now().UTC().Format(time.RFC3339)

	s.mu.Lock()
	if _, ok := s.tables[table]; !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%q: %w", table, errUnknownTable)
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		row = copyRow(row)
		if _, ok := row["id"]; !ok {
			row["id"] = uuid.NewString()
		}
		if _, ok := row["created_at"]; !ok {
			row["created_at"] = now
		}
		row["updated_at"] = now

		s.tables[table] = append(s.tables[table], row)
		out = append(out, copyRow(row))
	}
	s.mu.Unlock()

	for _, row := range out {
		s.publish(Change{Table: table, Type: "INSERT", Record: row})
	}

	return out, nil
}

// Update merges patch into the rows matching filters and publishes UPDATE changes.
func (s *State) Update(table string, filters []Filter, patch Row) ([]Row, error) {
	now := s.now().UTC().Format(time.RFC3339)

	s.mu.Lock()
	rows, ok := s.tables[table]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%q: %w", table, errUnknownTable)
	}

	var changes []Change
	for i, row := range rows {
		if !matchAll(row, filters) {
			continue
		}

		old := copyRow(row)
		for k, v := range patch {
			if k == "id" {
				continue
			}
			row[k] = v
		}
		row["updated_at"] = now
		rows[i] = row

		changes = append(changes, Change{Table: table, Type: "UPDATE", Record: copyRow(row), OldRecord: old})
	}
	s.mu.Unlock()

	out := make([]Row, 0, len(changes))
	for _, c := range changes {
		s.publish(c)
		out = append(out, c.Record)
	}

	return out, nil
}

// Delete removes the rows matching filters and publishes DELETE changes.
func (s *State) Delete(table string, filters []Filter) ([]Row, error) {
	s.mu.Lock()
	rows, ok := s.tables[table]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%q: %w", table, errUnknownTable)
	}

	kept := rows[:0]
	var removed []Row
	for _, row := range rows {
		if matchAll(row, filters) {
			removed = append(removed, row)
			continue
		}
		kept = append(kept, row)
	}
	s.tables[table] = kept
	s.mu.Unlock()

	for _, row := range removed {
		s.publish(Change{Table: table, Type: "DELETE", OldRecord: copyRow(row)})
	}

	return removed, nil
}

// Subscribe returns a channel of every change and a function to stop it.
func (s *State) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 64)

	s.subMu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()

		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

// publish drops the change for subscribers whose buffer is full.
func (s *State) publish(c Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

func copyRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}

	return out
}

func sortRows(rows []Row, order string) {
	type key struct {
		column string
		desc   bool
	}

	var keys []key
	for _, part := range strings.Split(order, ",") {
		fields := strings.Split(strings.TrimSpace(part), ".")
		if fields[0] == "" {
			continue
		}
		keys = append(keys, key{column: fields[0], desc: len(fields) > 1 && fields[1] == "desc"})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(rows[i][k.column], rows[j][k.column])
			if c == 0 {
				continue
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}

		return false
	})
}
