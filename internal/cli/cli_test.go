package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/internal/records"
	"github.com/lynva/lynva-tui/pkg/mockapi"
)

// isolate keeps config, cache and age files inside a temp dir.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	for _, name := range []string{"URL", "ANON_KEY", "EMAIL", "PASSWORD", "INSECURE", "DEBUG", "CACHE_DIR", "AGE_DIR", "PAGE_SIZE", "CACHE_TTL", "REALTIME"} {
		t.Setenv(config.EnvPrefix+"_"+name, "")
	}

	t.Chdir(dir)

	prev := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = prev })

	return dir
}

func startBackend(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(mockapi.NewServer(mockapi.NewState(), mockapi.DefaultAnonKey))
	t.Cleanup(srv.Close)

	return srv.URL
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())

	return out.String(), err
}

// backendArgs points a command at url with the seeded owner account.
func backendArgs(url, dir string, args ...string) []string {
	return append(args,
		"--url", url,
		"--anon-key", mockapi.DefaultAnonKey,
		"--email", mockapi.DefaultEmail,
		"--cache-dir", filepath.Join(dir, "cache"),
		"--no-cache",
	)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "lynva-tui", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "stats", "tables", "login", "logout", "config", "version"}, names)

	for _, name := range []string{"config", "no-cache", "url", "anon-key", "email", "password", "insecure", "debug", "cache-dir", "page-size"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lynva-tui")
}

func TestTablesCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "tables")
	require.NoError(t, err)

	assert.Contains(t, out, "TABLE")
	for _, table := range records.Tables() {
		assert.Contains(t, out, table.Name())
	}
	assert.Contains(t, out, "duration")
}

func TestListCommand(t *testing.T) {
	dir := isolate(t)
	url := startBackend(t)

	out, err := run(t, "", backendArgs(url, dir, "list", "faqs", "--password", mockapi.DefaultPassword, "--filter", "status=active")...)
	require.NoError(t, err)

	assert.Contains(t, out, "QUESTION")
	assert.Contains(t, out, "Showing 1 to 10 of 10 results (page 1 of 1)")
	assert.NotContains(t, out, "Inactive")
}

func TestListCommandUsesTablePageSize(t *testing.T) {
	dir := isolate(t)
	url := startBackend(t)

	out, err := run(t, "", backendArgs(url, dir, "list", "faqs", "--password", mockapi.DefaultPassword)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 1 to 10 of 12 results (page 1 of 2)")

	out, err = run(t, "", backendArgs(url, dir, "list", "faqs", "--password", mockapi.DefaultPassword, "--page-size", "25")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 1 to 12 of 12 results (page 1 of 1)")
}

func TestListCommandPaging(t *testing.T) {
	dir := isolate(t)
	url := startBackend(t)

	args := backendArgs(url, dir, "list", "calls", "--password", mockapi.DefaultPassword, "--page-size", "10", "--page", "2", "--sort", "none")

	out, err := run(t, "", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 11 to 20 of 100 results (page 2 of 10)")

	args = backendArgs(url, dir, "list", "calls", "--password", mockapi.DefaultPassword, "--page-size", "10", "--page", "11")

	_, err = run(t, "", args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestListCommandNoMatches(t *testing.T) {
	dir := isolate(t)
	url := startBackend(t)

	out, err := run(t, "", backendArgs(url, dir, "list", "services", "--password", mockapi.DefaultPassword, "--search", "no such service anywhere")...)
	require.NoError(t, err)
	assert.Contains(t, out, "No records match the current search and filters")
}

func TestListCommandWithoutPassword(t *testing.T) {
	dir := isolate(t)
	url := startBackend(t)

	_, err := run(t, "", backendArgs(url, dir, "list", "bookings")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lynva-tui login")
}

func TestStatsCommandTable(t *testing.T) {
	dir := isolate(t)
	url := startBackend(t)

	out, err := run(t, "", backendArgs(url, dir, "stats", "calls", "--password", mockapi.DefaultPassword)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Call Logs")
	assert.Regexp(t, `Total Calls\s+100`, out)
	assert.Regexp(t, `Completed\s+90`, out)
	assert.Regexp(t, `Missed\s+10`, out)
	assert.Regexp(t, `Avg Duration\s+\d+:\d\d`, out)

	out, err = run(t, "", backendArgs(url, dir, "stats", "faqs", "--password", mockapi.DefaultPassword)...)
	require.NoError(t, err)
	assert.Regexp(t, `Total FAQs\s+12`, out)
	assert.Regexp(t, `Active FAQs\s+10`, out)

	out, err = run(t, "", backendArgs(url, dir, "stats", "services", "--password", mockapi.DefaultPassword)...)
	require.NoError(t, err)
	assert.Regexp(t, `Avg Duration\s+\d+ min`, out)

	out, err = run(t, "", backendArgs(url, dir, "stats", "bookings", "--password", mockapi.DefaultPassword)...)
	require.NoError(t, err)
	assert.Contains(t, out, "no table stats")
}

func TestStatsCommandOverview(t *testing.T) {
	dir := isolate(t)
	url := startBackend(t)

	out, err := run(t, "", backendArgs(url, dir, "stats", "--password", mockapi.DefaultPassword)...)
	require.NoError(t, err)

	for _, want := range []string{"Overview", "Today's Bookings", "Calls This Month", "Revenue This Month", "Conversion Rate", "Recent bookings", "Recent calls", "CUSTOMER"} {
		assert.Contains(t, out, want)
	}

	_, err = run(t, "", "stats", "invoices")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one of")
}

func TestListCommandUnknownTable(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "list", "invoices")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one of")
}

func TestBuildState(t *testing.T) {
	table, err := records.Lookup("calls")
	require.NoError(t, err)

	tests := []struct {
		name    string
		q       listQuery
		wantErr string
	}{
		{"defaults", listQuery{Page: 1}, ""},
		{"range", listQuery{Page: 1, Filters: []string{"duration=60.."}}, ""},
		{"cleared", listQuery{Page: 1, Filters: []string{"duration=.."}}, ""},
		{"no equals", listQuery{Page: 1, Filters: []string{"duration"}}, "expected key=value"},
		{"unknown filter", listQuery{Page: 1, Filters: []string{"colour=red"}}, "unknown filter"},
		{"bad sort", listQuery{Page: 1, Sort: "colour"}, "cannot sort"},
		{"no sort", listQuery{Page: 1, Sort: "none"}, ""},
		{"bad page", listQuery{Page: 0}, "page must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := buildState(table, tt.q)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, state)
		})
	}

	state, err := buildState(table, listQuery{Page: 3, PageSize: 15, Search: "  smith ", Sort: "none"})
	require.NoError(t, err)
	assert.Equal(t, "smith", state.SearchTerm())
	assert.Nil(t, state.SortConfig())
	assert.Equal(t, 3, state.Pagination().Page)
	assert.Equal(t, 15, state.Pagination().PageSize)
}

func TestConfigInitAndPath(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, "", "config", "path")
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(path, filepath.Join(dir, "config")), path)

	out, err = run(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Config written to")
	assert.FileExists(t, path)

	out, err = run(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestConfigShowHidesPassword(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "config", "show", "--email", "a@example.com", "--password", "hunter2")
	require.NoError(t, err)

	assert.Contains(t, out, "email: a@example.com")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "********")
}

func TestLoginPromptsForPassword(t *testing.T) {
	dir := isolate(t)
	url := startBackend(t)

	out, err := run(t, mockapi.DefaultPassword+"\n", backendArgs(url, dir, "login")...)
	require.NoError(t, err)

	assert.Contains(t, out, "Password for "+mockapi.DefaultEmail)
	assert.Contains(t, out, "Signed in as "+mockapi.DefaultEmail)
	assert.Contains(t, out, "Springfield Wellness Clinic")
}

func TestLoginSavesEncryptedPassword(t *testing.T) {
	dir := isolate(t)
	url := startBackend(t)
	path := filepath.Join(dir, "lynva.yml")

	require.NoError(t, os.WriteFile(path, []byte("page_size: 10\n"), 0o600))

	args := backendArgs(url, dir, "login", "--save", "--config", path, "--password", mockapi.DefaultPassword)
	out, err := run(t, "", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Password saved encrypted")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "password: age1:")
	assert.NotContains(t, string(data), "password: "+mockapi.DefaultPassword)
}

func TestLoginRejectsEmptyPassword(t *testing.T) {
	dir := isolate(t)
	url := startBackend(t)

	_, err := run(t, "\n", backendArgs(url, dir, "login")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")
}

func TestLogout(t *testing.T) {
	dir := isolate(t)
	url := startBackend(t)

	out, err := run(t, "", backendArgs(url, dir, "logout", "--password", mockapi.DefaultPassword)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
}
