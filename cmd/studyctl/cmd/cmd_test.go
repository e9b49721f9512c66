package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/studyhall/internal/config"
	"github.com/templui/studyhall/internal/repository"
)

func testLoader(t *testing.T) Loader {
	t.Helper()

	cfg := &config.Config{
		AppName:           "Studyhall",
		AppEnv:            "development",
		AppURL:            "http://localhost:8090",
		DBDriver:          "sqlite",
		DBConnection:      filepath.Join(t.TempDir(), "cli.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		JWTSecret:         "test-secret",
		JWTExpiry:         time.Hour,
		DefaultTimezone:   "UTC",
		SessionMaxMinutes: 1440,
		EmailFrom:         "noreply@example.com",
	}
	return func() *config.Config { return cfg }
}

func execute(load Loader, args ...string) (string, error) {
	root := &cobra.Command{Use: "studyctl", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(MigrateCmd(load), UserCmd(load), StreakCmd(load), DigestCmd(load))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestMigrateUpDown(t *testing.T) {
	load := testLoader(t)

	out, err := execute(load, "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, "schema version 1\n", out)

	out, err = execute(load, "migrate", "down")
	require.NoError(t, err)
	assert.Equal(t, "schema version 0\n", out)
}

func TestUserCreateAndToken(t *testing.T) {
	load := testLoader(t)

	out, err := execute(load, "user", "create", "--email", "Ada@Example.com", "--name", "Ada", "--timezone", "Europe/London")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "created user "), out)
	assert.Contains(t, out, "(ada@example.com)")
	assert.Contains(t, out, "token: ")

	userID := strings.Fields(out)[2]

	out, err = execute(load, "user", "token", "--id", userID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "."), 3)

	_, err = execute(load, "user", "token", "--id", "missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = execute(load, "user", "create", "--email", "ada@example.com", "--name", "Again")
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUserCreateRequiresFlags(t *testing.T) {
	_, err := execute(testLoader(t), "user", "create", "--email", "ada@example.com")
	assert.Error(t, err)
}

func TestStreakRecompute(t *testing.T) {
	load := testLoader(t)

	out, err := execute(load, "user", "create", "--email", "ada@example.com", "--name", "Ada")
	require.NoError(t, err)
	userID := strings.Fields(out)[2]

	out, err = execute(load, "streak", "recompute")
	require.NoError(t, err)
	assert.Equal(t, "recomputed 1 streaks\n", out)

	out, err = execute(load, "streak", "recompute", "--user", userID)
	require.NoError(t, err)
	assert.Equal(t, "current 0, longest 0\n", out)
}

func TestDigestSendLogsInDevelopment(t *testing.T) {
	load := testLoader(t)

	_, err := execute(load, "user", "create", "--email", "ada@example.com", "--name", "Ada")
	require.NoError(t, err)

	out, err := execute(load, "digest", "send")
	require.NoError(t, err)
	assert.Equal(t, "sent 1 digests\n", out)
}
