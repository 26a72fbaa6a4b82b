package cli

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/app"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/config"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/testutil"
)

var today = time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

// useTestApp points the commands at db with the clock pinned to today.
func useTestApp(t *testing.T, db *sql.DB) {
	t.Helper()
	t.Setenv("SECURE_NOTE_KEY", "")

	origOpen, origClose, origNow := openApp, closeApp, now
	t.Cleanup(func() {
		openApp, closeApp, now = origOpen, origClose, origNow
		groupID, dbPath = "", ""
	})

	now = testutil.FixedClock(today)
	openApp = func(cfg *config.Config) (*app.App, error) {
		a, err := app.Wire(cfg, db, testutil.NewMockYahooClient())
		if err != nil {
			return nil, err
		}
		a.InventoryService.WithClock(now)
		return a, nil
	}
	closeApp = func(*app.App) error { return nil }
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// TestCommandStructure verifies that all commands are registered.
func TestCommandStructure(t *testing.T) {
	for _, name := range []string{"migrate", "quarter", "genkey", "preview", "save", "history", "chart", "remind"} {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
			assert.NotEmpty(t, cmd.Short)
		})
	}
}

func TestQuarterCommand(t *testing.T) {
	useTestApp(t, nil)

	out, err := execute(t, "quarter")
	require.NoError(t, err)

	assert.Contains(t, out, "Latest quarter: 2026-09 (2026年09月)")
	assert.Contains(t, out, "Next quarter:   2026-12")
	assert.Contains(t, out, "Inventory for 2026年09月 is due this month")
}

func TestGenkeyCommand(t *testing.T) {
	out, err := execute(t, "genkey")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 44)
}

func TestParseItems(t *testing.T) {
	t.Run("parses id=amount pairs", func(t *testing.T) {
		items, err := parseItems([]string{"a=100", " b = -2.5 "})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "a", items[0].AssetID)
		assert.Equal(t, "100", items[0].RawAmount.String())
		assert.Equal(t, "b", items[1].AssetID)
		assert.Equal(t, "-2.5", items[1].RawAmount.String())
	})

	t.Run("rejects a missing separator", func(t *testing.T) {
		_, err := parseItems([]string{"a100"})
		assert.Error(t, err)
	})

	t.Run("rejects a non-numeric amount", func(t *testing.T) {
		_, err := parseItems([]string{"a=lots"})
		assert.Error(t, err)
	})
}

// TestInventoryFlow runs preview, save, history, chart and remind against one database.
//
// WHY: the commands share global state between runs and wire the same services as the
// server; a full sequence shows a saved quarter is visible to every later command.
func TestInventoryFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	useTestApp(t, db)

	group := testutil.MakeID()
	deposit := testutil.CreateYenAsset(t, db, group, "5000")

	out, err := execute(t, "preview", "-g", group)
	require.NoError(t, err)
	assert.Contains(t, out, "Inventory 2026年09月")
	assert.Contains(t, out, "computed")
	assert.Contains(t, out, "Total: ¥5,000")

	out, err = execute(t, "save", "-g", group, "--month", "2026-09", "--actor", "alice", "--item", deposit.ID+"=7000")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 2026年09月: 1 item(s), total ¥7,000")

	out, err = execute(t, "history", "-g", group)
	require.NoError(t, err)
	assert.Contains(t, out, "2026年09月")
	assert.Contains(t, out, "¥7,000")
	assert.Contains(t, out, "alice")

	chartFile := filepath.Join(t.TempDir(), "history.html")
	out, err = execute(t, "chart", "-g", group, "-o", chartFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 quarter(s)")
	html, err := os.ReadFile(chartFile)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Inventory history")

	out, err = execute(t, "remind")
	require.NoError(t, err)
	assert.Contains(t, out, "0 group(s) reminded")

	out, err = execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "at version 1")
}

func TestGroupCommandsRequireGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	useTestApp(t, db)

	_, err := execute(t, "history", "-g", "")
	assert.ErrorContains(t, err, "--group is required")

	_, err = execute(t, "history", "-g", "not-a-uuid")
	assert.Error(t, err)
}
