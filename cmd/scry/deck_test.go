package main

import (
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCSVModes(t *testing.T) {
	c := newCLI(t)
	first := writeFile(t, "first.csv", "Math;2+2?;4\n\nnot a card\nGeo\tCapital of Peru?\tLima\n")
	second := writeFile(t, "second.csv", "Math;3+3?;6")

	out := c.mustRun("", "import", "csv", first)
	assert.Contains(t, out, "Imported 2 cards (replace), skipped 1 lines.")

	out = c.mustRun("", "import", "csv", second, "--append")
	assert.Contains(t, out, "Imported 1 cards (append), skipped 0 lines.")
	assertCardCount(t, c, 3)

	c.mustRun("", "import", "csv", second)
	assertCardCount(t, c, 1)
}

func TestImportCSVHelpDescribesTabFallback(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("", "import", "csv", "--help")
	assert.Contains(t, out, "fewer than three semicolon-separated fields")
	assert.Contains(t, out, "split on tabs instead")
	assert.NotContains(t, out, "when a line has no semicolon")
}

func TestImportCSVFromStdin(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("Math;2+2?;4\n", "import", "csv", "-")
	assert.Contains(t, out, "Imported 1 cards")
}

func TestImportMissingFile(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "import", "csv", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	c := newCLI(t)
	sample := len(domain.SampleDeck().Cards)
	path := filepath.Join(t.TempDir(), "deck.json")

	out := c.mustRun("", "export", path)
	assert.Contains(t, out, "Exported")
	assert.FileExists(t, path)

	c.mustRun("", "deck", "new", "--yes")
	assertCardCount(t, c, 0)

	out = c.mustRun("", "import", "deck", path)
	assert.Contains(t, out, "Imported")
	assertCardCount(t, c, sample)
}

func TestImportMalformedDeckKeepsDeck(t *testing.T) {
	c := newCLI(t)
	c.mustRun("", "import", "csv", writeFile(t, "cards.csv", "Math;2+2?;4"))

	_, err := c.run("", "import", "deck", writeFile(t, "bad.json", `{"cards":[{"id":"nope"}]}`))
	require.Error(t, err)
	assertCardCount(t, c, 1)
}

func TestDeckCommands(t *testing.T) {
	c := newCLI(t)
	sample := len(domain.SampleDeck().Cards)

	out := c.mustRun("", "deck", "new", "--yes")
	assert.Contains(t, out, "Created an empty deck.")

	out = c.mustRun("", "deck", "sample", "-y")
	assert.Contains(t, out, "Loaded the sample deck.")
	assertCardCount(t, c, sample)

	c.mustRun("", "deck", "new", "--yes")
	out = c.mustRun("", "deck", "delete", "--yes")
	assert.Contains(t, out, "sample deck was restored")
	assertCardCount(t, c, sample)
}

func TestDeckDeleteNeedsConfirmation(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "deck", "delete")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

var backupNamePattern = regexp.MustCompile(`deck_backup_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}\.json`)

func TestBackupCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("", "import", "csv", writeFile(t, "cards.csv", "Math;2+2?;4"))

	assert.Contains(t, c.mustRun("", "backup", "list"), "No backups.")

	out := c.mustRun("", "backup", "create")
	name := backupNamePattern.FindString(out)
	require.NotEmpty(t, name, out)
	assert.Contains(t, out, "(1 cards)")

	c.mustRun("", "deck", "new", "--yes")

	out = c.mustRun("", "backup", "list")
	assertInOrder(t, out, "NAME", name, "1")

	out = c.mustRun("", "backup", "restore", name)
	assert.Contains(t, out, "Restored "+name+" (1 cards).")
	assertCardCount(t, c, 1)

	out = c.mustRun("", "backup", "delete", name)
	assert.Contains(t, out, "Deleted "+name)

	_, err := c.run("", "backup", "restore", name)
	assert.ErrorIs(t, err, store.ErrBackupNotFound)

	_, err = c.run("", "backup", "delete", "deck.json")
	assert.ErrorIs(t, err, store.ErrInvalidBackupName)
}

func TestBadgerDriver(t *testing.T) {
	c := newCLI(t, "--driver", "badger")
	c.mustRun("", "deck", "new", "--yes")
	c.mustRun("", "import", "csv", writeFile(t, "cards.csv", "Math;2+2?;4\nGeo;Capital of Peru?;Lima"))

	out := c.mustRun("", "cards", "list")
	assert.Contains(t, out, "Capital of Peru?")
	assert.DirExists(t, filepath.Join(c.dataDir, badgerDirName))
	assert.NoFileExists(t, filepath.Join(c.dataDir, "deck.json"))

	out = c.mustRun("", "backup", "create")
	assert.Regexp(t, backupNamePattern, out)
	assert.Regexp(t, backupNamePattern, c.mustRun("", "backup", "list"))
}

func assertCardCount(t *testing.T, c *cli, want int) {
	t.Helper()
	stats := c.mustRun("", "stats")
	assert.Regexp(t, regexp.MustCompile(`(?m)^Cards:\s+`+strconv.Itoa(want)+`$`), stats)
}
