package main

import (
	"regexp"
	"strings"
	"testing"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/service/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var addedIDPattern = regexp.MustCompile(`Added card ([0-9a-f-]{36})\.`)

func addCard(t *testing.T, c *cli, lesson, question, answer string) string {
	t.Helper()
	out := c.mustRun("", "cards", "add", "--lesson", lesson, "-q", question, "-a", answer)
	m := addedIDPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	return m[1]
}

func TestCardsLifecycle(t *testing.T) {
	c := newCLI(t)
	c.mustRun("", "deck", "new", "--yes")

	id := addCard(t, c, "Geo", "Capital of Peru?", "Lima")
	addCard(t, c, "Math", "2+2?", "4")

	out := c.mustRun("", "cards", "list", "--lesson", "Geo")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "QUESTION")
	assertInOrder(t, lines[1], id[:shortIDLen], "Geo", "Capital of Peru?", "0", "unrated", "now")

	out = c.mustRun("", "cards", "edit", id[:shortIDLen], "-a", "Lima, Peru")
	assert.Contains(t, out, "Updated card "+id)

	out = c.mustRun("", "cards", "list")
	assert.Contains(t, out, "Capital of Peru?")
	assert.Contains(t, out, "2+2?")

	exported := c.mustRun("", "export")
	assert.Contains(t, exported, "Lima, Peru")

	out = c.mustRun("", "cards", "delete", id)
	assert.Contains(t, out, "Deleted card "+id)

	out = c.mustRun("", "cards", "list")
	assert.NotContains(t, out, "Capital of Peru?")
}

func TestCardsAddValidation(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "cards", "add", "-q", "Question only")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = c.run("", "cards", "add", "-q", "   ", "-a", "blank question")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCardsEditKeepsUnchangedFields(t *testing.T) {
	c := newCLI(t)
	c.mustRun("", "deck", "new", "--yes")
	id := addCard(t, c, "Geo", "Capital of Peru?", "Lima")

	c.mustRun("", "cards", "edit", id, "--lesson", "Capitals")

	exported := c.mustRun("", "export")
	assert.Regexp(t, `"lesson":\s*"Capitals"`, exported)
	assert.Regexp(t, `"answer":\s*"Lima"`, exported)

	_, err := c.run("", "cards", "edit", id, "-a", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCardsUnknownID(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "cards", "delete", "ffffffff")
	assert.ErrorIs(t, err, study.ErrCardNotFound)

	_, err = c.run("", "cards", "edit", "00000000-0000-0000-0000-000000000001", "-a", "x")
	assert.ErrorIs(t, err, study.ErrCardNotFound)
}
