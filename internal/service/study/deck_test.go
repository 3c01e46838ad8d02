package study

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/events"
	"github.com/phrazzld/scry-deck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCard(t *testing.T) {
	t.Run("becomes current when nothing is presented", func(t *testing.T) {
		f := newFixture(t, nil)

		card, err := f.engine.AddCard(context.Background(), "Go", "Zero value of int?", "0")
		require.NoError(t, err)

		snap := f.engine.Snapshot()
		require.NotNil(t, snap.CurrentCard)
		assert.Equal(t, card.ID, snap.CurrentCard.ID)
		assert.Equal(t, domain.RatingNone, card.LastRating)
		assert.True(t, card.NextDue.Equal(domain.Epoch))
		assert.Equal(t, 1, snap.Stats.Total)
	})

	t.Run("keeps current card otherwise", func(t *testing.T) {
		f := newFixture(t, makeCards("L", 2))
		current := f.engine.Snapshot().CurrentCard.ID

		_, err := f.engine.AddCard(context.Background(), "L", "Q", "A")
		require.NoError(t, err)

		snap := f.engine.Snapshot()
		assert.Equal(t, current, snap.CurrentCard.ID)
		assert.Equal(t, 3, snap.Stats.Total)
		assert.Equal(t, 3, snap.Progress.Total)

		persisted, err := f.files.Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, persisted.Cards, 3)
	})
}

func TestUpdateCard(t *testing.T) {
	f := newFixture(t, makeCards("L", 2))
	ctx := context.Background()
	current := f.engine.Snapshot().CurrentCard
	f.engine.Reveal(ctx)

	require.NoError(t, f.engine.UpdateCard(ctx, current.ID, "L2", "new question", "new answer"))

	snap := f.engine.Snapshot()
	assert.Equal(t, current.ID, snap.CurrentCard.ID)
	assert.Equal(t, "new question", snap.CurrentCard.Question)
	assert.Equal(t, "L2", snap.CurrentCard.Lesson)
	assert.True(t, snap.ShowAnswers)
	assert.Equal(t, 1, snap.Stats.ByLesson["L2"])

	err := f.engine.UpdateCard(ctx, uuid.New(), "x", "y", "z")
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestUpdateCardKeepsHistory(t *testing.T) {
	f := newFixture(t, makeCards("L", 2))
	ctx := context.Background()
	rated := f.engine.Snapshot().CurrentCard.ID
	require.NoError(t, f.engine.Rate(ctx, domain.RatingGreat))

	require.NoError(t, f.engine.UpdateCard(ctx, rated, "L", "edited", "A"))

	card, err := f.engine.Card(rated)
	require.NoError(t, err)
	assert.Equal(t, "edited", card.Question)
	assert.Equal(t, 1, card.TimesGreat)
	assert.Equal(t, domain.RatingGreat, card.LastRating)
}

func TestDeleteCard(t *testing.T) {
	t.Run("deleting the current card picks another", func(t *testing.T) {
		f := newFixture(t, makeCards("L", 3))
		ctx := context.Background()
		deleted := f.engine.Snapshot().CurrentCard.ID

		require.NoError(t, f.engine.DeleteCard(ctx, deleted))

		snap := f.engine.Snapshot()
		require.NotNil(t, snap.CurrentCard)
		assert.NotEqual(t, deleted, snap.CurrentCard.ID)
		assert.Equal(t, 2, snap.Progress.Total)
		assert.Equal(t, 1, snap.Progress.Index)

		for i := 0; i < 20; i++ {
			f.engine.PickNext(ctx)
			assert.NotEqual(t, deleted, f.engine.Snapshot().CurrentCard.ID)
		}

		_, err := f.engine.Card(deleted)
		assert.ErrorIs(t, err, ErrCardNotFound)
	})

	t.Run("deleting the last card empties the session", func(t *testing.T) {
		f := newFixture(t, makeCards("L", 1))
		id := f.engine.Snapshot().CurrentCard.ID

		require.NoError(t, f.engine.DeleteCard(context.Background(), id))

		snap := f.engine.Snapshot()
		assert.Nil(t, snap.CurrentCard)
		assert.ErrorIs(t, f.engine.Rate(context.Background(), domain.RatingGood), ErrNoCurrentCard)
	})

	t.Run("unknown card", func(t *testing.T) {
		f := newFixture(t, makeCards("L", 1))
		assert.ErrorIs(t, f.engine.DeleteCard(context.Background(), uuid.New()), ErrCardNotFound)
	})
}

func TestImportCSV(t *testing.T) {
	const payload = "Math;2+2?;4\nbad line\r\nGeo\tCapital of Peru?\tLima"

	t.Run("replace discards the existing deck", func(t *testing.T) {
		f := newFixture(t, makeCards("Old", 2))
		ctx := context.Background()
		require.NoError(t, f.engine.Rate(ctx, domain.RatingWeak))
		f.emitter.Reset()

		result, err := f.engine.ImportCSV(ctx, payload, ImportReplace)
		require.NoError(t, err)
		assert.Len(t, result.Cards, 2)
		assert.Equal(t, 1, result.Skipped)

		cards := f.engine.Cards()
		require.Len(t, cards, 2)
		assert.Equal(t, "Math", cards[0].Lesson)
		assert.Equal(t, "2+2?", cards[0].Question)
		assert.Equal(t, "4", cards[0].Answer)
		assert.Equal(t, domain.RatingNone, cards[0].LastRating)
		assert.False(t, cards[0].NextDue.After(testNow))
		assert.Equal(t, "Lima", cards[1].Answer)

		snap := f.engine.Snapshot()
		assert.Equal(t, 0, snap.Stats.Shown)
		assert.Equal(t, Progress{Index: 1, Total: 2}, snap.Progress)
		assert.Contains(t, f.emitter.Types(), events.DeckReplaced)
	})

	t.Run("append keeps history", func(t *testing.T) {
		f := newFixture(t, makeCards("Old", 2))
		ctx := context.Background()
		require.NoError(t, f.engine.Rate(ctx, domain.RatingWeak))

		_, err := f.engine.ImportCSV(ctx, payload, ImportAppend)
		require.NoError(t, err)

		cards := f.engine.Cards()
		require.Len(t, cards, 4)
		assert.Equal(t, "Old", cards[0].Lesson)
		assert.Equal(t, "Math", cards[2].Lesson)
		assert.Equal(t, 1, f.engine.Snapshot().Stats.Weak)
	})

	t.Run("unknown mode", func(t *testing.T) {
		f := newFixture(t, makeCards("Old", 2))

		_, err := f.engine.ImportCSV(context.Background(), payload, ImportMode(9))
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Len(t, f.engine.Cards(), 2)
	})
}

func TestImportExportDeckRoundTrip(t *testing.T) {
	f := newFixture(t, makeCards("L", 3))
	ctx := context.Background()
	require.NoError(t, f.engine.Rate(ctx, domain.RatingGood))
	require.NoError(t, f.engine.Rate(ctx, domain.RatingWeak))
	before := f.engine.Cards()

	data, err := f.engine.ExportDeck()
	require.NoError(t, err)

	require.NoError(t, f.engine.CreateNewDeck(ctx))
	assert.Empty(t, f.engine.Cards())

	require.NoError(t, f.engine.ImportDeck(ctx, data))
	after := f.engine.Cards()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].TimesShown, after[i].TimesShown)
		assert.Equal(t, before[i].TimesGood, after[i].TimesGood)
		assert.Equal(t, before[i].TimesWeak, after[i].TimesWeak)
		assert.Equal(t, before[i].LastRating, after[i].LastRating)
		assert.True(t, before[i].NextDue.Equal(after[i].NextDue))
	}
}

func TestImportMalformedDeckLeavesDeckUntouched(t *testing.T) {
	f := newFixture(t, makeCards("L", 3))
	before := f.engine.Snapshot()

	err := f.engine.ImportDeck(context.Background(), []byte(`{"cards": [`))
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Equal(t, before, f.engine.Snapshot())
}

func TestDeckLifecycle(t *testing.T) {
	f := newFixture(t, makeCards("L", 3))
	ctx := context.Background()

	require.NoError(t, f.engine.CreateNewDeck(ctx))
	snap := f.engine.Snapshot()
	assert.Nil(t, snap.CurrentCard)
	assert.Equal(t, 0, snap.Stats.Total)

	require.NoError(t, f.engine.CreateSampleDeck(ctx))
	snap = f.engine.Snapshot()
	assert.Equal(t, len(domain.SampleDeck().Cards), snap.Stats.Total)
	assert.NotNil(t, snap.CurrentCard)
	assert.Equal(t, 1, snap.Progress.Index)

	require.NoError(t, f.engine.Rate(ctx, domain.RatingGreat))
	require.NoError(t, f.engine.DeleteDeck(ctx))
	snap = f.engine.Snapshot()
	assert.Equal(t, len(domain.SampleDeck().Cards), snap.Stats.Total)
	assert.Equal(t, 0, snap.Stats.Shown)

	persisted, err := f.files.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted.Cards, snap.Stats.Total)
	assert.Equal(t, 3, f.emitter.Count(events.DeckReplaced))
}

func TestBackupLifecycle(t *testing.T) {
	f := newFixture(t, makeCards("L", 3))
	ctx := context.Background()

	info, err := f.engine.CreateBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "deck_backup_2024-06-01_12-00.json", info.Name)
	assert.Equal(t, 3, info.Cards)

	f.now = testNow.Add(time.Hour)
	require.NoError(t, f.engine.CreateNewDeck(ctx))
	_, err = f.engine.CreateBackup(ctx)
	require.NoError(t, err)

	backups, err := f.engine.ListBackups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "deck_backup_2024-06-01_13-00.json", backups[0].Name)
	assert.Equal(t, info.Name, backups[1].Name)

	require.NoError(t, f.engine.RestoreBackup(ctx, info.Name))
	snap := f.engine.Snapshot()
	assert.Equal(t, 3, snap.Stats.Total)
	assert.NotNil(t, snap.CurrentCard)

	require.NoError(t, f.engine.DeleteBackup(ctx, info.Name))
	backups, err = f.engine.ListBackups(ctx)
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestCreateBackupNamesUseUTC(t *testing.T) {
	f := newFixture(t, makeCards("L", 1))
	f.now = testNow.In(time.FixedZone("UTC+2", 2*3600))

	info, err := f.engine.CreateBackup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "deck_backup_2024-06-01_12-00.json", info.Name)
}

func TestCreateBackupCompletesAfterCancel(t *testing.T) {
	f := newFixture(t, makeCards("L", 2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	info, err := f.engine.CreateBackup(ctx)
	require.NoError(t, err)

	backups, err := f.files.ListBackups(context.Background())
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, info.Name, backups[0].Name)
	assert.Equal(t, 2, backups[0].Cards)
}

func TestRestoreMissingBackup(t *testing.T) {
	f := newFixture(t, makeCards("L", 3))
	ctx := context.Background()
	before := f.engine.Snapshot()
	missing := store.BackupName(testNow)

	assert.ErrorIs(t, f.engine.RestoreBackup(ctx, missing), store.ErrBackupNotFound)
	assert.ErrorIs(t, f.engine.DeleteBackup(ctx, missing), store.ErrBackupNotFound)
	assert.Equal(t, before, f.engine.Snapshot())
}

func TestImportModeString(t *testing.T) {
	assert.Equal(t, "replace", ImportReplace.String())
	assert.Equal(t, "append", ImportAppend.String())
	assert.Equal(t, "ImportMode(7)", ImportMode(7).String())
}
