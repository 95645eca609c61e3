package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuppi/internal/shared/logger"
)

func TestCreateVideo_StoresAndPublishes(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateVideoUseCase(f.cardRepo, f.videoRepo, f.publisher, logger.NewLogger())
	ctx := context.Background()

	card, _ := f.seedCard(t, "Organic Chemistry", false)

	dto, err := uc.Execute(ctx, CreateVideoCommand{
		CardSID:  card.SID(),
		Title:    "Alkenes 01",
		MediaRef: "media/alkenes-01",
		Duration: "52:30",
		MaxPlays: 5,
		Position: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "Alkenes 01", dto.Title)
	assert.EqualValues(t, 5, dto.MaxPlays)

	stored, err := f.videoRepo.GetBySID(ctx, dto.SID)
	require.NoError(t, err)
	assert.Equal(t, card.ID(), stored.CardID())

	require.Len(t, f.publisher.catalogEvents, 1)
	assert.Equal(t, dto.SID, f.publisher.catalogEvents[0].entitySID)
}

func TestCreateVideo_DefaultsPlayCeiling(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateVideoUseCase(f.cardRepo, f.videoRepo, f.publisher, logger.NewLogger())

	card, _ := f.seedCard(t, "Organic Chemistry", false)

	dto, err := uc.Execute(context.Background(), CreateVideoCommand{
		CardSID:  card.SID(),
		Title:    "Alkenes 01",
		MediaRef: "media/alkenes-01",
	})

	require.NoError(t, err)
	assert.NotZero(t, dto.MaxPlays, "an unset ceiling falls back to the default")
}

func TestCreateVideo_UnknownCard(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateVideoUseCase(f.cardRepo, f.videoRepo, f.publisher, logger.NewLogger())

	_, err := uc.Execute(context.Background(), CreateVideoCommand{
		CardSID:  "card_doesnotexist1",
		Title:    "Orphan Video",
		MediaRef: "media/orphan",
	})
	assert.Error(t, err)
	assert.Empty(t, f.publisher.catalogEvents)
}

func TestUpdateVideo_RaisesPlayCeiling(t *testing.T) {
	f := newFixture(t)
	uc := NewUpdateVideoUseCase(f.videoRepo, f.publisher, logger.NewLogger())
	ctx := context.Background()

	_, video := f.seedCard(t, "Organic Chemistry", false)

	maxPlays := uint(10)
	dto, err := uc.Execute(ctx, UpdateVideoCommand{SID: video.SID(), MaxPlays: &maxPlays})

	require.NoError(t, err)
	assert.EqualValues(t, 10, dto.MaxPlays)
	assert.Equal(t, video.Title(), dto.Title, "title untouched by a ceiling-only update")

	stored, err := f.videoRepo.GetBySID(ctx, video.SID())
	require.NoError(t, err)
	assert.EqualValues(t, 10, stored.MaxPlays())
}
