package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/shared/logger"
)

func TestCreateCourseCard_StoresAndPublishes(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateCourseCardUseCase(f.subjectRepo, f.cardRepo, f.publisher, logger.NewLogger())

	dto, err := uc.Execute(context.Background(), CreateCourseCardCommand{
		SubjectSID: f.subject.SID(),
		Name:       "Organic Chemistry 2026",
		Price:      250000,
		Currency:   "LKR",
	})

	require.NoError(t, err)
	assert.Equal(t, "Organic Chemistry 2026", dto.Name)
	assert.Equal(t, f.subject.SID(), dto.SubjectSID)
	assert.EqualValues(t, 250000, dto.Price)
	assert.False(t, dto.IsFree)

	stored, err := f.cardRepo.GetBySID(context.Background(), dto.SID)
	require.NoError(t, err)
	assert.Equal(t, "Organic Chemistry 2026", stored.Name())

	require.Len(t, f.publisher.catalogEvents, 1)
	assert.Equal(t, dto.SID, f.publisher.catalogEvents[0].entitySID)
}

func TestCreateCourseCard_UnknownSubject(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateCourseCardUseCase(f.subjectRepo, f.cardRepo, f.publisher, logger.NewLogger())

	_, err := uc.Execute(context.Background(), CreateCourseCardCommand{
		SubjectSID: "sub_doesnotexist1",
		Name:       "Orphan Card",
		Price:      250000,
		Currency:   "LKR",
	})
	assert.Error(t, err)
	assert.Empty(t, f.publisher.catalogEvents)
}

func TestUpdateCourseCard_PartialUpdate(t *testing.T) {
	f := newFixture(t)
	uc := NewUpdateCourseCardUseCase(f.cardRepo, f.publisher, logger.NewLogger())
	ctx := context.Background()

	card, _ := f.seedCard(t, "Organic Chemistry", false)

	name := "Organic Chemistry Revision"
	dto, err := uc.Execute(ctx, UpdateCourseCardCommand{SID: card.SID(), Name: &name})

	require.NoError(t, err)
	assert.Equal(t, name, dto.Name)
	assert.EqualValues(t, 250000, dto.Price, "price untouched by a name-only update")

	stored, err := f.cardRepo.GetBySID(ctx, card.SID())
	require.NoError(t, err)
	assert.Equal(t, name, stored.Name())
	assert.EqualValues(t, 250000, stored.Price())
}

func TestUpdateCourseCard_MarkFreeClearsPrice(t *testing.T) {
	f := newFixture(t)
	uc := NewUpdateCourseCardUseCase(f.cardRepo, f.publisher, logger.NewLogger())
	ctx := context.Background()

	card, _ := f.seedCard(t, "Organic Chemistry", false)

	isFree := true
	dto, err := uc.Execute(ctx, UpdateCourseCardCommand{SID: card.SID(), IsFree: &isFree})

	require.NoError(t, err)
	assert.True(t, dto.IsFree)
}

func TestGetCourseCard_NestsVideosAndRendersDescription(t *testing.T) {
	f := newFixture(t)
	uc := NewGetCourseCardUseCase(f.subjectRepo, f.cardRepo, f.videoRepo, logger.NewLogger())
	ctx := context.Background()

	description := "# Overview\n\nCovers **alkanes** and alkenes."
	card, err := catalog.NewCourseCard(f.subject.ID(), "Organic Chemistry", description, 250000, "LKR", false, 0)
	require.NoError(t, err)
	require.NoError(t, f.cardRepo.Create(ctx, card))

	video, err := catalog.NewVideo(card.ID(), "Alkanes 01", "", "media/"+card.SID(), "40:00", 3, 0)
	require.NoError(t, err)
	require.NoError(t, f.videoRepo.Create(ctx, video))

	dto, err := uc.Execute(ctx, card.SID())

	require.NoError(t, err)
	assert.Equal(t, f.subject.SID(), dto.SubjectSID)
	assert.Equal(t, description, dto.Description)
	assert.Contains(t, dto.DescriptionHTML, "<h1")
	assert.Contains(t, dto.DescriptionHTML, "<strong>alkanes</strong>")
	require.Len(t, dto.Videos, 1)
	assert.Equal(t, video.SID(), dto.Videos[0].SID)
}

func TestListCourseCards_FreeFilter(t *testing.T) {
	f := newFixture(t)
	uc := NewListCourseCardsUseCase(f.subjectRepo, f.cardRepo, f.videoRepo, logger.NewLogger())
	ctx := context.Background()

	f.seedCard(t, "Organic Chemistry", false)
	freeCard, _ := f.seedCard(t, "Chemistry Basics", true)

	isFree := true
	dtos, total, err := uc.Execute(ctx, ListCourseCardsQuery{
		IsFree:   &isFree,
		Page:     1,
		PageSize: 20,
	})

	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, dtos, 1)
	assert.Equal(t, freeCard.SID(), dtos[0].SID)
	assert.Empty(t, dtos[0].DescriptionHTML, "markdown is rendered on the detail endpoint only")
}
