package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuppi/internal/shared/logger"
)

func TestCreateSubject_StoresAndPublishes(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateSubjectUseCase(f.subjectRepo, f.publisher, logger.NewLogger())

	dto, err := uc.Execute(context.Background(), CreateSubjectCommand{
		Name:      "Biology",
		SortOrder: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, "Biology", dto.Name)
	assert.Equal(t, 2, dto.SortOrder)

	stored, err := f.subjectRepo.GetBySID(context.Background(), dto.SID)
	require.NoError(t, err)
	assert.Equal(t, "Biology", stored.Name())

	require.Len(t, f.publisher.catalogEvents, 1)
	assert.Equal(t, dto.SID, f.publisher.catalogEvents[0].entitySID)
}

func TestCreateSubject_RejectsEmptyName(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateSubjectUseCase(f.subjectRepo, f.publisher, logger.NewLogger())

	_, err := uc.Execute(context.Background(), CreateSubjectCommand{Name: ""})
	assert.Error(t, err)
	assert.Empty(t, f.publisher.catalogEvents)
}

func TestUpdateSubject_RenamesInPlace(t *testing.T) {
	f := newFixture(t)
	uc := NewUpdateSubjectUseCase(f.subjectRepo, f.publisher, logger.NewLogger())
	ctx := context.Background()

	name := "Applied Chemistry"
	dto, err := uc.Execute(ctx, UpdateSubjectCommand{SID: f.subject.SID(), Name: &name})

	require.NoError(t, err)
	assert.Equal(t, name, dto.Name)

	stored, err := f.subjectRepo.GetBySID(ctx, f.subject.SID())
	require.NoError(t, err)
	assert.Equal(t, name, stored.Name())
}

func TestListSubjects_NameFilter(t *testing.T) {
	f := newFixture(t)
	uc := NewListSubjectsUseCase(f.subjectRepo, logger.NewLogger())
	ctx := context.Background()

	createUC := NewCreateSubjectUseCase(f.subjectRepo, f.publisher, logger.NewLogger())
	_, err := createUC.Execute(ctx, CreateSubjectCommand{Name: "Biology"})
	require.NoError(t, err)

	name := "Chem"
	dtos, total, err := uc.Execute(ctx, ListSubjectsQuery{Name: &name, Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, dtos, 1)
	assert.Equal(t, f.subject.SID(), dtos[0].SID)
}
