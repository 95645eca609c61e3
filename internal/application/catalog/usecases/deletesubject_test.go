package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuppi/internal/domain/purchase"
	"kuppi/internal/shared/logger"
)

func newDeleteSubjectUC(f *fixture) *DeleteSubjectUseCase {
	return NewDeleteSubjectUseCase(
		f.subjectRepo, f.cardRepo, f.videoRepo, f.progressRepo, f.purchaseRepo,
		f.txManager, f.publisher, logger.NewLogger(),
	)
}

func TestDeleteSubject_CascadesWholeTree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	firstCard, firstVideo := f.seedCard(t, "Organic Chemistry", false)
	secondCard, secondVideo := f.seedCard(t, "Inorganic Chemistry", false)
	viewer := f.seedViewer(t, firstCard, firstVideo)

	err := newDeleteSubjectUC(f).Execute(ctx, f.subject.SID())
	require.NoError(t, err)

	_, err = f.subjectRepo.GetBySID(ctx, f.subject.SID())
	assert.Error(t, err)

	for _, sid := range []string{firstCard.SID(), secondCard.SID()} {
		_, err = f.cardRepo.GetBySID(ctx, sid)
		assert.Error(t, err, "card %s should be gone", sid)
	}
	for _, sid := range []string{firstVideo.SID(), secondVideo.SID()} {
		_, err = f.videoRepo.GetBySID(ctx, sid)
		assert.Error(t, err, "video %s should be gone", sid)
	}

	_, err = f.progressRepo.GetByUserAndVideo(ctx, viewer.ID(), firstVideo.ID())
	assert.Error(t, err)

	_, total, err := f.purchaseRepo.ListByUserID(ctx, viewer.ID(), purchase.PurchaseFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	require.Len(t, f.publisher.catalogEvents, 1)
	assert.Equal(t, f.subject.SID(), f.publisher.catalogEvents[0].entitySID)
}

func TestDeleteSubject_EmptySubject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := newDeleteSubjectUC(f).Execute(ctx, f.subject.SID())
	require.NoError(t, err)

	_, err = f.subjectRepo.GetBySID(ctx, f.subject.SID())
	assert.Error(t, err)
}

func TestDeleteSubject_UnknownSubject(t *testing.T) {
	f := newFixture(t)

	err := newDeleteSubjectUC(f).Execute(context.Background(), "sub_doesnotexist1")
	assert.Error(t, err)
	assert.Empty(t, f.publisher.catalogEvents)
}
