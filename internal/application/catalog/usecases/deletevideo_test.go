package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuppi/internal/shared/logger"
)

func newDeleteVideoUC(f *fixture) *DeleteVideoUseCase {
	return NewDeleteVideoUseCase(
		f.videoRepo, f.progressRepo, f.txManager, f.publisher, logger.NewLogger(),
	)
}

func TestDeleteVideo_RemovesPlayCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	card, video := f.seedCard(t, "Organic Chemistry", false)
	viewer := f.seedViewer(t, card, video)

	err := newDeleteVideoUC(f).Execute(ctx, video.SID())
	require.NoError(t, err)

	_, err = f.videoRepo.GetBySID(ctx, video.SID())
	assert.Error(t, err)

	_, err = f.progressRepo.GetByUserAndVideo(ctx, viewer.ID(), video.ID())
	assert.Error(t, err)

	// The card and the purchase survive; only the video and its play
	// counts go.
	_, err = f.cardRepo.GetBySID(ctx, card.SID())
	assert.NoError(t, err)

	require.Len(t, f.publisher.catalogEvents, 1)
	assert.Equal(t, video.SID(), f.publisher.catalogEvents[0].entitySID)
}

func TestDeleteVideo_UnknownVideo(t *testing.T) {
	f := newFixture(t)

	err := newDeleteVideoUC(f).Execute(context.Background(), "vid_doesnotexist1")
	assert.Error(t, err)
	assert.Empty(t, f.publisher.catalogEvents)
}
