package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/margoul1Malin/lda/internal/models"
	apierrors "github.com/margoul1Malin/lda/internal/pkg/errors"
)

// MockNoticeRepository is a mock implementation of repository.NoticeRepository.
type MockNoticeRepository struct {
	mock.Mock
}

func (m *MockNoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockNoticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notice), args.Error(1)
}

func (m *MockNoticeRepository) ListByStatus(ctx context.Context, status models.NoticeStatus, limit int) ([]*models.Notice, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notice), args.Error(1)
}

func (m *MockNoticeRepository) List(ctx context.Context, status *models.NoticeStatus, page, limit int) ([]*models.Notice, int64, error) {
	args := m.Called(ctx, status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Notice), args.Get(1).(int64), args.Error(2)
}

func (m *MockNoticeRepository) Update(ctx context.Context, id uuid.UUID, update models.NoticeUpdate) (*models.Notice, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notice), args.Error(1)
}

func (m *MockNoticeRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestNoticeService_Create(t *testing.T) {
	t.Run("defaults status to lost and last seen to now", func(t *testing.T) {
		repo := new(MockNoticeRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notice) bool {
			return n.Status == models.NoticeStatusLost &&
				time.Since(n.LastSeenAt) < time.Minute
		})).Return(nil)

		svc := NewNoticeService(repo)
		notice, err := svc.Create(context.Background(), CreateNoticeRequest{
			Name:       "Paul",
			Age:        25,
			Department: 33,
			City:       "Bordeaux",
		})
		require.NoError(t, err)
		assert.Equal(t, models.NoticeStatusLost, notice.Status)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		repo := new(MockNoticeRepository)
		svc := NewNoticeService(repo)

		_, err := svc.Create(context.Background(), CreateNoticeRequest{
			Name:       "Paul",
			Age:        25,
			Department: 33,
			City:       "Bordeaux",
			Status:     "vanished",
		})
		require.Error(t, err)
		assert.Equal(t, 400, apierrors.AsAPIError(err).StatusCode)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestNoticeService_Update(t *testing.T) {
	noticeID := uuid.New()

	t.Run("returns 404 when notice absent", func(t *testing.T) {
		repo := new(MockNoticeRepository)
		repo.On("Update", mock.Anything, noticeID, mock.Anything).Return(nil, nil)

		svc := NewNoticeService(repo)
		city := "Lyon"
		_, err := svc.Update(context.Background(), noticeID, models.NoticeUpdate{City: &city})
		require.Error(t, err)
		assert.Equal(t, 404, apierrors.AsAPIError(err).StatusCode)
	})

	t.Run("rejects invalid status without touching storage", func(t *testing.T) {
		repo := new(MockNoticeRepository)
		svc := NewNoticeService(repo)

		bad := models.NoticeStatus("vanished")
		_, err := svc.Update(context.Background(), noticeID, models.NoticeUpdate{Status: &bad})
		require.Error(t, err)
		assert.Equal(t, 400, apierrors.AsAPIError(err).StatusCode)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("allows toggling found back to lost", func(t *testing.T) {
		repo := new(MockNoticeRepository)
		lost := models.NoticeStatusLost
		repo.On("Update", mock.Anything, noticeID, mock.Anything).
			Return(&models.Notice{ID: noticeID, Status: lost}, nil)

		svc := NewNoticeService(repo)
		notice, err := svc.Update(context.Background(), noticeID, models.NoticeUpdate{Status: &lost})
		require.NoError(t, err)
		assert.Equal(t, lost, notice.Status)
	})
}

func TestNoticeService_Delete(t *testing.T) {
	noticeID := uuid.New()

	t.Run("returns 404 when nothing deleted", func(t *testing.T) {
		repo := new(MockNoticeRepository)
		repo.On("Delete", mock.Anything, noticeID).Return(false, nil)

		svc := NewNoticeService(repo)
		err := svc.Delete(context.Background(), noticeID)
		require.Error(t, err)
		assert.Equal(t, 404, apierrors.AsAPIError(err).StatusCode)
	})

	t.Run("succeeds when row removed", func(t *testing.T) {
		repo := new(MockNoticeRepository)
		repo.On("Delete", mock.Anything, noticeID).Return(true, nil)

		svc := NewNoticeService(repo)
		require.NoError(t, svc.Delete(context.Background(), noticeID))
	})
}
