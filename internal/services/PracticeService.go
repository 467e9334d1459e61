package services

import (
	"context"
	"errors"
	"statcache/internal/models"
	"statcache/internal/providers"
	"statcache/internal/storage"
	"time"
)

type PracticeServiceInterface interface {
	Read(ctx context.Context, username string, ttlSeconds int) ReadResult[models.PracticeUser]
	Write(ctx context.Context, username string, user *models.PracticeUser, ttlSeconds int) bool
}

// PracticeService stores coding-practice profiles. A write replaces the
// whole document and renews its store-side expiry.
type PracticeService struct {
	accessor[models.PracticeUser, *models.PracticeUser]
}

func (ps *PracticeService) Read(ctx context.Context, username string, ttlSeconds int) ReadResult[models.PracticeUser] {
	return ps.read(ctx, username, ttlSeconds)
}

func (ps *PracticeService) Write(ctx context.Context, username string, user *models.PracticeUser, ttlSeconds int) bool {
	return ps.write(ctx, username, storage.TTLFromSeconds(ttlSeconds), func(_ *models.PracticeUser, now time.Time) (*models.PracticeUser, error) {
		if user == nil {
			return nil, errors.New("empty payload")
		}
		return user.Replaced(username, now), nil
	})
}

func NewPracticeService(router *storage.Router, logger providers.Logger, metrics providers.MetricsProviderInterface) PracticeServiceInterface {
	return &PracticeService{
		accessor: newAccessor[models.PracticeUser, *models.PracticeUser](models.KindPractice, router, logger, metrics),
	}
}
