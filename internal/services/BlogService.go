package services

import (
	"context"
	"statcache/internal/models"
	"statcache/internal/providers"
	"statcache/internal/storage"
	"time"
)

type BlogServiceInterface interface {
	Read(ctx context.Context, userID string, ttlSeconds int) ReadResult[models.BlogUser]
	Write(ctx context.Context, userID string, patch *models.BlogUserPatch) bool
}

// BlogService merges partial blog statistics into the stored record.
type BlogService struct {
	accessor[models.BlogUser, *models.BlogUser]
}

func (bs *BlogService) Read(ctx context.Context, userID string, ttlSeconds int) ReadResult[models.BlogUser] {
	return bs.read(ctx, userID, ttlSeconds)
}

func (bs *BlogService) Write(ctx context.Context, userID string, patch *models.BlogUserPatch) bool {
	return bs.write(ctx, userID, 0, func(current *models.BlogUser, now time.Time) (*models.BlogUser, error) {
		if patch != nil {
			if err := patch.Validate(); err != nil {
				return nil, err
			}
		}
		if current == nil {
			current = models.NewBlogUser(userID, now)
		}
		current.UserID = userID
		current.Apply(patch, now)
		return current, nil
	})
}

func NewBlogService(router *storage.Router, logger providers.Logger, metrics providers.MetricsProviderInterface) BlogServiceInterface {
	return &BlogService{
		accessor: newAccessor[models.BlogUser, *models.BlogUser](models.KindBlog, router, logger, metrics),
	}
}
