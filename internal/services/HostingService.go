package services

import (
	"context"
	"statcache/internal/models"
	"statcache/internal/providers"
	"statcache/internal/storage"
	"time"
)

type HostingServiceInterface interface {
	Read(ctx context.Context, username string, ttlSeconds int) ReadResult[models.HostingUser]
	Write(ctx context.Context, username string, avatarURL string) bool
}

// HostingService counts profile visits. Every write is one visit.
type HostingService struct {
	accessor[models.HostingUser, *models.HostingUser]
}

func (hs *HostingService) Read(ctx context.Context, username string, ttlSeconds int) ReadResult[models.HostingUser] {
	return hs.read(ctx, username, ttlSeconds)
}

// Write records a visit. An empty avatarURL leaves the stored avatar as is.
func (hs *HostingService) Write(ctx context.Context, username string, avatarURL string) bool {
	return hs.write(ctx, username, 0, func(current *models.HostingUser, now time.Time) (*models.HostingUser, error) {
		if current == nil {
			current = models.NewHostingUser(username, now)
		}
		current.Username = username
		current.Visit(now, avatarURL)
		return current, nil
	})
}

func NewHostingService(router *storage.Router, logger providers.Logger, metrics providers.MetricsProviderInterface) HostingServiceInterface {
	return &HostingService{
		accessor: newAccessor[models.HostingUser, *models.HostingUser](models.KindHosting, router, logger, metrics),
	}
}
