package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/schedule-sync/internal/models"
)

const (
	cacheKeyGroups   = "groups"
	cacheKeyTeachers = "teachers"
)

// DirectoryService serves the group and teacher reference lists, optionally through the
// redis cache.
type DirectoryService struct {
	api    apiClient
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewDirectoryService constructs a DirectoryService. cache may be nil.
func NewDirectoryService(api apiClient, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{api: api, cache: cache, ttl: ttl, logger: logger}
}

// Groups lists every group.
func (s *DirectoryService) Groups(ctx context.Context) ([]models.Group, error) {
	return fetchCached(ctx, s.cache, cacheKeyGroups, s.ttl, func(ctx context.Context) ([]models.Group, error) {
		var groups []models.Group
		err := s.api.Get(ctx, "group", &groups)
		return groups, err
	})
}

// Teachers lists every teacher.
func (s *DirectoryService) Teachers(ctx context.Context) ([]models.Teacher, error) {
	return fetchCached(ctx, s.cache, cacheKeyTeachers, s.ttl, func(ctx context.Context) ([]models.Teacher, error) {
		var teachers []models.Teacher
		err := s.api.Get(ctx, "teacher", &teachers)
		return teachers, err
	})
}

// Group fetches one group by backend id.
func (s *DirectoryService) Group(ctx context.Context, id string) (models.Group, error) {
	return fetchCached(ctx, s.cache, "group:"+id, s.ttl, func(ctx context.Context) (models.Group, error) {
		var group models.Group
		err := s.api.Get(ctx, pathOf("group", id), &group)
		return group, err
	})
}

// Teacher fetches one teacher by backend id.
func (s *DirectoryService) Teacher(ctx context.Context, id string) (models.Teacher, error) {
	return fetchCached(ctx, s.cache, "teacher:"+id, s.ttl, func(ctx context.Context) (models.Teacher, error) {
		var teacher models.Teacher
		err := s.api.Get(ctx, pathOf("teacher", id), &teacher)
		return teacher, err
	})
}

// Preload fetches both lists concurrently. serve uses it to warm the cache before the bridge
// starts.
func (s *DirectoryService) Preload(ctx context.Context) ([]models.Group, []models.Teacher, error) {
	var (
		groups   []models.Group
		teachers []models.Teacher
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.Groups(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		teachers, err = s.Teachers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	s.logger.Debug("directory preloaded", zap.Int("groups", len(groups)), zap.Int("teachers", len(teachers)))
	return groups, teachers, nil
}

// Invalidate drops every cached directory entry.
func (s *DirectoryService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, "*")
}
