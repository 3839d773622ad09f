package service

import (
	"context"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
)

// CategoryService lists categories
type CategoryService struct {
	c *core
}

func (s *CategoryService) List(ctx context.Context, force bool) Listing[api.Category] {
	c := s.c
	plan := readPlan{
		kind:   "categories",
		action: api.ActionGetAllCategories,
		ttl:    c.Settings.TTL.Categories,
		force:  force,
	}
	return readList(ctx, c, plan, c.Normalizer.Categories, c.Fallback.Categories)
}

// TagService lists tags
type TagService struct {
	c *core
}

func (s *TagService) List(ctx context.Context, force bool) Listing[api.Tag] {
	c := s.c
	plan := readPlan{
		kind:   "tags",
		action: api.ActionGetAllTags,
		ttl:    c.Settings.TTL.Tags,
		force:  force,
	}
	return readList(ctx, c, plan, c.Normalizer.Tags, c.Fallback.Tags)
}
