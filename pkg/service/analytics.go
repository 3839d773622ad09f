package service

import (
	"context"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	"github.com/fastn-ai/fastn-community-sub000/pkg/dedup"
	json "github.com/json-iterator/go"
)

// AnalyticsService computes admin dashboard counters
type AnalyticsService struct {
	c      *core
	topics *TopicService
	users  *UserService
}

type statsEntry struct {
	Stats  api.AdminStats `json:"stats"`
	Source Source         `json:"source"`
}

// Stats aggregates topic and user listings. The result is cached under the
// analytics key, which topic writes invalidate. Source is the least fresh
// source of the underlying reads.
func (s *AnalyticsService) Stats(ctx context.Context, force bool) (api.AdminStats, Source) {
	c := s.c
	key := dedup.Key(api.ActionAnalytics, "", dedup.ModeToken)

	raw, err := c.Dedup.Do(ctx, key, c.Settings.TTL.Analytics, force, func(ctx context.Context) ([]byte, error) {
		return json.Marshal(s.compute(ctx, force))
	})

	var entry statsEntry
	if err == nil {
		err = json.Unmarshal(raw, &entry)
	}
	if err != nil {
		entry = s.compute(ctx, force)
	}
	return entry.Stats, entry.Source
}

func (s *AnalyticsService) compute(ctx context.Context, force bool) statsEntry {
	topics := s.topics.List(ctx, TopicFilter{ForceRefresh: force})
	users := s.users.List(ctx, force)

	var st api.AdminStats
	st.TotalTopics = len(topics.Items)
	st.TotalUsers = len(users.Items)
	for _, t := range topics.Items {
		switch t.Status {
		case api.StatusPending:
			st.PendingTopics++
		case api.StatusApproved:
			st.ApprovedTopics++
		case api.StatusRejected:
			st.RejectedTopics++
		}
		st.TotalReplies += t.ReplyCount
		st.TotalLikes += t.LikeCount
		st.TotalViews += t.ViewCount
	}

	return statsEntry{Stats: st, Source: leastFresh(topics.Source, users.Source)}
}

func leastFresh(sources ...Source) Source {
	rank := map[Source]int{SourceNetwork: 0, SourceSnapshot: 1, SourceFallback: 2}
	worst := SourceNetwork
	for _, src := range sources {
		if rank[src] > rank[worst] {
			worst = src
		}
	}
	return worst
}
