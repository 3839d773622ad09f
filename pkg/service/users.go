package service

import (
	"context"
	"sort"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	"github.com/fastn-ai/fastn-community-sub000/pkg/logger"
)

// UserService provides user operations. Its backend actions authenticate
// with the API key when one is configured.
type UserService struct {
	c *core
}

func (s *UserService) List(ctx context.Context, force bool) Listing[api.User] {
	c := s.c
	plan := readPlan{
		kind:   "users",
		action: api.ActionGetAllUsers,
		ttl:    c.Settings.TTL.Users,
		force:  force,
	}
	return readList(ctx, c, plan, c.Normalizer.Users, c.Fallback.Users)
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id string, force bool) (api.User, Source, error) {
	c := s.c
	plan := readPlan{
		kind:   "user",
		action: api.ActionGetUserByID,
		scope:  id,
		data:   map[string]interface{}{"id": id},
		ttl:    c.Settings.TTL.Users,
		force:  force,
	}
	return readOne(ctx, c, plan, id, c.Normalizer.User, c.Fallback.User)
}

// Leaderboard ranks users by reputation, then likes received. A positive
// limit caps the number of entries.
func (s *UserService) Leaderboard(ctx context.Context, limit int, force bool) ([]api.LeaderboardEntry, Source) {
	users := s.List(ctx, force)

	ranked := append([]api.User(nil), users.Items...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ReputationScore != ranked[j].ReputationScore {
			return ranked[i].ReputationScore > ranked[j].ReputationScore
		}
		return ranked[i].LikesReceived > ranked[j].LikesReceived
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]api.LeaderboardEntry, len(ranked))
	for i, u := range ranked {
		out[i] = api.LeaderboardEntry{Rank: i + 1, User: u}
	}
	return out, users.Source
}

// RegisterSession records the signed-in user with the backend in the
// background. Failures are logged only; call Services.Wait to let the
// task finish before exit.
func (s *UserService) RegisterSession(ctx context.Context) {
	c := s.c
	sess := c.Session.Session()
	if sess == nil || c.Settings.Offline {
		return
	}

	data := map[string]interface{}{
		"id":         sess.UserID,
		"username":   sess.Username,
		"email":      sess.Email,
		"avatar_url": sess.AvatarURL,
		"role_id":    c.Settings.DefaultRoleID,
	}

	c.detach(ctx, api.ActionInsertUser, func(ctx context.Context) error {
		if _, err := c.write(ctx, api.ActionInsertUser, data); err != nil {
			return err
		}
		c.Dedup.Invalidate(api.ActionGetAllUsers, api.ActionGetUserByID)
		logger.Debug("Session user registered", "user_id", sess.UserID)
		return nil
	})
}
