package service

import (
	"context"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	apperrors "github.com/fastn-ai/fastn-community-sub000/pkg/errors"
	"github.com/fastn-ai/fastn-community-sub000/pkg/logger"
)

// topicReads are the cached reads a topic write makes stale
var topicReads = []string{
	api.ActionGetAllTopics,
	api.ActionGetTopicByStatus,
	api.ActionGetTopicByUser,
	api.ActionGetTopicByID,
	api.ActionAnalytics,
}

// TopicFilter narrows a topic listing. An empty Status lists every topic.
type TopicFilter struct {
	Status       api.TopicStatus
	ForceRefresh bool
}

// TopicService provides topic operations
type TopicService struct {
	c    *core
	tags *TagService
}

// List returns topics, optionally only those with a moderation status
func (s *TopicService) List(ctx context.Context, f TopicFilter) Listing[api.Topic] {
	c := s.c
	plan := readPlan{
		kind:   "topics",
		action: api.ActionGetAllTopics,
		ttl:    c.Settings.TTL.Topics,
		force:  f.ForceRefresh,
	}
	defaultStatus := api.StatusApproved
	sample := c.Fallback.Topics

	if f.Status != "" {
		plan.action = api.ActionGetTopicByStatus
		plan.scope = string(f.Status)
		plan.data = map[string]interface{}{"status": f.Status}
		defaultStatus = f.Status
		sample = func() []api.Topic { return c.Fallback.TopicsByStatus(f.Status) }
	}

	return readList(ctx, c, plan, func(raw []byte) ([]api.Topic, error) {
		return c.Normalizer.Topics(raw, defaultStatus)
	}, sample)
}

// ListByUser returns the topics authored by userID
func (s *TopicService) ListByUser(ctx context.Context, userID string, force bool) Listing[api.Topic] {
	c := s.c
	plan := readPlan{
		kind:   "topics",
		action: api.ActionGetTopicByUser,
		scope:  userID,
		data:   map[string]interface{}{"user_id": userID},
		ttl:    c.Settings.TTL.Topics,
		force:  force,
	}
	return readList(ctx, c, plan, func(raw []byte) ([]api.Topic, error) {
		return c.Normalizer.Topics(raw, api.StatusApproved)
	}, func() []api.Topic { return c.Fallback.TopicsByAuthor(userID) })
}

// Mine lists the signed-in user's topics. Without a session it is empty.
func (s *TopicService) Mine(ctx context.Context, force bool) Listing[api.Topic] {
	sess := s.c.Session.Session()
	if sess == nil || sess.UserID == "" {
		return Listing[api.Topic]{Items: []api.Topic{}, Source: SourceFallback}
	}
	return s.ListByUser(ctx, sess.UserID, force)
}

// Get returns one topic
func (s *TopicService) Get(ctx context.Context, id string, force bool) (api.Topic, Source, error) {
	c := s.c
	plan := readPlan{
		kind:   "topic",
		action: api.ActionGetTopicByID,
		scope:  id,
		data:   map[string]interface{}{"id": id},
		ttl:    c.Settings.TTL.Topics,
		force:  force,
	}
	return readOne(ctx, c, plan, id, func(raw []byte) (api.Topic, bool, error) {
		return c.Normalizer.Topic(raw, api.StatusApproved)
	}, c.Fallback.Topic)
}

// UpdateStatus moves a topic to a moderation status
func (s *TopicService) UpdateStatus(ctx context.Context, id string, status api.TopicStatus) (api.Topic, api.LocalPatch[api.Topic], error) {
	c := s.c
	var patch api.LocalPatch[api.Topic]

	if !status.Valid() {
		return api.Topic{}, patch, &apperrors.ValidationError{Fields: []apperrors.FieldError{
			{Field: "status", Message: "must be one of pending approved rejected"},
		}}
	}

	if c.Settings.Offline {
		topic, ok := c.Fallback.SetTopicStatus(id, status, c.stamp())
		if !ok {
			return api.Topic{}, patch, &apperrors.NotFoundErr{Resource: "topic", ID: id}
		}
		c.Dedup.Invalidate(topicReads...)
		return topic, api.LocalPatch[api.Topic]{Op: api.PatchReplace, Record: topic}, nil
	}

	raw, err := c.write(ctx, api.ActionUpdateTopicStatus, map[string]interface{}{
		"id":     id,
		"status": status,
	})
	if err != nil {
		return api.Topic{}, patch, err
	}
	c.Dedup.Invalidate(topicReads...)

	topic, ok, err := c.Normalizer.Topic(raw, status)
	if err != nil || !ok || topic.ID == "" {
		logger.Debug("Status update returned no record", "id", id, "error", err)
		topic = api.Topic{ID: id, Tags: []string{}, UpdatedAt: c.stamp()}
	}
	topic.Status = status

	logger.Info("Topic status updated", "id", id, "status", status)
	return topic, api.LocalPatch[api.Topic]{Op: api.PatchReplace, Record: topic}, nil
}

// Delete removes a topic
func (s *TopicService) Delete(ctx context.Context, id string) (api.LocalPatch[api.Topic], error) {
	c := s.c
	patch := api.LocalPatch[api.Topic]{Op: api.PatchRemove, Record: api.Topic{ID: id}}

	if c.Settings.Offline {
		if !c.Fallback.RemoveTopic(id) {
			return patch, &apperrors.NotFoundErr{Resource: "topic", ID: id}
		}
		c.Dedup.Invalidate(topicReads...)
		return patch, nil
	}

	if _, err := c.write(ctx, api.ActionDeleteTopic, map[string]interface{}{"id": id}); err != nil {
		return patch, err
	}
	c.Dedup.Invalidate(topicReads...)

	logger.Info("Topic deleted", "id", id)
	return patch, nil
}
