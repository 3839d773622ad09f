package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	"github.com/fastn-ai/fastn-community-sub000/pkg/logger"
	"github.com/fastn-ai/fastn-community-sub000/pkg/normalize"
	"github.com/google/uuid"
)

// CreateState is a step of topic creation
type CreateState string

const (
	StateIdle          CreateState = "idle"
	StateValidating    CreateState = "validating"
	StateSubmitting    CreateState = "submitting"
	StateTagResolution CreateState = "tag_resolution"
	StateDone          CreateState = "done"
	StateFailed        CreateState = "failed"
)

// CreateResult describes a topic creation. States lists every state the
// run went through, ending in StateDone or StateFailed.
type CreateResult struct {
	Topic  api.Topic
	Patch  api.LocalPatch[api.Topic]
	States []CreateState

	AttachedTags   []string
	UnresolvedTags []string
	FailedTags     []string
}

// Final is the last state reached
func (r *CreateResult) Final() CreateState {
	if len(r.States) == 0 {
		return StateIdle
	}
	return r.States[len(r.States)-1]
}

func (r *CreateResult) enter(s CreateState) {
	r.States = append(r.States, s)
}

// localID makes an id for records the backend returned without one
func localID(c *core) string {
	return fmt.Sprintf("local-%d-%s", c.Now().UnixMilli(), uuid.NewString()[:8])
}

func trimTopic(in api.NewTopic) api.NewTopic {
	out := api.NewTopic{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Content:     strings.TrimSpace(in.Content),
	}
	for _, t := range in.Tags {
		out.Tags = append(out.Tags, strings.TrimSpace(t))
	}
	return out
}

// Create validates and submits a new topic, then attaches its tags. The
// topic is always created as pending. Tag problems never fail the call
// once the topic exists; they are reported in the result.
func (s *TopicService) Create(ctx context.Context, input api.NewTopic) (*CreateResult, error) {
	c := s.c
	res := &CreateResult{}
	res.enter(StateIdle)

	res.enter(StateValidating)
	in := trimTopic(input)
	if err := c.validate.Struct(in); err != nil {
		res.enter(StateFailed)
		return res, err
	}

	res.enter(StateSubmitting)
	if c.Settings.Offline {
		topic := s.offlineTopic(in)
		c.Fallback.AddTopic(topic)
		c.Dedup.Invalidate(topicReads...)
		res.Topic = topic
		res.AttachedTags = append([]string{}, in.Tags...)
		res.Patch = api.LocalPatch[api.Topic]{Op: api.PatchAppend, Record: topic}
		res.enter(StateDone)
		return res, nil
	}

	sess := c.Session.Session()
	data := map[string]interface{}{
		"title":           in.Title,
		"description":     in.Description,
		"content":         in.Content,
		"category_id":     in.CategoryID,
		"status":          api.StatusPending,
		"author_id":       "",
		"author_username": "anonymous",
		"author_avatar":   "",
	}
	if sess != nil {
		data["author_id"] = sess.UserID
		data["author_username"] = sess.Username
		data["author_avatar"] = sess.AvatarURL
	}

	raw, err := c.write(ctx, api.ActionInsertTopics, data)
	if err != nil {
		res.enter(StateFailed)
		return res, err
	}
	c.Dedup.Invalidate(topicReads...)

	topic, ok, nerr := c.Normalizer.Topic(raw, api.StatusPending)
	if nerr != nil {
		logger.Warn("Unreadable create response", "error", nerr)
	}
	backendID := ""
	if ok {
		backendID = topic.ID
	}
	topic = s.fillCreated(topic, in, data)
	if backendID == "" {
		topic.ID = localID(c)
	}

	if len(in.Tags) > 0 && backendID != "" {
		res.enter(StateTagResolution)
		s.attachTags(ctx, backendID, in.Tags, res)
	}

	res.Topic = topic
	res.Patch = api.LocalPatch[api.Topic]{Op: api.PatchAppend, Record: topic}
	res.enter(StateDone)

	logger.Info("Topic created", "id", topic.ID, "attached_tags", len(res.AttachedTags))
	return res, nil
}

// fillCreated completes a create response with what was submitted
func (s *TopicService) fillCreated(t api.Topic, in api.NewTopic, data map[string]interface{}) api.Topic {
	if t.Title == "" {
		t.Title = in.Title
	}
	if t.Description == "" {
		t.Description = in.Description
	}
	if t.Content == "" {
		t.Content = in.Content
	}
	if t.CategoryID == "" {
		t.CategoryID = in.CategoryID
	}
	if t.AuthorID == "" {
		t.AuthorID, _ = data["author_id"].(string)
	}
	if t.AuthorUsername == "" || t.AuthorUsername == "anonymous" {
		if name, _ := data["author_username"].(string); name != "" {
			t.AuthorUsername = name
		}
	}
	if t.AuthorAvatar == "" {
		t.AuthorAvatar, _ = data["author_avatar"].(string)
	}
	if len(t.Tags) == 0 {
		t.Tags = append([]string{}, in.Tags...)
	}
	if t.CreatedAt == "" {
		t.CreatedAt = s.c.stamp()
		t.UpdatedAt = t.CreatedAt
	}
	if !t.Status.Valid() {
		t.Status = api.StatusPending
	}
	return t
}

func (s *TopicService) offlineTopic(in api.NewTopic) api.Topic {
	c := s.c
	now := c.stamp()
	t := api.Topic{
		ID:             localID(c),
		Title:          in.Title,
		Description:    in.Description,
		Content:        in.Content,
		AuthorUsername: "anonymous",
		CategoryID:     in.CategoryID,
		Status:         api.StatusPending,
		IsNew:          true,
		Tags:           append([]string{}, in.Tags...),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if sess := c.Session.Session(); sess != nil {
		t.AuthorID = sess.UserID
		if sess.Username != "" {
			t.AuthorUsername = sess.Username
		}
		t.AuthorAvatar = sess.AvatarURL
	}
	for _, cat := range c.Fallback.Categories() {
		if cat.ID == t.CategoryID {
			t.CategoryName = cat.Name
			t.CategoryColor = cat.Color
		}
	}
	if t.CategoryColor == "" {
		t.CategoryColor = normalize.ColorFor(t.CategoryName)
	}
	return t
}

// attachTags resolves tag names against the live tag list and links each
// match to the topic. Names are matched exactly, case included.
func (s *TopicService) attachTags(ctx context.Context, topicID string, names []string, res *CreateResult) {
	tags := s.tags.List(ctx, false)
	if tags.Source == SourceFallback {
		logger.Warn("Tag list unavailable, skipping tag attachment", "topic_id", topicID)
		res.UnresolvedTags = append(res.UnresolvedTags, names...)
		return
	}

	ids := make(map[string]string, len(tags.Items))
	for _, t := range tags.Items {
		ids[t.Name] = t.ID
	}

	for _, name := range names {
		id, ok := ids[name]
		if !ok {
			logger.Warn("Unknown tag dropped", "tag", name, "topic_id", topicID)
			res.UnresolvedTags = append(res.UnresolvedTags, name)
			continue
		}
		_, err := s.c.write(ctx, api.ActionInsertTopicTags, map[string]interface{}{
			"topic_id": topicID,
			"tag_id":   id,
		})
		if err != nil {
			logger.Warn("Tag attach failed", "tag", name, "topic_id", topicID, "error", err)
			res.FailedTags = append(res.FailedTags, name)
			continue
		}
		res.AttachedTags = append(res.AttachedTags, name)
	}
}
