package service

import (
	"context"
	"strings"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	apperrors "github.com/fastn-ai/fastn-community-sub000/pkg/errors"
	"github.com/fastn-ai/fastn-community-sub000/pkg/logger"
)

var replyReads = []string{
	api.ActionGetReplies,
	api.ActionGetAllTopics,
}

// ReplyService provides reply operations
type ReplyService struct {
	c *core
}

// List returns the replies on a topic
func (s *ReplyService) List(ctx context.Context, topicID string, force bool) Listing[api.Reply] {
	c := s.c
	plan := readPlan{
		kind:   "replies",
		action: api.ActionGetReplies,
		scope:  topicID,
		data:   map[string]interface{}{"topic_id": topicID},
		ttl:    c.Settings.TTL.Replies,
		force:  force,
	}
	return readList(ctx, c, plan, c.Normalizer.Replies, func() []api.Reply {
		return c.Fallback.Replies(topicID)
	})
}

// Create posts a reply and returns the patch that appends it to the
// topic's reply list
func (s *ReplyService) Create(ctx context.Context, input api.NewReply) (api.Reply, api.LocalPatch[api.Reply], error) {
	c := s.c
	var patch api.LocalPatch[api.Reply]

	in := api.NewReply{
		TopicID:       strings.TrimSpace(input.TopicID),
		Content:       strings.TrimSpace(input.Content),
		ParentReplyID: strings.TrimSpace(input.ParentReplyID),
	}
	if err := c.validate.Struct(in); err != nil {
		return api.Reply{}, patch, err
	}

	author := api.Reply{AuthorUsername: "anonymous"}
	if sess := c.Session.Session(); sess != nil {
		author.AuthorID = sess.UserID
		author.AuthorUsername = sess.Username
		author.AuthorAvatar = sess.AvatarURL
	}

	if c.Settings.Offline {
		now := c.stamp()
		reply := api.Reply{
			ID:             localID(c),
			TopicID:        in.TopicID,
			AuthorID:       author.AuthorID,
			AuthorUsername: author.AuthorUsername,
			AuthorAvatar:   author.AuthorAvatar,
			Content:        in.Content,
			ParentReplyID:  in.ParentReplyID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		c.Fallback.AddReply(reply)
		c.Dedup.Invalidate(replyReads...)
		reply.IsSample = true
		return reply, api.LocalPatch[api.Reply]{Op: api.PatchAppend, Record: reply}, nil
	}

	data := map[string]interface{}{
		"topic_id":        in.TopicID,
		"content":         in.Content,
		"author_id":       author.AuthorID,
		"author_username": author.AuthorUsername,
		"author_avatar":   author.AuthorAvatar,
	}
	if in.ParentReplyID != "" {
		data["parent_reply_id"] = in.ParentReplyID
	}

	raw, err := c.write(ctx, api.ActionCreateReply, data)
	if err != nil {
		return api.Reply{}, patch, err
	}
	c.Dedup.Invalidate(replyReads...)

	reply, ok, nerr := c.Normalizer.Reply(raw)
	if nerr != nil {
		logger.Warn("Unreadable reply response", "error", nerr)
	}
	if !ok || reply.ID == "" {
		reply.ID = localID(c)
	}
	if reply.TopicID == "" {
		reply.TopicID = in.TopicID
	}
	if reply.Content == "" {
		reply.Content = in.Content
	}
	if reply.ParentReplyID == "" {
		reply.ParentReplyID = in.ParentReplyID
	}
	if reply.AuthorID == "" {
		reply.AuthorID = author.AuthorID
	}
	if reply.AuthorUsername == "" || reply.AuthorUsername == "anonymous" {
		reply.AuthorUsername = author.AuthorUsername
	}
	if reply.CreatedAt == "" {
		reply.CreatedAt = c.stamp()
		reply.UpdatedAt = reply.CreatedAt
	}

	logger.Info("Reply created", "id", reply.ID, "topic_id", reply.TopicID)
	return reply, api.LocalPatch[api.Reply]{Op: api.PatchAppend, Record: reply}, nil
}

// Update replaces a reply's content
func (s *ReplyService) Update(ctx context.Context, id, topicID, content string) (api.Reply, api.LocalPatch[api.Reply], error) {
	c := s.c
	var patch api.LocalPatch[api.Reply]

	in := api.NewReply{TopicID: strings.TrimSpace(topicID), Content: strings.TrimSpace(content)}
	if err := c.validate.Struct(in); err != nil {
		return api.Reply{}, patch, err
	}

	if c.Settings.Offline {
		reply, ok := c.Fallback.UpdateReply(id, in.Content, c.stamp())
		if !ok {
			return api.Reply{}, patch, &apperrors.NotFoundErr{Resource: "reply", ID: id}
		}
		c.Dedup.Invalidate(replyReads...)
		return reply, api.LocalPatch[api.Reply]{Op: api.PatchReplace, Record: reply}, nil
	}

	raw, err := c.write(ctx, api.ActionUpdateReply, map[string]interface{}{
		"id":       id,
		"topic_id": in.TopicID,
		"content":  in.Content,
	})
	if err != nil {
		return api.Reply{}, patch, err
	}
	c.Dedup.Invalidate(replyReads...)

	reply, ok, _ := c.Normalizer.Reply(raw)
	if !ok || reply.ID == "" {
		reply = api.Reply{ID: id, AuthorUsername: "anonymous", UpdatedAt: c.stamp()}
		reply.CreatedAt = reply.UpdatedAt
	}
	reply.TopicID = in.TopicID
	reply.Content = in.Content

	return reply, api.LocalPatch[api.Reply]{Op: api.PatchReplace, Record: reply}, nil
}

// Delete removes a reply
func (s *ReplyService) Delete(ctx context.Context, id, topicID string) (api.LocalPatch[api.Reply], error) {
	c := s.c
	patch := api.LocalPatch[api.Reply]{Op: api.PatchRemove, Record: api.Reply{ID: id, TopicID: topicID}}

	if c.Settings.Offline {
		if !c.Fallback.RemoveReply(id) {
			return patch, &apperrors.NotFoundErr{Resource: "reply", ID: id}
		}
		c.Dedup.Invalidate(replyReads...)
		return patch, nil
	}

	if _, err := c.write(ctx, api.ActionDeleteReply, map[string]interface{}{
		"id":       id,
		"topic_id": topicID,
	}); err != nil {
		return patch, err
	}
	c.Dedup.Invalidate(replyReads...)
	return patch, nil
}
