package normalize

import (
	"time"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
)

// Normalizer maps raw records onto api types. Now supplies the timestamp
// used for missing created/updated fields.
type Normalizer struct {
	Now func() time.Time
}

// New creates a Normalizer using now, or time.Now when nil
func New(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{Now: now}
}

func (n *Normalizer) stamp() string {
	now := time.Now
	if n != nil && n.Now != nil {
		now = n.Now
	}
	return now().UTC().Format(time.RFC3339)
}

// Topics maps a list response. defaultStatus fills records without a
// valid status.
func (n *Normalizer) Topics(raw []byte, defaultStatus api.TopicStatus) ([]api.Topic, error) {
	list, err := Envelope("topics", raw)
	if err != nil {
		return []api.Topic{}, err
	}
	out := make([]api.Topic, 0, len(list.Items))
	for _, r := range list.Items {
		out = append(out, n.TopicRecord(r, defaultStatus))
	}
	return out, nil
}

// Topic maps a get or write response. ok is false when the body holds no
// record.
func (n *Normalizer) Topic(raw []byte, defaultStatus api.TopicStatus) (api.Topic, bool, error) {
	r, ok, err := single("topic", raw)
	if err != nil || !ok {
		return api.Topic{Tags: []string{}}, false, err
	}
	return n.TopicRecord(r, defaultStatus), true, nil
}

// TopicRecord maps one raw topic
func (n *Normalizer) TopicRecord(r Record, defaultStatus api.TopicStatus) api.Topic {
	now := n.stamp()
	created := r.strOr(now, "created_at")

	status := api.TopicStatus(r.str("status"))
	if !status.Valid() {
		status = defaultStatus
	}

	categoryName := r.str("category_name")

	return api.Topic{
		ID:             r.str("id", "topic_id"),
		Title:          r.str("title"),
		Description:    r.str("description"),
		Content:        r.str("content"),
		AuthorID:       r.str("author_id", "user_id"),
		AuthorUsername: r.strOr("anonymous", "author_username", "username", "author_name"),
		AuthorAvatar:   r.str("author_avatar", "avatar_url", "avatar"),
		CategoryID:     r.str("category_id"),
		CategoryName:   categoryName,
		CategoryColor:  r.strOr(ColorFor(categoryName), "category_color"),
		Status:         status,
		IsFeatured:     r.flag("is_featured", "featured"),
		IsHot:          r.flag("is_hot", "hot"),
		IsNew:          r.flag("is_new"),
		ViewCount:      r.count("view_count", "views_count", "views"),
		ReplyCount:     r.count("reply_count", "replies_count"),
		LikeCount:      r.count("like_count", "likes_count"),
		BookmarkCount:  r.count("bookmark_count", "bookmarks_count"),
		ShareCount:     r.count("share_count", "shares_count"),
		Tags:           ParseTags(r.raw("tags")),
		CreatedAt:      created,
		UpdatedAt:      r.strOr(created, "updated_at"),
	}
}

// Replies maps a list response
func (n *Normalizer) Replies(raw []byte) ([]api.Reply, error) {
	list, err := Envelope("replies", raw)
	if err != nil {
		return []api.Reply{}, err
	}
	out := make([]api.Reply, 0, len(list.Items))
	for _, r := range list.Items {
		out = append(out, n.ReplyRecord(r))
	}
	return out, nil
}

// Reply maps a get or write response
func (n *Normalizer) Reply(raw []byte) (api.Reply, bool, error) {
	r, ok, err := single("reply", raw)
	if err != nil || !ok {
		return api.Reply{}, false, err
	}
	return n.ReplyRecord(r), true, nil
}

// ReplyRecord maps one raw reply
func (n *Normalizer) ReplyRecord(r Record) api.Reply {
	now := n.stamp()
	created := r.strOr(now, "created_at")

	return api.Reply{
		ID:             r.str("id", "reply_id"),
		TopicID:        r.str("topic_id"),
		AuthorID:       r.str("author_id", "user_id"),
		AuthorUsername: r.strOr("anonymous", "author_username", "username", "author_name"),
		AuthorAvatar:   r.str("author_avatar", "avatar_url", "avatar"),
		Content:        r.str("content"),
		ParentReplyID:  r.str("parent_reply_id"),
		IsAccepted:     r.flag("is_accepted", "accepted"),
		IsHelpful:      r.flag("is_helpful"),
		LikeCount:      r.count("like_count", "likes_count"),
		HelpfulCount:   r.count("helpful_count"),
		CreatedAt:      created,
		UpdatedAt:      r.strOr(created, "updated_at"),
	}
}

// Categories maps a list response
func (n *Normalizer) Categories(raw []byte) ([]api.Category, error) {
	list, err := Envelope("categories", raw)
	if err != nil {
		return []api.Category{}, err
	}
	out := make([]api.Category, 0, len(list.Items))
	for _, r := range list.Items {
		now := n.stamp()
		created := r.strOr(now, "created_at")
		name := r.str("name")
		out = append(out, api.Category{
			ID:          r.str("id", "category_id"),
			Name:        name,
			Description: r.str("description"),
			Slug:        r.str("slug"),
			Icon:        r.str("icon"),
			Color:       r.strOr(ColorFor(name), "color"),
			TopicsCount: r.count("topics_count", "topic_count"),
			IsActive:    r.flag("is_active"),
			CreatedAt:   created,
			UpdatedAt:   r.strOr(created, "updated_at"),
		})
	}
	return out, nil
}

// Tags maps a list response
func (n *Normalizer) Tags(raw []byte) ([]api.Tag, error) {
	list, err := Envelope("tags", raw)
	if err != nil {
		return []api.Tag{}, err
	}
	out := make([]api.Tag, 0, len(list.Items))
	for _, r := range list.Items {
		now := n.stamp()
		created := r.strOr(now, "created_at")
		name := r.str("name", "tag_name")
		out = append(out, api.Tag{
			ID:          r.str("id", "tag_id"),
			Name:        name,
			Description: r.str("description"),
			Slug:        r.str("slug"),
			Color:       r.strOr(ColorFor(name), "color"),
			TopicsCount: r.count("topics_count", "topic_count", "usage_count"),
			IsActive:    r.flag("is_active"),
			CreatedAt:   created,
			UpdatedAt:   r.strOr(created, "updated_at"),
		})
	}
	return out, nil
}

// Users maps a list response
func (n *Normalizer) Users(raw []byte) ([]api.User, error) {
	list, err := Envelope("users", raw)
	if err != nil {
		return []api.User{}, err
	}
	out := make([]api.User, 0, len(list.Items))
	for _, r := range list.Items {
		out = append(out, n.UserRecord(r))
	}
	return out, nil
}

// User maps a get response
func (n *Normalizer) User(raw []byte) (api.User, bool, error) {
	r, ok, err := single("user", raw)
	if err != nil || !ok {
		return api.User{}, false, err
	}
	return n.UserRecord(r), true, nil
}

// UserRecord maps one raw user
func (n *Normalizer) UserRecord(r Record) api.User {
	now := n.stamp()
	created := r.strOr(now, "created_at")

	return api.User{
		ID:              r.str("id", "user_id"),
		Username:        r.strOr("anonymous", "username", "name"),
		Email:           r.str("email"),
		AvatarURL:       r.str("avatar_url", "avatar"),
		Bio:             r.str("bio"),
		Location:        r.str("location"),
		Website:         r.str("website"),
		GithubURL:       r.str("github_url"),
		TwitterURL:      r.str("twitter_url"),
		LinkedinURL:     r.str("linkedin_url"),
		IsVerified:      r.flag("is_verified"),
		IsActive:        r.flag("is_active"),
		TopicsCount:     r.count("topics_count", "topic_count"),
		RepliesCount:    r.count("replies_count", "reply_count"),
		LikesReceived:   r.count("likes_received"),
		ReputationScore: r.count("reputation_score", "reputation"),
		CreatedAt:       created,
		UpdatedAt:       r.strOr(created, "updated_at"),
	}
}
