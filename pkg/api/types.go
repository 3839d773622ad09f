package api

// TopicStatus is the moderation state of a topic
type TopicStatus string

const (
	StatusPending  TopicStatus = "pending"
	StatusApproved TopicStatus = "approved"
	StatusRejected TopicStatus = "rejected"
)

// Valid reports whether s is one of the known moderation states
func (s TopicStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Topic is a forum thread
type Topic struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Content        string      `json:"content,omitempty"`
	AuthorID       string      `json:"author_id"`
	AuthorUsername string      `json:"author_username"`
	AuthorAvatar   string      `json:"author_avatar"`
	CategoryID     string      `json:"category_id"`
	CategoryName   string      `json:"category_name"`
	CategoryColor  string      `json:"category_color"`
	Status         TopicStatus `json:"status"`
	IsFeatured     bool        `json:"is_featured"`
	IsHot          bool        `json:"is_hot"`
	IsNew          bool        `json:"is_new"`
	ViewCount      int         `json:"view_count"`
	ReplyCount     int         `json:"reply_count"`
	LikeCount      int         `json:"like_count"`
	BookmarkCount  int         `json:"bookmark_count"`
	ShareCount     int         `json:"share_count"`
	Tags           []string    `json:"tags"`
	CreatedAt      string      `json:"created_at"`
	UpdatedAt      string      `json:"updated_at"`
	IsSample       bool        `json:"is_sample,omitempty"`
}

// Key returns the topic id
func (t Topic) Key() string { return t.ID }

// Category groups topics
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	TopicsCount int    `json:"topics_count"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	IsSample    bool   `json:"is_sample,omitempty"`
}

func (c Category) Key() string { return c.ID }

// Reply is an answer posted on a topic. ParentReplyID links nested
// replies, though listings are flat.
type Reply struct {
	ID             string `json:"id"`
	TopicID        string `json:"topic_id"`
	AuthorID       string `json:"author_id"`
	AuthorUsername string `json:"author_username"`
	AuthorAvatar   string `json:"author_avatar"`
	Content        string `json:"content"`
	ParentReplyID  string `json:"parent_reply_id,omitempty"`
	IsAccepted     bool   `json:"is_accepted"`
	IsHelpful      bool   `json:"is_helpful"`
	LikeCount      int    `json:"like_count"`
	HelpfulCount   int    `json:"helpful_count"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	IsSample       bool   `json:"is_sample,omitempty"`
}

func (r Reply) Key() string { return r.ID }

// User is a community member profile with aggregate counters
type User struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	AvatarURL       string `json:"avatar_url"`
	Bio             string `json:"bio"`
	Location        string `json:"location"`
	Website         string `json:"website"`
	GithubURL       string `json:"github_url"`
	TwitterURL      string `json:"twitter_url"`
	LinkedinURL     string `json:"linkedin_url"`
	IsVerified      bool   `json:"is_verified"`
	IsActive        bool   `json:"is_active"`
	TopicsCount     int    `json:"topics_count"`
	RepliesCount    int    `json:"replies_count"`
	LikesReceived   int    `json:"likes_received"`
	ReputationScore int    `json:"reputation_score"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	IsSample        bool   `json:"is_sample,omitempty"`
}

func (u User) Key() string { return u.ID }

// Tag labels topics
type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	Color       string `json:"color"`
	TopicsCount int    `json:"topics_count"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	IsSample    bool   `json:"is_sample,omitempty"`
}

func (t Tag) Key() string { return t.ID }

// NewTopic is the client input for topic creation
type NewTopic struct {
	Title       string   `json:"title" validate:"required,min=5,max=200"`
	Description string   `json:"description" validate:"required,min=10,max=1000"`
	CategoryID  string   `json:"category_id" validate:"required"`
	Content     string   `json:"content" validate:"required,min=20,max=20000"`
	Tags        []string `json:"tags" validate:"min=1,max=5,dive,required"`
}

// NewReply is the client input for reply creation
type NewReply struct {
	TopicID       string `json:"topic_id" validate:"required"`
	Content       string `json:"content" validate:"required,min=2,max=10000"`
	ParentReplyID string `json:"parent_reply_id,omitempty"`
}

// AdminStats aggregates moderation counters for the admin dashboard
type AdminStats struct {
	TotalTopics    int `json:"total_topics"`
	PendingTopics  int `json:"pending_topics"`
	ApprovedTopics int `json:"approved_topics"`
	RejectedTopics int `json:"rejected_topics"`
	TotalUsers     int `json:"total_users"`
	TotalReplies   int `json:"total_replies"`
	TotalLikes     int `json:"total_likes"`
	TotalViews     int `json:"total_views"`
}

// LeaderboardEntry is a ranked user
type LeaderboardEntry struct {
	Rank int  `json:"rank"`
	User User `json:"user"`
}
