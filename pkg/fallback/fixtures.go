package fallback

import "github.com/fastn-ai/fastn-community-sub000/pkg/api"

const (
	seedCreated = "2024-01-15T10:00:00Z"
	seedUpdated = "2024-01-16T08:30:00Z"
)

func seedCategories() []api.Category {
	return []api.Category{
		{
			ID:          "1",
			Name:        "General Discussion",
			Description: "Talk about anything related to the platform",
			Slug:        "general-discussion",
			Icon:        "message-circle",
			Color:       "#3B82F6",
			TopicsCount: 1,
			IsActive:    true,
			CreatedAt:   seedCreated,
			UpdatedAt:   seedUpdated,
			IsSample:    true,
		},
		{
			ID:          "2",
			Name:        "Help & Support",
			Description: "Ask questions and get help from the community",
			Slug:        "help-support",
			Icon:        "help-circle",
			Color:       "#10B981",
			TopicsCount: 1,
			IsActive:    true,
			CreatedAt:   seedCreated,
			UpdatedAt:   seedUpdated,
			IsSample:    true,
		},
		{
			ID:          "3",
			Name:        "Announcements",
			Description: "Product news and release notes",
			Slug:        "announcements",
			Icon:        "megaphone",
			Color:       "#F59E0B",
			TopicsCount: 0,
			IsActive:    true,
			CreatedAt:   seedCreated,
			UpdatedAt:   seedUpdated,
			IsSample:    true,
		},
	}
}

func seedTopics() []api.Topic {
	return []api.Topic{
		{
			ID:             "1",
			Title:          "Welcome to the community forum",
			Description:    "Introduce yourself and learn how the forum works",
			Content:        "This is a place to share ideas, ask questions and help each other build better workflows.",
			AuthorID:       "1",
			AuthorUsername: "community-team",
			AuthorAvatar:   "",
			CategoryID:     "1",
			CategoryName:   "General Discussion",
			CategoryColor:  "#3B82F6",
			Status:         api.StatusApproved,
			IsFeatured:     true,
			IsHot:          false,
			IsNew:          false,
			ViewCount:      245,
			ReplyCount:     1,
			LikeCount:      18,
			BookmarkCount:  4,
			ShareCount:     2,
			Tags:           []string{"welcome", "getting-started"},
			CreatedAt:      seedCreated,
			UpdatedAt:      seedUpdated,
			IsSample:       true,
		},
		{
			ID:             "2",
			Title:          "How do I connect an API key to my workspace?",
			Description:    "Step-by-step question about API key setup",
			Content:        "I created a key in the dashboard but requests still come back unauthorized. What am I missing?",
			AuthorID:       "2",
			AuthorUsername: "new-builder",
			AuthorAvatar:   "",
			CategoryID:     "2",
			CategoryName:   "Help & Support",
			CategoryColor:  "#10B981",
			Status:         api.StatusApproved,
			IsFeatured:     false,
			IsHot:          true,
			IsNew:          true,
			ViewCount:      87,
			ReplyCount:     1,
			LikeCount:      5,
			BookmarkCount:  1,
			ShareCount:     0,
			Tags:           []string{"api"},
			CreatedAt:      seedCreated,
			UpdatedAt:      seedUpdated,
			IsSample:       true,
		},
	}
}

func seedReplies() []api.Reply {
	return []api.Reply{
		{
			ID:             "1",
			TopicID:        "1",
			AuthorID:       "2",
			AuthorUsername: "new-builder",
			Content:        "Thanks for the warm welcome, glad to be here!",
			IsAccepted:     false,
			IsHelpful:      false,
			LikeCount:      3,
			HelpfulCount:   0,
			CreatedAt:      seedCreated,
			UpdatedAt:      seedUpdated,
			IsSample:       true,
		},
		{
			ID:             "2",
			TopicID:        "2",
			AuthorID:       "1",
			AuthorUsername: "community-team",
			Content:        "Make sure the key is sent in the x-fastn-api-key header along with your space id.",
			IsAccepted:     true,
			IsHelpful:      true,
			LikeCount:      6,
			HelpfulCount:   4,
			CreatedAt:      seedCreated,
			UpdatedAt:      seedUpdated,
			IsSample:       true,
		},
	}
}

func seedTags() []api.Tag {
	return []api.Tag{
		{
			ID:          "1",
			Name:        "welcome",
			Description: "Introductions and onboarding",
			Slug:        "welcome",
			Color:       "#8B5CF6",
			TopicsCount: 1,
			IsActive:    true,
			CreatedAt:   seedCreated,
			UpdatedAt:   seedUpdated,
			IsSample:    true,
		},
		{
			ID:          "2",
			Name:        "getting-started",
			Description: "First steps on the platform",
			Slug:        "getting-started",
			Color:       "#06B6D4",
			TopicsCount: 1,
			IsActive:    true,
			CreatedAt:   seedCreated,
			UpdatedAt:   seedUpdated,
			IsSample:    true,
		},
		{
			ID:          "3",
			Name:        "api",
			Description: "Questions about the HTTP API",
			Slug:        "api",
			Color:       "#EF4444",
			TopicsCount: 1,
			IsActive:    true,
			CreatedAt:   seedCreated,
			UpdatedAt:   seedUpdated,
			IsSample:    true,
		},
	}
}

func seedUsers() []api.User {
	return []api.User{
		{
			ID:              "1",
			Username:        "community-team",
			Email:           "team@example.com",
			Bio:             "Keeping the forum running",
			Location:        "Remote",
			IsVerified:      true,
			IsActive:        true,
			TopicsCount:     1,
			RepliesCount:    1,
			LikesReceived:   24,
			ReputationScore: 320,
			CreatedAt:       seedCreated,
			UpdatedAt:       seedUpdated,
			IsSample:        true,
		},
		{
			ID:              "2",
			Username:        "new-builder",
			Email:           "builder@example.com",
			Bio:             "Learning to automate everything",
			IsVerified:      false,
			IsActive:        true,
			TopicsCount:     1,
			RepliesCount:    1,
			LikesReceived:   8,
			ReputationScore: 45,
			CreatedAt:       seedCreated,
			UpdatedAt:       seedUpdated,
			IsSample:        true,
		},
	}
}
