// Package fallback serves a small fixed data set when the backend cannot be
// reached or no credential is available. Every record is flagged IsSample.
package fallback

import (
	"sync"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
)

// Provider holds the sample records. Offline writes mutate it and are seen
// by later reads from the same Provider.
type Provider struct {
	mu         sync.RWMutex
	topics     []api.Topic
	replies    []api.Reply
	categories []api.Category
	tags       []api.Tag
	users      []api.User
}

// NewProvider returns a Provider seeded with the sample records
func NewProvider() *Provider {
	p := &Provider{}
	p.Reset()
	return p
}

// Reset restores the seed, discarding offline writes
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.topics = seedTopics()
	p.replies = seedReplies()
	p.categories = seedCategories()
	p.tags = seedTags()
	p.users = seedUsers()
}

func (p *Provider) Topics() []api.Topic {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]api.Topic, len(p.topics))
	for i, t := range p.topics {
		out[i] = copyTopic(t)
	}
	return out
}

// Topic returns the topic with id
func (p *Provider) Topic(id string) (api.Topic, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, t := range p.topics {
		if t.ID == id {
			return copyTopic(t), true
		}
	}
	return api.Topic{}, false
}

// TopicsByStatus filters the topic list
func (p *Provider) TopicsByStatus(status api.TopicStatus) []api.Topic {
	var out []api.Topic
	for _, t := range p.Topics() {
		if t.Status == status {
			out = append(out, t)
		}
	}
	if out == nil {
		out = []api.Topic{}
	}
	return out
}

// TopicsByAuthor filters the topic list
func (p *Provider) TopicsByAuthor(userID string) []api.Topic {
	out := []api.Topic{}
	for _, t := range p.Topics() {
		if t.AuthorID == userID {
			out = append(out, t)
		}
	}
	return out
}

// Replies returns the replies on a topic
func (p *Provider) Replies(topicID string) []api.Reply {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := []api.Reply{}
	for _, r := range p.replies {
		if r.TopicID == topicID {
			out = append(out, r)
		}
	}
	return out
}

func (p *Provider) Categories() []api.Category {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]api.Category(nil), p.categories...)
}

func (p *Provider) Tags() []api.Tag {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]api.Tag(nil), p.tags...)
}

func (p *Provider) Users() []api.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]api.User(nil), p.users...)
}

// User returns the user with id
func (p *Provider) User(id string) (api.User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, u := range p.users {
		if u.ID == id {
			return u, true
		}
	}
	return api.User{}, false
}

// AddTopic stores a locally created topic
func (p *Provider) AddTopic(t api.Topic) {
	t.IsSample = true
	t = copyTopic(t)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = api.LocalPatch[api.Topic]{Op: api.PatchAppend, Record: t}.Apply(p.topics)
}

// SetTopicStatus changes a stored topic's status. It reports false when
// no topic has id.
func (p *Provider) SetTopicStatus(id string, status api.TopicStatus, updatedAt string) (api.Topic, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.topics {
		if p.topics[i].ID == id {
			p.topics[i].Status = status
			p.topics[i].UpdatedAt = updatedAt
			return copyTopic(p.topics[i]), true
		}
	}
	return api.Topic{}, false
}

// RemoveTopic deletes a stored topic and its replies
func (p *Provider) RemoveTopic(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	before := len(p.topics)
	p.topics = api.LocalPatch[api.Topic]{Op: api.PatchRemove, Record: api.Topic{ID: id}}.Apply(p.topics)
	if len(p.topics) == before {
		return false
	}

	kept := p.replies[:0:0]
	for _, r := range p.replies {
		if r.TopicID != id {
			kept = append(kept, r)
		}
	}
	p.replies = kept
	return true
}

// AddReply stores a locally created reply and bumps the topic's reply count
func (p *Provider) AddReply(r api.Reply) {
	r.IsSample = true

	p.mu.Lock()
	defer p.mu.Unlock()

	p.replies = api.LocalPatch[api.Reply]{Op: api.PatchAppend, Record: r}.Apply(p.replies)
	for i := range p.topics {
		if p.topics[i].ID == r.TopicID {
			p.topics[i].ReplyCount++
		}
	}
}

// UpdateReply replaces a stored reply's content
func (p *Provider) UpdateReply(id, content, updatedAt string) (api.Reply, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.replies {
		if p.replies[i].ID == id {
			p.replies[i].Content = content
			p.replies[i].UpdatedAt = updatedAt
			return p.replies[i], true
		}
	}
	return api.Reply{}, false
}

// RemoveReply deletes a stored reply
func (p *Provider) RemoveReply(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.replies {
		if p.replies[i].ID != id {
			continue
		}
		topicID := p.replies[i].TopicID
		p.replies = append(p.replies[:i:i], p.replies[i+1:]...)
		for j := range p.topics {
			if p.topics[j].ID == topicID && p.topics[j].ReplyCount > 0 {
				p.topics[j].ReplyCount--
			}
		}
		return true
	}
	return false
}

func copyTopic(t api.Topic) api.Topic {
	t.Tags = append([]string{}, t.Tags...)
	return t
}
