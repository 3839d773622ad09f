package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	apperrors "github.com/fastn-ai/fastn-community-sub000/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func testNormalizer() *Normalizer {
	return New(func() time.Time { return fixedNow })
}

func TestEnvelopeShapes(t *testing.T) {
	items := `[{"id":1,"title":"first"},{"id":2,"title":"second"}]`
	tests := []struct {
		name string
		body string
		kind EnvelopeKind
	}{
		{"data array", `{"data":` + items + `}`, EnvelopeData},
		{"result array", `{"result":` + items + `}`, EnvelopeResult},
		{"top-level array", items, EnvelopeArray},
		{"data wins over result", `{"data":` + items + `,"result":[]}`, EnvelopeData},
	}

	n := testNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Envelope("topics", []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, list.Kind)

			topics, err := n.Topics([]byte(tt.body), api.StatusApproved)
			require.NoError(t, err)
			require.Len(t, topics, 2)
			assert.Equal(t, "1", topics[0].ID)
			assert.Equal(t, "second", topics[1].Title)
		})
	}
}

func TestEnvelopeUnrecognizedIsEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `null`, ``, `  `, `{"data":{"id":1}}`, `{"rows":[{"id":1}]}`} {
		list, err := Envelope("topics", []byte(body))
		require.NoError(t, err, body)
		assert.Equal(t, EnvelopeEmpty, list.Kind, body)
		assert.NotNil(t, list.Items, body)
		assert.Empty(t, list.Items, body)
	}
}

func TestEnvelopeRejectsScalars(t *testing.T) {
	for _, body := range []string{`"hello"`, `42`, `true`, `{not json`} {
		_, err := Envelope("topics", []byte(body))
		var shapeErr *apperrors.ShapeError
		assert.True(t, errors.As(err, &shapeErr), body)
	}
}

func TestTopicDefaults(t *testing.T) {
	topics, err := testNormalizer().Topics([]byte(`[{"id":"t1"}]`), api.StatusApproved)
	require.NoError(t, err)
	require.Len(t, topics, 1)

	got := topics[0]
	assert.Equal(t, "anonymous", got.AuthorUsername)
	assert.Equal(t, api.StatusApproved, got.Status)
	assert.Equal(t, "2024-03-01T09:30:00Z", got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.Equal(t, ColorFor(""), got.CategoryColor)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
	assert.Zero(t, got.ViewCount)
	assert.False(t, got.IsFeatured)
}

func TestTopicAliases(t *testing.T) {
	body := `{"data":[{
		"id": 17,
		"username": "ada",
		"user_id": 3,
		"views_count": 12,
		"replies_count": "4",
		"featured": true,
		"status": "rejected",
		"category_name": "General",
		"tags": "{go}"
	}]}`
	topics, err := testNormalizer().Topics([]byte(body), api.StatusApproved)
	require.NoError(t, err)
	require.Len(t, topics, 1)

	got := topics[0]
	assert.Equal(t, "17", got.ID)
	assert.Equal(t, "ada", got.AuthorUsername)
	assert.Equal(t, "3", got.AuthorID)
	assert.Equal(t, 12, got.ViewCount)
	assert.Equal(t, 4, got.ReplyCount)
	assert.True(t, got.IsFeatured)
	assert.Equal(t, api.StatusRejected, got.Status)
	assert.Equal(t, ColorFor("General"), got.CategoryColor)
	assert.Equal(t, []string{"go"}, got.Tags)
}

func TestUnknownStatusUsesDefault(t *testing.T) {
	topic, ok, err := testNormalizer().Topic([]byte(`{"id":"9","status":"archived"}`), api.StatusPending)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, api.StatusPending, topic.Status)
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want []string
	}{
		{"brace string", "{fastn,api, testing}", []string{"fastn", "api", "testing"}},
		{"empty array", []interface{}{}, []string{}},
		{"drops blanks and trims", []interface{}{"a", "", " b "}, []string{"a", "b"}},
		{"quoted literal", `{"needs review",x}`, []string{"needs review", "x"}},
		{"empty braces", "{}", []string{}},
		{"nil", nil, []string{}},
		{"number", 3.0, []string{}},
		{"string slice", []string{" x", "y "}, []string{"x", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.in))
		})
	}
}

func TestColorForIsDeterministic(t *testing.T) {
	assert.Equal(t, ColorFor("General"), ColorFor("General"))
	assert.Contains(t, Palette, ColorFor("Announcements"))

	// "ab" sums to 195, 195 % 8 == 3
	assert.Equal(t, Palette[3], ColorFor("ab"))
	assert.Equal(t, Palette[0], ColorFor(""))
}

func TestSingleShapes(t *testing.T) {
	n := testNormalizer()
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"data object", `{"data":{"id":"r1","content":"hi"}}`, true},
		{"data array", `{"data":[{"id":"r1","content":"hi"}]}`, true},
		{"result object", `{"result":{"id":"r1","content":"hi"}}`, true},
		{"result array", `{"result":[{"id":"r1","content":"hi"}]}`, true},
		{"bare object", `{"id":"r1","content":"hi"}`, true},
		{"bare array", `[{"id":"r1","content":"hi"}]`, true},
		{"empty data array", `{"data":[]}`, false},
		{"empty object", `{}`, false},
		{"null", `null`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, ok, err := n.Reply([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, "r1", reply.ID)
				assert.Equal(t, "hi", reply.Content)
				assert.Equal(t, "anonymous", reply.AuthorUsername)
			}
		})
	}
}

func TestCategoriesAndTagsDeriveColor(t *testing.T) {
	n := testNormalizer()

	cats, err := n.Categories([]byte(`{"result":[{"id":1,"name":"Help"},{"id":2,"name":"News","color":"#000000"}]}`))
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, ColorFor("Help"), cats[0].Color)
	assert.Equal(t, "#000000", cats[1].Color)

	tags, err := n.Tags([]byte(`[{"id":5,"name":"go","topics_count":3}]`))
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "5", tags[0].ID)
	assert.Equal(t, ColorFor("go"), tags[0].Color)
	assert.Equal(t, 3, tags[0].TopicsCount)
}

func TestUsers(t *testing.T) {
	n := testNormalizer()
	users, err := n.Users([]byte(`{"data":[{"id":1,"reputation":50,"likes_received":7,"is_active":true}]}`))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "anonymous", users[0].Username)
	assert.Equal(t, 50, users[0].ReputationScore)
	assert.Equal(t, 7, users[0].LikesReceived)
	assert.True(t, users[0].IsActive)

	user, ok, err := n.User([]byte(`{"data":{"id":"u9","username":"grace"}}`))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "grace", user.Username)
}

func TestNegativeCountsClampToZero(t *testing.T) {
	topics, err := testNormalizer().Topics([]byte(`[{"id":1,"like_count":-3}]`), api.StatusApproved)
	require.NoError(t, err)
	assert.Zero(t, topics[0].LikeCount)
}
