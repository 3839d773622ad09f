package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	"github.com/fastn-ai/fastn-community-sub000/pkg/cache"
	"github.com/fastn-ai/fastn-community-sub000/pkg/credentials"
	apperrors "github.com/fastn-ai/fastn-community-sub000/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoTopics = `{"data":[
	{"id":10,"title":"Live one","author_username":"ada","tags":"{go,api}"},
	{"id":11,"title":"Live two","status":"pending","tags":["x"]}
]}`

func TestListTopicsFromNetwork(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(api.ActionGetAllTopics, http.StatusOK, twoTopics)
	svc := newTestServices(t, b)

	got := svc.Topics.List(context.Background(), TopicFilter{})
	assert.Equal(t, SourceNetwork, got.Source)
	assert.False(t, got.Degraded())
	require.Len(t, got.Items, 2)
	assert.Equal(t, "10", got.Items[0].ID)
	assert.Equal(t, api.StatusApproved, got.Items[0].Status)
	assert.Equal(t, []string{"go", "api"}, got.Items[0].Tags)
	assert.Equal(t, api.StatusPending, got.Items[1].Status)

	calls := b.callsFor(api.ActionGetAllTopics)
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer session-token", calls[0].header.Get("Authorization"))
	assert.Empty(t, calls[0].header.Get("X-Fastn-Api-Key"))
}

func TestListTopicsFallsBackWhenTransportFails(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(api.ActionGetAllTopics, http.StatusInternalServerError, `{"message":"down"}`)
	svc := newTestServices(t, b)

	got := svc.Topics.List(context.Background(), TopicFilter{})
	assert.Equal(t, SourceFallback, got.Source)
	require.Len(t, got.Items, 2)
	for _, topic := range got.Items {
		assert.NotEmpty(t, topic.ID)
		assert.NotEmpty(t, topic.Title)
		assert.NotEmpty(t, topic.Description)
		assert.NotEmpty(t, topic.AuthorUsername)
		assert.NotEmpty(t, topic.CategoryColor)
		assert.True(t, topic.Status.Valid())
		assert.NotNil(t, topic.Tags)
		assert.NotEmpty(t, topic.CreatedAt)
		assert.NotEmpty(t, topic.UpdatedAt)
		assert.True(t, topic.IsSample)
	}
}

func TestListTopicsFallsBackOnBadShape(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(api.ActionGetAllTopics, http.StatusOK, `"not a list"`)
	svc := newTestServices(t, b)

	got := svc.Topics.List(context.Background(), TopicFilter{})
	assert.Equal(t, SourceFallback, got.Source)
	assert.Len(t, got.Items, 2)
}

func TestListTopicsWithoutCredentialSkipsNetwork(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(api.ActionGetAllTopics, http.StatusOK, twoTopics)
	svc := newTestServices(t, b, withoutSession())

	got := svc.Topics.List(context.Background(), TopicFilter{})
	assert.Equal(t, SourceFallback, got.Source)
	assert.Len(t, got.Items, 2)
	assert.Zero(t, b.total())
}

func TestListTopicsDeduplicatesConcurrentCalls(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(api.ActionGetAllTopics, http.StatusOK, twoTopics)
	b.setDelay(50 * time.Millisecond)
	svc := newTestServices(t, b)

	var wg sync.WaitGroup
	results := make([]Listing[api.Topic], 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Topics.List(context.Background(), TopicFilter{})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, b.count(api.ActionGetAllTopics))
	for _, r := range results {
		assert.Equal(t, SourceNetwork, r.Source)
		assert.Len(t, r.Items, 2)
	}

	// settled entry is reused until the TTL runs out
	svc.Topics.List(context.Background(), TopicFilter{})
	assert.Equal(t, 1, b.count(api.ActionGetAllTopics))

	// force refresh goes to the network with cache-busting headers
	svc.Topics.List(context.Background(), TopicFilter{ForceRefresh: true})
	calls := b.callsFor(api.ActionGetAllTopics)
	require.Len(t, calls, 2)
	assert.Equal(t, "no-cache", calls[1].header.Get("Pragma"))
}

func TestListTopicsByStatus(t *testing.T) {
	b := newFakeBackend(t)
	b.on(api.ActionGetTopicByStatus, func(data map[string]interface{}) (int, string) {
		assert.Equal(t, "pending", data["status"])
		return http.StatusOK, `{"result":[{"id":"p1","title":"Waiting"}]}`
	})
	svc := newTestServices(t, b)

	got := svc.Topics.List(context.Background(), TopicFilter{Status: api.StatusPending})
	require.Len(t, got.Items, 1)
	assert.Equal(t, api.StatusPending, got.Items[0].Status)

	// different scope, separate request
	b.reply(api.ActionGetTopicByStatus, http.StatusOK, `[]`)
	got = svc.Topics.List(context.Background(), TopicFilter{Status: api.StatusRejected})
	assert.Empty(t, got.Items)
	assert.Equal(t, 2, b.count(api.ActionGetTopicByStatus))
}

func TestListTopicsServesSnapshotBeforeSamples(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(api.ActionGetAllTopics, http.StatusOK, twoTopics)
	snaps := cache.NewMemorySnapshots()
	svc := newTestServices(t, b, withDeps(func(d *Deps) { d.Snapshots = snaps }))

	first := svc.Topics.List(context.Background(), TopicFilter{})
	require.Equal(t, SourceNetwork, first.Source)

	b.reply(api.ActionGetAllTopics, http.StatusBadGateway, `bad gateway`)
	got := svc.Topics.List(context.Background(), TopicFilter{ForceRefresh: true})
	assert.Equal(t, SourceSnapshot, got.Source)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Live one", got.Items[0].Title)
}

func TestListByUserUsesAPIKey(t *testing.T) {
	b := newFakeBackend(t)
	b.on(api.ActionGetTopicByUser, func(data map[string]interface{}) (int, string) {
		assert.Equal(t, "u-1", data["user_id"])
		return http.StatusOK, `[{"id":1,"author_id":"u-1"}]`
	})
	svc := newTestServices(t, b, withAPIKey("secret-key"))

	got := svc.Topics.Mine(context.Background(), false)
	require.Len(t, got.Items, 1)

	calls := b.callsFor(api.ActionGetTopicByUser)
	require.Len(t, calls, 1)
	assert.Equal(t, "secret-key", calls[0].header.Get("X-Fastn-Api-Key"))
	assert.Equal(t, "Bearer session-token", calls[0].header.Get("Authorization"))
}

func TestGetTopic(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(api.ActionGetTopicByID, http.StatusOK, `{"data":[{"id":"7","title":"Seven"}]}`)
	svc := newTestServices(t, b)

	topic, src, err := svc.Topics.Get(context.Background(), "7", false)
	require.NoError(t, err)
	assert.Equal(t, SourceNetwork, src)
	assert.Equal(t, "Seven", topic.Title)

	b.reply(api.ActionGetTopicByID, http.StatusOK, `{"data":[]}`)
	_, _, err = svc.Topics.Get(context.Background(), "8", false)
	var nf *apperrors.NotFoundErr
	assert.True(t, errors.As(err, &nf))
}

func TestGetTopicFallsBackToSample(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(api.ActionGetTopicByID, http.StatusServiceUnavailable, ``)
	svc := newTestServices(t, b)

	topic, src, err := svc.Topics.Get(context.Background(), "1", false)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, src)
	assert.True(t, topic.IsSample)

	_, _, err = svc.Topics.Get(context.Background(), "does-not-exist", false)
	var nf *apperrors.NotFoundErr
	assert.True(t, errors.As(err, &nf))
}

func TestDeleteTopicPropagatesTransportError(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(api.ActionDeleteTopic, http.StatusInternalServerError, `{"error":{"message":"constraint violated"}}`)
	svc := newTestServices(t, b)

	_, err := svc.Topics.Delete(context.Background(), "10")
	require.Error(t, err)

	var te *apperrors.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Equal(t, "constraint violated", te.Message)
	assert.Equal(t, 1, b.count(api.ActionDeleteTopic), "writes are not retried")
}

func TestWritesRequireCredential(t *testing.T) {
	b := newFakeBackend(t)
	svc := newTestServices(t, b, withoutSession())

	_, err := svc.Topics.Delete(context.Background(), "10")
	var nc *apperrors.NoCredentialError
	require.True(t, errors.As(err, &nc))
	assert.Equal(t, api.ActionDeleteTopic, nc.Action)

	_, _, err = svc.Topics.UpdateStatus(context.Background(), "10", api.StatusApproved)
	assert.True(t, errors.As(err, &nc))
	assert.Zero(t, b.total())
}

func TestTopicWritesInvalidateReads(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(api.ActionGetAllTopics, http.StatusOK, twoTopics)
	b.reply(api.ActionGetAllTags, http.StatusOK, `[]`)
	b.reply(api.ActionUpdateTopicStatus, http.StatusOK, `{"data":{"id":"10","title":"Live one","status":"approved"}}`)
	b.reply(api.ActionDeleteTopic, http.StatusOK, `{}`)
	svc := newTestServices(t, b)
	ctx := context.Background()

	svc.Topics.List(ctx, TopicFilter{})
	svc.Tags.List(ctx, false)

	topic, patch, err := svc.Topics.UpdateStatus(ctx, "10", api.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, api.StatusRejected, topic.Status)
	assert.Equal(t, api.PatchReplace, patch.Op)

	svc.Topics.List(ctx, TopicFilter{})
	assert.Equal(t, 2, b.count(api.ActionGetAllTopics))

	_, err = svc.Topics.Delete(ctx, "10")
	require.NoError(t, err)
	list := svc.Topics.List(ctx, TopicFilter{})
	assert.Equal(t, 3, b.count(api.ActionGetAllTopics))

	// unrelated caches survive
	svc.Tags.List(ctx, false)
	assert.Equal(t, 1, b.count(api.ActionGetAllTags))

	patched := api.LocalPatch[api.Topic]{Op: api.PatchRemove, Record: api.Topic{ID: "10"}}.Apply(list.Items)
	assert.Len(t, patched, 1)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	b := newFakeBackend(t)
	svc := newTestServices(t, b)

	_, _, err := svc.Topics.UpdateStatus(context.Background(), "10", api.TopicStatus("archived"))
	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has("status"))
	assert.Zero(t, b.total())
}

func TestCustomAuthCookiesOnTheWire(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(api.ActionGetAllTopics, http.StatusOK, `[]`)
	svc := newTestServices(t, b, withoutSession(), withDeps(func(d *Deps) {
		d.Cookies = credentials.Static{Jar: credentials.Cookies{CustomAuth: true, CustomAuthToken: "raw-jwt", TenantID: "tenant-1"}}
	}))

	got := svc.Topics.List(context.Background(), TopicFilter{})
	assert.Equal(t, SourceNetwork, got.Source)

	calls := b.callsFor(api.ActionGetAllTopics)
	require.Len(t, calls, 1)
	assert.Equal(t, "raw-jwt", calls[0].header.Get("Authorization"))
	assert.Equal(t, "true", calls[0].header.Get("X-Fastn-Custom-Auth"))
	assert.Equal(t, "tenant-1", calls[0].header.Get("X-Fastn-Space-Tenantid"))
	assert.Equal(t, "DRAFT", calls[0].header.Get("Stage"))
	assert.True(t, strings.HasPrefix(calls[0].header.Get("User-Agent"), "forumctl/"))
}
