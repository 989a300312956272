package weaviate

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func graphQLBody(t *testing.T, r *http.Request) string {
	t.Helper()
	var req graphQLRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req.Query
}

func articlesResponse(hits ...map[string]any) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"Get": map[string]any{
				"Articles": hits,
			},
		},
	}
}

func TestClient_ByKeyword_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/graphql", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		query := graphQLBody(t, r)
		assert.Contains(t, query, `bm25: {query: "solar eclipse"}`)
		assert.Contains(t, query, `where: {path: ["lang"], operator: Equal, valueString: "en"}`)
		assert.Contains(t, query, "limit: 3")
		assert.Contains(t, query, "_additional { distance score }")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(articlesResponse(
			map[string]any{
				"text":        "A solar eclipse occurs when the Moon passes between Earth and the Sun.",
				"title":       "Solar eclipse",
				"url":         "https://en.wikipedia.org/wiki?curid=27633",
				"views":       2000.0,
				"lang":        "en",
				"_additional": map[string]any{"score": "3.155"},
			},
		))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 10*time.Second, testLogger())

	docs, err := client.ByKeyword(context.Background(), "solar eclipse", "en", 3)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Solar eclipse", docs[0].Title)
	assert.Equal(t, "en", docs[0].Lang)
	require.NotNil(t, docs[0].Additional.Score)
	assert.InDelta(t, 3.155, *docs[0].Additional.Score, 1e-9)
	assert.Nil(t, docs[0].Additional.Distance)
}

func TestClient_NearText_DistanceMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := graphQLBody(t, r)
		assert.Contains(t, query, `nearText: {concepts: ["ancient rome"]}`)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(articlesResponse(
			map[string]any{
				"text":        "Rome was founded in 753 BC.",
				"title":       "Ancient Rome",
				"url":         "https://en.wikipedia.org/wiki?curid=521555",
				"views":       900.0,
				"lang":        "en",
				"_additional": map[string]any{"distance": 0.134},
			},
			map[string]any{
				"text":        "The Roman Republic followed the monarchy.",
				"title":       "Roman Republic",
				"url":         "https://en.wikipedia.org/wiki?curid=25816",
				"views":       410.0,
				"lang":        "en",
				"_additional": map[string]any{"distance": 0.201},
			},
		))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 10*time.Second, testLogger())

	docs, err := client.NearText(context.Background(), "ancient rome", "en", 5)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	// Backend order is authoritative, no local reordering.
	assert.Equal(t, "Ancient Rome", docs[0].Title)
	require.NotNil(t, docs[0].Additional.Distance)
	assert.InDelta(t, 0.134, *docs[0].Additional.Distance, 1e-9)
}

func TestClient_Hybrid_Operator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := graphQLBody(t, r)
		assert.Contains(t, query, `hybrid: {query: "jazz"}`)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(articlesResponse())
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 10*time.Second, testLogger())

	docs, err := client.Hybrid(context.Background(), "jazz", "fr", 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestClient_ZeroTopN_SkipsNetworkCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 10*time.Second, testLogger())

	docs, err := client.ByKeyword(context.Background(), "anything", "en", 0)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.False(t, called)
}

func TestClient_MalformedScore_DroppedWithWarning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(articlesResponse(
			map[string]any{
				"text":        "Jazz originated in New Orleans.",
				"title":       "Jazz",
				"url":         "https://en.wikipedia.org/wiki?curid=15613",
				"views":       700.0,
				"lang":        "en",
				"_additional": map[string]any{"score": "not-a-number"},
			},
		))
	}))
	defer server.Close()

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logBuf, nil))
	client := NewClient(server.URL, "test-key", 10*time.Second, logger)

	docs, err := client.ByKeyword(context.Background(), "jazz", "en", 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Nil(t, docs[0].Additional.Score)
	assert.Contains(t, logBuf.String(), "score_parse_failed")
	assert.Contains(t, logBuf.String(), "not-a-number")
}

func TestClient_QueryEscaping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := graphQLBody(t, r)
		assert.Contains(t, query, `bm25: {query: "he said \"hi\"\n"}`)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(articlesResponse())
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 10*time.Second, testLogger())

	_, err := client.ByKeyword(context.Background(), "he said \"hi\"\n", "en", 1)
	require.NoError(t, err)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid api key"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", 10*time.Second, testLogger())

	docs, err := client.NearText(context.Background(), "query", "en", 5)
	assert.Error(t, err)
	assert.Nil(t, docs)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_GraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"Cannot query field \"bogus\" on type \"Articles\""}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 10*time.Second, testLogger())

	_, err := client.Hybrid(context.Background(), "query", "en", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search query rejected")
}

func TestClient_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 10*time.Second, testLogger())

	_, err := client.ByKeyword(context.Background(), "query", "en", 5)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "decode"))
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 10*time.Millisecond, testLogger())

	_, err := client.ByKeyword(context.Background(), "query", "en", 5)
	assert.Error(t, err)
}
