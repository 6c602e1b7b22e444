package helpers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeES(t *testing.T, handler http.HandlerFunc) *ESIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the client refuses to talk to servers without this header
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := NewESClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	return NewESIndex(es, "posts", "title^2", "content")
}

func TestESIndexSearch(t *testing.T) {
	var body map[string]any
	idx := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/_search", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &body)
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"p2"},{"_id":"p1"}]}}`))
	})

	ids, err := idx.Search(context.Background(), "golang", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, ids)
	assert.EqualValues(t, 10, body["size"])
}

func TestESIndexPutAndRemove(t *testing.T) {
	var calls []string
	idx := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	require.NoError(t, idx.Put(context.Background(), "p1", map[string]string{"title": "hi"}))
	require.NoError(t, idx.Remove(context.Background(), "p1"))
	assert.Equal(t, []string{"PUT /posts/_doc/p1", "DELETE /posts/_doc/p1"}, calls)
}

func TestESIndexSearchError(t *testing.T) {
	idx := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	})
	_, err := idx.Search(context.Background(), "x", 5)
	assert.Error(t, err)
}
