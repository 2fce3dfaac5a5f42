package objectstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutServeDelete(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/media/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "content/a/1_pic.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/media/content/a/1_pic.png", url)
	assert.Equal(t, "content/a/1_pic.png", store.KeyFor(url))

	srv := httptest.NewServer(http.StripPrefix("/media", store.Handler()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + url)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "png-bytes", string(body))

	require.NoError(t, store.Delete(context.Background(), "content/a/1_pic.png"))
	require.NoError(t, store.Delete(context.Background(), "content/a/1_pic.png"))

	resp, err = http.Get(srv.URL + url)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/media")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../outside", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrInvalidKey)
	assert.Equal(t, "", store.KeyFor("https://elsewhere/x.png"))
}
