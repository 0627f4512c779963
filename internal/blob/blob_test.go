package blob_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Debanjan110d/DevQnA/internal/blob"
	"github.com/Debanjan110d/DevQnA/internal/config"
)

const bucketName = "devqna-test"

type storedObject struct {
	data        []byte
	contentType string
}

// fakeS3 answers the handful of path-style S3 calls the client makes.
type fakeS3 struct {
	mu            sync.Mutex
	bucketCreated bool
	objects       map[string]storedObject
	deleted       []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/"+bucketName)
	key := strings.TrimPrefix(path, "/")

	switch {
	case key == "" && r.Method == http.MethodHead:
		if !f.bucketCreated {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case key == "" && r.Method == http.MethodPut:
		f.bucketCreated = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		_, _ = io.Copy(io.Discard, r.Body)
		f.objects[key] = storedObject{contentType: r.Header.Get("Content-Type")}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		obj, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", obj.contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(obj.data)))
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(obj.data)
	case r.Method == http.MethodDelete:
		f.deleted = append(f.deleted, key)
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newClient(t *testing.T) (*blob.Client, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string]storedObject{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := blob.New(config.Storage{
		Endpoint:  srv.URL,
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    bucketName,
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	return client, fake
}

func TestKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "question-attachment/abc", blob.Key("question-attachment", "abc"))
}

func TestPutUsesBucketPrefix(t *testing.T) {
	t.Parallel()
	client, fake := newClient(t)

	key := blob.Key("question-attachment", "f1")
	require.NoError(t, client.Put(context.Background(), key, []byte("png bytes"), "image/png"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Contains(t, fake.objects, "question-attachment/f1")
	assert.Equal(t, "image/png", fake.objects["question-attachment/f1"].contentType)
}

func TestGet(t *testing.T) {
	t.Parallel()
	client, fake := newClient(t)

	fake.mu.Lock()
	fake.objects["question-attachment/f2"] = storedObject{data: []byte("gif bytes"), contentType: "image/gif"}
	fake.mu.Unlock()

	data, err := client.Get(context.Background(), "question-attachment/f2")
	require.NoError(t, err)
	assert.Equal(t, []byte("gif bytes"), data)

	_, err = client.Get(context.Background(), "question-attachment/missing")
	require.ErrorIs(t, err, blob.ErrNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	client, fake := newClient(t)

	require.NoError(t, client.Delete(context.Background(), "question-attachment/f3"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []string{"question-attachment/f3"}, fake.deleted)
}

func TestEnsureBucket(t *testing.T) {
	t.Parallel()
	client, fake := newClient(t)
	ctx := context.Background()

	require.NoError(t, client.EnsureBucket(ctx))
	require.NoError(t, client.EnsureBucket(ctx))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.True(t, fake.bucketCreated)
	assert.Equal(t, bucketName, client.BucketName())
}
