package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortd/sortd/internal/common"
)

// fakeModelServer answers chat completions with a fixed reply and records the
// requests it saw.
type fakeModelServer struct {
	reply    string
	status   int
	requests []map[string]any
}

func (f *fakeModelServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			// Available() probes the models listing.
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"llama3.2"}]}`))
			return
		}

		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.requests = append(f.requests, req)

		if f.status != 0 {
			w.WriteHeader(f.status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": f.reply}},
			},
		})
	}
}

func newTestClassifier(t *testing.T, server *fakeModelServer) *Classifier {
	t.Helper()

	ts := httptest.NewServer(server.handler())
	t.Cleanup(ts.Close)

	return NewClassifier(Config{
		BaseURL: ts.URL + "/v1",
		Model:   "llama3.2",
		Timeout: 5 * time.Second,
	})
}

func TestClassifyByFilename(t *testing.T) {
	server := &fakeModelServer{reply: "Documents"}
	classifier := newTestClassifier(t, server)

	category, err := classifier.ClassifyByFilename(context.Background(), "untitled_scan_001.txt")
	require.NoError(t, err)
	assert.Equal(t, "Documents", category)

	require.Len(t, server.requests, 1)
	messages := server.requests[0]["messages"].([]any)
	content := messages[0].(map[string]any)["content"].(string)
	assert.Contains(t, content, "untitled_scan_001.txt")
}

func TestClassifyByFilenameNormalizesNoisyReply(t *testing.T) {
	// Local models rarely answer with the bare category name.
	server := &fakeModelServer{reply: "The category is: Documents."}
	classifier := newTestClassifier(t, server)

	category, err := classifier.ClassifyByFilename(context.Background(), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "Documents", category)
}

func TestClassifyByFilenameRejectsUnknownCategory(t *testing.T) {
	server := &fakeModelServer{reply: "Miscellaneous stuff"}
	classifier := newTestClassifier(t, server)

	_, err := classifier.ClassifyByFilename(context.Background(), "notes.txt")
	assert.ErrorIs(t, err, common.ErrInvalidAIResponse)
}

func TestClassifyByContentTruncatesExcerpt(t *testing.T) {
	server := &fakeModelServer{reply: "Documents"}
	classifier := newTestClassifier(t, server)

	long := strings.Repeat("a", 2000)
	category, err := classifier.ClassifyByContent(context.Background(), "dump.txt", long)
	require.NoError(t, err)
	assert.Equal(t, "Documents", category)

	require.Len(t, server.requests, 1)
	messages := server.requests[0]["messages"].([]any)
	content := messages[0].(map[string]any)["content"].(string)
	assert.NotContains(t, content, strings.Repeat("a", 501))
}

func TestClassifyByVisionSendsImagePart(t *testing.T) {
	server := &fakeModelServer{reply: "Images"}
	classifier := newTestClassifier(t, server)

	category, err := classifier.ClassifyByVision(context.Background(), []byte{0xff, 0xd8, 0xff})
	require.NoError(t, err)
	assert.Equal(t, "Images", category)

	require.Len(t, server.requests, 1)
	messages := server.requests[0]["messages"].([]any)
	parts := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)

	imagePart := parts[1].(map[string]any)
	assert.Equal(t, "image_url", imagePart["type"])
	url := imagePart["image_url"].(map[string]any)["url"].(string)
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
}

func TestClassifyServerErrorWrapsUnavailable(t *testing.T) {
	server := &fakeModelServer{status: http.StatusInternalServerError}
	classifier := newTestClassifier(t, server)

	_, err := classifier.ClassifyByFilename(context.Background(), "notes.txt")
	assert.ErrorIs(t, err, common.ErrAIUnavailable)
}

func TestAvailable(t *testing.T) {
	server := &fakeModelServer{reply: "Documents"}
	classifier := newTestClassifier(t, server)

	assert.True(t, classifier.Available(context.Background()))
}

func TestAvailableUnreachableServer(t *testing.T) {
	classifier := NewClassifier(Config{
		BaseURL: "http://127.0.0.1:1/v1",
		Timeout: time.Second,
	})

	assert.False(t, classifier.Available(context.Background()))
}
