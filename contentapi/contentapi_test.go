package contentapi_test

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"go.senan.xyz/musicarchive/content"
	"go.senan.xyz/musicarchive/contentapi"
	"go.senan.xyz/musicarchive/contentapi/mockendpoint"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestCreateSendsExactFields(t *testing.T) {
	t.Parallel()

	tcases := []struct {
		rec  content.Record
		body string
	}{
		{
			&content.Album{Title: "Test", Year: "2024"},
			`{"title": "Test", "year": "2024", "cover_url": ""}`,
		},
		{
			&content.Track{AlbumID: "999", Title: "Nostalgia", AudioURL: "https://example.com/a.mp3"},
			`{"album_id": "999", "title": "Nostalgia", "audio_url": "https://example.com/a.mp3", "duration": ""}`,
		},
		{
			&content.Video{Title: "Live", VideoURL: "https://example.com/v.mp4", Duration: "5:30"},
			`{"title": "Live", "video_url": "https://example.com/v.mp4", "thumbnail_url": "", "duration": "5:30"}`,
		},
		{
			&content.Lyric{Title: "Summer", Text: "line one\nline two"},
			`{"title": "Summer", "text": "line one\nline two"}`,
		},
	}
	for _, tc := range tcases {
		tc := tc
		t.Run(tc.rec.Kind().String(), func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, tc.rec.Kind().Path(), r.URL.Query().Get("path"))
				require.Equal(t, "application/json", r.Header.Get("Content-Type"))
				require.Empty(t, r.Header.Get("Authorization"))
				bodyBytes, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				require.JSONEq(t, tc.body, string(bodyBytes))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id": 42, "success": true}`))
			})

			res, err := client.Create(context.Background(), tc.rec)
			require.NoError(t, err)
			require.True(t, res.OK())
			require.Equal(t, content.ID("42"), res.ID)
			require.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestCreateKeepsBaseQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fn/e26c", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("v"))
		require.Equal(t, "lyric", r.URL.Query().Get("path"))
		_, _ = w.Write([]byte(`{"success": true, "id": 3}`))
	}))
	t.Cleanup(server.Close)

	client := contentapi.NewClientCustom(server.Client(), server.URL+"/fn/e26c?v=1")
	res, err := client.Create(context.Background(), &content.Lyric{Title: "a", Text: "b"})
	require.NoError(t, err)
	require.Equal(t, content.ID("3"), res.ID)
}

func TestCreateRejectionIsNotAnError(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false}`))
	})

	res, err := client.Create(context.Background(), &content.Album{Title: "x"})
	require.NoError(t, err)
	require.False(t, res.OK())
}

func TestCreateFailures(t *testing.T) {
	t.Parallel()

	t.Run("server error", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := client.Create(context.Background(), &content.Album{Title: "x"})
		require.ErrorIs(t, err, contentapi.ErrStatus)
	})

	t.Run("bad request with json body", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "Invalid path or method"}`))
		})
		_, err := client.Create(context.Background(), &content.Album{Title: "x"})
		require.ErrorIs(t, err, contentapi.ErrStatus)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		})
		_, err := client.Create(context.Background(), &content.Album{Title: "x"})
		require.ErrorIs(t, err, contentapi.ErrDecode)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := contentapi.NewClientCustom(server.Client(), server.URL)
		_, err := client.Create(context.Background(), &content.Album{Title: "x"})
		require.ErrorIs(t, err, contentapi.ErrRequest)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": true}`))
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.Create(ctx, &content.Album{Title: "x"})
		require.ErrorIs(t, err, contentapi.ErrRequest)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestReadPath(t *testing.T) {
	t.Parallel()

	endpoint := mockendpoint.New()
	server := httptest.NewServer(endpoint)
	t.Cleanup(server.Close)
	client := contentapi.NewClientCustom(server.Client(), server.URL)
	ctx := context.Background()

	first, err := client.Create(ctx, &content.Album{Title: "First", Year: "2023"})
	require.NoError(t, err)
	_, err = client.Create(ctx, &content.Album{Title: "Second"})
	require.NoError(t, err)
	_, err = client.Create(ctx, &content.Track{AlbumID: first.ID.String(), Title: "B", Duration: "4:12"})
	require.NoError(t, err)
	_, err = client.Create(ctx, &content.Track{AlbumID: first.ID.String(), Title: "A", Duration: "3:45"})
	require.NoError(t, err)
	_, err = client.Create(ctx, &content.Video{Title: "Concert", ThumbnailURL: "https://example.com/t.jpg"})
	require.NoError(t, err)
	_, err = client.Create(ctx, &content.Lyric{Title: "Summer", Text: "la"})
	require.NoError(t, err)

	albums, err := client.Albums(ctx)
	require.NoError(t, err)
	require.Len(t, albums, 2)
	require.Equal(t, "Second", albums[0].Title)
	require.Empty(t, albums[0].Tracks)
	require.Equal(t, "First", albums[1].Title)
	require.Equal(t, "2023", albums[1].Year)
	require.Len(t, albums[1].Tracks, 2)
	require.Equal(t, "B", albums[1].Tracks[0].Title)
	require.Equal(t, "A", albums[1].Tracks[1].Title)

	videos, err := client.Videos(ctx)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	require.Equal(t, "https://example.com/t.jpg", videos[0].ThumbnailURL)

	lyrics, err := client.Lyrics(ctx)
	require.NoError(t, err)
	require.Len(t, lyrics, 1)
	require.Equal(t, "la", lyrics[0].Text)
}

func newClient(tb testing.TB, handler http.HandlerFunc) *contentapi.Client {
	tb.Helper()

	server := httptest.NewServer(handler)
	tb.Cleanup(server.Close)

	return contentapi.NewClientCustom(server.Client(), server.URL)
}
