package content_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"go.senan.xyz/musicarchive/content"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range content.Kinds {
		got, err := content.ParseKind(k.Path())
		require.NoError(t, err)
		require.Equal(t, k, got)
	}

	_, err := content.ParseKind("albums")
	require.ErrorIs(t, err, content.ErrUnknownKind)
	_, err = content.ParseKind("")
	require.ErrorIs(t, err, content.ErrUnknownKind)
}

func TestResultTruthiness(t *testing.T) {
	t.Parallel()

	tcases := []struct {
		body    string
		success bool
		id      string
	}{
		{`{"success": true, "id": 42}`, true, "42"},
		{`{"id": 7, "success": true}`, true, "7"},
		{`{"success": false}`, false, ""},
		{`{"success": null}`, false, ""},
		{`{}`, false, ""},
		{`{"error": "Invalid path or method"}`, false, ""},
		{`{"success": 1, "id": "abc"}`, true, "abc"},
		{`{"success": 0}`, false, ""},
		{`{"success": ""}`, false, ""},
		{`{"success": "no"}`, true, ""},
		{`{"success": {}}`, true, ""},
		{`{"success": true, "id": true}`, true, "true"},
		{`{"success": true, "id": [1, 2]}`, true, "[1, 2]"},
		{`{"success": true, "id": 1.5e3}`, true, "1.5e3"},
	}
	for _, tc := range tcases {
		var res content.Result
		require.NoError(t, json.Unmarshal([]byte(tc.body), &res), tc.body)
		require.Equal(t, tc.success, res.OK(), tc.body)
		require.Equal(t, tc.id, res.ID.String(), tc.body)
	}
}

func TestFieldsFollowWireOrder(t *testing.T) {
	t.Parallel()

	names := func(kind content.Kind) []string {
		var ret []string
		for _, f := range content.Fields(kind) {
			ret = append(ret, f.Name)
		}
		return ret
	}
	require.Equal(t, []string{"title", "year", "cover_url"}, names(content.KindAlbum))
	require.Equal(t, []string{"album_id", "title", "audio_url", "duration"}, names(content.KindTrack))
	require.Equal(t, []string{"title", "video_url", "thumbnail_url", "duration"}, names(content.KindVideo))
	require.Equal(t, []string{"title", "text"}, names(content.KindLyric))
}

func TestFieldsMarkRequired(t *testing.T) {
	t.Parallel()

	required := map[content.Kind][]string{}
	for _, kind := range content.Kinds {
		for _, f := range content.Fields(kind) {
			if f.Required {
				required[kind] = append(required[kind], f.Name)
			}
		}
	}
	require.Equal(t, map[content.Kind][]string{
		content.KindAlbum: {"title"},
		content.KindTrack: {"album_id", "title", "audio_url"},
		content.KindVideo: {"title", "video_url"},
		content.KindLyric: {"title", "text"},
	}, required)

	album := content.Fields(content.KindAlbum)
	require.Equal(t, 4, album[1].MaxLength)
	require.Equal(t, content.InputURL, album[2].Input)
	require.Equal(t, "album-cover_url", album[2].ID(content.KindAlbum))
	require.Equal(t, content.InputNumber, content.Fields(content.KindTrack)[0].Input)
	require.Equal(t, content.InputTextarea, content.Fields(content.KindLyric)[1].Input)
}

func TestValues(t *testing.T) {
	t.Parallel()

	rec := &content.Video{Title: "live", VideoURL: "https://example.com/v.mp4"}
	require.Equal(t, map[string]string{
		"title":         "live",
		"video_url":     "https://example.com/v.mp4",
		"thumbnail_url": "",
		"duration":      "",
	}, content.Values(rec))
}
