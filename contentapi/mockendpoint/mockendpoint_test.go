package mockendpoint_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go.senan.xyz/musicarchive/contentapi/mockendpoint"
)

func TestReplies(t *testing.T) {
	t.Parallel()

	endpoint := mockendpoint.New()
	server := httptest.NewServer(endpoint)
	t.Cleanup(server.Close)

	post := func(path, body string) (int, string) {
		resp, err := http.Post(server.URL+"?path="+path, "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(b)
	}

	code, body := post("album", `{"title": "a"}`)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"id": 1, "success": true}`, body)

	code, body = post("album", `{"title": "b"}`)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"id": 2, "success": true}`, body)

	code, body = post("albums", `{}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"error": "Invalid path or method"}`, body)

	endpoint.SetReply(mockendpoint.ReplyReject)
	code, body = post("video", `{}`)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"success": false}`, body)

	endpoint.SetReply(mockendpoint.ReplyError)
	code, _ = post("video", `{}`)
	require.Equal(t, http.StatusInternalServerError, code)

	reqs := endpoint.Requests()
	require.Len(t, reqs, 5)
	require.Equal(t, "album", reqs[0].Path)
	require.Equal(t, map[string]any{"title": "a"}, reqs[0].Body)
}

func TestPreflight(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(mockendpoint.New())
	t.Cleanup(server.Close)

	req, err := http.NewRequest(http.MethodOptions, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "86400", resp.Header.Get("Access-Control-Max-Age"))
}

func TestHold(t *testing.T) {
	t.Parallel()

	endpoint := mockendpoint.New()
	server := httptest.NewServer(endpoint)
	t.Cleanup(server.Close)

	release := endpoint.Hold()
	done := make(chan int)
	go func() {
		resp, err := http.Post(server.URL+"?path=lyric", "application/json", strings.NewReader(`{}`))
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()

	<-endpoint.Arrived()
	select {
	case <-done:
		t.Fatal("request finished while held")
	default:
	}
	release()
	require.Equal(t, http.StatusOK, <-done)
}
