// Package mockendpoint is an in-memory content endpoint speaking the same
// wire contract as the real one. Nothing it stores outlives the process
package mockendpoint

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"go.senan.xyz/musicarchive/content"
)

// Reply scripts how the endpoint answers the next create requests
type Reply int

const (
	ReplyAccept    Reply = iota // {"id": n, "success": true}
	ReplyReject                 // {"success": false}
	ReplyError                  // 500 with an html body
	ReplyMalformed              // 200 with a body that isn't json
)

type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

type Endpoint struct {
	mu       sync.Mutex
	reply    Reply
	hold     chan struct{}
	arrived  chan struct{}
	requests []Request

	nextID map[content.Kind]int
	albums []*content.CatalogAlbum
	tracks []*trackRow
	videos []*content.CatalogVideo
	lyrics []*content.CatalogLyric
}

type trackRow struct {
	albumID string
	track   *content.CatalogTrack
}

func New() *Endpoint {
	return &Endpoint{
		nextID:  map[content.Kind]int{},
		arrived: make(chan struct{}, 64),
	}
}

// SetReply changes how following create requests are answered
func (e *Endpoint) SetReply(r Reply) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reply = r
}

// Hold makes create requests block until the returned func is called.
// Arrived signals once per held request that reached the endpoint
func (e *Endpoint) Hold() (release func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	hold := make(chan struct{})
	e.hold = hold
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			e.hold = nil
			e.mu.Unlock()
			close(hold)
		})
	}
}

func (e *Endpoint) Arrived() <-chan struct{} { return e.arrived }

// Requests returns a copy of every request seen so far
func (e *Endpoint) Requests() []Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	ret := make([]Request, len(e.requests))
	copy(ret, e.requests)
	return ret
}

func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Key")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.WriteHeader(http.StatusOK)
		return
	}

	path := r.URL.Query().Get("path")
	req := Request{Method: r.Method, Path: path}
	if r.Method == http.MethodPost {
		bodyBytes, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(bodyBytes, &req.Body)
	}

	e.mu.Lock()
	e.requests = append(e.requests, req)
	hold := e.hold
	reply := e.reply
	e.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		e.serveList(w, path)
		return
	case http.MethodPost:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid path or method"})
		return
	}

	kind, err := content.ParseKind(path)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid path or method"})
		return
	}

	if hold != nil {
		select {
		case e.arrived <- struct{}{}:
		default:
		}
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	switch reply {
	case ReplyReject:
		writeJSON(w, http.StatusOK, map[string]bool{"success": false})
	case ReplyError:
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>internal error</html>")
	case ReplyMalformed:
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "not json")
	default:
		id := e.insert(kind, req.Body)
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "success": true})
	}
}

func (e *Endpoint) insert(kind content.Kind, body map[string]any) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID[kind]++
	id := e.nextID[kind]
	str := func(k string) string {
		switch v := body[k].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return ""
		}
	}
	switch kind {
	case content.KindAlbum:
		e.albums = append(e.albums, &content.CatalogAlbum{
			ID: id, Title: str("title"), Year: str("year"), CoverURL: str("cover_url"),
		})
	case content.KindTrack:
		e.tracks = append(e.tracks, &trackRow{
			albumID: str("album_id"),
			track:   &content.CatalogTrack{ID: id, Title: str("title"), AudioURL: str("audio_url"), Duration: str("duration")},
		})
	case content.KindVideo:
		e.videos = append(e.videos, &content.CatalogVideo{
			ID: id, Title: str("title"), VideoURL: str("video_url"), ThumbnailURL: str("thumbnail_url"), Duration: str("duration"),
		})
	case content.KindLyric:
		e.lyrics = append(e.lyrics, &content.CatalogLyric{ID: id, Title: str("title"), Text: str("text")})
	}
	return id
}

// lists are newest first. albums carry their tracks ordered by id
func (e *Endpoint) serveList(w http.ResponseWriter, path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch path {
	case "albums":
		ret := make([]content.CatalogAlbum, 0, len(e.albums))
		for i := len(e.albums) - 1; i >= 0; i-- {
			album := *e.albums[i]
			album.Tracks = nil
			for _, row := range e.tracks {
				if row.albumID == strconv.Itoa(album.ID) {
					album.Tracks = append(album.Tracks, row.track)
				}
			}
			sort.Slice(album.Tracks, func(i, j int) bool { return album.Tracks[i].ID < album.Tracks[j].ID })
			ret = append(ret, album)
		}
		writeJSON(w, http.StatusOK, ret)
	case "videos":
		writeJSON(w, http.StatusOK, reversed(e.videos))
	case "lyrics":
		writeJSON(w, http.StatusOK, reversed(e.lyrics))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid path or method"})
	}
}

func reversed[T any](in []T) []T {
	ret := make([]T, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		ret = append(ret, in[i])
	}
	return ret
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
