// Package content describes the four record kinds the archive submits to
// the content endpoint, and the read models the endpoint lists back
package content

import (
	"errors"
	"fmt"
)

var ErrUnknownKind = errors.New("unknown kind")

type Kind string

const (
	KindAlbum Kind = "album"
	KindTrack Kind = "track"
	KindVideo Kind = "video"
	KindLyric Kind = "lyric"
)

// Kinds is every submittable kind, in admin tab order
//
//nolint:gochecknoglobals
var Kinds = []Kind{KindAlbum, KindTrack, KindVideo, KindLyric}

func ParseKind(in string) (Kind, error) {
	switch k := Kind(in); k {
	case KindAlbum, KindTrack, KindVideo, KindLyric:
		return k, nil
	default:
		return "", fmt.Errorf("%q: %w", in, ErrUnknownKind)
	}
}

// Path is the value of the endpoint's `path` query parameter for this kind
func (k Kind) Path() string { return string(k) }

// Tab is the admin page tab the kind's form lives on
func (k Kind) Tab() string { return string(k) + "s" }

func (k Kind) String() string { return string(k) }

// Record is a flat submission. Every field is text taken verbatim from the
// form, and none are omitted when empty, so the encoded body always carries
// exactly the kind's fields
type Record interface {
	Kind() Kind
}

type Album struct {
	Title    string `json:"title" label:"album title" placeholder:"My first record" required:"true"`
	Year     string `json:"year" label:"release year" placeholder:"2024" maxlength:"4"`
	CoverURL string `json:"cover_url" label:"cover (url)" placeholder:"https://example.com/cover.jpg" input:"url" hint:"upload the image to cloud storage and paste the link"`
}

type Track struct {
	AlbumID  string `json:"album_id" label:"album id" placeholder:"1" input:"number" required:"true" hint:"create the album first, then add its tracks"`
	Title    string `json:"title" label:"track title" placeholder:"Summer evening" required:"true"`
	AudioURL string `json:"audio_url" label:"audio file (url)" placeholder:"https://example.com/song.mp3" input:"url" required:"true" hint:"upload the audio to cloud storage (any size) and paste the link"`
	Duration string `json:"duration" label:"duration" placeholder:"3:45"`
}

type Video struct {
	Title        string `json:"title" label:"video title" placeholder:"Concert at the theatre" required:"true"`
	VideoURL     string `json:"video_url" label:"video file (url)" placeholder:"https://example.com/video.mp4" input:"url" required:"true" hint:"upload the video to cloud storage (any size) and paste the link"`
	ThumbnailURL string `json:"thumbnail_url" label:"thumbnail (url)" placeholder:"https://example.com/thumb.jpg" input:"url"`
	Duration     string `json:"duration" label:"duration" placeholder:"5:30"`
}

type Lyric struct {
	Title string `json:"title" label:"song title" placeholder:"Summer evening" required:"true"`
	Text  string `json:"text" label:"lyrics" placeholder:"Verse 1, line after line..." input:"textarea" required:"true"`
}

func (*Album) Kind() Kind { return KindAlbum }
func (*Track) Kind() Kind { return KindTrack }
func (*Video) Kind() Kind { return KindVideo }
func (*Lyric) Kind() Kind { return KindLyric }

// New returns an empty record of the given kind
func New(kind Kind) (Record, error) {
	switch kind {
	case KindAlbum:
		return &Album{}, nil
	case KindTrack:
		return &Track{}, nil
	case KindVideo:
		return &Video{}, nil
	case KindLyric:
		return &Lyric{}, nil
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
}

// MustNew is New for kinds already validated by ParseKind
func MustNew(kind Kind) Record {
	rec, err := New(kind)
	if err != nil {
		panic(err)
	}
	return rec
}
