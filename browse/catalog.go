package browse

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rainycape/unidecode"

	"go.senan.xyz/musicarchive/content"
	"go.senan.xyz/musicarchive/multierr"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

type Catalog struct {
	Albums []*content.CatalogAlbum `yaml:"albums"`
	Videos []*content.CatalogVideo `yaml:"videos"`
	Lyrics []*content.CatalogLyric `yaml:"lyrics"`
}

func (c *Catalog) Empty() bool {
	return c == nil || len(c.Albums)+len(c.Videos)+len(c.Lyrics) == 0
}

// Track finds a track and the album it belongs to
func (c *Catalog) Track(id int) (*content.CatalogAlbum, *content.CatalogTrack, bool) {
	if c == nil {
		return nil, nil, false
	}
	for _, album := range c.Albums {
		for _, track := range album.Tracks {
			if track.ID == id {
				return album, track, true
			}
		}
	}
	return nil, nil, false
}

// Validate reports every problem with a hand written catalog at once. Track
// ids must be unique across albums since the player is keyed by them
func (c *Catalog) Validate() error {
	var errs multierr.Err
	invalid := func(format string, a ...any) {
		errs.Add(fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, a...)))
	}
	trackIDs := map[int]struct{}{}
	for i, album := range c.Albums {
		if album.Title == "" {
			invalid("album %d has no title", i+1)
		}
		for j, track := range album.Tracks {
			if track.Title == "" {
				invalid("track %d of album %q has no title", j+1, album.Title)
			}
			if _, ok := trackIDs[track.ID]; ok {
				invalid("track id %d is used twice", track.ID)
			}
			trackIDs[track.ID] = struct{}{}
		}
	}
	for i, video := range c.Videos {
		if video.Title == "" {
			invalid("video %d has no title", i+1)
		}
	}
	for i, lyric := range c.Lyrics {
		if lyric.Title == "" {
			invalid("lyric %d has no title", i+1)
		}
	}
	return errs.Or()
}

// Slug is an ascii, lower case, dash separated form of a title. Titles are
// transliterated first so cyrillic names keep a readable anchor
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range unidecode.Unidecode(title) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(unicode.ToLower(r))
		default:
			dash = true
		}
	}
	return b.String()
}

// AlbumAnchor is the fragment id of an album card
func AlbumAnchor(album *content.CatalogAlbum) string {
	if slug := Slug(album.Title); slug != "" {
		return fmt.Sprintf("album-%d-%s", album.ID, slug)
	}
	return fmt.Sprintf("album-%d", album.ID)
}

const cdn = "https://cdn.poehali.dev/projects/12e21841-cfbf-49e3-a173-6286147f8f86/files/"

// SampleCatalog is the catalog shown when no other source is configured
func SampleCatalog() *Catalog {
	return &Catalog{
		Albums: []*content.CatalogAlbum{
			{
				ID:       1,
				Title:    "Винтажные Мелодии",
				Year:     "2024",
				CoverURL: cdn + "6d9e07d8-e324-4e0f-97ce-7c74e3d2f375.jpg",
				Tracks: []*content.CatalogTrack{
					{ID: 1, Title: "Летний Вечер", Duration: "3:45"},
					{ID: 2, Title: "Ностальгия", Duration: "4:12"},
					{ID: 3, Title: "Под Звёздами", Duration: "3:58"},
				},
			},
		},
		Videos: []*content.CatalogVideo{
			{
				ID:           1,
				Title:        "Концерт в Старом Театре",
				ThumbnailURL: cdn + "44130623-02e3-4e72-8b6f-2401ddc4ca1b.jpg",
				Duration:     "5:30",
			},
		},
		Lyrics: []*content.CatalogLyric{
			{
				ID:    1,
				Title: "Летний Вечер",
				Text:  "Текст песни будет здесь...\nСтрока за строкой...",
			},
		},
	}
}

// HeroImageURL is the turntable picture on the home section
const HeroImageURL = cdn + "4f0dbebb-fefc-45dd-bfcb-b82bfcf2019c.jpg"
