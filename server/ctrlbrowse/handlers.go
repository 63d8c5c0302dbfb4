package ctrlbrowse

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"go.senan.xyz/musicarchive/browse"
	"go.senan.xyz/musicarchive/content"
	"go.senan.xyz/musicarchive/server/ctrlbase"
)

type albumView struct {
	*content.CatalogAlbum
	Anchor string
	// Open keeps the tracklist of the current track unfolded
	Open bool
}

type page struct {
	Section      browse.Section
	Sections     []browse.Section
	Catalog      *browse.Catalog
	Albums       []albumView
	Player       browse.Player
	HeroImageURL string
}

func (c *Controller) ServeIndex(r *http.Request) *ctrlbase.Response {
	var flashW []ctrlbase.Flash
	catalog, err := c.source.Catalog(r.Context())
	if err != nil {
		log.Printf("error getting catalog: %v", err)
		flashW = append(flashW, ctrlbase.Flash{Message: "couldn't load the catalog"})
	}
	if catalog == nil {
		catalog = &browse.Catalog{}
	}

	player := sessPlayer(ctrlbase.Session(r))
	albums := make([]albumView, 0, len(catalog.Albums))
	for _, album := range catalog.Albums {
		view := albumView{CatalogAlbum: album, Anchor: browse.AlbumAnchor(album)}
		for _, track := range album.Tracks {
			if player.Current != 0 && track.ID == player.Current {
				view.Open = true
			}
		}
		albums = append(albums, view)
	}

	return &ctrlbase.Response{
		Template: "browse.tmpl",
		FlashW:   flashW,
		Data: &page{
			Section:      browse.ParseSection(r.URL.Query().Get("section")),
			Sections:     browse.Sections,
			Catalog:      catalog,
			Albums:       albums,
			Player:       player,
			HeroImageURL: browse.HeroImageURL,
		},
	}
}

func (c *Controller) ServePlayDo(r *http.Request) *ctrlbase.Response {
	trackID, err := strconv.Atoi(r.FormValue("track"))
	if err != nil {
		return &ctrlbase.Response{Code: http.StatusBadRequest, Err: "please provide a valid track id"}
	}
	session := ctrlbase.Session(r)
	player := sessPlayer(session)
	player.Toggle(trackID)
	sessSetPlayer(session, player)

	to := fmt.Sprintf("/?section=%s", browse.SectionAlbums)
	if catalog, err := c.source.Catalog(r.Context()); err == nil {
		if album, _, ok := catalog.Track(trackID); ok {
			to += "#" + browse.AlbumAnchor(album)
		}
	}
	return &ctrlbase.Response{Redirect: to}
}
