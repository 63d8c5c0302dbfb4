// Package ctrladmin serves the admin page, four forms that add albums,
// tracks, videos and lyrics to the content endpoint
package ctrladmin

import (
	"github.com/gorilla/sessions"

	"go.senan.xyz/musicarchive/content"
	"go.senan.xyz/musicarchive/server/ctrlbase"
	"go.senan.xyz/musicarchive/submit"
)

type Controller struct {
	*ctrlbase.Controller
	desks *submit.Registry
}

func New(b *ctrlbase.Controller, desks *submit.Registry) *Controller {
	return &Controller{
		Controller: b,
		desks:      desks,
	}
}

const sessDeskID = "desk"

// desk is the session's submission desk and its id. a new id is stored in
// the session, which the response handler saves
func (c *Controller) desk(s *sessions.Session) (string, *submit.Desk) {
	id, _ := s.Values[sessDeskID].(string)
	if id == "" {
		id = c.desks.NewID()
		s.Values[sessDeskID] = id
	}
	return id, c.desks.Desk(id)
}

type formText struct {
	Label   string
	Heading string
	Submit  string
}

//nolint:gochecknoglobals
var formTexts = map[content.Kind]formText{
	content.KindAlbum: {Label: "albums", Heading: "new album", Submit: "create album"},
	content.KindTrack: {Label: "tracks", Heading: "new track", Submit: "add track"},
	content.KindVideo: {Label: "videos", Heading: "new video", Submit: "add video"},
	content.KindLyric: {Label: "lyrics", Heading: "new lyrics", Submit: "add lyrics"},
}

// kindFromTab maps the `tab` query value back to its kind, the first tab
// if unknown
func kindFromTab(tab string) content.Kind {
	for _, kind := range content.Kinds {
		if kind.Tab() == tab {
			return kind
		}
	}
	return content.Kinds[0]
}
