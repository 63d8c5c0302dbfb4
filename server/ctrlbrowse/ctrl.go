// Package ctrlbrowse serves the public page
package ctrlbrowse

import (
	"github.com/gorilla/sessions"

	"go.senan.xyz/musicarchive/browse"
	"go.senan.xyz/musicarchive/server/ctrlbase"
)

type Controller struct {
	*ctrlbase.Controller
	source browse.Source
}

func New(b *ctrlbase.Controller, source browse.Source) *Controller {
	return &Controller{
		Controller: b,
		source:     source,
	}
}

const (
	sessPlayerCurrent = "player_current"
	sessPlayerPlaying = "player_playing"
)

func sessPlayer(s *sessions.Session) browse.Player {
	var p browse.Player
	if s == nil {
		return p
	}
	p.Current, _ = s.Values[sessPlayerCurrent].(int)
	p.Playing, _ = s.Values[sessPlayerPlaying].(bool)
	return p
}

func sessSetPlayer(s *sessions.Session, p browse.Player) {
	s.Values[sessPlayerCurrent] = p.Current
	s.Values[sessPlayerPlaying] = p.Playing
}
