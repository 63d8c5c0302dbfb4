package browse

// Player is the play/pause state of the track list. Nothing is actually
// played, it only decides which icon each track shows
type Player struct {
	Current int  `json:"current"`
	Playing bool `json:"playing"`
}

// Toggle makes trackID current and flips playing. Clicking a different
// track while one is playing therefore pauses, matching the icon the user
// saw before
func (p *Player) Toggle(trackID int) {
	p.Current = trackID
	p.Playing = !p.Playing
}

func (p Player) IsPlaying(trackID int) bool {
	return p.Playing && p.Current == trackID
}

// Icon is "pause" for the current track while playing, "play" otherwise
func (p Player) Icon(trackID int) string {
	if p.IsPlaying(trackID) {
		return "pause"
	}
	return "play"
}
