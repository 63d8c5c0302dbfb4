// Package browse holds what the public page renders: the catalog of albums,
// videos and lyrics, the selected section, and the decorative player state
package browse

type Section string

const (
	SectionHome    Section = "home"
	SectionAlbums  Section = "albums"
	SectionVideos  Section = "videos"
	SectionLyrics  Section = "lyrics"
	SectionInfo    Section = "info"
	SectionContact Section = "contact"
)

// Sections is every section in navigation order
//
//nolint:gochecknoglobals
var Sections = []Section{SectionHome, SectionAlbums, SectionVideos, SectionLyrics, SectionInfo, SectionContact}

// ParseSection never fails. Anything it doesn't know, including the empty
// string of a fresh load, is home
func ParseSection(in string) Section {
	for _, s := range Sections {
		if string(s) == in {
			return s
		}
	}
	return SectionHome
}

func (s Section) Label() string {
	switch s {
	case SectionAlbums:
		return "Albums"
	case SectionVideos:
		return "Videos"
	case SectionLyrics:
		return "Lyrics"
	case SectionInfo:
		return "Info"
	case SectionContact:
		return "Contact"
	default:
		return "Home"
	}
}

func (s Section) String() string { return string(s) }
