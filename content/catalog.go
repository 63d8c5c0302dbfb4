package content

// the read models below are what the endpoint lists back for
// `?path=albums|videos|lyrics`. ids are the endpoint's own. they are
// also the shape of a catalog file, hence the yaml tags

type CatalogTrack struct {
	ID       int    `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	AudioURL string `json:"audio_url,omitempty" yaml:"audio_url,omitempty"`
	Duration string `json:"duration" yaml:"duration"`
}

type CatalogAlbum struct {
	ID       int             `json:"id" yaml:"id"`
	Title    string          `json:"title" yaml:"title"`
	Year     string          `json:"year" yaml:"year"`
	CoverURL string          `json:"cover_url" yaml:"cover_url"`
	Tracks   []*CatalogTrack `json:"tracks" yaml:"tracks"`
}

type CatalogVideo struct {
	ID           int    `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	VideoURL     string `json:"video_url,omitempty" yaml:"video_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url" yaml:"thumbnail_url"`
	Duration     string `json:"duration" yaml:"duration"`
}

type CatalogLyric struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}
