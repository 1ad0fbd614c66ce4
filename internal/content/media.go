package content

import "net/url"

// YouTubeEmbedURL returns the player URL for a video id. With noRelated
// set the player only suggests videos from the same channel.
func YouTubeEmbedURL(id string, noRelated bool) string {
	if id == "" {
		return ""
	}
	u := "https://www.youtube.com/embed/" + url.PathEscape(id)
	if noRelated {
		u += "?rel=0"
	}
	return u
}

func YouTubeThumbnailURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + url.PathEscape(id) + "/maxresdefault.jpg"
}
