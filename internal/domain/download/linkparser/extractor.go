// Package linkparser finds YouTube video identifiers in free text
package linkparser

import "regexp"

// VideoIDLength is the length of a YouTube video identifier
const VideoIDLength = 11

// videoLinkPattern matches watch, short, shorts, embed and live links, plus
// deeper paths such as /user/<name>/<seg>/ID. The host must not be preceded
// by a hostname character, so notyoutube.com does not match.
// The identifier must not be followed by another identifier character.
var videoLinkPattern = regexp.MustCompile(
	`(?:^|[^A-Za-z0-9-])` +
		`(?:(?i:youtube\.com)/(?:watch\S*?[?&]v=|shorts/|embed/|live/|v/|e/|[^/\s]+/\S+?/)|(?i:youtu\.be)/)` +
		`([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`,
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID returns the identifier of the first YouTube link in text
func ExtractVideoID(text string) (string, bool) {
	match := videoLinkPattern.FindStringSubmatch(text)
	if len(match) < 2 {
		return "", false
	}
	return match[1], true
}

// IsVideoID reports whether id has the shape of a video identifier
func IsVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}
