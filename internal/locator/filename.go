package locator

import (
	"path"
	"strings"
)

// Recorder filename convention: bytes [5,24) hold the timestamp token and
// bytes from 24 up to the audio extension hold the participant name.
const (
	tokenStart = 5
	tokenEnd   = 24

	AudioExt    = ".wav"
	MetadataExt = ".xml"
)

// ParseFileName extracts the timestamp token and participant name from a
// recorder filename. ok is false when the name is too short or carries no
// audio extension after the token.
func ParseFileName(name string) (token, username string, ok bool) {
	if len(name) < tokenEnd {
		return "", "", false
	}

	i := strings.Index(name[tokenEnd:], AudioExt)
	if i < 0 {
		return "", "", false
	}

	return name[tokenStart:tokenEnd], strings.TrimSpace(name[tokenEnd : tokenEnd+i]), true
}

// matchesName reports whether the base name of key encodes the target's
// timestamp and participant.
func (t Target) matchesName(key string) bool {
	token, username, ok := ParseFileName(path.Base(key))
	if !ok {
		return false
	}
	return token == t.Token && strings.EqualFold(username, t.Username)
}
