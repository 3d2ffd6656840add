package locator

import (
	"strconv"
	"strings"

	"github.com/JaimeStill/callvault/internal/metadata"
)

// Metadata field names compared against request disambiguators.
const (
	FieldAniAliDigits = "AniAliDigits"
	FieldDuration     = "Duration"
	FieldExtensionNum = "ExtensionNum"
	FieldChannelNum   = "ChannelNum"
	FieldObjectID     = "ObjectID"
)

// matches reports whether r satisfies every disambiguator on the target.
// String fields treat an unset request value as a wildcard. Numeric fields
// do too, but once set they require the record to carry a parseable value.
func (t Target) matches(r metadata.Record) bool {
	return matchString(r.Fields, FieldAniAliDigits, t.aniAliDigits) &&
		matchInt(r.Fields, FieldDuration, t.duration) &&
		matchString(r.Fields, FieldExtensionNum, t.extensionNum) &&
		matchInt(r.Fields, FieldChannelNum, t.channelNum) &&
		matchString(r.Fields, FieldObjectID, t.objectID)
}

func matchString(f metadata.Fields, key, want string) bool {
	if want == "" {
		return true
	}
	return f.Get(key) == want
}

func matchInt(f metadata.Fields, key string, want int) bool {
	if want == 0 {
		return true
	}
	v, ok := f.Lookup(key)
	if !ok {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	return err == nil && n == want
}
