package recordings

import (
	"github.com/JaimeStill/callvault/pkg/query"
)

// Column order matches scanRecording.
var projection = query.
	NewProjectionMap("public", "recordings", "r").
	Project("file_name", "FileName").
	Project("extension_num", "ExtensionNum").
	Project("object_id", "ObjectID").
	Project("channel_num", "ChannelNum").
	Project("ani_ali_digits", "AniAliDigits").
	Project("name", "Name").
	Project("date_added", "DateAdded").
	Project("opco", "Opco").
	Project("direction", "Direction").
	Project("duration", "Duration").
	Project("agent_id", "AgentID")

// searchFields are matched by the free-text search of a page request.
var searchFields = []string{"FileName", "Name", "AniAliDigits", "AgentID"}

var defaultSort = query.SortField{
	Field:      "DateAdded",
	Descending: true,
}

// Filters narrows a search. Each list matches rows whose column contains
// any of its values, case-insensitively; empty lists are ignored.
type Filters struct {
	FileName     []string `json:"file_name,omitempty"`
	ExtensionNum []string `json:"extension_num,omitempty"`
	ObjectIDs    []string `json:"object_ids,omitempty" validate:"omitempty,dive,uuid"`
	ChannelNum   []string `json:"channel_num,omitempty"`
	AniAliDigits []string `json:"ani_ali_digits,omitempty"`
	Name         []string `json:"name,omitempty"`
	AgentID      []string `json:"agent_id,omitempty"`
	Direction    *bool    `json:"direction,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereAnyContains("FileName", f.FileName).
		WhereAnyContains("ExtensionNum", f.ExtensionNum).
		WhereAnyContains("ObjectID", f.ObjectIDs).
		WhereAnyContains("ChannelNum", f.ChannelNum).
		WhereAnyContains("AniAliDigits", f.AniAliDigits).
		WhereAnyContains("Name", f.Name).
		WhereAnyContains("AgentID", f.AgentID).
		WhereEquals("Direction", f.Direction)
}
