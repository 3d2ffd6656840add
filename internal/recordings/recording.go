// Package recordings exposes recording delivery, batch download, and
// metadata search over HTTP.
package recordings

import (
	"database/sql"
	"time"

	"github.com/JaimeStill/callvault/pkg/repository"
)

// Recording is one row of a tenant's recordings catalog.
type Recording struct {
	FileName     string    `json:"fileName"`
	ExtensionNum string    `json:"extensionNum"`
	ObjectID     string    `json:"objectId"`
	ChannelNum   string    `json:"channelNum"`
	AniAliDigits string    `json:"aniAliDigits"`
	Name         string    `json:"name"`
	DateAdded    time.Time `json:"dateAdded"`
	Opco         string    `json:"opco"`
	AgentID      string    `json:"agentID"`
	Duration     int       `json:"duration"`
	Direction    bool      `json:"direction"`
}

func scanRecording(s repository.Scanner) (Recording, error) {
	var (
		r                                    Recording
		ext, channel, ani, name, opco, agent sql.Null[string]
	)
	err := s.Scan(
		&r.FileName,
		&ext,
		&r.ObjectID,
		&channel,
		&ani,
		&name,
		&r.DateAdded,
		&opco,
		&r.Direction,
		&r.Duration,
		&agent,
	)
	r.ExtensionNum = ext.V
	r.ChannelNum = channel.V
	r.AniAliDigits = ani.V
	r.Name = name.V
	r.Opco = opco.V
	r.AgentID = agent.V
	return r, err
}
