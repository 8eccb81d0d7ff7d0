package room

// Event is a single display update pushed to spectator clients
type Event struct {
	Key  string      `json:"key"`
	Data interface{} `json:"data"`
}

// event keys
const (
	KeyCountdown = "countdown"
	KeyScore     = "score"
	KeyFreeze    = "freeze"
	KeyWinners   = "winners"
)

type countdownData struct {
	RemainingMillis int64 `json:"remainingMillis"`
	Urgent          bool  `json:"urgent"`
}

type scoreData struct {
	PlayerID int `json:"playerId"`
	Score    int `json:"score"`
}

type freezeData struct {
	PlayerID        int   `json:"playerId"`
	RemainingMillis int64 `json:"remainingMillis"`
}

type winnersData struct {
	PlayerIDs []int `json:"playerIds"`
}
