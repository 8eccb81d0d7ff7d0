package game

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Display is the sink for countdown, score, freeze and winner updates.
// Calls are fire-and-forget; implementations must not block the caller.
type Display interface {
	// SetCountdown updates the round countdown
	SetCountdown(remaining time.Duration, urgent bool)

	// SetScore updates a player's score
	SetScore(playerID, score int)

	// SetFreeze shows the time left on a player's cooldown
	SetFreeze(playerID int, remaining time.Duration)

	// AnnounceWinners reports the players tied for the maximum score
	AnnounceWinners(playerIDs []int)
}

// SetChecker decides the validity of card subsets
type SetChecker interface {
	// IsSet returns true if the cards form a valid set
	IsSet(cards []int) bool

	// Find returns up to limit valid sets within cards
	Find(cards []int, limit int) [][]int
}

// LogDisplay writes display updates to the log
type LogDisplay struct {
	Log logrus.FieldLogger
}

// SetCountdown logs the countdown at trace level since it updates every tick
func (d LogDisplay) SetCountdown(remaining time.Duration, urgent bool) {
	d.logger().WithFields(logrus.Fields{
		"remaining": remaining.Round(time.Millisecond),
		"urgent":    urgent,
	}).Trace("countdown")
}

// SetScore logs a score update
func (d LogDisplay) SetScore(playerID, score int) {
	d.logger().WithFields(logrus.Fields{
		"player": playerID,
		"score":  score,
	}).Info("score")
}

// SetFreeze logs a freeze countdown tick
func (d LogDisplay) SetFreeze(playerID int, remaining time.Duration) {
	d.logger().WithFields(logrus.Fields{
		"player":    playerID,
		"remaining": remaining.Round(time.Millisecond),
	}).Debug("freeze")
}

// AnnounceWinners logs the winners
func (d LogDisplay) AnnounceWinners(playerIDs []int) {
	d.logger().WithField("players", playerIDs).Info("winners")
}

func (d LogDisplay) logger() logrus.FieldLogger {
	if d.Log != nil {
		return d.Log
	}

	return logrus.StandardLogger()
}

// MultiDisplay fans updates out to multiple sinks
type MultiDisplay []Display

// SetCountdown implements Display
func (m MultiDisplay) SetCountdown(remaining time.Duration, urgent bool) {
	for _, d := range m {
		d.SetCountdown(remaining, urgent)
	}
}

// SetScore implements Display
func (m MultiDisplay) SetScore(playerID, score int) {
	for _, d := range m {
		d.SetScore(playerID, score)
	}
}

// SetFreeze implements Display
func (m MultiDisplay) SetFreeze(playerID int, remaining time.Duration) {
	for _, d := range m {
		d.SetFreeze(playerID, remaining)
	}
}

// AnnounceWinners implements Display
func (m MultiDisplay) AnnounceWinners(playerIDs []int) {
	for _, d := range m {
		d.AnnounceWinners(playerIDs)
	}
}
