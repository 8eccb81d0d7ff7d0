package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"setmatch-server/internal/config"
	"setmatch-server/internal/mux"
	"setmatch-server/pkg/game"
	"setmatch-server/pkg/room"
	"setmatch-server/pkg/set"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 5

// slotKeys maps keyboard keys to board slots, three rows of four
const slotKeys = "qwerasdfzxcv"

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	checker, err := set.NewChecker(cfg.Game.DeckSize, cfg.Game.FeatureSize)
	if err != nil {
		logrus.WithError(err).Fatal("invalid deck configuration")
	}

	broadcaster := room.NewBroadcaster()
	broadcaster.Start()

	session, err := game.NewDealer(cfg.Options(), checker, game.MultiDisplay{game.LogDisplay{}, broadcaster})
	if err != nil {
		logrus.WithError(err).Fatal("could not create session")
	}

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, session, broadcaster))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		logrus.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	go watchSignals(session)

	restore := setupKeyboard(session)
	defer restore()

	session.Run()

	broadcaster.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func watchSignals(session *game.Dealer) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch

	logrus.Info("shutting down")
	session.Stop()
}

// setupKeyboard puts the terminal in raw mode and feeds keypresses to the
// first human player. The returned func restores the terminal.
func setupKeyboard(session *game.Dealer) func() {
	var human *game.Player
	for _, p := range session.Players() {
		if p.Human {
			human = p
			break
		}
	}

	fd := int(os.Stdin.Fd())
	if human == nil || !term.IsTerminal(fd) {
		return func() {}
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logrus.WithError(err).Warn("could not enter raw mode")
		return func() {}
	}

	go func() {
		buf := make([]byte, 1)
		for {
			if _, err := os.Stdin.Read(buf); err != nil {
				return
			}

			switch b := buf[0]; b {
			case 3, 4: // ctrl-c, ctrl-d
				session.Stop()
				return
			default:
				if slot := strings.IndexByte(slotKeys, b); slot >= 0 {
					human.KeyPressed(slot)
				}
			}
		}
	}()

	return func() {
		_ = term.Restore(fd, oldState)
	}
}

func loggingHandler(next http.Handler) http.Handler {
	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
