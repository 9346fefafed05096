package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Signups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordgame_signups_total",
			Help: "Total number of signup attempts",
		},
		[]string{"outcome"},
	)

	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordgame_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	GamesStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordgame_games_started_total",
			Help: "Total number of games started",
		},
		[]string{"difficulty"},
	)

	Guesses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordgame_guesses_total",
			Help: "Total number of guesses",
		},
		[]string{"kind", "outcome"},
	)

	RoundsWon = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wordgame_rounds_won_total",
			Help: "Total number of rounds won",
		},
	)

	GamesLost = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wordgame_games_lost_total",
			Help: "Total number of games lost",
		},
	)

	LevelReached = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wordgame_level_reached",
			Help:    "Level reached when a run ends",
			Buckets: []float64{1, 2, 3, 4, 5, 7, 10, 15},
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wordgame_active_sessions",
			Help: "Number of game sessions held in memory",
		},
	)
)
