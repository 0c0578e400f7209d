// Package metrics provides Prometheus collectors for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the challenges backend.
var (
	// Counters.
	ProgressReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_reports_total",
			Help: "Total number of progress reports accepted",
		},
		[]string{"challenge", "method"},
	)

	LeaderboardQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_queries_total",
			Help: "Total number of leaderboard queries served",
		},
		[]string{"challenge", "kind"},
	)

	ChallengeJoinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_joins_total",
			Help: "Total number of successful challenge joins",
		},
		[]string{"challenge"},
	)

	FriendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_requests_total",
			Help: "Total number of friend requests by outcome",
		},
		[]string{"outcome"},
	)

	// Gauges.
	ActiveParticipants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "active_participants",
			Help: "Current number of participants per challenge",
		},
		[]string{"challenge"},
	)

	// Histograms.
	ReportedScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reported_scores",
			Help:    "Distribution of computed scores on progress reports",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"challenge"},
	)
)

// RecordProgressReport records an accepted progress report.
func RecordProgressReport(challengeID, method string, score int) {
	ProgressReportsTotal.WithLabelValues(challengeID, method).Inc()
	ReportedScores.WithLabelValues(challengeID).Observe(float64(score))
}

// RecordLeaderboardQuery records a served leaderboard query. Kind is "page"
// or "around".
func RecordLeaderboardQuery(challengeID, kind string) {
	LeaderboardQueriesTotal.WithLabelValues(challengeID, kind).Inc()
}

// RecordJoin records a successful join and the new participant count.
func RecordJoin(challengeID string, participants int64) {
	ChallengeJoinsTotal.WithLabelValues(challengeID).Inc()
	ActiveParticipants.WithLabelValues(challengeID).Set(float64(participants))
}

// RecordFriendRequest records a friend request outcome (created, accepted,
// declined).
func RecordFriendRequest(outcome string) {
	FriendRequestsTotal.WithLabelValues(outcome).Inc()
}
