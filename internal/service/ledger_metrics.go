package service

import "github.com/prometheus/client_golang/prometheus"

var (
	CoinsEarned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_coins_earned_total",
		Help: "Coins credited to users",
	})
	CoinsSpent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_coins_spent_total",
		Help: "Coins debited by redemptions",
	})
	RedemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_redemptions_total",
			Help: "Redemption state changes",
		},
		[]string{"status"},
	)
	NotificationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_notification_failures_total",
		Help: "Best-effort notifications that failed to deliver",
	})
)

func init() {
	prometheus.MustRegister(CoinsEarned)
	prometheus.MustRegister(CoinsSpent)
	prometheus.MustRegister(RedemptionsTotal)
	prometheus.MustRegister(NotificationFailures)
}
