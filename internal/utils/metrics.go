package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var DBQueryDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "db_query_duration_seconds",
	Help:    "Duration of database queries in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"query_type", "repository", "status"})

var DBQueryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "db_query_errors_total",
	Help: "Total number of failed database queries.",
}, []string{"query_type", "repository"})

var CacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cache_requests_total",
	Help: "Total number of cache lookups by outcome.",
}, []string{"key", "outcome"})

var OTPIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "otp_issued_total",
	Help: "Total number of one-time passwords issued.",
}, []string{"purpose"})

var OTPVerifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "otp_verified_total",
	Help: "Total number of OTP verification attempts by outcome.",
}, []string{"outcome"})

var TotalUsersGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "app_total_users",
	Help: "Total number of registered users in the application.",
})
