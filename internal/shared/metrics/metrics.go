// Package metrics exposes the service's Prometheus counters. Collectors are
// registered on the default registry; the dev router mounts Handler.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	resumesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resumes_created_total",
			Help: "Total number of resumes created",
		},
	)

	resumeDownloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resume_downloads_total",
			Help: "Total number of resume downloads",
		},
	)

	resumeSharesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resume_shares_total",
			Help: "Total number of resume shares",
		},
	)

	quotaDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quota_denied_total",
			Help: "Total number of requests denied by quota, by action",
		},
		[]string{"action"},
	)

	permissionDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permission_denied_total",
			Help: "Total number of requests denied by permission checks, by reason",
		},
		[]string{"reason"},
	)
)

// IncResumeCreated increments the created counter.
func IncResumeCreated() {
	resumesCreatedTotal.Inc()
}

// IncResumeDownloaded increments the download counter.
func IncResumeDownloaded() {
	resumeDownloadsTotal.Inc()
}

// IncResumeShared increments the share counter.
func IncResumeShared() {
	resumeSharesTotal.Inc()
}

// IncQuotaDenied records a quota denial for the given action
// (create, download, share).
func IncQuotaDenied(action string) {
	quotaDeniedTotal.WithLabelValues(action).Inc()
}

// IncPermissionDenied records a permission denial with its reason.
func IncPermissionDenied(reason string) {
	permissionDeniedTotal.WithLabelValues(reason).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
