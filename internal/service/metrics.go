package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noticeViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notice_views_total",
		Help: "Total number of notice detail reads",
	})

	scrapToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notice_scrap_toggles_total",
			Help: "Scrap toggles by resulting action",
		},
		[]string{"action"},
	)
)
