package utils

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	Requests     *prometheus.CounterVec
	Signups      prometheus.Counter
	Logins       *prometheus.CounterVec
	Messages     *prometheus.CounterVec
	Follows      *prometheus.CounterVec
	Likes        *prometheus.CounterVec
	Unauthorized *prometheus.CounterVec
}

// NewMetrics builds the application counters on a dedicated registry, so
// several routers (tests) can coexist in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_http_requests_total",
				Help: "Total number of HTTP requests by route and status class",
			},
			[]string{"route", "class"},
		),
		Signups: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "warbler_signups_total",
				Help: "Total number of successful signups",
			},
		),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_logins_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		Messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_messages_total",
				Help: "Total number of created and deleted messages",
			},
			[]string{"action"},
		),
		Follows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_follows_total",
				Help: "Total number of follow and unfollow operations",
			},
			[]string{"action"},
		),
		Likes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_likes_total",
				Help: "Total number of like toggles by outcome",
			},
			[]string{"action"},
		),
		Unauthorized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_unauthorized_total",
				Help: "Total number of requests rejected for lack of a logged-in user",
			},
			[]string{"route"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.Signups,
		m.Logins,
		m.Messages,
		m.Follows,
		m.Likes,
		m.Unauthorized,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
