package apiclient

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — счётчик и гистограмма исходящих вызовов по method/resource/code.
// resource — первый сегмент пути после базового (articles, categories, auth, upload ...).
type Metrics struct {
	basePath string
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics регистрирует коллекторы в reg.
func NewMetrics(reg prometheus.Registerer, basePath string) *Metrics {
	m := &Metrics{
		basePath: strings.TrimRight(basePath, "/"),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travelblog",
			Subsystem: "api_client",
			Name:      "requests_total",
			Help:      "Outgoing content API requests.",
		}, []string{"method", "resource", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "travelblog",
			Subsystem: "api_client",
			Name:      "request_duration_seconds",
			Help:      "Outgoing content API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "resource"}),
	}

	reg.MustRegister(m.requests, m.duration)

	return m
}

func (m *Metrics) Middleware() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			res := m.resource(r.URL.Path)

			resp, err := next.RoundTrip(r)

			code := "error"
			if err == nil {
				code = strconv.Itoa(resp.StatusCode)
			}

			m.requests.WithLabelValues(r.Method, res, code).Inc()
			m.duration.WithLabelValues(r.Method, res).Observe(time.Since(start).Seconds())

			return resp, err
		})
	}
}

func (m *Metrics) resource(path string) string {
	p := strings.Trim(strings.TrimPrefix(path, m.basePath), "/")
	if p == "" {
		return "root"
	}

	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}

	return p
}
