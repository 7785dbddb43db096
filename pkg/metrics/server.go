package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pmo-lab/projecthub/pkg/constants"
)

const readHeaderTimeout = 10 * time.Second

// Handler exposes the prometheus registry for scraping.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(constants.MetricsPath, promhttp.Handler())
	return mux
}

// NewServer builds the standalone metrics listener, used when the scrape
// endpoint should not share the API server's address.
func NewServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
