//go:build integration

// Integration tests that run the server on real sockets with the listen
// address resolved from the environment.
//
// Run these tests with:
//
//	go test -v -tags=integration ./internal/server/...
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-envconfig"

	"github.com/acs-assignment/appboot/internal/config"
)

func TestServerIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Server Integration Suite")
}

func freePort() int {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	port := ln.Addr().(*net.TCPAddr).Port
	Expect(ln.Close()).To(Succeed())
	return port
}

func get(url string) (int, string) {
	client := &http.Client{Timeout: 5 * time.Second, Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get(url)
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return resp.StatusCode, string(body)
}

var _ = Describe("Placeholder server", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		done   chan error
		base   string
		reg    *prometheus.Registry
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		done = make(chan error, 1)
		reg = prometheus.NewRegistry()

		port := freePort()
		listen, err := config.LoadListenFrom(ctx, envconfig.MapLookuper(map[string]string{
			"IP":   "127.0.0.1",
			"PORT": strconv.Itoa(port),
		}))
		Expect(err).NotTo(HaveOccurred())

		srv, err := New(listen, WithRegisterer(reg), WithShutdownTimeout(2*time.Second))
		Expect(err).NotTo(HaveOccurred())
		base = "http://" + srv.Addr()

		go func() { done <- srv.ListenAndServe(ctx) }()
		Eventually(func() error {
			conn, err := net.Dial("tcp", srv.Addr())
			if err == nil {
				_ = conn.Close()
			}
			return err
		}).WithTimeout(5 * time.Second).Should(Succeed())
	})

	AfterEach(func() {
		cancel()
		Eventually(done).WithTimeout(5 * time.Second).Should(Receive(BeNil()))
	})

	It("serves the index page", func() {
		code, body := get(base + "/index")
		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring("Example Page"))
	})

	It("serves the monitoring page", func() {
		code, body := get(base + "/monitoring")
		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring("Monitoring"))
	})

	It("answers unknown paths with 404", func() {
		code, _ := get(base + "/does-not-exist")
		Expect(code).To(Equal(http.StatusNotFound))
	})

	It("exposes request metrics on a separate listener", func() {
		get(base + "/index")

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		metricsDone := make(chan error, 1)
		go func() { metricsDone <- ServeMetrics(ctx, ln, reg, GinkgoLogr) }()

		code, body := get("http://" + ln.Addr().String() + "/metrics")
		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`appboot_server_requests_total{code="200",route="/index"} 1`))

		cancel()
		Eventually(metricsDone).WithTimeout(5 * time.Second).Should(Receive(BeNil()))
	})
})
