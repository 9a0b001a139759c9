// Package server implements the placeholder HTTP application: a fixed
// route table answering /index and /monitoring with small HTML pages.
//
// Each Server is an explicit instance built by New, so several servers may
// run in one process. Request metrics are recorded in a caller-supplied
// Prometheus registry and are served by MetricsHandler on a separate
// listener, never on the application routes.
package server
