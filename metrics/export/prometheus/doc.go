// Package prometheus renders goBroker metrics in Prometheus text
// exposition format, either as a string or an http.Handler.
package prometheus
