// Package metrics exposes clone activity to Prometheus through a
// cloner.Observer.
package metrics
