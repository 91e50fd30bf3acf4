// Package probe holds the domain model of a scan run: jobs, results,
// pattern sets, and the ports (Queue, Sink, Fetcher) that the pipeline
// components implement. It is intentionally free of transport and
// infrastructure concerns so every other package can depend on it.
package probe
