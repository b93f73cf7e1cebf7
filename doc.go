// Package spill provides fixed-capacity ring buffers that never block
// on overflow: when full, the oldest element is evicted to a pluggable
// sink instead of failing or growing.
//
// If you have a high-throughput producer/consumer pipeline (sensor
// ingestion, log shipping, telemetry) where bounded memory and
// predictable latency matter more than delivery of every item, this is
// the trade-off spill makes for you.
package spill
