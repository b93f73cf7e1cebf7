// Zero-contention MPSC demo: each producer owns a ring and a private
// eviction sink, so the hot path never takes a lock. The consumer
// collects the rings afterwards and drains the survivors.
package main

import (
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/abmac-io/spill"
)

type reading struct {
	seq    uint64
	sensor int
	value  float64
}

func main() {
	const (
		numProducers        = 4
		readingsPerProducer = 1 << 18
		ringCapacity        = 1 << 10
	)

	fmt.Printf("Producers: %d\n", numProducers)
	fmt.Printf("Readings per producer: %d\n", readingsPerProducer)
	fmt.Printf("Ring capacity per producer: %d\n\n", ringCapacity)

	// Each clone of the template gets the next producer ID and builds
	// its own private collector, so eviction never crosses goroutines.
	evicted := make([]*spill.Collect[reading], numProducers)
	template := spill.NewProducerSink(func(id int) spill.Sink[reading] {
		evicted[id] = spill.NewCollect[reading]()
		return evicted[id]
	})

	producers, consumer := spill.NewGroupWithSink[reading](ringCapacity, numProducers, template)

	var wg sync.WaitGroup
	for id, p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := uint64(0); i < readingsPerProducer; i++ {
				p.Push(reading{
					seq:    i,
					sensor: id,
					value:  math.Sin(float64(i) + float64(id)),
				})
			}
		}()
	}
	wg.Wait()

	spill.CollectProducers(producers, consumer)

	drained := make([]uint64, numProducers)
	consumer.Drain(spill.SinkFunc[reading](func(r reading) {
		drained[r.sensor]++
	}))

	ok := true
	var total uint64
	for id := range numProducers {
		var evictedCount uint64
		if evicted[id] != nil {
			evictedCount = uint64(len(evicted[id].Items()))
		}
		sum := evictedCount + drained[id]
		total += sum
		status := "PASS"
		if sum != readingsPerProducer {
			status = "FAIL"
			ok = false
		}
		fmt.Printf("producer %d: evicted=%d drained=%d total=%d [%s]\n",
			id, evictedCount, drained[id], sum, status)
	}
	fmt.Printf("\ntotal items: %d (expected %d)\n", total, numProducers*readingsPerProducer)
	if !ok || total != numProducers*readingsPerProducer {
		fmt.Println("FAIL: item count mismatch")
		os.Exit(1)
	}
	fmt.Println("PASS: all items accounted for")
}
