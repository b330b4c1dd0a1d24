package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	cache "github.com/krisalay/taskcache"
	"github.com/krisalay/taskcache/logging"
)

// ================= BENCHMARK =================

func main() {
	ctx := context.Background()

	const (
		capacity   = 100
		keySpace   = 250
		goroutines = 200
		opsPerG    = 5000
	)

	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")
	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Capacity     :", capacity)
	fmt.Println("Key space    :", keySpace)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", opsPerG)
	fmt.Println("---------------------------------")

	c := cache.New(cache.Options{
		Expiration: time.Minute,
		MaxSize:    capacity,
		Logger:     logging.Discard(),
	})

	// ---------------- Load Test ----------------
	fmt.Println("Running mixed get/set through the operation queue...")

	var hits, misses atomic.Int64
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < goroutines; i++ {
		id := i
		g.Go(func() error {
			for j := 0; j < opsPerG; j++ {
				key := fmt.Sprintf("key-%d", (id*opsPerG+j)%keySpace)
				if j%4 == 0 {
					if _, err := c.Set(gctx, key, j); err != nil {
						return err
					}
					continue
				}
				_, ok, err := c.Get(gctx, key)
				if err != nil {
					return err
				}
				if ok {
					hits.Add(1)
				} else {
					misses.Add(1)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Println("benchmark failed:", err)
	}

	duration := time.Since(start)
	totalOps := goroutines * opsPerG

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Hits / Misses    : %d / %d\n", hits.Load(), misses.Load())
	fmt.Printf("Final Size       : %d\n", c.Len())
	fmt.Println("=========================================")

	_ = c.Close()
}
