package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	cache "github.com/krisalay/taskcache"
	"github.com/krisalay/taskcache/config"
	"github.com/krisalay/taskcache/logging"
	"github.com/krisalay/taskcache/metrics"
	"github.com/krisalay/taskcache/types"
)

// ================= MAIN =================

func main() {
	configPath := flag.String("config", "", "optional .toml or .yaml config file; environment is used otherwise")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	reg := prometheus.NewRegistry()
	m, err := metrics.NewPrometheus(reg, "taskcache")
	if err != nil {
		logger.WithError(err).Fatal("register metrics")
	}

	ctx := context.Background()

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("EXPIRATION      :", cfg.Expiration)
	fmt.Println("MAX SIZE        :", cfg.MaxSize)
	fmt.Println("EVICTION POLICY : FIFO (oldest inserted)")

	c := cache.FromConfig(cfg, logger, m)

	// ====================================================
	fmt.Println("\n==================== 1) ORDERED WRITES ====================")
	c.SetAsync(ctx, "k", 1)
	last := c.SetAsync(ctx, "k", 2)
	if _, err := last.Wait(ctx); err != nil {
		logger.WithError(err).Error("set")
	}
	v, _, _ := c.Get(ctx, "k")
	fmt.Println("CACHE  → SET k=1, SET k=2 without waiting; GET k =", v)

	// ====================================================
	fmt.Println("\n==================== 2) EVICTION ====================")
	small := cache.New(cache.Options{Expiration: time.Second, MaxSize: 2, Logger: logger})
	for _, kv := range []struct {
		k string
		v int
	}{{"a", 1}, {"b", 2}, {"c", 3}} {
		_, _ = small.Set(ctx, kv.k, kv.v)
	}
	keys, _ := small.Keys(ctx)
	_, foundA, _ := small.Get(ctx, "a")
	fmt.Println("CACHE  → maxSize=2 after a,b,c :", keys, "| a present:", foundA)

	// ====================================================
	fmt.Println("\n==================== 3) TTL EXPIRATION ====================")
	_, _ = small.Set(ctx, "x", 10)
	time.Sleep(1100 * time.Millisecond)
	_, foundX, _ := small.Get(ctx, "x")
	fmt.Println("CACHE  → GET x after 1.1s =", foundX, "| HAS x =", small.Has("x"))
	_ = small.Close()

	// ====================================================
	fmt.Println("\n==================== 4) GET OR LOAD ====================")
	loader := types.LoaderFunc(func(ctx context.Context, key string) (any, error) {
		logger.WithField("key", key).Info("expensive lookup")
		return "profile-of-" + key, nil
	})
	for i := 0; i < 2; i++ {
		v, err := c.GetOrLoad(ctx, "user:42", loader)
		fmt.Println("CACHE  → GetOrLoad user:42 =", v, err)
	}

	// ====================================================
	fmt.Println("\n==================== 5) CLEAR ====================")
	_ = c.Clear(ctx, "k")
	_ = c.ClearAll(ctx)
	fmt.Println("CACHE  → HAS user:42 after ClearAll =", c.Has("user:42"))

	// ====================================================
	printMetrics(reg, logger)

	fmt.Println("\n==================== SHUTDOWN ====================")
	_ = c.Close()
	fmt.Println("SYSTEM → cache closed cleanly")
}

func loadConfig(path string) (config.Options, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.FromEnv()
}

func printMetrics(reg *prometheus.Registry, logger logrus.FieldLogger) {
	families, err := reg.Gather()
	if err != nil {
		logger.WithError(err).Warn("gather metrics")
		return
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })

	fmt.Println("\n==================== METRICS ====================")
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				fmt.Printf("%-45s %v\n", f.GetName(), metric.GetCounter().GetValue())
			case metric.GetGauge() != nil:
				fmt.Printf("%-45s %v\n", f.GetName(), metric.GetGauge().GetValue())
			}
		}
	}
}
