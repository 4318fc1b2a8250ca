// Command bsend-bench fans out N synthetic transactions against the
// in-process fake messenger and reports latency/throughput.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redfish-fs/redfish"
	"github.com/redfish-fs/redfish/internal/logging"
)

func main() {
	var (
		fanOut      = flag.Int("n", 32, "Number of concurrent transactions to fan out")
		twoWay      = flag.Bool("two-way", true, "Use response-expecting (two-way) slots")
		timeout     = flag.Duration("timeout", 2*time.Second, "Per-transaction timeout")
		verbose     = flag.Bool("v", false, "Verbose output")
		payloadSize = flag.Int("payload", 64, "Simulated response payload size in bytes")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	fake := redfish.NewFakeMessenger()
	if *twoWay {
		redfish.ImmediateRoundTrip(fake, func(port uint16) *redfish.Message {
			return &redfish.Message{Type: 1, Payload: make([]byte, *payloadSize)}
		})
	} else {
		redfish.ImmediateSend(fake)
	}

	flags := redfish.Flags(0)
	if *twoWay {
		flags = redfish.FlagExpectResponse
	}

	c, err := redfish.NewCoordinator(fake, *fanOut)
	if err != nil {
		logger.Errorf("failed to create coordinator: %v", err)
		os.Exit(1)
	}

	logger.Infof("fanning out %d transactions (two_way=%v)", *fanOut, *twoWay)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Infof("received shutdown signal, cancelling in-flight adds")
		cancel()
	}()

	start := time.Now()
	for i := 0; i < *fanOut; i++ {
		if ctx.Err() != nil {
			logger.Warnf("add loop cancelled after %d of %d transactions", i, *fanOut)
			break
		}
		peerPort := uint16(1000 + i)
		if _, err := c.Add(ctx, flags, &redfish.Message{Type: 0, Payload: nil}, 0x7F000001, peerPort, *timeout, i); err != nil {
			logger.Warnf("add %d failed: %v", i, err)
		}
	}

	n := c.Join()
	elapsed := time.Since(start)

	snap := c.Metrics()
	fmt.Printf("issued=%d finished=%d elapsed=%s\n", n, snap.SlotsFinished, elapsed)
	fmt.Printf("adds_issued=%d adds_failed=%d recv_next_calls=%d reply_failures=%d\n",
		snap.AddsIssued, snap.AddsFailed, snap.RecvNextCalls, snap.ReplyFailures)
	fmt.Printf("avg_latency=%s\n", time.Duration(snap.AvgLatencyNs))

	c.Reset()
}
