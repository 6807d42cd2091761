package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/trickstertwo/xlog"

	"github.com/trickstertwo/xmsg"
	"github.com/trickstertwo/xmsg/config"
	"github.com/trickstertwo/xmsg/driver"
)

const (
	typePlayerMoved  = "player.moved"
	typeScoreChanged = "score.changed"
	typeDoorOpened   = "door.opened"
	typeKeyPressed   = "key.pressed"
)

func demoCmd() *cobra.Command {
	var (
		delay   time.Duration
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Send immediate and delayed messages through a router and print them as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Logging)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runDemo(ctx, cmd.OutOrStdout(), cfg, logger, delay, timeout)
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", 250*time.Millisecond, "Delay applied to the delayed messages")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Give up if not every message arrived by then")

	return cmd
}

func runDemo(ctx context.Context, out io.Writer, cfg *config.Config, logger *xlog.Logger, delay, timeout time.Duration) error {
	types := append([]string{typePlayerMoved, typeScoreChanged, typeDoorOpened, typeKeyPressed}, cfg.Router.Types...)

	router, closeRouter, err := xmsg.New(func(b *xmsg.RouterBuilder) {
		b.WithLogger(logger).WithTypes(types...)
		if cfg.Router.ObserverWorkers > 0 || cfg.Router.ObserverBuffer > 0 {
			b.WithObserverPool(cfg.Router.ObserverWorkers, cfg.Router.ObserverBuffer)
		}
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}
	defer func() { _ = closeRouter() }()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	const expected = 6
	var received atomic.Int64

	d := driver.New(router, cfg.Driver.ToDriver(), driver.WithLogger(logger))
	show := func(ctx context.Context, msg *xmsg.Message) error {
		fmt.Fprintf(out, "%-14s %-28s delivered=%t after=%v\n",
			msg.Name, msg.Payload, msg.Delivered(), time.Since(msg.ProducedAt).Round(time.Millisecond))
		if received.Add(1) == expected {
			cancel()
		}
		return nil
	}
	for _, name := range types {
		if err := d.Handle(name, show); err != nil {
			return err
		}
	}

	sends := []struct {
		name  string
		p     xmsg.Payload
		delay time.Duration
	}{
		{typePlayerMoved, xmsg.NewVec3(xmsg.Vec3{X: 1, Y: 2, Z: 3}), 0},
		{typeScoreChanged, xmsg.NewInt(100), 0},
		{typeKeyPressed, xmsg.NewChar('w'), 0},
		{typeDoorOpened, xmsg.NewBool(true), delay},
		{typeScoreChanged, xmsg.NewInt(250), delay},
		{typePlayerMoved, xmsg.NewVec3(xmsg.Vec3{X: 4, Y: 5, Z: 6}), delay * 2},
	}
	for _, s := range sends {
		if s.delay > 0 {
			err = router.SendDelayed(s.name, s.p, s.delay)
		} else {
			err = router.Send(s.name, s.p)
		}
		if err != nil {
			return err
		}
	}

	// Unregistered names are dropped and reported, never fatal.
	if err := router.Send("player.moevd", xmsg.NewInt(1)); errors.Is(err, xmsg.ErrUnregisteredType) {
		fmt.Fprintf(out, "dropped: %v\n", err)
	}

	logger.Info().Str("delay", delay.String()).Msg("demo running")
	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		if received.Load() < expected {
			return fmt.Errorf("demo: received %d/%d messages: %w", received.Load(), expected, err)
		}
	}

	m := router.GetMetrics()
	fmt.Fprintf(out, "sent=%d delayed=%d promoted=%d received=%d dropped=%d\n",
		m.Sent, m.Delayed, m.Promoted, m.Received, m.Dropped)
	return nil
}
