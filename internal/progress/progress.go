// Package progress drives the loading indicator shown while an analysis is
// outstanding. It carries no information about real progress; steps advance
// on a fixed interval and stop the moment the work settles.
package progress

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultInterval is the time between step advances.
const DefaultInterval = 2 * time.Second

// Step is one loading message.
type Step struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// DefaultSteps are shown in order; the last one holds until the work ends.
var DefaultSteps = []Step{
	{Icon: "🔍", Text: "Gathering intelligence..."},
	{Icon: "🧠", Text: "Processing data..."},
	{Icon: "📊", Text: "Analyzing patterns..."},
	{Icon: "✨", Text: "Finalizing insights..."},
}

// Track runs work while advancing through steps every interval. onStep is
// called with step 0 before work starts and never after Track returns.
// The ticker is stopped whether work succeeds or fails; work's error is
// returned unchanged.
func Track(ctx context.Context, interval time.Duration, steps []Step, onStep func(int, Step), work func(context.Context) error) error {
	if len(steps) == 0 || onStep == nil {
		return work(ctx)
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	onStep(0, steps[0])

	stop := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		t := time.NewTicker(interval)
		defer t.Stop()

		current := 0
		for {
			select {
			case <-stop:
				return nil
			case <-ctx.Done():
				return nil
			case <-t.C:
				select {
				case <-stop:
					return nil
				default:
				}
				if current < len(steps)-1 {
					current++
					onStep(current, steps[current])
				}
			}
		}
	})

	err := work(ctx)
	close(stop)
	_ = g.Wait()
	return err
}
