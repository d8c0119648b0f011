package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff"
	uuid "github.com/nu7hatch/gouuid"
	"github.com/spf13/cobra"

	"github.com/addthis/hydra-dispatch/sched"
	"github.com/addthis/hydra-dispatch/sched/dispatch"
	"github.com/addthis/hydra-dispatch/sched/queue"
)

type simulateOpts struct {
	hosts          int
	slotsPerHost   int
	tasks          int
	priorityLevels int
}

func newSimulateCmd() *cobra.Command {
	opts := &simulateOpts{}
	c := &cobra.Command{
		Use:   "simulate",
		Short: "seed an in-memory cluster and drain the queue by priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts)
		},
	}
	c.Flags().IntVar(&opts.hosts, "hosts", 4, "number of worker hosts to seed")
	c.Flags().IntVar(&opts.slotsPerHost, "slots-per-host", 4, "available slots per host")
	c.Flags().IntVar(&opts.tasks, "tasks", 20, "number of tasks to enqueue")
	c.Flags().IntVar(&opts.priorityLevels, "priority-levels", 3, "number of distinct priority levels to scatter tasks across")
	return c
}

func runSimulate(opts *simulateOpts) error {
	clock := dispatch.NewSystemClock()
	cfg := sched.DefaultConfig()
	ledger := dispatch.NewLedger(clock, cfg.AvailRefreshMs, nil)
	gate := dispatch.NewMigrationGate(cfg.MigrationIntervalPerHostMs)
	policy := dispatch.NewPolicy(cfg, clock, ledger, gate, nil)
	q := queue.New(nil)

	hosts := seedHosts(opts.hosts, opts.slotsPerHost)
	policy.RefreshLedger(hosts, clock.NowMs())

	if err := seedTasks(q, opts.tasks, opts.priorityLevels, clock.NowMs()); err != nil {
		return err
	}

	fmt.Printf("seeded %d hosts (%d slots each) and %d tasks across %d priority levels\n",
		opts.hosts, opts.slotsPerHost, opts.tasks, opts.priorityLevels)

	return drain(q, policy, hosts, clock)
}

func seedHosts(n, slotsPerHost int) []sched.HostState {
	hosts := make([]sched.HostState, n)
	for i := range hosts {
		hosts[i] = sched.HostState{
			HostID:          fmt.Sprintf("host-%02d", i),
			AvailableSlots:  slotsPerHost,
			MaxSlots:        slotsPerHost,
			MeanActiveTasks: float64(i % 3),
			Up:              true,
		}
	}
	return hosts
}

func seedTasks(q *queue.PriorityQueue, n, priorityLevels int, nowMs int64) error {
	if priorityLevels < 1 {
		priorityLevels = 1
	}
	for i := 0; i < n; i++ {
		jobUUID, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("generating job id: %w", err)
		}
		priority := rand.Intn(priorityLevels)
		handle := sched.NewTaskHandle(jobUUID.String(), 0)
		q.Enqueue(priority, handle, false, false, nowMs)
	}
	return nil
}

// drain repeatedly walks the queue looking for a task it can kick to a
// host with an effective free slot, backing off between passes once the
// queue stops yielding kickable work (e.g. every remaining host is at
// its last slot and still inside the delay window).
func drain(q *queue.PriorityQueue, policy *dispatch.Policy, hosts []sched.HostState, clock dispatch.Clock) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 5 * time.Second

	for {
		kicked := false
		var stop dispatch.StopFlag
		q.Iterate(&stop, func(priority int, item sched.QueuedItem) queue.IterDecision {
			nowMs := clock.NowMs()
			best, ok := policy.PickHost(hosts, true)
			if !ok {
				return queue.StopIteration
			}
			if !policy.MayKickNewTaskOn(best, item.TimeOnQueueMs(nowMs)) {
				return queue.Continue
			}
			policy.MarkHostKicked(best.HostID)
			fmt.Printf("kicked %s (priority %d) to %s\n", item.Handle, priority, best.HostID)
			kicked = true
			return queue.RemoveCurrent
		})

		if q.Size() == 0 {
			fmt.Println("queue drained")
			return nil
		}
		if kicked {
			bo.Reset()
			continue
		}

		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			fmt.Printf("giving up with %d task(s) still queued\n", q.Size())
			return nil
		}
		time.Sleep(wait)
	}
}
