package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/addthis/hydra-dispatch/sched"
	"github.com/addthis/hydra-dispatch/sched/dispatch"
)

func newRankCmd() *cobra.Command {
	var hosts int
	c := &cobra.Command{
		Use:   "rank",
		Short: "print the host ranking order for a handful of synthetic hosts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(hosts)
		},
	}
	c.Flags().IntVar(&hosts, "hosts", 5, "number of synthetic hosts to rank")
	return c
}

func runRank(n int) error {
	ledger := dispatch.NewLedger(dispatch.NewSystemClock(), 0, nil)
	candidates := make([]sched.HostState, n)
	for i := range candidates {
		candidates[i] = sched.HostState{
			HostID:          fmt.Sprintf("host-%02d", i),
			MeanActiveTasks: float64(n-i) / 2.0,
		}
		for s := 0; s < i%3; s++ {
			ledger.MarkAvailable(candidates[i].HostID)
		}
	}

	remaining := append([]sched.HostState{}, candidates...)
	rank := 1
	for len(remaining) > 0 {
		best, ok := dispatch.BestHost(remaining, ledger)
		if !ok {
			break
		}
		fmt.Printf("%d. %s (free slots: %d, mean active: %.1f)\n",
			rank, best.HostID, ledger.Snapshot(best.HostID), best.MeanActiveTasks)
		remaining = removeHost(remaining, best.HostID)
		rank++
	}
	return nil
}

func removeHost(hosts []sched.HostState, hostID string) []sched.HostState {
	out := make([]sched.HostState, 0, len(hosts))
	for _, h := range hosts {
		if h.HostID != hostID {
			out = append(out, h)
		}
	}
	return out
}
