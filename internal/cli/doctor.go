package cli

import (
	"fmt"
	"os"

	ps "github.com/mitchellh/go-ps"
)

type DoctorCmd struct{}

// Run performs health checks: storage reachable, entity counts, dangling
// completion sweep, and a scan for other running routine processes that
// could race on the same database file.
func (c *DoctorCmd) Run(ctx *Context) error {
	fmt.Printf("Storage: %s\n", ctx.Backend.Location())

	if err := ctx.Open(); err != nil {
		fmt.Printf("  %s storage unavailable: %v\n", missedStyle.Render("✗"), err)
		return err
	}
	fmt.Printf("  %s storage loads\n", completedStyle.Render("✓"))
	fmt.Printf("  %s %d activities (%d active), %d completions\n",
		completedStyle.Render("✓"),
		ctx.Activities.Len(), len(ctx.Activities.AllActive()), ctx.Completions.Len())

	// Open already purged once; a second sweep proves the purge converged.
	purged, err := ctx.Completions.PurgeDangling(ctx.Activities.Contains)
	if err != nil {
		return err
	}
	if purged > 0 {
		fmt.Printf("  %s purged %d dangling completion(s) that survived startup\n",
			excusedStyle.Render("!"), purged)
	} else {
		fmt.Printf("  %s no dangling completions\n", completedStyle.Render("✓"))
	}

	others, err := otherRoutineProcesses()
	if err != nil {
		fmt.Printf("  %s could not scan processes: %v\n", excusedStyle.Render("!"), err)
		return nil
	}
	if len(others) > 0 {
		fmt.Printf("  %s %d other routine process(es) running: %v\n",
			excusedStyle.Render("!"), len(others), others)
	} else {
		fmt.Printf("  %s no concurrent routine processes\n", completedStyle.Render("✓"))
	}

	return nil
}

func otherRoutineProcesses() ([]int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, err
	}

	self := os.Getpid()
	var pids []int
	for _, p := range procs {
		if p.Pid() != self && p.Executable() == "routine" {
			pids = append(pids, p.Pid())
		}
	}
	return pids, nil
}
