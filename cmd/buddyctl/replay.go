package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fagongzi/buddy"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newReplayCmd())
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <trace>",
		Short: "Replay an allocation trace against a pool",
		Long: `The replay command runs every operation of a trace file against a new
pool. Each line is either "alloc <id> <bytes>" or "free <id>"; text after
'#' is ignored. Failed allocations are counted by reason and do not stop the
replay.

Example:
  buddyctl replay allocations.trace
  buddyctl replay --size 16777216 --layout allocations.trace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ops, err := parseTrace(f)
			if err != nil {
				return err
			}
			return withPool(func(p *buddy.Pool) error {
				return runReplay(cmd.OutOrStdout(), p, ops)
			})
		},
	}
}

type replayResult struct {
	allocs    int
	frees     int
	exhausted int
	oversized int
}

func replay(p *buddy.Pool, ops []op) (replayResult, error) {
	var res replayResult
	live := make(map[string]buddy.Handle)
	for _, o := range ops {
		switch o.kind {
		case opAlloc:
			if h := live[o.id]; h != buddy.NilHandle {
				return res, errors.Newf("line %d: %q is already allocated", o.line, o.id)
			}
			h, err := p.Alloc(o.size)
			switch {
			case errors.Is(err, buddy.ErrPoolExhausted):
				res.exhausted++
			case errors.Is(err, buddy.ErrOutOfCapacity):
				res.oversized++
			case err != nil:
				return res, err
			case h != buddy.NilHandle:
				res.allocs++
			}
			// a failed or empty allocation leaves a nil handle, releasing it is a no-op
			live[o.id] = h
		case opFree:
			h, ok := live[o.id]
			if !ok {
				return res, errors.Newf("line %d: %q is not allocated", o.line, o.id)
			}
			delete(live, o.id)
			if h == buddy.NilHandle {
				continue
			}
			p.Free(h)
			res.frees++
		}
	}
	return res, nil
}

func runReplay(w io.Writer, p *buddy.Pool, ops []op) error {
	res, err := replay(p, ops)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Operations:  %d (%d allocated, %d freed, %d exhausted, %d oversized)\n",
		len(ops), res.allocs, res.frees, res.exhausted, res.oversized)
	printStats(w, p.Stats())
	if layout {
		printLayout(w, p)
	}
	return p.Validate()
}
