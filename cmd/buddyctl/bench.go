package main

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/eapache/queue"
	"github.com/fagongzi/buddy"
	"github.com/spf13/cobra"
)

var (
	benchOps     int
	benchSeed    int64
	benchMaxSize uint64
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchOps, "ops", 100000, "Number of operations")
	cmd.Flags().Int64Var(&benchSeed, "seed", 1, "Random seed")
	cmd.Flags().Uint64Var(&benchMaxSize, "max", 64*1024, "Largest allocation in bytes")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run a random allocation workload",
		Long: `The bench command runs a random mix of allocations and releases. Live
allocations are released oldest first; when the pool is exhausted the oldest
allocation is released and the request is retried once.

Example:
  buddyctl bench --ops 1000000 --seed 7 --max 4096`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := benchConfig{ops: benchOps, seed: benchSeed, maxSize: benchMaxSize}
			return withPool(func(p *buddy.Pool) error {
				return runBench(cmd.OutOrStdout(), p, cfg)
			})
		},
	}
}

type benchConfig struct {
	ops     int
	seed    int64
	maxSize uint64
}

type benchResult struct {
	allocs       int
	frees        int
	retried      int
	failed       int
	peakReserved uint64
	elapsed      time.Duration
}

func bench(p *buddy.Pool, cfg benchConfig) (benchResult, error) {
	var res benchResult
	if cfg.maxSize == 0 {
		return res, errors.New("max size must be positive")
	}
	if cfg.maxSize > math.MaxInt64 {
		return res, errors.Newf("max size %d exceeds %d", cfg.maxSize, uint64(math.MaxInt64))
	}

	rnd := rand.New(rand.NewSource(cfg.seed))
	live := queue.New()
	freeOldest := func() {
		p.Free(live.Remove().(buddy.Handle))
		res.frees++
	}

	start := time.Now()
	for i := 0; i < cfg.ops; i++ {
		if live.Length() > 0 && rnd.Intn(3) == 0 {
			freeOldest()
			continue
		}

		size := uint64(rnd.Int63n(int64(cfg.maxSize))) + 1
		h, err := p.Alloc(size)
		if errors.Is(err, buddy.ErrPoolExhausted) && live.Length() > 0 {
			freeOldest()
			res.retried++
			h, err = p.Alloc(size)
		}
		if err != nil {
			res.failed++
			continue
		}
		live.Add(h)
		res.allocs++
		if reserved := p.Stats().ReservedBytes; reserved > res.peakReserved {
			res.peakReserved = reserved
		}
	}
	res.elapsed = time.Since(start)

	if err := p.Validate(); err != nil {
		return res, err
	}
	for live.Length() > 0 {
		freeOldest()
	}
	return res, p.Validate()
}

func runBench(w io.Writer, p *buddy.Pool, cfg benchConfig) error {
	res, err := bench(p, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Operations:  %d in %s\n", cfg.ops, res.elapsed)
	fmt.Fprintf(w, "Allocated:   %d (%d retried after release, %d failed)\n", res.allocs, res.retried, res.failed)
	fmt.Fprintf(w, "Released:    %d\n", res.frees)
	fmt.Fprintf(w, "Peak:        %d of %d bytes reserved\n", res.peakReserved, p.Size())
	printStats(w, p.Stats())
	if layout {
		printLayout(w, p)
	}
	return nil
}
