package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/harriteja/matchcore/matchfinder"
	"github.com/harriteja/matchcore/profile"
)

type scanOptions struct {
	level       int
	historySize uint32
	numHashByte int
	cutValue    int
	btMode      bool
	cehc        bool
	dump        bool
	verbose     bool
}

func (o *scanOptions) registerFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.level, "level", profile.DefaultLevel, "compression level 1..12, picks a default Algo/CutValue")
	fs.Uint32Var(&o.historySize, "history-size", 1<<16, "bytes a match may reference back")
	fs.IntVar(&o.numHashByte, "hash-bytes", 0, "main hash width 2..5 (0: derive from --level)")
	fs.IntVar(&o.cutValue, "cut-value", 0, "chain/tree walk budget (0: derive from --level)")
	fs.BoolVar(&o.btMode, "bt", false, "force the binary-search-tree dictionary store")
	fs.BoolVar(&o.cehc, "cehc", false, "force the cache-efficient hash-chain dictionary store")
	fs.BoolVar(&o.dump, "dump", false, "write raw (length, distance-1) pairs to stdout instead of a summary")
	fs.BoolVar(&o.verbose, "verbose", false, "enable debug logging from the Finder")
}

func newScanCmd() *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Run a Finder over a file and report match statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], opts)
		},
	}
	opts.registerFlags(cmd.Flags())
	return cmd
}

func runScan(cmd *cobra.Command, path string, opts *scanOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("mfctl: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("mfctl: %w", err)
	}

	cfg := profile.ForLevel(opts.level, opts.historySize, uint64(info.Size()))
	if opts.numHashByte != 0 {
		cfg.NumHashBytes = opts.numHashByte
	}
	if opts.cutValue != 0 {
		cfg.CutValue = opts.cutValue
	}
	if opts.cehc {
		cfg.CacheEfficientSearch = true
		cfg.BTMode = false
	} else if opts.btMode {
		cfg.BTMode = true
		cfg.CacheEfficientSearch = false
	}

	var log *zap.Logger
	if opts.verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("mfctl: build logger: %w", err)
		}
	} else {
		log = zap.NewNop()
	}
	cfg.Logger = log

	finder, err := matchfinder.Create(cfg, matchfinder.FromReader(f))
	if err != nil {
		return fmt.Errorf("mfctl: create finder: %w", err)
	}
	if err := finder.Init(); err != nil {
		return fmt.Errorf("mfctl: init finder: %w", err)
	}

	var (
		positions    uint64
		matchedPos   uint64
		longest      matchfinder.Match
		totalMatched uint64
		matches      []matchfinder.Match
	)

	out := cmd.OutOrStdout()
	for finder.AvailableBytes() > 0 {
		matches = matches[:0]
		matches, err = finder.GetMatches(matches)
		if err != nil {
			return fmt.Errorf("mfctl: get matches at position %d: %w", positions, err)
		}
		positions++

		if len(matches) == 0 {
			continue
		}
		matchedPos++
		best := matches[len(matches)-1]
		totalMatched += uint64(best.Len)
		if best.Len > longest.Len {
			longest = best
		}
		if opts.dump {
			var buf []byte
			buf = matchfinder.AppendBinary(buf, matches)
			if _, err := out.Write(buf); err != nil {
				return fmt.Errorf("mfctl: write dump: %w", err)
			}
		}
	}

	if opts.dump {
		return nil
	}

	fmt.Fprintf(out, "algo:            %s\n", profile.Select(cfg))
	fmt.Fprintf(out, "positions:       %d\n", positions)
	fmt.Fprintf(out, "matched:         %d (%.1f%%)\n", matchedPos, percent(matchedPos, positions))
	fmt.Fprintf(out, "longest match:   len=%d distance=%d\n", longest.Len, longest.Distance())
	fmt.Fprintf(out, "avg match len:   %.2f\n", average(totalMatched, matchedPos))
	return nil
}

func percent(n, d uint64) float64 {
	if d == 0 {
		return 0
	}
	return 100 * float64(n) / float64(d)
}

func average(total, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}
