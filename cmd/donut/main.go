// Command donut compresses or decompresses raw NES CHR tile data using the
// Donut codec.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/donutcodec/donut"
	"github.com/mewkiz/pkg/osutil"
	"github.com/pkg/errors"
)

func main() {
	var (
		decompress bool
		output     string
		force      bool
		quiet      bool
		noBitFlip  bool
		cycleLimit int
	)
	flag.BoolVar(&decompress, "d", false, "decompress instead of compress")
	flag.BoolVar(&decompress, "decompress", false, "decompress instead of compress")
	flag.StringVar(&output, "o", "", "output path (default: input path with .donut added or trimmed)")
	flag.StringVar(&output, "output", "", "output path (default: input path with .donut added or trimmed)")
	flag.BoolVar(&force, "f", false, "force overwrite")
	flag.BoolVar(&force, "force", false, "force overwrite")
	flag.BoolVar(&quiet, "q", false, "suppress progress output")
	flag.BoolVar(&quiet, "quiet", false, "suppress progress output")
	flag.BoolVar(&noBitFlip, "no-bit-flip", false, "disable the 135-degree rotated half of the encoder's search space")
	flag.IntVar(&cycleLimit, "cycle-limit", 0, "cap the simulated decode cost of a block (0: unlimited)")
	flag.Parse()

	for _, path := range flag.Args() {
		out := output
		if out == "" {
			out = defaultOutputPath(path, decompress)
		}
		if err := run(path, out, decompress, force, !noBitFlip, cycleLimit); err != nil {
			log.Fatalf("%+v", err)
		}
		if !quiet {
			fmt.Printf("%s -> %s\n", path, out)
		}
	}
}

func defaultOutputPath(path string, decompress bool) string {
	if decompress {
		return strings.TrimSuffix(path, ".donut")
	}
	return path + ".donut"
}

func run(inPath, outPath string, decompress, force, bitFlip bool, cycleLimit int) error {
	if !force && osutil.Exists(outPath) {
		return errors.Errorf("output file %q already present; use -f to force overwrite", outPath)
	}
	in, err := os.Open(inPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.WithStack(err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer out.Close()

	if decompress {
		if _, err := donut.Decompress(out, in); err != nil {
			return errors.WithStack(err)
		}
		return nil
	}
	opts := []donut.EncodeOption{donut.WithBitFlip(bitFlip)}
	if cycleLimit > 0 {
		opts = append(opts, donut.WithCycleLimit(cycleLimit))
	}
	if _, err := donut.Compress(out, in, opts...); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
