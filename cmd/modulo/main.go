package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wavesplatform/everybit/pkg/modulo"
	"github.com/wavesplatform/everybit/pkg/util/common"
)

// Prints the table of modulo(n, m) for n in [-5, 5) and m in [1, 5).
func main() {
	logger, _ := common.SetupLogger("INFO")
	defer func() { _ = logger.Sync() }()

	if err := printTable(os.Stdout); err != nil {
		zap.S().Fatalf("Failed to print modulo table: %v", err)
	}
}

func printTable(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for n := int64(-5); n < 5; n++ {
		for m := uint64(1); m < 5; m++ {
			if _, err := fmt.Fprintf(bw, "modulo(%d, %d) == %d\n", n, m, modulo.Modulo(n, m)); err != nil {
				return errors.Wrap(err, "write")
			}
		}
	}
	return errors.Wrap(bw.Flush(), "flush")
}
