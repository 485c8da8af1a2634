// Command sha1e3sum prints SHA1-E3 digests of files, stdin, or literal
// strings. It is a thin wrapper over the sha1e3 package; all storage and
// presentation concerns live here, none of the algorithm does.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/p7r0x7/vainpath"
	flag "github.com/spf13/pflag"

	"github.com/securehash/sha1e3"
)

var (
	pString   = flag.BoolP("string", "s", false, "treat arguments as literal strings to hash")
	pPortable = flag.BoolP("portable", "P", false, "use the portable diffusion core")
	pQuiet    = flag.BoolP("quiet", "q", false, "print digests only, one per line")
	pTime     = flag.BoolP("time", "t", false, "report the time taken per target")
	pHelp     = flag.BoolP("help", "h", false, "print this usage menu")
)

func main() { os.Exit(run()) }

func run() int {
	flag.Parse()
	if *pHelp || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: sha1e3sum [-sPqt] -|PATH...")
		fmt.Fprintln(os.Stderr, "       sha1e3sum [-Pqt] -s STRING...")
		flag.PrintDefaults()
		if *pHelp {
			return 0
		}
		return 2
	}

	strategy := sha1e3.Accelerated
	if *pPortable {
		strategy = sha1e3.Portable
	}

	exit := 0
	for _, target := range flag.Args() {
		start := time.Now()
		sum, label, err := digest(target, strategy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sha1e3sum: %s: %v\n", target, err)
			exit = 1
			continue
		}

		switch {
		case *pQuiet:
			fmt.Println(sum)
		case *pTime:
			fmt.Printf("%s  %s (%s)\n", sum, label, time.Since(start).Truncate(10*time.Microsecond))
		default:
			fmt.Printf("%s  %s\n", sum, label)
		}
	}
	return exit
}

func digest(target string, s sha1e3.Strategy) (sum, label string, err error) {
	h := sha1e3.NewStrategy(s)

	switch {
	case *pString:
		h.WriteString(target)
		return h.SumHex(), `"` + target + `"`, nil

	case target == "-":
		if _, err := io.Copy(h, os.Stdin); err != nil {
			return "", "", err
		}
		return h.SumHex(), os.Stdin.Name(), nil

	default:
		f, err := os.Open(target)
		if err != nil {
			return "", "", err
		}
		defer f.Close()
		if _, err := io.Copy(h, f); err != nil {
			return "", "", err
		}
		return h.SumHex(), vainpath.Simplify(target), nil
	}
}
