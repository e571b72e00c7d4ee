package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chessrules/internal/shell"
	"github.com/hailam/chessrules/internal/storage"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	dbDir      = flag.String("db", "", "database directory (default: platform data dir, or CHESSRULES_DB)")
	noStore    = flag.Bool("nostore", false, "run without saved games and statistics")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	sh := shell.New(store, os.Stdout)
	if err := sh.Run(os.Stdin); err != nil {
		log.Printf("read error: %v", err)
	}
}

// openStore opens the saved-game database, or returns nil when storage is
// disabled or unavailable.
func openStore() *storage.Storage {
	if *noStore {
		return nil
	}

	dir := *dbDir
	if dir == "" {
		dir = os.Getenv("CHESSRULES_DB")
	}

	var (
		store *storage.Storage
		err   error
	)
	if dir == "" {
		store, err = storage.NewStorage()
	} else {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("Warning: storage disabled: %v", err)
			return nil
		}
		store, err = storage.Open(dir)
	}
	if err != nil {
		log.Printf("Warning: storage disabled: %v", err)
		return nil
	}
	return store
}
