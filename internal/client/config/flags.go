package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/dirkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the directory API (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-d string   path of the local database file
//	-l int      default page size for listings
//	-v          dump HTTP round trips
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-l", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the directory API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database file")
	fs.IntVar(&cfg.PageLimit, "l", cfg.PageLimit, "default page size for listings")
	fs.BoolVar(&cfg.Debug, "v", cfg.Debug, "dump HTTP round trips")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
