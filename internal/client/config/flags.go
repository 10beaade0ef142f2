package config

import (
	"flag"
	"os"
	"time"

	"github.com/memoirapp/mediakit/internal/flagx"
)

// parseFlags overlays selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   backend base URL
//	-e string   storage endpoint override
//	-d string   data directory
//	-s string   default scope (personal/couple)
//	-t int      request timeout, seconds
//	-p int      feed page size
//	-path-style use path-style bucket addressing
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-e", "-d", "-s", "-t", "-p", "-path-style"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&config.APIBaseURL, "a", config.APIBaseURL, "backend base URL")
	fs.StringVar(&config.StorageEndpoint, "e", config.StorageEndpoint, "storage endpoint override")
	fs.StringVar(&config.DataDir, "d", config.DataDir, "local data directory")
	fs.StringVar(&config.DefaultScope, "s", config.DefaultScope, "default storage scope")
	fs.BoolVar(&config.StoragePathStyle, "path-style", config.StoragePathStyle, "use path-style bucket addressing")

	requestTimeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&config.PageSize, "p", config.PageSize, "feed page size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
