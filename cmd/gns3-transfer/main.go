// gns3-transfer copies or moves GNS3 directory trees with progress reporting
// and cooperative cancellation.
package main

import (
	"errors"
	"os"

	"github.com/gns3/gns3-desktop/internal/cli"
	"github.com/gns3/gns3-desktop/internal/progress"
	"github.com/gns3/gns3-desktop/internal/version"
)

// Version information, overridden with -ldflags at release time
var (
	Version   = "v0.3.0-dev"
	BuildTime = "unknown"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		if errors.Is(err, progress.ErrCancelled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
