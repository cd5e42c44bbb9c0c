package fsops

import (
	"os"
	"sync"

	"github.com/sidekick-cli/sidekick/internal/safety"
)

var (
	rootOnce    sync.Once
	absRoot     string
	initRootErr error
)

func initRoot() {
	absRoot, initRootErr = safety.InitSandboxRoot(os.Getenv("SK_SANDBOX_ROOT"))
}

// Root returns the cached absolute workspace root, initialising it once on
// first use. Tools keep the root the process started with; mid-run env
// changes have no effect.
func Root() (string, error) {
	rootOnce.Do(initRoot)
	return absRoot, initRootErr
}
