//go:build !unix

package launcher

import (
	"os/exec"
	"time"
)

func configureProcAttrs(cmd *exec.Cmd) {
	cmd.WaitDelay = 10 * time.Second
}
