//go:build !unix

package executor

import "os/exec"

func killProcessGroupOnCancel(*exec.Cmd) {}
