// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hooktools

import (
	"context"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/utils/v4/exec"
	"github.com/kballard/go-shellquote"
)

// Runner runs a hook tool and returns its standard output.
type Runner interface {
	Run(ctx context.Context, tool string, args ...string) ([]byte, error)
}

// ExecRunner runs hook tools as child processes. The hook tools are on
// the PATH of every hook invocation.
type ExecRunner struct {
	// WorkingDir defaults to the current directory.
	WorkingDir string

	// Environment defaults to the environment of this process, which
	// carries the hook context the tools need.
	Environment []string
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, tool string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	env := r.Environment
	if env == nil {
		env = os.Environ()
	}
	command := shellquote.Join(append([]string{tool}, args...)...)
	resp, err := exec.RunCommands(exec.RunParams{
		Commands:    command,
		WorkingDir:  r.WorkingDir,
		Environment: env,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "running %s", tool)
	}
	if resp.Code != 0 {
		msg := strings.TrimSpace(string(resp.Stderr))
		if msg == "" {
			msg = strings.TrimSpace(string(resp.Stdout))
		}
		return nil, errors.Errorf("%s failed (%d): %s", tool, resp.Code, msg)
	}
	return resp.Stdout, nil
}
