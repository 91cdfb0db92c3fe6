// Package sandbox implements the sandboxed command executor of spec.md
// §4.6: a whitelisted, no-shell, environment-scrubbed, timeout-bounded
// process runner used by command-based collectors.
package sandbox

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// Config fixes the sandbox's immutable policy for its lifetime.
type Config struct {
	// Whitelist lists program names and/or absolute paths allowed to run.
	Whitelist []string
	// DefaultTimeout applies when a CommandRequest does not set one.
	DefaultTimeout time.Duration
}

// Executor implements ports.CommandExecutor. It is safe for concurrent
// use; its whitelist is immutable after construction.
type Executor struct {
	whitelist      map[string]struct{}
	defaultTimeout time.Duration
}

// New builds an Executor from cfg.
func New(cfg Config) *Executor {
	allowed := make(map[string]struct{}, len(cfg.Whitelist))
	for _, name := range cfg.Whitelist {
		allowed[name] = struct{}{}
	}
	timeout := cfg.DefaultTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Executor{whitelist: allowed, defaultTimeout: timeout}
}

// Run invokes req.Program with req.Args as a direct argv vector — no
// shell, so no expansion, pipes, globs, or redirection are possible. The
// child sees only the environment variables explicitly listed in
// req.Env.
func (e *Executor) Run(ctx context.Context, req ports.CommandRequest) (*ports.CommandResult, error) {
	if _, ok := e.whitelist[req.Program]; !ok {
		return nil, &entities.SandboxError{
			Kind:    "CommandNotAllowed",
			Command: req.Program,
			Detail:  "program is not in the sandbox whitelist",
		}
	}

	timeout := e.defaultTimeout
	if req.TimeoutSec > 0 {
		timeout = time.Duration(req.TimeoutSec) * time.Second
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, req.Program, req.Args...)
	cmd.Env = flattenEnv(req.Env)
	cmd.Stdin = nil

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, &entities.SandboxError{
			Kind:    "Timeout",
			Command: req.Program,
			Detail:  "command exceeded its timeout",
			Cause:   err,
		}
	}

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, &entities.SandboxError{
				Kind:    "SpawnFailed",
				Command: req.Program,
				Detail:  err.Error(),
				Cause:   err,
			}
		}
	}

	return &ports.CommandResult{
		ExitCode: exitCode,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: duration.Milliseconds(),
	}, nil
}

func flattenEnv(env map[string]string) []string {
	if len(env) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}

var _ ports.CommandExecutor = (*Executor)(nil)
