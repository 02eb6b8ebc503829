package clip

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	// Clipboard utilities normally answer instantly; anything slower
	// means a wedged display server and the poll loop must not stall
	// behind it.
	execReadTimeout  = time.Second
	execWriteTimeout = 2 * time.Second
)

// command is one clipboard utility invocation.
type command struct {
	name string
	args []string
}

// tool pairs the read and write invocations of one platform utility.
type tool struct {
	read  command
	write command
}

// execAccessor shells out to a platform clipboard utility.
type execAccessor struct {
	tool tool
}

// newExecAccessor picks the first platform tool whose binary is on PATH.
// Platform tool tables live in the exec_*.go files; a platform with no
// table at all fails here, at startup.
func newExecAccessor() (Accessor, error) {
	tools, err := platformTools()
	if err != nil {
		return nil, err
	}
	for _, t := range tools {
		if _, err := exec.LookPath(t.read.name); err == nil {
			return &execAccessor{tool: t}, nil
		}
	}
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.read.name
	}
	return nil, fmt.Errorf("no clipboard utility found (looked for %s)", strings.Join(names, ", "))
}

func (a *execAccessor) Name() string {
	return fmt.Sprintf("exec (%s)", a.tool.read.name)
}

func (a *execAccessor) Read() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), execReadTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, a.tool.read.name, a.tool.read.args...).Output()
	if err != nil {
		return "", fmt.Errorf("clipboard read (%s): %w", a.tool.read.name, err)
	}
	return string(out), nil
}

func (a *execAccessor) Write(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), execWriteTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.tool.write.name, a.tool.write.args...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clipboard write (%s): %w", a.tool.write.name, err)
	}
	return nil
}
