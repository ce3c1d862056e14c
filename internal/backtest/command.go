package backtest

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// killGrace bounds how long Wait keeps reading pipes after the process is
// killed; a grandchild holding stdout open would otherwise block forever
const killGrace = 2 * time.Second

// CommandExecutor runs one evaluator process
type CommandExecutor interface {
	// Run executes the command and returns stdout followed by stderr
	Run() ([]byte, error)
}

// CommandBuilder creates executors bound to a context
type CommandBuilder interface {
	BuildCommand(ctx context.Context, name string, args ...string) CommandExecutor
}

// RealCommandExecutor wraps exec.Cmd to implement CommandExecutor
type RealCommandExecutor struct {
	cmd *exec.Cmd
}

// Run executes the command. Output is captured even when the process exits
// with a non-zero status.
func (r *RealCommandExecutor) Run() ([]byte, error) {
	var stdout, stderr bytes.Buffer
	r.cmd.Stdout = &stdout
	r.cmd.Stderr = &stderr

	err := r.cmd.Run()

	out := make([]byte, 0, stdout.Len()+stderr.Len())
	out = append(out, stdout.Bytes()...)
	out = append(out, stderr.Bytes()...)
	return out, err
}

// RealCommandBuilder implements CommandBuilder using exec.CommandContext
type RealCommandBuilder struct{}

// NewRealCommandBuilder creates a new RealCommandBuilder
func NewRealCommandBuilder() *RealCommandBuilder {
	return &RealCommandBuilder{}
}

// BuildCommand creates a CommandExecutor killed when ctx is done
func (b *RealCommandBuilder) BuildCommand(ctx context.Context, name string, args ...string) CommandExecutor {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = killGrace
	return &RealCommandExecutor{cmd: cmd}
}

// MockCommandExecutor implements CommandExecutor for testing
type MockCommandExecutor struct {
	Output    []byte
	Err       error
	RunCalled bool
}

// Run returns the configured output and error
func (m *MockCommandExecutor) Run() ([]byte, error) {
	m.RunCalled = true
	return m.Output, m.Err
}

// MockBuiltCommand records details of a built command
type MockBuiltCommand struct {
	Name string
	Args []string
}

// MockCommandBuilder implements CommandBuilder for testing
type MockCommandBuilder struct {
	Commands []MockBuiltCommand
	// ExecutorFactory creates executors per command when set
	ExecutorFactory func(ctx context.Context, name string, args []string) CommandExecutor
}

// NewMockCommandBuilder creates a new MockCommandBuilder
func NewMockCommandBuilder() *MockCommandBuilder {
	return &MockCommandBuilder{}
}

// BuildCommand records the command and returns the factory's executor
func (b *MockCommandBuilder) BuildCommand(ctx context.Context, name string, args ...string) CommandExecutor {
	b.Commands = append(b.Commands, MockBuiltCommand{Name: name, Args: args})
	if b.ExecutorFactory != nil {
		return b.ExecutorFactory(ctx, name, args)
	}
	return &MockCommandExecutor{}
}

// LastCommand returns the most recently built command, or nil if none
func (b *MockCommandBuilder) LastCommand() *MockBuiltCommand {
	if len(b.Commands) == 0 {
		return nil
	}
	return &b.Commands[len(b.Commands)-1]
}
