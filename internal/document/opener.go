package document

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// SystemOpener uses the platform's open and print commands
type SystemOpener struct{}

// Open shows target in the default application
func (SystemOpener) Open(ctx context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	go cmd.Wait()
	return nil
}

// Print sends the file at path to the default printer
func (SystemOpener) Print(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "mshtml.dll,PrintHTML", path)
	default:
		cmd = exec.CommandContext(ctx, "lp", path)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Path, err, out)
	}
	return nil
}
