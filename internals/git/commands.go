package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OriginURL returns the fetch URL of the "origin" remote of the checkout
// containing dir.
func OriginURL(ctx context.Context, dir string) (string, error) {
	out, err := run(ctx, dir, "git", "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("read origin remote: %w", err)
	}
	u := strings.TrimSpace(out)
	if u == "" {
		return "", fmt.Errorf("origin remote has no URL")
	}
	return u, nil
}

func run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run %q: %w\nstderr: %s", name+" "+strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String(), nil
}
