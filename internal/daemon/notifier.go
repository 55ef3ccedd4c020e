package daemon

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Notifier tells the CMS that new rows are waiting
type Notifier interface {
	Notify(ctx context.Context, createLimit int) error
}

// NopNotifier does nothing. It is used when no CMS is configured.
type NopNotifier struct{}

// Notify implements Notifier
func (NopNotifier) Notify(context.Context, int) error {
	return nil
}

// DrushNotifier runs the CMS check command through drush
type DrushNotifier struct {
	DrupalPath string
}

// Command returns the drush invocation for createLimit
func (n DrushNotifier) Command(ctx context.Context, createLimit int) *exec.Cmd {
	drush := filepath.Join(n.DrupalPath, "vendor", "bin", "drush")
	return exec.CommandContext(ctx, drush, "lrvsCheck-db", strconv.Itoa(createLimit))
}

// Notify implements Notifier
func (n DrushNotifier) Notify(ctx context.Context, createLimit int) error {
	cmd := n.Command(ctx, createLimit)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("drush failed: %w: %s", err, msg)
		}
		return fmt.Errorf("drush failed: %w", err)
	}
	return nil
}
