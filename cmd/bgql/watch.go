package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"bgql/internal/config"
	"bgql/internal/driver"
)

const watchDebounce = 150 * time.Millisecond

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] <file.bgql|directory>",
		Short: "Re-run diagnostics whenever a schema file changes",
		Long: `Watch runs diag once and then again after every write to a *.bgql file
(or bgql.toml) under the watched directory. Stop it with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
	addDiagFlags(cmd)
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	f, err := readDiagFlags(cmd, input)
	if err != nil {
		return err
	}
	// прогресс-бар мешает перерисовке
	f.uiMode = uiModeOff

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	root := input
	if st, err := os.Stat(input); err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	} else if !st.IsDir() {
		root = filepath.Dir(input)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := watchTree(watcher, root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	rerun := func(reason string) {
		if reason != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "\nchange detected: %s\n", reason)
		}
		// перечитываем bgql.toml на каждом прогоне
		cfg, err := loadConfig(cmd, input)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			return
		}
		f.opts.Config = cfg
		if _, err := diagnoseOnce(cmd, input, f, nil); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	}
	rerun("")
	return watchLoop(ctx, watcher, cmd.ErrOrStderr(), rerun)
}

// watchTree adds root and its non-hidden subdirectories to the watcher.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// isWatchedFile reports whether a change to path should trigger a rerun.
func isWatchedFile(path string) bool {
	return filepath.Ext(path) == driver.Extension || filepath.Base(path) == config.FileName
}

// watchLoop calls rerun once per burst of relevant events until ctx is done.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, errOut io.Writer, rerun func(string)) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					_ = watchTree(watcher, event.Name)
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isWatchedFile(event.Name) {
				continue
			}
			pending = filepath.Base(event.Name)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			rerun(pending)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "watcher error: %v\n", err)
		}
	}
}
