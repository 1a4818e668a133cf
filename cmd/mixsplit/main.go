package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/chefkjd/MixSplitR/internal/config"
	"github.com/chefkjd/MixSplitR/internal/process"
	"github.com/chefkjd/MixSplitR/internal/progress"
	"github.com/chefkjd/MixSplitR/internal/session"
)

const defaultConfigName = "config.json"

func main() {
	var (
		dirFlag      = flag.String("dir", ".", "Directory containing the mix recordings")
		configFlag   = flag.String("config", "", "Path to config file")
		previewFlag  = flag.Bool("preview", false, "Identify tracks and save a session without writing the library")
		applyFlag    = flag.Bool("apply", false, "Apply a previously saved preview session")
		cancelFlag   = flag.Bool("cancel", false, "Discard a previously saved preview session")
		playlistFlag = flag.Bool("playlist", false, "Create an M3U playlist of the tracks written")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	if *previewFlag && *applyFlag || *previewFlag && *cancelFlag || *applyFlag && *cancelFlag {
		fmt.Fprintln(os.Stderr, "Choose at most one of -preview, -apply, -cancel")
		os.Exit(2)
	}

	workDir, err := filepath.Abs(*dirFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving directory: %v\n", err)
		os.Exit(1)
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = filepath.Join(workDir, defaultConfigName)
	}
	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}

	// First run asks for ACRCloud credentials and persists them.
	if err := settings.EnsureCredentials(os.Stdin, os.Stdout, configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring credentials: %v\n", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	manager, err := process.NewManager(settings, workDir, func(event progress.Event) {
		if event.Level == progress.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := "   "
		switch event.Level {
		case progress.LevelError:
			prefix = "[x] "
		case progress.LevelWarning:
			prefix = "[!] "
		case progress.LevelSuccess:
			prefix = "[+] "
		case progress.LevelInfo:
			prefix = "[>] "
		}

		fmt.Println(prefix + event.Message)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("MixSplitR")
	fmt.Println()

	switch {
	case *applyFlag:
		if _, err := manager.Apply(ctx); err != nil {
			exitWithSessionError(err)
		}

	case *cancelFlag:
		if err := manager.Cancel(); err != nil {
			exitWithSessionError(err)
		}

	default:
		if manager.HasSession() && !*previewFlag {
			fmt.Fprintln(os.Stderr, "A preview session is pending; run with -apply or -cancel first")
			os.Exit(1)
		}
		if _, err := manager.Run(ctx, *previewFlag); err != nil {
			if ctx.Err() != nil {
				fmt.Println("\nCancelled.")
				os.Exit(130)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func exitWithSessionError(err error) {
	switch {
	case errors.Is(err, session.ErrNoSession):
		fmt.Fprintln(os.Stderr, "No pending session in this directory")
	case errors.Is(err, session.ErrCorrupt):
		fmt.Fprintf(os.Stderr, "Session file is unusable: %v\nRun with -cancel to discard it.\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
