package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"keycombo/config"
	"keycombo/doctor"
	"keycombo/hotkey"
	"keycombo/keyboard"
	"keycombo/log"
	"keycombo/shutdown"
)

var version = "dev"

func run() {
	configFlag := flag.String("config", "", "bindings file (default: $KEYCOMBO_CONFIG or OS config dir)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	repeatFlag := flag.String("repeat", "", "override key-repeat policy: dispatch or ignore")
	initFlag := flag.Bool("init", false, "Write a starter bindings file and exit")
	listFlag := flag.Bool("list", false, "Print the configured bindings and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	tuiFlag := flag.Bool("tui", true, "Run with terminal monitor")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("keycombo %s\n", version)
		os.Exit(0)
	}

	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	configPath, err := config.ResolvePath(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve config path: %v\n", err)
		os.Exit(1)
	}

	if *initFlag {
		if err := config.WriteDefault(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", configPath)
		os.Exit(0)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(configPath))
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: no bindings file at %s (create one with: keycombo -init)\n", configPath)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
	if *repeatFlag != "" {
		if _, err := keyboard.ParseRepeatPolicy(*repeatFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Repeat = *repeatFlag
	}

	if *listFlag {
		for _, b := range cfg.Bindings {
			fmt.Printf("%-20s %-8s %s\n", b.Name, b.Action, describe(b))
		}
		os.Exit(0)
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	combos := cfg.AllCombos()
	var src hotkey.Source
	var fake *hotkey.Fake
	if *testFlag {
		fake = hotkey.NewLockstepFake()
		src = fake
	} else {
		src = hotkey.New(combos)
	}
	log.SessionStart(configPath, comboList(combos), len(cfg.Bindings), cfg.RepeatPolicy().String())

	var sink EventSink = lineSink{out: os.Stdout}
	var monitor *tuiSink
	if *tuiFlag && !*testFlag {
		monitor = newTUISink(cfg)
		sink = monitor
	}

	d, err := newDaemon(ctx, cfg, src, sink)
	if err != nil {
		log.Errorf("daemon init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runErr := make(chan error, 1)
	go func() { runErr <- d.Run(ctx) }()

	scriptErr := make(chan error, 1)
	if fake != nil {
		go func() {
			scriptErr <- driveScript(os.Stdin, fake, d)
			stop()
		}()
	} else if monitor != nil {
		go func() {
			if _, err := monitor.Run(d.TogglePause); err != nil {
				log.Errorf("TUI error: %v", err)
			}
			stop()
		}()
	} else {
		fmt.Printf("keycombo %s: %d binding(s), Ctrl+C to quit\n", version, len(cfg.Bindings))
	}

	if err := <-runErr; err != nil {
		if monitor != nil {
			monitor.Quit()
		}
		log.Errorf("key source error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		d.Close()
		os.Exit(1)
	}
	if monitor != nil {
		monitor.Quit()
	}

	log.SessionEnd(int(d.Close()))

	select {
	case err := <-scriptErr:
		if err != nil {
			log.Errorf("test script: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			log.Close()
			os.Exit(1)
		}
	default:
	}
}
