package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/twistedxcom/resume-deck/internal/clipboard"
	"github.com/twistedxcom/resume-deck/internal/logging"
	"github.com/twistedxcom/resume-deck/internal/platform"
	"github.com/twistedxcom/resume-deck/internal/session"
	"github.com/twistedxcom/resume-deck/internal/ui"
	"github.com/twistedxcom/resume-deck/internal/update"
)

// Set via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		dirFlag       = flag.String("dir", "", "session log directory (default: ~/.claude/projects)")
		cwdOnlyFlag   = flag.Bool("cwd-only", false, "only show sessions recorded in the current directory")
		workspaceFlag = flag.Bool("workspace", false, "workspace mode: enable 's' to request a workspace session")
		argsFlag      = flag.String("args", "", "extra arguments passed to the launched tool")
		debugFlag     = flag.Bool("debug", false, "enable debug logging to the config directory")
		versionFlag   = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("resume-deck %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	cfg, cfgErr := session.LoadUserConfig()
	if cfg == nil {
		cfg = session.DefaultUserConfig()
	}

	configDir, _ := session.ConfigDir()
	logDir := ""
	if *debugFlag && configDir != "" {
		logDir = configDir
	}
	logging.Init(logging.Config{
		LogDir:     logDir,
		Level:      cfg.Logs.Level,
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxBackups: cfg.Logs.MaxBackups,
		Debug:      *debugFlag,
	})
	defer logging.Shutdown()
	log := logging.Logger()
	if cfgErr != nil {
		log.Warn("config_load_failed", slog.String("error", cfgErr.Error()))
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", cfgErr)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "resume-deck needs an interactive terminal")
		os.Exit(1)
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
	ui.InitTheme(cfg.Theme)

	root := *dirFlag
	if root == "" {
		var err error
		root, err = session.DefaultRoot()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot locate session directory: %v\n", err)
			os.Exit(1)
		}
	}

	cwd, _ := os.Getwd()
	discover := func() ([]session.FileRef, error) {
		return session.Discover(root, session.DiscoverOptions{
			CurrentDirOnly: *cwdOnlyFlag,
			CWD:            cwd,
		})
	}

	files, err := discover()
	if err != nil {
		fmt.Fprintf(os.Stderr, "session discovery failed: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("no session logs found under %s\n", root)
		return
	}

	if warning := platform.CheckFsnotifySupport(root); warning != "" {
		log.Warn("fsnotify_unsupported", slog.String("detail", warning))
	}

	var reloadCh <-chan struct{}
	if cfg.WatchSessions {
		watcher, werr := session.NewWatcher(root)
		if werr != nil {
			log.Warn("watcher_failed", slog.String("error", werr.Error()))
		} else {
			reloadCh = watcher.ReloadChannel()
			defer watcher.Close()
		}
	}

	extraArgs := cfg.ExtraArgs
	if *argsFlag != "" {
		extraArgs = *argsFlag
	}

	picker := ui.NewPicker(files, ui.Config{
		HiddenRoles:   cfg.HiddenRoleSet(),
		WorkspaceMode: *workspaceFlag,
		ExtraArgs:     extraArgs,
		PageSize:      cfg.PageSize,
		PreviewTurns:  cfg.PreviewTurns,
	}, ui.Collaborators{
		QuickMeta: session.QuickMeta,
		FullParse: session.FullParse,
		Delete:    session.Delete,
		Copy:      clipboard.Copy,
		Discover:  discover,
		ReloadCh:  reloadCh,
	})

	updateCh := update.CheckAsync(version)

	program := tea.NewProgram(picker, tea.WithAltScreen())
	model, err := program.Run()
	if err != nil {
		dumpCrashLog()
		fmt.Fprintf(os.Stderr, "resume-deck: %v\n", err)
		os.Exit(1)
	}

	final, ok := model.(*ui.Picker)
	if !ok {
		return
	}
	// Non-blocking: a slow or failed check never delays the launch.
	select {
	case info := <-updateCh:
		if info.Available {
			fmt.Fprintf(os.Stderr, "resume-deck %s is available (current %s): %s\n",
				info.LatestVersion, version, info.ReleaseURL)
		}
	default:
	}

	action := final.Result()
	if action == nil {
		return // user aborted
	}

	switch action.Kind {
	case ui.ActionResume:
		spec := session.BuildResume(cfg.Tool, action.SessionID, action.WorkingDir, action.ExtraArgs)
		runTool(spec, log)
	case ui.ActionStartNew:
		dir := action.WorkingDir
		if dir == "" {
			dir = cwd
		}
		spec := session.BuildNew(cfg.Tool, dir, action.ExtraArgs)
		runTool(spec, log)
	case ui.ActionWorkspaceCreate:
		// Emitted for a wrapping script to pick up; resume-deck itself
		// does not create workspaces.
		fmt.Printf("workspace-create %s\n", action.ExtraArgs)
	}
}

// runTool replaces this process's terminal session with the launched
// tool, inheriting stdio, and exits with the tool's exit code.
func runTool(spec session.LaunchSpec, log *slog.Logger) {
	path, err := exec.LookPath(spec.Command)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s not found in PATH\n", spec.Command)
		os.Exit(1)
	}

	log.Info("launching",
		slog.String("command", spec.Command),
		slog.Any("args", spec.Args),
		slog.String("dir", spec.WorkingDir))

	cmd := exec.Command(path, spec.Args...)
	cmd.Dir = spec.WorkingDir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "launch failed: %v\n", err)
		os.Exit(1)
	}
}

// dumpCrashLog writes the in-memory log ring buffer next to the config
// for post-mortem inspection.
func dumpCrashLog() {
	dir, err := session.ConfigDir()
	if err != nil {
		return
	}
	name := fmt.Sprintf("crash-%s.log", time.Now().Format("20060102-150405"))
	if err := logging.DumpRingBuffer(filepath.Join(dir, name)); err == nil {
		fmt.Fprintf(os.Stderr, "crash log written to %s\n", filepath.Join(dir, name))
	}
}
