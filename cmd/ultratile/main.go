package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/ultratile/ultratile/internal/config"
	"github.com/ultratile/ultratile/internal/engine"
	"github.com/ultratile/ultratile/internal/hotkeys"
	"github.com/ultratile/ultratile/internal/ipc"
	"github.com/ultratile/ultratile/internal/layout"
	"github.com/ultratile/ultratile/internal/mcp"
	"github.com/ultratile/ultratile/internal/platform"
	"github.com/ultratile/ultratile/internal/profile"
	"github.com/ultratile/ultratile/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "matches":
		os.Exit(runMatches(os.Args[2:]))
	case "apply":
		os.Exit(runApply(os.Args[2:]))
	case "reset":
		os.Exit(runReset(os.Args[2:]))
	case "detect":
		os.Exit(runDetect(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "save":
		os.Exit(runSave(os.Args[2:]))
	case "delete":
		os.Exit(runDelete(os.Args[2:]))
	case "aot":
		os.Exit(runAOT(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "version", "-v", "--version":
		fmt.Printf("ultratile %s\n", mcp.ServerVersion)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ultratile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the ultratile daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  list                List stored profiles")
	fmt.Fprintln(w, "  windows             List manageable windows")
	fmt.Fprintln(w, "  matches <profile>   Show which live windows a profile resolves to")
	fmt.Fprintln(w, "  apply <profile>     Apply a stored profile")
	fmt.Fprintln(w, "  reset [profile]     Restore captured window state (all windows without a name)")
	fmt.Fprintln(w, "  detect              Pick the stored profile that best fits the live windows")
	fmt.Fprintln(w, "  save <profile>      Capture the live windows into a profile")
	fmt.Fprintln(w, "  delete <profile>    Delete a stored profile")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  layout <count>      Generate pane geometry for 1-4 windows")
	fmt.Fprintln(w, "  aot [title]         Toggle always-on-top for the focused or named window")
	fmt.Fprintln(w, "  watch <profile>     Re-apply a profile when its windows drift")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config show         Print the effective configuration")
	fmt.Fprintln(w, "  config init         Write default config and settings files")
	fmt.Fprintln(w, "  config path         Print the config file location")
	fmt.Fprintln(w, "  reload              Reload the daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open the interactive dashboard")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  version             Print the version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'ultratile <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running:  %v\n", status.DaemonRunning)
	fmt.Printf("active_profile:  %s\n", status.ActiveProfile)
	fmt.Printf("profile_count:   %d\n", status.ProfileCount)
	fmt.Printf("managed_windows: %d\n", status.ManagedWindows)
	fmt.Printf("drift_watch:     %v\n", status.DriftWatch)
	fmt.Printf("aot:             %s\n", status.AOTStatus)
	fmt.Printf("uptime_seconds:  %d\n", status.UptimeSeconds)
	return 0
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile list")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List stored profiles.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "list takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.ListProfiles()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, name := range data.Profiles {
		fmt.Printf("- %s\n", name)
	}
	return 0
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile windows")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the windows the daemon considers manageable.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "windows takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, w := range data.Windows {
		line := fmt.Sprintf("0x%08x  %dx%d at (%d,%d)  %s", w.ID, w.Width, w.Height, w.X, w.Y, w.Title)
		if w.Process != "" {
			line += fmt.Sprintf("  [%s]", w.Process)
		}
		fmt.Println(line)
	}
	return 0
}

func runMatches(args []string) int {
	fs := flag.NewFlagSet("matches", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile matches <profile>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Resolve a profile's window names against the live windows.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "matches requires <profile>")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.FindMatches(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, m := range data.Resolved {
		fmt.Printf("%-24s -> 0x%08x  %s\n", m.Name, m.WindowID, m.Title)
	}
	for _, name := range data.Missing {
		fmt.Printf("%-24s -> (missing)\n", name)
	}
	return 0
}

func runApply(args []string) int {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile apply <profile>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Apply a stored profile to the live windows.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "apply requires <profile>")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	report, err := client.ApplyProfile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printApplyReport(report)
	if report.Failed > 0 {
		return 1
	}
	return 0
}

func printApplyReport(report *ipc.ApplyData) {
	fmt.Printf("profile:     %s\n", report.Profile)
	fmt.Printf("applied:     %d\n", len(report.Applied))
	if len(report.Missing) > 0 {
		fmt.Printf("missing:     %s\n", strings.Join(report.Missing, ", "))
	}
	fmt.Printf("failed:      %d\n", report.Failed)
	fmt.Printf("duration_ms: %d\n", report.DurationMS)
	for _, m := range report.Mutations {
		if m.Error != "" {
			fmt.Printf("- %s %s: %s\n", m.Window, m.Step, m.Error)
		}
	}
}

func runReset(args []string) int {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile reset [profile]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Restore the captured state of a profile's windows, or of every")
		fmt.Fprintln(os.Stderr, "managed window when no profile is named.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "reset takes at most one argument")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if fs.NArg() == 1 {
		if err := client.ResetProfile(fs.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	if err := client.ResetAll(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runDetect(args []string) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile detect [--apply]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick the stored profile that best fits the live windows.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	applyNow := fs.Bool("apply", false, "Apply the detected profile immediately")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "detect takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.DetectProfile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("profile: %s\n", data.Profile)

	if *applyNow {
		report, err := client.ApplyProfile(data.Profile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printApplyReport(report)
		if report.Failed > 0 {
			return 1
		}
	}
	return 0
}

func runLayout(args []string) int {
	fs := flag.NewFlagSet("layout", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile layout [--preset N] [--apply] <count>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Generate pane geometry for <count> windows on the primary display.")
		fmt.Fprintln(os.Stderr, "Without --preset the daemon advances its cycle for that count.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	preset := fs.Int("preset", -1, "Preset index (default: advance the daemon's cycle)")
	applyNow := fs.Bool("apply", false, "Apply the generated panes to the leftmost live windows")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "layout requires <count>")
		fs.Usage()
		return 2
	}
	count, err := strconv.Atoi(fs.Arg(0))
	if err != nil || count < 1 || count > layout.MaxWindows {
		fmt.Fprintf(os.Stderr, "count must be 1-%d\n", layout.MaxWindows)
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GenerateLayout(count, *preset, *applyNow)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("count:  %d\n", data.Count)
	fmt.Printf("preset: %d\n", data.Preset)
	for i, p := range data.Panes {
		flags := ""
		if p.AlwaysOnTop {
			flags += "  aot"
		}
		if !p.Titlebar {
			flags += "  no-titlebar"
		}
		fmt.Printf("pane %d: %dx%d at (%d,%d)%s\n", i+1, p.Width, p.Height, p.X, p.Y, flags)
	}
	if data.Report != nil {
		printApplyReport(data.Report)
		if data.Report.Failed > 0 {
			return 1
		}
	}
	return 0
}

func runSave(args []string) int {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile save <profile>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Capture every live window's position, size and style into a profile.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "save requires <profile>")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.SaveProfile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Saved profile '%s' (%d windows)\n", data.Profile, data.Windows)
	return 0
}

func runDelete(args []string) int {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile delete <profile>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Delete a stored profile.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "delete requires <profile>")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.DeleteProfile(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runAOT(args []string) int {
	fs := flag.NewFlagSet("aot", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile aot [--status] [title]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Toggle always-on-top for the named window, or for the focused")
		fmt.Fprintln(os.Stderr, "window when no title is given.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	statusOnly := fs.Bool("status", false, "Print the always-on-top status without toggling")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "aot takes at most one argument")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if *statusOnly {
		if fs.NArg() != 0 {
			fmt.Fprintln(os.Stderr, "aot --status takes no arguments")
			fs.Usage()
			return 2
		}
		status, err := client.AOTStatus()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(status)
		return 0
	}

	title := ""
	if fs.NArg() == 1 {
		title = fs.Arg(0)
	}
	data, err := client.ToggleAOT(title)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(data.Status)
	return 0
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  ultratile watch [--interval MS] <profile>")
		fmt.Fprintln(os.Stderr, "  ultratile watch --stop")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Watch a profile's windows and re-apply when they drift.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	stop := fs.Bool("stop", false, "Stop the running drift watch")
	intervalMS := fs.Int("interval", 0, "Poll interval in milliseconds (default: poll_interval_ms)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	if *stop {
		if fs.NArg() != 0 {
			fmt.Fprintln(os.Stderr, "watch --stop takes no arguments")
			fs.Usage()
			return 2
		}
		if err := client.StopDriftWatch(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "watch requires <profile>")
		fs.Usage()
		return 2
	}
	if err := client.StartDriftWatch(fs.Arg(0), *intervalMS); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Watching '%s' for drift\n", fs.Arg(0))
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the daemon to reload its configuration file.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.ReloadConfig(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config: reloaded")
	return 0
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ultratile config show [--path PATH]")
	fmt.Fprintln(w, "  ultratile config init [--force]")
	fmt.Fprintln(w, "  ultratile config path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'ultratile config <command> --help' for command-specific options.")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "show":
		fs := flag.NewFlagSet("show", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: ultratile config show [--path PATH]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Print the effective configuration as YAML.")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		path := fs.String("path", "", "Config file path (default: ~/.config/ultratile/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 0 {
			fmt.Fprintln(os.Stderr, "config show takes no arguments")
			fs.Usage()
			return 2
		}

		var cfg *config.Config
		var err error
		if *path == "" {
			cfg, err = config.Load()
		} else {
			cfg, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "init":
		fs := flag.NewFlagSet("init", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: ultratile config init [--force]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Write the default config.yaml and settings.json.")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		force := fs.Bool("force", false, "Overwrite existing files")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 0 {
			fmt.Fprintln(os.Stderr, "config init takes no arguments")
			fs.Usage()
			return 2
		}
		return configInit(*force)

	case "path":
		fs := flag.NewFlagSet("path", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: ultratile config path")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		fmt.Println(config.DefaultConfigPath())
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}
}

func configInit(force bool) int {
	cfgPath := config.DefaultConfigPath()
	if !force {
		if _, err := os.Stat(cfgPath); err == nil {
			fmt.Fprintf(os.Stderr, "%s already exists (use --force to overwrite)\n", cfgPath)
			return 1
		}
	}
	if err := config.DefaultConfig().Save(cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Wrote %s\n", cfgPath)

	settingsPath := config.DefaultSettingsPath()
	if _, err := os.Stat(settingsPath); force || os.IsNotExist(err) {
		if err := config.SaveSettings(settingsPath, config.DefaultSettings()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("Wrote %s\n", settingsPath)
	}
	return 0
}

func runTUI(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: ultratile tui")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Interactive dashboard over the daemon socket.")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Keybindings:")
		fmt.Fprintln(os.Stdout, "  tab/shift-tab  Switch tabs (1-3 jump to a tab)")
		fmt.Fprintln(os.Stdout, "  enter, a       Apply selected profile or preset")
		fmt.Fprintln(os.Stdout, "  r              Reset selected profile")
		fmt.Fprintln(os.Stdout, "  m              Match selected profile against live windows")
		fmt.Fprintln(os.Stdout, "  w              Toggle drift watch for selected profile")
		fmt.Fprintln(os.Stdout, "  d              Detect the best-fitting profile")
		fmt.Fprintln(os.Stdout, "  x              Delete selected profile")
		fmt.Fprintln(os.Stdout, "  t              Pin/unpin selected window (Windows tab)")
		fmt.Fprintln(os.Stdout, "  1-4, n/p       Window count and preset cycle (Presets tab)")
		fmt.Fprintln(os.Stdout, "  ctrl+s         Save the live windows as a profile")
		fmt.Fprintln(os.Stdout, "  q, ctrl+c      Quit")
		return 0
	}

	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		return 2
	}

	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ultratile mcp serve")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'ultratile mcp serve --help' for details.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: ultratile mcp serve")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Start the MCP server on stdio. Designed to be invoked by MCP clients.")
		fmt.Fprintln(os.Stdout, "The daemon must be running; every tool call proxies over its socket.")
		return 0
	}

	server := mcp.NewServer(ipc.NewClient())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := server.Run(ctx); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
	return 0
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ultratile daemon [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the window-management daemon in the foreground.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/ultratile/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	path := *configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (profiles: %s, poll: %v)", cfg.EffectiveProfileDir(), cfg.PollInterval())

	settings, err := config.LoadSettings(config.DefaultSettingsPath())
	if err != nil {
		log.Printf("Warning: settings file unreadable, using defaults: %v", err)
	}

	// Connect to the window system
	backend, err := platform.NewBackend()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	if d, ok := backend.(interface{ Disconnect() }); ok {
		defer d.Disconnect()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	eng := engine.New(backend, engine.Options{
		ApplyDelay:    cfg.ApplyDelay(),
		IgnoredTitles: cfg.IgnoredTitles,
		Logger:        logger,
	})

	profiles := profile.NewStore(cfg.EffectiveProfileDir())

	presets := layout.NewStore(config.DefaultPresetsPath())
	if err := presets.Load(); err != nil {
		log.Printf("Warning: failed to load preset state: %v", err)
	}

	log.Println("ultratile daemon started successfully")

	// Create config reload channel
	reloadChan := make(chan struct{}, 1)

	// Start IPC server
	ipcServer, err := ipc.NewServer(ipc.Deps{
		Config:     cfg,
		ConfigPath: path,
		Engine:     eng,
		Profiles:   profiles,
		Presets:    presets,
		Backend:    backend,
		ReloadChan: reloadChan,
	})
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	// Setup hotkey handler
	hotkeyHandler := hotkeys.NewHandler(backend, eng)

	toggleKey := cfg.Hotkeys.ToggleAOT
	if settings.Hotkey != "" && settings.Hotkey != config.DefaultSettings().Hotkey {
		// The companion front end rebound the key in settings.json; honor it.
		toggleKey = settings.Hotkey
	}
	if toggleKey != "" {
		if err := hotkeyHandler.RegisterToggleAOT(toggleKey); err != nil {
			log.Printf("Warning: Failed to register toggle_aot hotkey: %v", err)
		} else {
			log.Printf("Always-on-top hotkey registered: %s", toggleKey)
		}
	}

	// Optional: cycle presets for the current windows without a client.
	if cfg.Hotkeys.CycleLayout != "" {
		if err := hotkeyHandler.RegisterFunc(cfg.Hotkeys.CycleLayout, func() {
			preset, report, err := ipcServer.CycleApply(0)
			if err != nil {
				log.Printf("Failed to cycle layout: %v", err)
				return
			}
			log.Printf("Cycled to preset %d: %d window(s) in %dms",
				preset, len(report.Applied), report.Duration.Milliseconds())
		}); err != nil {
			log.Printf("Warning: Failed to register cycle_layout hotkey: %v", err)
		} else {
			log.Printf("Cycle-layout hotkey registered: %s", cfg.Hotkeys.CycleLayout)
		}
	}

	// Optional: watch the profile directory for external edits.
	if cfg.WatchProfiles {
		watcher, err := startProfileWatcher(cfg.EffectiveProfileDir(), profiles)
		if err != nil {
			log.Printf("Warning: profile watcher disabled: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	if cfg.DetectOnStart {
		if name, ok := detectStartProfile(eng, profiles); ok {
			report, err := ipcServer.ApplyStored(name)
			if err != nil {
				log.Printf("Detect on start: failed to apply '%s': %v", name, err)
			} else {
				log.Printf("Detect on start: applied '%s' (%d windows, %dms)",
					name, len(report.Applied), report.Duration.Milliseconds())
			}
		}
	}

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	// Handle signals and config reloads
	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					newCfg, err := config.LoadFromPath(path)
					if err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					ipcServer.UpdateConfig(newCfg)
					applyConfig(newCfg, eng, ipcServer)
					log.Println("Config reloaded successfully")

				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down ultratile daemon...")
					eng.StopDriftWatch()
					ipcServer.Stop()
					os.Exit(0)
				}

			case <-reloadChan:
				// Config was reloaded via IPC, update components
				applyConfig(ipcServer.GetConfig(), eng, ipcServer)
			}
		}
	}()

	// Start event loop (blocking)
	if el, ok := backend.(interface{ EventLoop() }); ok {
		log.Println("Entering event loop...")
		el.EventLoop()
		return 0
	}
	select {}
}

// applyConfig pushes a freshly loaded config into the running components.
// The engine keeps its logger; hotkeys stay bound until restart.
func applyConfig(cfg *config.Config, eng *engine.Engine, srv *ipc.Server) {
	eng.UpdateOptions(engine.Options{
		ApplyDelay:    cfg.ApplyDelay(),
		IgnoredTitles: cfg.IgnoredTitles,
	})
	srv.UpdateProfiles(profile.NewStore(cfg.EffectiveProfileDir()))
}

// detectStartProfile picks the stored profile that best fits the live
// windows at startup.
func detectStartProfile(eng *engine.Engine, profiles *profile.Store) (string, bool) {
	names, err := profiles.List()
	if err != nil || len(names) == 0 {
		return "", false
	}

	loaded := make([]*profile.Profile, 0, len(names))
	for _, name := range names {
		p, err := profiles.Load(name)
		if err != nil {
			log.Printf("Detect on start: skipping unreadable profile '%s': %v", name, err)
			continue
		}
		loaded = append(loaded, p)
	}

	wins, err := eng.Windows()
	if err != nil {
		log.Printf("Detect on start: failed to list windows: %v", err)
		return "", false
	}

	return profile.SelectDefault(loaded, wins)
}

// startProfileWatcher logs external changes to the profile directory. The
// store reads the directory on demand, so the watcher only surfaces what
// changed; nothing is cached.
func startProfileWatcher(dir string, profiles *profile.Store) (*fsnotify.Watcher, error) {
	// The store creates the directory lazily on first save; the watcher
	// needs it to exist now.
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		var debounce *time.Timer
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				// Editors fire bursts of events per save; collapse them.
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(250*time.Millisecond, func() {
					names, err := profiles.List()
					if err != nil {
						log.Printf("Profile watcher: failed to list profiles: %v", err)
						return
					}
					log.Printf("Profile directory changed: %d profile(s) stored", len(names))
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Profile watcher error: %v", err)
			}
		}
	}()

	return watcher, nil
}
