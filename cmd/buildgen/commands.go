package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/toastate/buildgen/internal/bffgen"
	"github.com/toastate/buildgen/internal/buildfile"
	"github.com/toastate/buildgen/internal/collector"
	"github.com/toastate/buildgen/internal/natsort"
	"github.com/toastate/buildgen/internal/pathmap"
	"github.com/toastate/buildgen/internal/tlogger"
	"github.com/toastate/buildgen/internal/watcher"
	"github.com/toastate/buildgen/pkg/config"
	"github.com/toastate/buildgen/pkg/server"
)

type CommandConfig struct {
	ToolchainRoot     string `help:"Compiler toolchain root."`
	WindowsSDKRoot    string `help:"Windows SDK root (the folder containing Include)."`
	WindowsSDKVersion string `help:"Windows SDK version, or latest."`
	VulkanSDKRoot     string `help:"Vulkan SDK root (the folder containing version folders)."`
	VulkanSDKVersion  string `help:"Vulkan SDK version, or latest."`
	CacheDir          string `help:"FASTBuild cache directory."`
	Output            string `short:"o" help:"Output file."`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

func (r *CommandConfig) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	c := config.Config.BFF
	return bffgen.Generate(bffgen.Settings{
		ToolchainRoot:     or(r.ToolchainRoot, c.ToolchainRoot),
		WindowsSDKRoot:    or(r.WindowsSDKRoot, c.WindowsSDKRoot),
		WindowsSDKVersion: or(r.WindowsSDKVersion, c.WindowsSDKVersion),
		VulkanSDKRoot:     or(r.VulkanSDKRoot, c.VulkanSDKRoot),
		VulkanSDKVersion:  or(r.VulkanSDKVersion, c.VulkanSDKVersion),
		CacheDir:          or(r.CacheDir, c.CacheDir),
		Output:            or(r.Output, c.Output),
	})
}

type CommandPathmap struct {
	DataDir string `help:"Data directory." type:"existingdir"`
	Mount   string `help:"Mount name for the data directory."`
	Output  string `short:"o" help:"Output file."`
	Minify  bool   `help:"Minify the JSON output."`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

func (r *CommandPathmap) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	c := config.Config.PathMap
	if r.DataDir != "" {
		c.DataDir = r.DataDir
	}
	if r.Mount != "" {
		c.Mount = r.Mount
	}
	return pathmap.Generate(c.Mounts(), or(r.Output, c.Output), r.Minify || c.Minify)
}

type CommandBuilds struct {
	Root string `help:"Workspace root containing the library folders." type:"existingdir"`
	Mode string `short:"m" help:"glob to let Bazel find sources, blob to list them."`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

func (r *CommandBuilds) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	mode, err := buildfile.ParseMode(or(r.Mode, config.Config.Builds.Mode))
	if err != nil {
		return err
	}
	return buildfile.Generate(or(r.Root, config.Config.Builds.Root), libraries(), mode)
}

// libraries returns the configured libraries or the engine defaults
func libraries() []buildfile.Library {
	if len(config.Config.Builds.Libraries) == 0 {
		return buildfile.DefaultLibraries()
	}
	libs := make([]buildfile.Library, 0, len(config.Config.Builds.Libraries))
	for _, l := range config.Config.Builds.Libraries {
		libs = append(libs, buildfile.Library{Name: l.Name, Deps: l.Deps, Copts: l.Copts})
	}
	return libs
}

type CommandCollect struct {
	Root      string `arg:"" help:"Directory to enumerate."`
	Suffix    string `help:"Only list files whose name ends with this suffix."`
	Relative  bool   `short:"r" help:"Print paths relative to the root."`
	Extension bool   `help:"Match the suffix against the file extension only."`
	Sort      bool   `help:"Sort the output naturally."`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

func (r *CommandCollect) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	var opts []collector.Option
	if r.Extension {
		opts = append(opts, collector.WithExtensionMatch())
	}

	collect := collector.Collect
	if r.Relative {
		collect = collector.CollectRelative
	}
	files, err := collect(r.Root, r.Suffix, opts...)
	if err != nil {
		return err
	}
	if r.Sort {
		files = natsort.Sort(files, false)
	}

	for _, f := range files {
		fmt.Fprintln(ctx.Stdout, f)
	}
	return nil
}

type CommandWatch struct {
	Root string `help:"Workspace root containing the library folders." type:"existingdir"`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

func (r *CommandWatch) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	root := or(r.Root, config.Config.Builds.Root)
	libs := libraries()

	if err := buildfile.Generate(root, libs, buildfile.ModeBlob); err != nil {
		return err
	}

	sctx, cancel := signalContext()
	defer cancel()

	dirs := make([]string, 0, len(libs))
	for _, l := range libs {
		dirs = append(dirs, filepath.Join(root, l.Name))
	}
	updates, err := watcher.StartWatcher(sctx, dirs...)
	if err != nil {
		return err
	}

	tlogger.Info("msg", "Watching sources", "root", root)
	for batch := range watcher.Debounce(sctx, sourceChanges(sctx, updates), 500*time.Millisecond) {
		tlogger.Info("msg", "Sources changed", "files", len(batch))
		if err := buildfile.Generate(root, libs, buildfile.ModeBlob); err != nil {
			tlogger.Warn("msg", "Regeneration failed, waiting for next change", "err", err)
		}
	}
	return nil
}

// sourceChanges drops the events caused by our own BUILD writes
func sourceChanges(ctx context.Context, in <-chan string) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for p := range in {
			name := filepath.Base(p)
			if name == "BUILD" || strings.HasSuffix(name, ".lock") || strings.HasPrefix(name, ".tmp-") {
				continue
			}
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

type CommandServe struct {
	DataDir string `help:"Data directory." type:"existingdir"`
	Watch   bool   `negatable:"" default:"true" help:"Notify clients when mounts change."`

	Port int `short:"p" help:"Listener port"`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

func (r *CommandServe) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	if r.Port <= 0 {
		r.Port = config.Config.Serve.Port
	}
	c := config.Config.PathMap
	if r.DataDir != "" {
		c.DataDir = r.DataDir
	}

	sctx, cancel := signalContext()
	defer cancel()

	serv := server.NewServer(c.Mounts(), strconv.Itoa(r.Port))
	return serv.Start(sctx, r.Watch)
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
