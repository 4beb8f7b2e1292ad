// Package buildfile writes Bazel BUILD files for the engine libraries, either
// globbing sources at build time or enumerating them ahead of time ("blob").
package buildfile

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/toastate/buildgen/internal/collector"
	"github.com/toastate/buildgen/internal/filelock"
	"github.com/toastate/buildgen/internal/helpers"
	"github.com/toastate/buildgen/internal/tlogger"
)

type Mode int

const (
	// ModeGlob leaves source discovery to Bazel's glob()
	ModeGlob Mode = iota
	// ModeBlob lists every source file explicitly
	ModeBlob
)

var ErrUnknownMode = errors.New("unknown mode")

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "glob":
		return ModeGlob, nil
	case "blob", "":
		return ModeBlob, nil
	}
	return 0, errors.Wrapf(ErrUnknownMode, "%q, expected glob or blob", s)
}

func (m Mode) String() string {
	if m == ModeGlob {
		return "glob"
	}
	return "blob"
}

type Library struct {
	Name  string
	Deps  string
	Copts string
}

const defaultCopts = `select({
          "@bazel_tools//src/conditions:windows": ["/std:c++latest", "/arch:AVX", "/permissive-"],
          "//conditions:default": ["-std=c++2a", "-msse4.2", "-m64"],
    })`

// DefaultLibraries are the engine's core and graphics libraries
func DefaultLibraries() []Library {
	return []Library{
		{Name: "core", Deps: "[]", Copts: defaultCopts},
		{Name: "graphics", Deps: `[
      "//core:core",
      "//ext:STB"] + select({
          "@bazel_tools//src/conditions:windows": 
              ["//ext:DirectXShaderCompiler",
               "//ext:WinPixEventRuntime", 
               "@VulkanSDKWin//:Vulkan",
               "@DX12//:DX12", 
               "@DXGI//:DXGI", 
               "@DXGUID//:DXGUID"],
          "//conditions:default": [],
    })`, Copts: defaultCopts},
	}
}

const libraryTemplate = `
cc_library(
  name = "REPLACE_NAME",
  srcs = REPLACE_SRCS,
  hdrs = REPLACE_HDRS,
  strip_include_prefix = "src",
  deps = REPLACE_DEPS,
  copts = REPLACE_COPTS,
  visibility = ["//visibility:public"], 
)
`

// Render produces the BUILD content for lib, whose sources live in root/lib.Name
func Render(root string, lib Library, mode Mode) (string, error) {
	srcs := `glob(["**/*.cpp"])`
	hdrs := `glob(["**/*.hpp"])`

	if mode == ModeBlob {
		dir := filepath.Join(root, lib.Name)

		cpp, err := collectSlash(dir, ".cpp")
		if err != nil {
			return "", err
		}
		hpp, err := collectSlash(dir, ".hpp")
		if err != nil {
			return "", err
		}
		h, err := collectSlash(dir, ".h")
		if err != nil {
			return "", err
		}

		if srcs, err = helpers.StringList(cpp); err != nil {
			return "", err
		}
		if hdrs, err = helpers.StringList(append(hpp, h...)); err != nil {
			return "", err
		}
	}

	deps := lib.Deps
	if deps == "" {
		deps = "[]"
	}
	copts := lib.Copts
	if copts == "" {
		copts = "[]"
	}

	r := strings.NewReplacer(
		"REPLACE_NAME", lib.Name,
		"REPLACE_SRCS", srcs,
		"REPLACE_HDRS", hdrs,
		"REPLACE_DEPS", deps,
		"REPLACE_COPTS", copts,
	)
	return r.Replace(libraryTemplate), nil
}

func collectSlash(dir, suffix string) ([]string, error) {
	files, err := collector.CollectRelative(dir, suffix)
	if err != nil {
		return nil, err
	}
	for i, f := range files {
		files[i] = filepath.ToSlash(f)
	}
	return files, nil
}

// Generate writes root/<name>/BUILD for every library, stopping at the first failure
func Generate(root string, libs []Library, mode Mode) error {
	tlogger.Info("msg", "Generating BUILD files", "root", root, "mode", mode)

	for _, lib := range libs {
		content, err := Render(root, lib, mode)
		if err != nil {
			tlogger.Error("msg", "Failed to render BUILD", "library", lib.Name, "err", err)
			return err
		}

		out := filepath.Join(root, lib.Name, "BUILD")
		if err := filelock.LockAndWrite(out, []byte(content)); err != nil {
			tlogger.Error("msg", "Failed to write BUILD", "path", out, "err", err)
			return err
		}
		tlogger.Debug("msg", "BUILD written", "path", out)
	}
	return nil
}
