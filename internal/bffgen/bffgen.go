// Package bffgen writes the machine-specific FASTBuild config.bff.
package bffgen

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/toastate/buildgen/internal/filelock"
	"github.com/toastate/buildgen/internal/natsort"
	"github.com/toastate/buildgen/internal/tlogger"
)

const latest = "latest"

var bffTemplate = template.Must(template.New("config.bff").Parse(`// Generated by buildgen, machine specific. Do not commit.
.ToolchainRoot      = '{{ .ToolchainRoot }}'
.WindowsSDKBasePath = '{{ .WindowsSDKRoot }}'
.WindowsSDKVersion  = '{{ .WindowsSDKVersion }}'
.VulkanSDKBasePath  = '{{ .VulkanSDKPath }}'
.CachePath          = '{{ .CacheDir }}'

Settings
{
	.CachePath = .CachePath
}
`))

type Settings struct {
	ToolchainRoot     string
	WindowsSDKRoot    string
	WindowsSDKVersion string
	VulkanSDKRoot     string
	VulkanSDKVersion  string
	CacheDir          string
	Output            string
}

// VulkanSDKPath is the versioned Vulkan SDK directory, or empty without a root
func (s Settings) VulkanSDKPath() string {
	if s.VulkanSDKRoot == "" {
		return ""
	}
	if s.VulkanSDKVersion == "" {
		return s.VulkanSDKRoot
	}
	return s.VulkanSDKRoot + "/" + s.VulkanSDKVersion
}

// Resolve fills "latest" versions from the newest version folder under their
// SDK root, defaults the cache dir and normalises every path to forward slashes.
func Resolve(s Settings) (Settings, error) {
	var err error

	s.WindowsSDKVersion, err = resolveVersion(s.WindowsSDKRoot, s.WindowsSDKVersion, "Include")
	if err != nil {
		return s, errors.Wrap(err, "windows sdk")
	}
	s.VulkanSDKVersion, err = resolveVersion(s.VulkanSDKRoot, s.VulkanSDKVersion, "")
	if err != nil {
		return s, errors.Wrap(err, "vulkan sdk")
	}

	if s.CacheDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return s, errors.Wrap(err, "resolving cache directory")
		}
		s.CacheDir = filepath.Join(wd, ".fbuild.cache")
	}

	s.ToolchainRoot = slash(s.ToolchainRoot)
	s.WindowsSDKRoot = slash(s.WindowsSDKRoot)
	s.VulkanSDKRoot = slash(s.VulkanSDKRoot)
	s.CacheDir = slash(s.CacheDir)
	return s, nil
}

// resolveVersion looks into root/sub for version folders. The Windows SDK keeps
// them under Include, the Vulkan SDK directly at its root.
func resolveVersion(root, version, sub string) (string, error) {
	if version != "" && version != latest {
		return version, nil
	}
	if root == "" {
		return "", nil
	}
	v, err := natsort.Newest(filepath.Join(root, sub))
	if err != nil {
		return "", err
	}
	tlogger.Debug("msg", "Resolved sdk version", "root", root, "version", v)
	return v, nil
}

func slash(p string) string {
	return strings.TrimRight(strings.ReplaceAll(p, "\\", "/"), "/")
}

// Render executes the config.bff template with already resolved settings
func Render(w io.Writer, s Settings) error {
	return bffTemplate.Execute(w, s)
}

func Generate(s Settings) error {
	s, err := Resolve(s)
	if err != nil {
		tlogger.Error("msg", "Failed to resolve config.bff settings", "err", err)
		return err
	}

	buf := &bytes.Buffer{}
	if err := Render(buf, s); err != nil {
		tlogger.Error("msg", "Failed to render config.bff", "err", err)
		return err
	}

	out := s.Output
	if out == "" {
		out = "config.bff"
	}
	if err := filelock.LockAndWrite(out, buf.Bytes()); err != nil {
		tlogger.Error("msg", "Failed to write config.bff", "path", out, "err", err)
		return err
	}

	tlogger.Info("msg", "config.bff written", "path", out, "windows_sdk", s.WindowsSDKVersion, "vulkan_sdk", s.VulkanSDKVersion)
	return nil
}
