package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "buildgen.json"

var Config = DefaultConfiguration()

func DefaultConfiguration() *Configuration {
	return &Configuration{
		BFF: BFFConfiguration{
			WindowsSDKVersion: "latest",
			VulkanSDKVersion:  "latest",
			Output:            "config.bff",
		},
		PathMap: PathMapConfiguration{
			DataDir: "data",
			Mount:   "/data",
			Output:  "pathmap.json",
		},
		Builds: BuildsConfiguration{
			Root: ".",
			Mode: "blob",
		},
		Serve: ServeConfiguration{
			Port: 8100,
		},
	}
}

type Configuration struct {
	BFF     BFFConfiguration     `json:"bff" yaml:"bff"`
	PathMap PathMapConfiguration `json:"pathmap" yaml:"pathmap"`
	Builds  BuildsConfiguration  `json:"builds" yaml:"builds"`
	Serve   ServeConfiguration   `json:"serve" yaml:"serve"`
}

type BFFConfiguration struct {
	ToolchainRoot     string `json:"toolchain_root,omitempty" yaml:"toolchain_root,omitempty"`
	WindowsSDKRoot    string `json:"windows_sdk_root,omitempty" yaml:"windows_sdk_root,omitempty"`
	WindowsSDKVersion string `json:"windows_sdk_version,omitempty" yaml:"windows_sdk_version,omitempty"`
	VulkanSDKRoot     string `json:"vulkan_sdk_root,omitempty" yaml:"vulkan_sdk_root,omitempty"`
	VulkanSDKVersion  string `json:"vulkan_sdk_version,omitempty" yaml:"vulkan_sdk_version,omitempty"`
	CacheDir          string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`
	Output            string `json:"output,omitempty" yaml:"output,omitempty"`
}

type PathMapConfiguration struct {
	DataDir string            `json:"data_directory,omitempty" yaml:"data_directory,omitempty"`
	Mount   string            `json:"mount,omitempty" yaml:"mount,omitempty"`
	Extra   map[string]string `json:"extra_mounts,omitempty" yaml:"extra_mounts,omitempty"`
	Output  string            `json:"output,omitempty" yaml:"output,omitempty"`
	Minify  bool              `json:"minify,omitempty" yaml:"minify,omitempty"`
}

// Mounts returns the primary mount merged with the extra ones
func (p PathMapConfiguration) Mounts() map[string]string {
	m := map[string]string{}
	for k, v := range p.Extra {
		m[k] = v
	}
	if p.Mount != "" && p.DataDir != "" {
		m[p.Mount] = p.DataDir
	}
	return m
}

type BuildsConfiguration struct {
	Root      string                 `json:"root,omitempty" yaml:"root,omitempty"`
	Mode      string                 `json:"mode,omitempty" yaml:"mode,omitempty"`
	Libraries []LibraryConfiguration `json:"libraries,omitempty" yaml:"libraries,omitempty"`
}

type LibraryConfiguration struct {
	Name  string `json:"name" yaml:"name"`
	Deps  string `json:"deps,omitempty" yaml:"deps,omitempty"`
	Copts string `json:"copts,omitempty" yaml:"copts,omitempty"`
}

type ServeConfiguration struct {
	Port int `json:"port" yaml:"port"`
}

// Init overlays the configuration file onto Config. A missing default file is
// not an error, a missing explicit one is.
func Init(configpath string) error {
	explicit := configpath != ""
	if !explicit {
		configpath = DefaultConfigFile
	}

	_, err := os.Stat(configpath)
	if err != nil {
		if !os.IsNotExist(err) || explicit {
			return errors.Wrapf(err, "could not access configuration file %s", configpath)
		}
		return nil
	}

	f, err := os.Open(configpath)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(configpath)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(Config)
	default:
		err = json.NewDecoder(f).Decode(Config)
	}
	if err != nil {
		return errors.Wrapf(err, "decoding configuration file %s", configpath)
	}

	return nil
}
