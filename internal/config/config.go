package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Listen            string        `yaml:"listen"`
	MaxUploadSize     int64         `yaml:"max_upload_size"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type StorageConfig struct {
	RootPath        string      `yaml:"root_path"`
	DirPermissions  os.FileMode `yaml:"dir_permissions"`
	FilePermissions os.FileMode `yaml:"file_permissions"`
	CreateRoot      bool        `yaml:"create_root"`
}

type TrashConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

type ArchiveConfig struct {
	PreservePaths bool `yaml:"preserve_paths"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type RoutesConfig struct {
	CreateDir     string `yaml:"create_dir"`
	RenameDir     string `yaml:"rename_dir"`
	DeleteDir     string `yaml:"delete_dir"`
	CopyDir       string `yaml:"copy_dir"`
	MoveDir       string `yaml:"move_dir"`
	Upload        string `yaml:"upload"`
	ListFiles     string `yaml:"list_files"`
	GetFile       string `yaml:"get_file"`
	DownloadFile  string `yaml:"download_file"`
	DownloadFiles string `yaml:"download_files"`
	RenameFile    string `yaml:"rename_file"`
	DeleteFiles   string `yaml:"delete_files"`
	CopyFiles     string `yaml:"copy_files"`
	MoveFiles     string `yaml:"move_files"`
	Health        string `yaml:"health"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Trash   TrashConfig   `yaml:"trash"`
	Archive ArchiveConfig `yaml:"archive"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Routes  RoutesConfig  `yaml:"routes"`
}

// Default всё кроме корня хранилища.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:            ":8080",
			MaxUploadSize:     4 << 30,
			ShutdownTimeout:   5 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			DirPermissions:  0o755,
			FilePermissions: 0o644,
			CreateRoot:      true,
		},
		Trash: TrashConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Routes: RoutesConfig{
			CreateDir:     "/dir/create",
			RenameDir:     "/dir/rename",
			DeleteDir:     "/dir/delete",
			CopyDir:       "/dir/copy",
			MoveDir:       "/dir/move",
			Upload:        "/upload",
			ListFiles:     "/listFiles",
			GetFile:       "/getFile",
			DownloadFile:  "/downloadAFile",
			DownloadFiles: "/downloadMultipleFiles",
			RenameFile:    "/rename",
			DeleteFiles:   "/deleteFiles",
			CopyFiles:     "/copyFiles",
			MoveFiles:     "/moveFiles",
			Health:        "/healthz",
		},
	}
}

// LoadConfigWithError reads filename over the defaults. An empty filename
// yields the defaults, which still need a root before Finalize.
func LoadConfigWithError(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	return cfg, nil
}

// Finalize делаю пути абсолютными и валидирую. звать после того как флаги применены.
func (cfg *Config) Finalize() error {
	paths := map[string]*string{
		"storage root path": &cfg.Storage.RootPath,
		"trash dir":         &cfg.Trash.Dir,
	}

	for name, path := range paths {
		if *path == "" {
			continue
		}
		absPath, absErr := filepath.Abs(*path)
		if absErr != nil {
			return fmt.Errorf("failed to resolve %s: %w", name, absErr)
		}
		*path = absPath
	}

	return validateConfig(cfg)
}

type validationError struct {
	field string
	msg   string
}

func (e validationError) Error() string {
	return fmt.Sprintf("%s: %s", e.field, e.msg)
}

func validateConfig(cfg *Config) error {
	type validator func() error

	validators := []validator{
		func() error { return validateRequiredString("storage.root_path", cfg.Storage.RootPath) },
		func() error { return validateRequiredString("server.listen", cfg.Server.Listen) },
		func() error { return validatePositiveInt64("server.max_upload_size", cfg.Server.MaxUploadSize) },
		func() error { return validatePositiveDuration("server.shutdown_timeout", cfg.Server.ShutdownTimeout) },
		func() error { return validatePermissions("storage.dir_permissions", cfg.Storage.DirPermissions) },
		func() error { return validatePermissions("storage.file_permissions", cfg.Storage.FilePermissions) },
		func() error { return validateOneOf("log.level", cfg.Log.Level, "debug", "info", "warn", "error") },
		func() error { return validateOneOf("log.format", cfg.Log.Format, "text", "json") },
		func() error { return validateRoutes(cfg) },
	}

	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}

	return nil
}

func validateRequiredString(field, value string) error {
	if value == "" {
		return validationError{field: field, msg: "is required"}
	}
	return nil
}

func validatePositiveInt64(field string, value int64) error {
	if value <= 0 {
		return validationError{field: field, msg: "must be greater than 0"}
	}
	return nil
}

func validatePositiveDuration(field string, value time.Duration) error {
	if value <= 0 {
		return validationError{field: field, msg: "must be a positive duration"}
	}
	return nil
}

func validatePermissions(field string, mode os.FileMode) error {
	if mode == 0 || mode&^os.ModePerm != 0 {
		return validationError{field: field, msg: fmt.Sprintf("must be permission bits, got %#o", uint32(mode))}
	}
	return nil
}

func validateOneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return validationError{field: field, msg: fmt.Sprintf("must be one of %v, got %q", allowed, value)}
}

func validateRoutes(cfg *Config) error {
	routes := map[string]string{
		"routes.create_dir":     cfg.Routes.CreateDir,
		"routes.rename_dir":     cfg.Routes.RenameDir,
		"routes.delete_dir":     cfg.Routes.DeleteDir,
		"routes.copy_dir":       cfg.Routes.CopyDir,
		"routes.move_dir":       cfg.Routes.MoveDir,
		"routes.upload":         cfg.Routes.Upload,
		"routes.list_files":     cfg.Routes.ListFiles,
		"routes.get_file":       cfg.Routes.GetFile,
		"routes.download_file":  cfg.Routes.DownloadFile,
		"routes.download_files": cfg.Routes.DownloadFiles,
		"routes.rename_file":    cfg.Routes.RenameFile,
		"routes.delete_files":   cfg.Routes.DeleteFiles,
		"routes.copy_files":     cfg.Routes.CopyFiles,
		"routes.move_files":     cfg.Routes.MoveFiles,
		"routes.health":         cfg.Routes.Health,
	}
	if cfg.Metrics.Enabled {
		routes["metrics.path"] = cfg.Metrics.Path
	}

	seen := make(map[string]string, len(routes))
	for field, route := range routes {
		if len(route) == 0 || route[0] != '/' {
			return validationError{field: field, msg: fmt.Sprintf("must start with '/', got %q", route)}
		}
		if other, dup := seen[route]; dup {
			return validationError{field: field, msg: fmt.Sprintf("duplicates %s (%s)", other, route)}
		}
		seen[route] = field
	}
	return nil
}
