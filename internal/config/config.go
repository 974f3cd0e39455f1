// SPDX-FileCopyrightText:  © 2023 Siemens Healthcare GmbH
// SPDX-License-Identifier:   MIT

package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lago-morph/ai-k8s-sub000/internal/definitions"
	"github.com/lago-morph/ai-k8s-sub000/internal/host"
	"github.com/lago-morph/ai-k8s-sub000/internal/logging"
	"github.com/lago-morph/ai-k8s-sub000/internal/primitives/units"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"k8s.io/client-go/tools/clientcmd"
)

const (
	ConfigDirFlagName   = "config-dir"
	KubeconfigFlagName  = "kubeconfig"
	MaxBackupsFlagName  = "max-backups"
	LockTimeoutFlagName = "lock-timeout"

	KeyKubeconfigPath       = "kubeconfig.path"
	KeyMaxBackups           = "kubeconfig.maxBackups"
	KeyAllowDuplicateServer = "kubeconfig.allowDuplicateServer"
	KeyMaxFileSize          = "kubeconfig.maxFileSize"
	KeyLockTimeout          = "lock.timeout"
	KeyLogDir               = "log.dir"

	defaultsPath = "embed/defaults.yaml"
	schemaPath   = "embed/settings.schema.json"
	schemaURL    = "settings.schema.json"
	configType   = "yaml"
)

type Settings struct {
	ConfigDir  string
	File       string
	Kubeconfig KubeconfigSettings `mapstructure:"kubeconfig"`
	Lock       LockSettings       `mapstructure:"lock"`
	Log        LogSettings        `mapstructure:"log"`
}

type KubeconfigSettings struct {
	Path                 string `mapstructure:"path"`
	MaxBackups           int    `mapstructure:"maxBackups"`
	AllowDuplicateServer bool   `mapstructure:"allowDuplicateServer"`
	MaxFileSize          string `mapstructure:"maxFileSize"`
	MaxFileSizeBytes     units.ByteSize
}

type LockSettings struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogSettings struct {
	Dir string `mapstructure:"dir"`
}

// SettingsError marks invalid user-provided settings, whatever their source (file, env or flag).
type SettingsError struct {
	Path string
	Err  error
}

type Loader struct {
	config             *viper.Viper
	embeddedFileReader fileReader
	osFileReader       fileReader
	validator          settingsValidator
}

type fileReader interface {
	readFile(path string) ([]byte, error)
}

type settingsValidator interface {
	validate(content any) error
}

type embeddedFileReader struct{}

type osFileReader struct{}

type schemaValidator struct{}

var (
	//go:embed embed/*
	embeddedFiles embed.FS

	flagKeys = map[string]string{
		KubeconfigFlagName:  KeyKubeconfigPath,
		MaxBackupsFlagName:  KeyMaxBackups,
		LockTimeoutFlagName: KeyLockTimeout,
	}
)

func (e *SettingsError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid settings: %v", e.Err)
	}
	return fmt.Sprintf("invalid settings in '%s': %v", e.Path, e.Err)
}

func (e *SettingsError) Unwrap() error {
	return e.Err
}

func (e *SettingsError) Hints() []string {
	hints := []string{fmt.Sprintf("Check the %s settings and the %s_* environment variables", definitions.CliName, definitions.EnvPrefix)}
	if e.Path != "" {
		hints = append(hints, fmt.Sprintf("Fix or remove '%s'", e.Path))
	}
	return hints
}

func NewLoader() *Loader {
	return &Loader{
		config:             viper.New(),
		embeddedFileReader: &embeddedFileReader{},
		osFileReader:       &osFileReader{},
		validator:          &schemaValidator{},
	}
}

// ResolveConfigDir determines the config dir by precedence: flag value, env var, default
func ResolveConfigDir(flagValue string) (string, error) {
	dir := flagValue
	if dir == "" {
		dir = os.Getenv(definitions.ConfigDirEnvVar)
	}
	if dir == "" {
		dir = definitions.DefaultConfigDir
	}
	return host.ResolvePath(dir)
}

// DefaultKubeconfigPath returns the first entry of $KUBECONFIG or kubectl's default file
func DefaultKubeconfigPath() string {
	for _, path := range filepath.SplitList(os.Getenv(definitions.KubeconfigEnvVar)) {
		if path != "" {
			return path
		}
	}
	return clientcmd.RecommendedHomeFile
}

// Load reads the settings with increasing precedence from embedded defaults, the settings file in the
// given config dir, MK8_* env vars and the given flags, if set.
func (l *Loader) Load(configDir string, flags *pflag.FlagSet) (*Settings, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, err
	}

	settingsPath := filepath.Join(configDir, definitions.SettingsFileName)
	if err := l.loadUserSettings(settingsPath); err != nil {
		return nil, err
	}

	l.config.SetEnvPrefix(definitions.EnvPrefix)
	l.config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.config.AutomaticEnv()

	if err := l.bindFlags(flags); err != nil {
		return nil, err
	}

	var settings Settings
	if err := l.config.Unmarshal(&settings); err != nil {
		return nil, &SettingsError{Err: err}
	}

	settings.ConfigDir = configDir
	settings.File = settingsPath

	if err := settings.complete(); err != nil {
		return nil, err
	}

	slog.Debug("Settings loaded", "kubeconfig-path", settings.Kubeconfig.Path, "max-backups", settings.Kubeconfig.MaxBackups,
		"max-file-size", settings.Kubeconfig.MaxFileSizeBytes, "lock-timeout", settings.Lock.Timeout, "log-dir", settings.Log.Dir)

	return &settings, nil
}

func (l *Loader) loadDefaults() error {
	slog.Debug("Loading embedded default settings", "path", defaultsPath)

	content, err := l.embeddedFileReader.readFile(defaultsPath)
	if err != nil {
		return err
	}

	l.config.SetConfigType(configType)

	return l.config.ReadConfig(bytes.NewReader(content))
}

func (l *Loader) loadUserSettings(path string) error {
	content, err := l.osFileReader.readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Settings file not existing, using defaults", "path", path)
		return nil
	}
	if err != nil {
		return &SettingsError{Path: path, Err: err}
	}

	slog.Debug("Validating settings file", "path", path)

	var genericContent any
	if err := yaml.Unmarshal(content, &genericContent); err != nil {
		return &SettingsError{Path: path, Err: err}
	}
	if genericContent == nil {
		slog.Debug("Settings file empty", "path", path)
		return nil
	}

	if err := l.validator.validate(genericContent); err != nil {
		return &SettingsError{Path: path, Err: err}
	}

	slog.Debug("Merging settings file", "path", path)

	if err := l.config.MergeConfig(bytes.NewReader(content)); err != nil {
		return &SettingsError{Path: path, Err: err}
	}
	return nil
}

func (l *Loader) bindFlags(flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for flagName, key := range flagKeys {
		flag := flags.Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := l.config.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("could not bind flag '%s': %w", flagName, err)
		}
	}
	return nil
}

func (s *Settings) complete() error {
	if s.Kubeconfig.MaxBackups < 1 || s.Kubeconfig.MaxBackups > definitions.MaxBackupsLimit {
		return &SettingsError{Err: fmt.Errorf("'%s' must be between 1 and %d, but is %d", KeyMaxBackups, definitions.MaxBackupsLimit, s.Kubeconfig.MaxBackups)}
	}
	if s.Lock.Timeout <= 0 {
		return &SettingsError{Err: fmt.Errorf("'%s' must be positive, but is %v", KeyLockTimeout, s.Lock.Timeout)}
	}

	size, err := units.ParseByteSize(s.Kubeconfig.MaxFileSize)
	if err != nil {
		return &SettingsError{Err: fmt.Errorf("invalid '%s': %w", KeyMaxFileSize, err)}
	}
	if size == 0 {
		return &SettingsError{Err: fmt.Errorf("'%s' must not be 0", KeyMaxFileSize)}
	}
	s.Kubeconfig.MaxFileSizeBytes = size

	if s.Kubeconfig.Path == "" {
		s.Kubeconfig.Path = DefaultKubeconfigPath()
	}
	if s.Kubeconfig.Path, err = host.ResolvePath(s.Kubeconfig.Path); err != nil {
		return err
	}

	if s.Log.Dir == "" {
		s.Log.Dir = logging.DefaultLogDir(s.ConfigDir)
	}
	if s.Log.Dir, err = host.ResolvePath(s.Log.Dir); err != nil {
		return err
	}
	return nil
}

func (*schemaValidator) validate(content any) error {
	schemaContent, err := embeddedFiles.ReadFile(schemaPath)
	if err != nil {
		return err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaContent)); err != nil {
		return fmt.Errorf("could not load settings schema: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("could not compile settings schema: %w", err)
	}
	return schema.Validate(content)
}

func (*embeddedFileReader) readFile(path string) ([]byte, error) {
	return embeddedFiles.ReadFile(path)
}

func (*osFileReader) readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
