package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/steamcalc/pkg/steam"
	"github.com/charlie0129/steamcalc/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		Precision:              ptr.To(2),
		Units:                  ptr.To(steam.SI.String()),
		ProviderTimeoutSeconds: ptr.To(5.0),
		AllowNonRootAccess:     ptr.To(false),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

// Path is the file the configuration is loaded from and saved to.
func (f *File) Path() string { return f.filepath }

type RawFileConfig struct {
	Precision              *int     `json:"precision,omitempty"`
	Units                  *string  `json:"units,omitempty"`
	ProviderTimeoutSeconds *float64 `json:"providerTimeoutSeconds,omitempty"`
	AllowNonRootAccess     *bool    `json:"allowNonRootAccess,omitempty"`
}

// NewRawFileConfigFromConfig returns c with every default filled in.
func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		Precision:              ptr.To(c.Precision()),
		Units:                  ptr.To(c.Units()),
		ProviderTimeoutSeconds: ptr.To(c.ProviderTimeout().Seconds()),
		AllowNonRootAccess:     ptr.To(c.AllowNonRootAccess()),
	}

	return rawConfig, nil
}

func (f *File) Precision() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Precision != nil {
		return *f.c.Precision
	}
	return *defaultFileConfig.Precision
}

func (f *File) Units() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Units != nil {
		return *f.c.Units
	}
	return *defaultFileConfig.Units
}

func (f *File) ProviderTimeout() time.Duration {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	seconds := *defaultFileConfig.ProviderTimeoutSeconds
	if f.c.ProviderTimeoutSeconds != nil {
		seconds = *f.c.ProviderTimeoutSeconds
	}

	return time.Duration(seconds * float64(time.Second))
}

func (f *File) AllowNonRootAccess() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var allowNonRootAccess bool

	if f.c.AllowNonRootAccess != nil {
		allowNonRootAccess = *f.c.AllowNonRootAccess
	} else {
		allowNonRootAccess = *defaultFileConfig.AllowNonRootAccess
	}

	return allowNonRootAccess
}

func (f *File) SetPrecision(i int) {
	if f.c == nil {
		panic("config is nil")
	}

	if i < MinPrecision || i > MaxPrecision {
		panic("precision must be between 0 and 10")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Precision = &i
}

func (f *File) SetUnits(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	u, err := steam.ParseUnitSystem(s)
	if err != nil {
		panic(err)
	}
	name := u.String()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Units = &name
}

func (f *File) SetProviderTimeout(d time.Duration) {
	if f.c == nil {
		panic("config is nil")
	}

	if d < 0 {
		panic("provider timeout must not be negative")
	}
	seconds := d.Seconds()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ProviderTimeoutSeconds = &seconds
}

func (f *File) SetAllowNonRootAccess(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.AllowNonRootAccess = &b
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing file means defaults. Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// json.Decoder cannot tell an empty file from a broken one.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	if err := conf.validate(); err != nil {
		return pkgerrors.Wrapf(err, "invalid config in file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (c *RawFileConfig) validate() error {
	if c.Precision != nil && (*c.Precision < MinPrecision || *c.Precision > MaxPrecision) {
		return pkgerrors.Errorf("precision must be between %d and %d, got %d", MinPrecision, MaxPrecision, *c.Precision)
	}
	if c.Units != nil {
		if _, err := steam.ParseUnitSystem(*c.Units); err != nil {
			return err
		}
	}
	if c.ProviderTimeoutSeconds != nil && *c.ProviderTimeoutSeconds < 0 {
		return pkgerrors.Errorf("providerTimeoutSeconds must not be negative, got %g", *c.ProviderTimeoutSeconds)
	}
	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"precision":          f.Precision(),
		"units":              f.Units(),
		"providerTimeout":    f.ProviderTimeout(),
		"allowNonRootAccess": f.AllowNonRootAccess(),
	}
}
