package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/igoryan-dao/sal/internal/fsutil"
	"github.com/igoryan-dao/sal/internal/paths"
	"github.com/mitchellh/mapstructure"
)

// ErrNoReportEmail is returned when the morning routine has nowhere to send its report.
var ErrNoReportEmail = errors.New("no report_email configured")

const (
	KeyDefaultProfile  = "default_profile"
	KeyClaudeDir       = "claude_dir"
	KeySkipPermissions = "skip_permissions"
	KeyReportEmail     = "report_email"
)

// Settings is the typed view of config.json
type Settings struct {
	DefaultProfile  string `mapstructure:"default_profile"`
	ClaudeDir       string `mapstructure:"claude_dir"`
	SkipPermissions bool   `mapstructure:"skip_permissions"`
	ReportEmail     string `mapstructure:"report_email"`
}

// Defaults returns the values every config starts from.
func Defaults() map[string]any {
	return map[string]any{
		KeyDefaultProfile:  nil,
		KeyClaudeDir:       "~/sal/desktop",
		KeySkipPermissions: true,
	}
}

// Store is the free-form key/value settings file. Unknown keys are kept
// so `sal config <key> <value>` can hold anything.
type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := readValues(s.path)
	if err != nil {
		return err
	}
	s.values = values
	return nil
}

func readValues(path string) (map[string]any, error) {
	var values map[string]any
	if _, err := fsutil.ReadJSON(path, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = make(map[string]any)
	}
	for key, value := range Defaults() {
		if _, ok := values[key]; !ok {
			values[key] = value
		}
	}
	return values, nil
}

// Update reloads the file under lock, applies fn and writes the result.
func (s *Store) Update(fn func(values map[string]any)) error {
	unlock, err := fsutil.Lock(s.path)
	if err != nil {
		return err
	}
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := readValues(s.path)
	if err != nil {
		return err
	}
	fn(values)

	if err := fsutil.WriteJSON(s.path, values); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.values = values
	return nil
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Store) Set(key string, value any) error {
	if err := validate(key, value); err != nil {
		return err
	}
	return s.Update(func(values map[string]any) {
		values[key] = value
	})
}

// Settings decodes the raw values into the typed view.
func (s *Store) Settings() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out Settings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(lenientBool),
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(s.values); err != nil {
		return out, fmt.Errorf("invalid settings in %s: %w", s.path, err)
	}
	return out, nil
}

// validate rejects values the typed view could not decode later.
func validate(key string, value any) error {
	if key != KeySkipPermissions {
		return nil
	}
	switch value.(type) {
	case bool, nil:
		return nil
	}
	return fmt.Errorf("invalid value %q for %s (use true or false)", FormatValue(value), key)
}

// lenientBool reads hand-edited bool strings. Anything unrecognised counts
// as true, which is the skip_permissions default.
func lenientBool(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	raw := strings.TrimSpace(reflect.ValueOf(data).String())
	switch strings.ToLower(raw) {
	case "":
		return false, nil
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Treating unrecognised bool %q as true", raw)
		return true, nil
	}
	return b, nil
}

// SetDefaultProfile stores name, or clears it when name is empty.
func (s *Store) SetDefaultProfile(name string) error {
	if name == "" {
		return s.Set(KeyDefaultProfile, nil)
	}
	return s.Set(KeyDefaultProfile, name)
}

// ClaudeDir returns the expanded working directory for launches.
func (s *Store) ClaudeDir() (string, error) {
	settings, err := s.Settings()
	if err != nil {
		return "", err
	}
	dir := settings.ClaudeDir
	if dir == "" {
		dir = Defaults()[KeyClaudeDir].(string)
	}
	return paths.ExpandHome(dir), nil
}

// ParseValue converts command-line input into a stored value:
// true/false become bools, none becomes null, anything else stays a string.
func ParseValue(raw string) any {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	case "none":
		return nil
	}
	return raw
}

// FormatValue renders a stored value the way ParseValue reads it back.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "none"
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
