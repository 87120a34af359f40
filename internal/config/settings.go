// Package config holds the user settings persisted in the database and the
// application config file.
package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sadopc/pomo/internal/store"
)

// ErrInvalidSettings is returned by Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Setting keys in the settings table.
const (
	KeyWorkMinutes             = "work_minutes"
	KeyBreakMinutes            = "break_minutes"
	KeyLongBreakMinutes        = "long_break_minutes"
	KeySessionsBeforeLongBreak = "sessions_before_long_break"
	KeySoundEnabled            = "sound_enabled"
	KeyDarkMode                = "dark_mode"
)

// Settings is the process-wide timer configuration.
type Settings struct {
	WorkMinutes             int
	BreakMinutes            int
	LongBreakMinutes        int
	SessionsBeforeLongBreak int
	SoundEnabled            bool
	DarkMode                bool
}

func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:             25,
		BreakMinutes:            5,
		LongBreakMinutes:        15,
		SessionsBeforeLongBreak: 4,
		SoundEnabled:            true,
		DarkMode:                false,
	}
}

func (s Settings) Validate() error {
	switch {
	case s.WorkMinutes <= 0:
		return fmt.Errorf("%w: work minutes must be positive", ErrInvalidSettings)
	case s.BreakMinutes <= 0:
		return fmt.Errorf("%w: break minutes must be positive", ErrInvalidSettings)
	case s.LongBreakMinutes <= 0:
		return fmt.Errorf("%w: long break minutes must be positive", ErrInvalidSettings)
	case s.SessionsBeforeLongBreak <= 0:
		return fmt.Errorf("%w: sessions before long break must be positive", ErrInvalidSettings)
	}
	return nil
}

// Set parses value into the field named by key.
func (s *Settings) Set(key, value string) error {
	ints := map[string]*int{
		KeyWorkMinutes:             &s.WorkMinutes,
		KeyBreakMinutes:            &s.BreakMinutes,
		KeyLongBreakMinutes:        &s.LongBreakMinutes,
		KeySessionsBeforeLongBreak: &s.SessionsBeforeLongBreak,
	}
	bools := map[string]*bool{
		KeySoundEnabled: &s.SoundEnabled,
		KeyDarkMode:     &s.DarkMode,
	}
	if dst, ok := ints[key]; ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidSettings, key, value)
		}
		*dst = n
		return nil
	}
	if dst, ok := bools[key]; ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidSettings, key, value)
		}
		*dst = b
		return nil
	}
	return fmt.Errorf("%w: unknown key %q", ErrInvalidSettings, key)
}

// SettingsStore is the key/value backend. *store.Store implements it.
type SettingsStore interface {
	GetSetting(key string) (string, error)
	SetSettings(pairs []store.Setting) error
}

// LoadSettings reads every key, keeping the default for keys that are
// missing or malformed. A nil store yields the defaults.
func LoadSettings(s SettingsStore) Settings {
	out := DefaultSettings()
	if s == nil {
		return out
	}
	out.WorkMinutes = positiveInt(s, KeyWorkMinutes, out.WorkMinutes)
	out.BreakMinutes = positiveInt(s, KeyBreakMinutes, out.BreakMinutes)
	out.LongBreakMinutes = positiveInt(s, KeyLongBreakMinutes, out.LongBreakMinutes)
	out.SessionsBeforeLongBreak = positiveInt(s, KeySessionsBeforeLongBreak, out.SessionsBeforeLongBreak)
	out.SoundEnabled = boolValue(s, KeySoundEnabled, out.SoundEnabled)
	out.DarkMode = boolValue(s, KeyDarkMode, out.DarkMode)
	return out
}

// SaveSettings validates and writes all keys.
func SaveSettings(s SettingsStore, st Settings) error {
	if err := st.Validate(); err != nil {
		return err
	}
	return s.SetSettings([]store.Setting{
		{Key: KeyWorkMinutes, Value: strconv.Itoa(st.WorkMinutes)},
		{Key: KeyBreakMinutes, Value: strconv.Itoa(st.BreakMinutes)},
		{Key: KeyLongBreakMinutes, Value: strconv.Itoa(st.LongBreakMinutes)},
		{Key: KeySessionsBeforeLongBreak, Value: strconv.Itoa(st.SessionsBeforeLongBreak)},
		{Key: KeySoundEnabled, Value: strconv.FormatBool(st.SoundEnabled)},
		{Key: KeyDarkMode, Value: strconv.FormatBool(st.DarkMode)},
	})
}

func positiveInt(s SettingsStore, key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func boolValue(s SettingsStore, key string, fallback bool) bool {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
