// Package locale implements the operations the agent exposes: listing
// compiled locales, querying and setting the active one, availability
// checks and locale generation. All OS differences live behind the
// platform strategy; this package holds the flow that is the same
// everywhere.
package locale

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hostconf/locale-agent/internal/facts"
	"github.com/hostconf/locale-agent/internal/locales"
	"github.com/hostconf/locale-agent/internal/platform"
	"github.com/hostconf/locale-agent/internal/system"
)

// Manager runs the locale operations on one host. It holds no state of
// its own: every call re-reads the files and commands it needs, the OS
// remains the source of truth.
type Manager struct {
	platform platform.Platform
	sys      system.System
}

// New returns a Manager for the host described by f. The platform
// strategy is selected here, once, not per call.
func New(f *facts.Facts, sys system.System) *Manager {
	return &Manager{
		platform: platform.New(f, sys),
		sys:      sys,
	}
}

// Platform returns the name of the selected platform strategy.
func (m *Manager) Platform() string {
	return m.platform.Name()
}

// ListAvail lists the compiled locales, in the order locale -a reports
// them and spelled the way it spells them.
func (m *Manager) ListAvail() []string {
	return strings.Split(m.sys.Output("locale -a"), "\n")
}

// GetLocale returns the configured system locale, or "" when the host
// has none configured.
func (m *Manager) GetLocale() (string, error) {
	return m.platform.CurrentLocale()
}

// SetLocale makes locale the configured system locale.
func (m *Manager) SetLocale(locale string) (bool, error) {
	return m.platform.SetLocale(locale)
}

// Avail reports whether locale is compiled on this host. Spellings that
// normalize to the same identifier count as equal, so "en_US.UTF-8"
// finds the "en_US.utf8" that locale -a prints. Requests that cannot be
// normalized are logged and reported unavailable.
func (m *Manager) Avail(locale string) bool {
	normalized, err := locales.Normalize(locale)
	if err != nil {
		logrus.Errorf("unable to validate locale %q: %v", locale, err)
		return false
	}

	for _, avail := range m.ListAvail() {
		candidate, err := locales.Normalize(strings.TrimSpace(avail))
		if err != nil {
			continue
		}
		if candidate == normalized {
			return true
		}
	}
	return false
}

// GenLocale compiles locale so that it shows up in ListAvail. The
// locale must be declared in the OS locale database; an undeclared one
// is an expected failure, reported as (nil, false, nil) with the cause
// logged. Errors are reserved for hosts that cannot generate anything:
// an unreadable locale database, or neither locale-gen nor localedef
// installed. The returned result carries the compiler's output and the
// boolean is true when it exited 0.
func (m *Manager) GenLocale(locale string, verbose bool) (*system.Result, bool, error) {
	loc, valid, err := m.platform.ValidateLocale(locales.Split(locale))
	if err != nil {
		return nil, false, err
	}
	if !valid {
		return nil, false, nil
	}

	if err := m.platform.RegisterLocale(loc); err != nil {
		return nil, false, err
	}

	var argv []string
	if _, err := m.sys.LookPath("locale-gen"); err == nil {
		argv = append([]string{"locale-gen"}, m.platform.LocaleGenArgs(loc.String())...)
	} else if _, err := m.sys.LookPath("localedef"); err == nil {
		argv = []string{
			"localedef", "--force",
			"-i", loc.Language + "_" + loc.Territory,
			"-f", loc.Codeset,
			loc.String(),
		}
		if verbose {
			argv = append(argv, "--verbose")
		} else {
			argv = append(argv, "--quiet")
		}
	} else {
		return nil, false, fmt.Errorf(`command "locale-gen" or "localedef" was not found on this system`)
	}

	result, err := m.sys.RunAll(argv)
	if err != nil {
		return nil, false, err
	}
	if result.Retcode != 0 {
		logrus.Error(result.Stderr)
	}

	return result, result.Retcode == 0, nil
}
