// Package platform implements the OS-specific strategies behind the
// locale operations. Operating system families store locale state in
// incompatible places (systemd hosts keep it in localectl, RedHat and
// Debian derivatives in sysconfig files, Gentoo in eselect), so each
// family gets its own Platform variant and selection happens once, from
// the host facts.
package platform

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hostconf/locale-agent/internal/facts"
	"github.com/hostconf/locale-agent/internal/locales"
	"github.com/hostconf/locale-agent/internal/system"
)

const (
	supportedPath   = "/usr/share/i18n/SUPPORTED"
	localesDirPath  = "/usr/share/i18n/locales"
	suseLocalesPath = "/usr/share/locale"
	localeGenPath   = "/etc/locale.gen"
)

type Platform interface {
	// Name identifies the variant in logs and the status API.
	Name() string

	// CurrentLocale returns the configured system locale, or "" when
	// the host has none.
	CurrentLocale() (string, error)

	// SetLocale makes locale the configured system locale. The boolean
	// reports whether the OS accepted it; errors are reserved for hosts
	// missing the tooling the change needs.
	SetLocale(locale string) (bool, error)

	// ValidateLocale checks loc against the OS locale database. It
	// returns the locale to use from here on (the charmap may have been
	// filled in), whether the locale is declared, and an error when the
	// database itself cannot be read.
	ValidateLocale(loc locales.Locale) (locales.Locale, bool, error)

	// RegisterLocale marks loc as enabled so the locale compiler picks
	// it up. Families without a registration step do nothing.
	RegisterLocale(loc locales.Locale) error

	// LocaleGenArgs returns the arguments locale-gen needs on this OS
	// to compile locale.
	LocaleGenArgs(locale string) []string
}

// New selects the strategy for the host described by f. Hosts outside
// the known families get a fallback that answers queries with "" and
// treats mutations as no-ops.
func New(f *facts.Facts, sys system.System) Platform {
	switch {
	case strings.Contains(f.OSFamily, "Arch"):
		return &archPlatform{sys: sys}
	case strings.Contains(f.OSFamily, "RedHat"):
		return &redhatPlatform{sys: sys}
	case strings.Contains(f.OSFamily, "Debian"):
		if f.OS == "Ubuntu" {
			return &ubuntuPlatform{debianPlatform{sys: sys, os: f.OS}}
		}
		return &debianPlatform{sys: sys, os: f.OS}
	case strings.Contains(f.OSFamily, "Gentoo"):
		return &gentooPlatform{sys: sys}
	case strings.Contains(f.OSFamily, "Suse"):
		return &susePlatform{sys: sys}
	default:
		return &otherPlatform{sys: sys}
	}
}

// secondField extracts the value from KEY=value output: the text after
// the first "=", up to the next one, with all double quotes stripped.
// Output without a "=" yields "".
func secondField(out string) string {
	fields := strings.Split(out, "=")
	if len(fields) < 2 {
		return ""
	}
	return strings.ReplaceAll(fields[1], `"`, "")
}

// fileValidate checks loc against the SUPPORTED file, the locale
// database on hosts that compile from one. Entries there carry an
// explicit charmap, so when loc has none the codeset doubles as the
// charmap and the search runs once more ("en_IE.UTF-8" is declared as
// "en_IE.UTF-8 UTF-8").
func fileValidate(sys system.System, loc locales.Locale) (locales.Locale, bool, error) {
	valid, err := sys.Search(supportedPath, "^"+loc.String()+"$")
	if err != nil {
		return loc, false, err
	}

	if !valid && loc.Charmap == "" {
		loc.Charmap = loc.Codeset
		valid, err = sys.Search(supportedPath, "^"+loc.String()+"$")
		if err != nil {
			return loc, false, err
		}
	}

	if !valid {
		logrus.Errorf("the provided locale %q was not found in %s", loc.String(), supportedPath)
	}
	return loc, valid, nil
}

// dirValidate checks for a language_territory entry in the locale
// source directory dir. An unreadable directory is a host configuration
// problem and surfaces as an error, unlike a locale that simply is not
// declared.
func dirValidate(sys system.System, dir string, loc locales.Locale) (locales.Locale, bool, error) {
	entries, err := sys.ListDir(dir)
	if err != nil {
		return loc, false, fmt.Errorf("locale %q is not available: %v", loc.String(), err)
	}

	name := loc.Language + "_" + loc.Territory
	for _, entry := range entries {
		if entry == name {
			return loc, true, nil
		}
	}

	logrus.Errorf("the provided locale %q was not found in %s", loc.String(), dir)
	return loc, false, nil
}

// registerLocaleGen uncomments the locale's line in /etc/locale.gen, or
// appends one, so locale-gen regenerates it. Hosts without the file
// have no registration step.
func registerLocaleGen(sys system.System, loc locales.Locale) error {
	if !sys.FileExists(localeGenPath) {
		return nil
	}

	locale := loc.String()
	return sys.Replace(localeGenPath, fmt.Sprintf(`^\s*#\s*%s\s*$`, locale), locale, true)
}
