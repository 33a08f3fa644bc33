package platform

import (
	"strings"

	"github.com/hostconf/locale-agent/internal/locales"
	"github.com/hostconf/locale-agent/internal/system"
)

// gentooPlatform manages the locale through eselect.
type gentooPlatform struct {
	sys system.System
}

func (p *gentooPlatform) Name() string {
	return "gentoo"
}

func (p *gentooPlatform) CurrentLocale() (string, error) {
	return strings.TrimSpace(p.sys.Output("eselect --brief locale show")), nil
}

func (p *gentooPlatform) SetLocale(locale string) (bool, error) {
	retcode, err := p.sys.Retcode("eselect --brief locale set " + locale)
	if err != nil {
		return false, err
	}
	return retcode == 0, nil
}

func (p *gentooPlatform) ValidateLocale(loc locales.Locale) (locales.Locale, bool, error) {
	return fileValidate(p.sys, loc)
}

func (p *gentooPlatform) RegisterLocale(loc locales.Locale) error {
	return registerLocaleGen(p.sys, loc)
}

// LocaleGenArgs passes --generate: without it Gentoo's locale-gen
// rebuilds all of /etc/locale.gen instead of the one locale.
func (p *gentooPlatform) LocaleGenArgs(locale string) []string {
	return []string{"--generate", locale}
}
