package platform

import (
	"github.com/hostconf/locale-agent/internal/locales"
	"github.com/hostconf/locale-agent/internal/system"
)

// archPlatform manages the locale through systemd's localectl.
type archPlatform struct {
	sys system.System
}

func (p *archPlatform) Name() string {
	return "arch"
}

func (p *archPlatform) CurrentLocale() (string, error) {
	return localectlGet(p.sys), nil
}

func (p *archPlatform) SetLocale(locale string) (bool, error) {
	return localectlSet(p.sys, locale)
}

func (p *archPlatform) ValidateLocale(loc locales.Locale) (locales.Locale, bool, error) {
	return dirValidate(p.sys, localesDirPath, loc)
}

func (p *archPlatform) RegisterLocale(loc locales.Locale) error {
	return registerLocaleGen(p.sys, loc)
}

func (p *archPlatform) LocaleGenArgs(locale string) []string {
	return []string{locale}
}
