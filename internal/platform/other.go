package platform

import (
	"github.com/hostconf/locale-agent/internal/locales"
	"github.com/hostconf/locale-agent/internal/system"
)

// otherPlatform is the fallback for hosts outside the known families.
// Queries come back empty and writes succeed without touching anything,
// so a misclassified host degrades silently instead of erroring.
type otherPlatform struct {
	sys system.System
}

func (p *otherPlatform) Name() string {
	return "other"
}

func (p *otherPlatform) CurrentLocale() (string, error) {
	return "", nil
}

func (p *otherPlatform) SetLocale(locale string) (bool, error) {
	return true, nil
}

func (p *otherPlatform) ValidateLocale(loc locales.Locale) (locales.Locale, bool, error) {
	return dirValidate(p.sys, localesDirPath, loc)
}

func (p *otherPlatform) RegisterLocale(loc locales.Locale) error {
	return registerLocaleGen(p.sys, loc)
}

func (p *otherPlatform) LocaleGenArgs(locale string) []string {
	return []string{locale}
}
