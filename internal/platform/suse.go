package platform

import (
	"github.com/hostconf/locale-agent/internal/locales"
	"github.com/hostconf/locale-agent/internal/system"
)

// susePlatform only differs from the fallback in where its locale
// database lives; queries and writes have no SUSE-specific handling.
type susePlatform struct {
	sys system.System
}

func (p *susePlatform) Name() string {
	return "suse"
}

func (p *susePlatform) CurrentLocale() (string, error) {
	return "", nil
}

func (p *susePlatform) SetLocale(locale string) (bool, error) {
	return true, nil
}

func (p *susePlatform) ValidateLocale(loc locales.Locale) (locales.Locale, bool, error) {
	return dirValidate(p.sys, suseLocalesPath, loc)
}

func (p *susePlatform) RegisterLocale(loc locales.Locale) error {
	return registerLocaleGen(p.sys, loc)
}

func (p *susePlatform) LocaleGenArgs(locale string) []string {
	return []string{locale}
}
