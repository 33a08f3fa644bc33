package platform

import (
	"fmt"

	"github.com/hostconf/locale-agent/internal/locales"
	"github.com/hostconf/locale-agent/internal/system"
)

const redhatI18nPath = "/etc/sysconfig/i18n"

// redhatPlatform keeps the locale in /etc/sysconfig/i18n.
type redhatPlatform struct {
	sys system.System
}

func (p *redhatPlatform) Name() string {
	return "redhat"
}

func (p *redhatPlatform) CurrentLocale() (string, error) {
	out := p.sys.Output(`grep "^LANG=" ` + redhatI18nPath)
	return secondField(out), nil
}

// SetLocale pins LANG in the i18n file, creating it when the host has
// none. The write is not verified beyond the file edit itself.
func (p *redhatPlatform) SetLocale(locale string) (bool, error) {
	if !p.sys.FileExists(redhatI18nPath) {
		if err := p.sys.Touch(redhatI18nPath); err != nil {
			return false, err
		}
	}

	err := p.sys.Replace(redhatI18nPath, "^LANG=.*", fmt.Sprintf(`LANG="%s"`, locale), true)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *redhatPlatform) ValidateLocale(loc locales.Locale) (locales.Locale, bool, error) {
	return dirValidate(p.sys, localesDirPath, loc)
}

func (p *redhatPlatform) RegisterLocale(loc locales.Locale) error {
	return registerLocaleGen(p.sys, loc)
}

func (p *redhatPlatform) LocaleGenArgs(locale string) []string {
	return []string{locale}
}
