package platform

import (
	"github.com/hostconf/locale-agent/internal/locales"
)

// ubuntuPlatform behaves like Debian except for generation: locales are
// recorded under /var/lib/locales/supported.d/ and locale-gen runs
// without arguments, regenerating everything recorded there.
type ubuntuPlatform struct {
	debianPlatform
}

func (p *ubuntuPlatform) Name() string {
	return "ubuntu"
}

func (p *ubuntuPlatform) RegisterLocale(loc locales.Locale) error {
	if p.sys.FileExists(localeGenPath) {
		return registerLocaleGen(p.sys, loc)
	}

	supported := "/var/lib/locales/supported.d/" + loc.Language
	if err := p.sys.Touch(supported); err != nil {
		return err
	}

	locale := loc.String()
	return p.sys.Replace(supported, locale, locale, true)
}

func (p *ubuntuPlatform) LocaleGenArgs(locale string) []string {
	return nil
}
