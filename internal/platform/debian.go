package platform

import (
	"fmt"

	"github.com/hostconf/locale-agent/internal/locales"
	"github.com/hostconf/locale-agent/internal/system"
)

const debianLocalePath = "/etc/default/locale"

// debianPlatform covers the Debian family. It keeps the finer OS name
// around because Debian proper validates against the SUPPORTED file
// while its derivatives ship compiled locale sources instead.
type debianPlatform struct {
	sys system.System
	os  string
}

func (p *debianPlatform) Name() string {
	return "debian"
}

func (p *debianPlatform) CurrentLocale() (string, error) {
	out := p.sys.Output(`grep "^LANG=" ` + debianLocalePath)
	return secondField(out), nil
}

// SetLocale regenerates /etc/default/locale with update-locale and then
// pins LANG in it. A host without update-locale cannot be configured
// and that is an explicit error, not a silent no-op.
func (p *debianPlatform) SetLocale(locale string) (bool, error) {
	updateLocale, err := p.sys.LookPath("update-locale")
	if err != nil {
		return false, fmt.Errorf(`cannot set locale: "update-locale" was not found: %v`, err)
	}
	p.sys.Output(updateLocale)

	err = p.sys.Replace(debianLocalePath, "^LANG=.*", fmt.Sprintf(`LANG="%s"`, locale), true)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *debianPlatform) ValidateLocale(loc locales.Locale) (locales.Locale, bool, error) {
	if p.os == "Debian" {
		return fileValidate(p.sys, loc)
	}
	return dirValidate(p.sys, localesDirPath, loc)
}

func (p *debianPlatform) RegisterLocale(loc locales.Locale) error {
	return registerLocaleGen(p.sys, loc)
}

func (p *debianPlatform) LocaleGenArgs(locale string) []string {
	return []string{locale}
}
