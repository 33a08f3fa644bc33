package locale

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostconf/locale-agent/internal/facts"
	system_mock "github.com/hostconf/locale-agent/internal/mocks/system"
	"github.com/hostconf/locale-agent/internal/system"
)

func TestPlatform(t *testing.T) {
	sys := system_mock.NewSystemMock(&system_mock.Fixture{})

	m := New(&facts.Facts{OS: "Fedora", OSFamily: "RedHat"}, sys)
	assert.Equal(t, "redhat", m.Platform())

	m = New(&facts.Facts{OS: "Freebsd"}, sys)
	assert.Equal(t, "other", m.Platform())
}

func TestListAvail(t *testing.T) {
	fixture := &system_mock.Fixture{
		Outputs: map[string]string{
			"locale -a": "C\nC.utf8\nen_US.utf8\nPOSIX",
		},
	}
	m := New(&facts.Facts{OS: "Fedora", OSFamily: "RedHat"}, system_mock.NewSystemMock(fixture))

	assert.Equal(t, []string{"C", "C.utf8", "en_US.utf8", "POSIX"}, m.ListAvail())
}

func TestGetSetRoundTrip(t *testing.T) {
	t.Run("arch", func(t *testing.T) {
		fixture := &system_mock.Fixture{
			Outputs: map[string]string{
				"localectl": "   System Locale: LANG=de_DE.UTF-8\n       VC Keymap: us",
			},
		}
		m := New(&facts.Facts{OS: "Arch", OSFamily: "Arch"}, system_mock.NewSystemMock(fixture))

		ok, err := m.SetLocale("de_DE.UTF-8")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Contains(t, fixture.Commands, `localectl set-locale LANG="de_DE.UTF-8"`)

		locale, err := m.GetLocale()
		require.NoError(t, err)
		assert.Equal(t, "de_DE.UTF-8", locale)
	})

	t.Run("redhat", func(t *testing.T) {
		fixture := &system_mock.Fixture{
			Outputs: map[string]string{
				`grep "^LANG=" /etc/sysconfig/i18n`: `LANG="de_DE.UTF-8"`,
			},
		}
		m := New(&facts.Facts{OS: "Fedora", OSFamily: "RedHat"}, system_mock.NewSystemMock(fixture))

		ok, err := m.SetLocale("de_DE.UTF-8")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "LANG=\"de_DE.UTF-8\"\n", fixture.Files["/etc/sysconfig/i18n"])

		locale, err := m.GetLocale()
		require.NoError(t, err)
		assert.Equal(t, "de_DE.UTF-8", locale)
	})

	t.Run("debian", func(t *testing.T) {
		fixture := &system_mock.Fixture{
			Outputs: map[string]string{
				`grep "^LANG=" /etc/default/locale`: `LANG="de_DE.UTF-8"`,
			},
			Executables: map[string]string{
				"update-locale": "/usr/sbin/update-locale",
			},
			Files: map[string]string{
				"/etc/default/locale": "LANG=\"C.UTF-8\"\n",
			},
		}
		m := New(&facts.Facts{OS: "Debian", OSFamily: "Debian"}, system_mock.NewSystemMock(fixture))

		ok, err := m.SetLocale("de_DE.UTF-8")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "LANG=\"de_DE.UTF-8\"\n", fixture.Files["/etc/default/locale"])

		locale, err := m.GetLocale()
		require.NoError(t, err)
		assert.Equal(t, "de_DE.UTF-8", locale)
	})
}

func TestAvail(t *testing.T) {
	fixture := &system_mock.Fixture{
		Outputs: map[string]string{
			"locale -a": "C\nPOSIX\nen_US.utf8\n en_GB.utf8\n.utf8",
		},
	}
	m := New(&facts.Facts{OS: "Fedora", OSFamily: "RedHat"}, system_mock.NewSystemMock(fixture))

	cases := []struct {
		locale string
		want   bool
	}{
		{"en_US.utf8", true},
		{"en_US.UTF-8", true},
		{"en_GB.UTF-8", true},
		{"de_DE.UTF-8", false},
		{".UTF-8", false},
	}

	for _, c := range cases {
		t.Run(c.locale, func(t *testing.T) {
			assert.Equal(t, c.want, m.Avail(c.locale))
		})
	}
}

func TestGenLocaleUndeclared(t *testing.T) {
	fixture := &system_mock.Fixture{
		Files: map[string]string{
			"/usr/share/i18n/SUPPORTED": "de_DE.UTF-8 UTF-8\n",
		},
		Executables: map[string]string{
			"locale-gen": "/usr/sbin/locale-gen",
		},
	}
	m := New(&facts.Facts{OS: "Debian", OSFamily: "Debian"}, system_mock.NewSystemMock(fixture))

	result, ok, err := m.GenLocale("en_US.UTF-8", false)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.False(t, ok)
	assert.Empty(t, fixture.Commands)
}

func TestGenLocaleEmpty(t *testing.T) {
	localeGen := "#\n# en_IE.UTF-8 UTF-8\n"
	fixture := &system_mock.Fixture{
		Files: map[string]string{
			"/usr/share/i18n/SUPPORTED": "en_IE.UTF-8 UTF-8\n",
			"/etc/locale.gen":           localeGen,
		},
		Executables: map[string]string{
			"locale-gen": "/usr/sbin/locale-gen",
		},
	}
	m := New(&facts.Facts{OS: "Debian", OSFamily: "Debian"}, system_mock.NewSystemMock(fixture))

	// An empty locale is undeclared like any other. Validation has to
	// turn it down before registration edits /etc/locale.gen, whose
	// bare # separator lines its pattern would strip, and before the
	// compiler runs with an empty argument.
	result, ok, err := m.GenLocale("", false)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.False(t, ok)
	assert.Equal(t, localeGen, fixture.Files["/etc/locale.gen"])
	assert.Empty(t, fixture.Commands)
}

func TestGenLocaleToolsMissing(t *testing.T) {
	fixture := &system_mock.Fixture{
		Files: map[string]string{
			"/usr/share/i18n/SUPPORTED": "en_US.UTF-8 UTF-8\n",
		},
	}
	m := New(&facts.Facts{OS: "Debian", OSFamily: "Debian"}, system_mock.NewSystemMock(fixture))

	result, ok, err := m.GenLocale("en_US.UTF-8", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"locale-gen" or "localedef"`)
	assert.Nil(t, result)
	assert.False(t, ok)
}

func TestGenLocaleLocaleGen(t *testing.T) {
	fixture := &system_mock.Fixture{
		Files: map[string]string{
			"/usr/share/i18n/SUPPORTED": "en_IE.UTF-8 UTF-8\n",
			"/etc/locale.gen":           "# en_IE.UTF-8 UTF-8\nde_DE.UTF-8 UTF-8\n",
		},
		Executables: map[string]string{
			"locale-gen": "/usr/sbin/locale-gen",
		},
		Results: map[string]*system.Result{
			"locale-gen en_IE.UTF-8 UTF-8": {Retcode: 0, Stdout: "Generating locales..."},
		},
	}
	m := New(&facts.Facts{OS: "Debian", OSFamily: "Debian"}, system_mock.NewSystemMock(fixture))

	// The request has no charmap, so validation fills it in from the
	// codeset and everything downstream sees the full entry.
	result, ok, err := m.GenLocale("en_IE.UTF-8", false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Generating locales...", result.Stdout)

	assert.Equal(t, "en_IE.UTF-8 UTF-8\nde_DE.UTF-8 UTF-8\n", fixture.Files["/etc/locale.gen"])
	assert.Equal(t, []string{"locale-gen en_IE.UTF-8 UTF-8"}, fixture.Commands)
}

func TestGenLocaleGentoo(t *testing.T) {
	fixture := &system_mock.Fixture{
		Files: map[string]string{
			"/usr/share/i18n/SUPPORTED": "en_US.UTF-8 UTF-8\n",
		},
		Executables: map[string]string{
			"locale-gen": "/usr/sbin/locale-gen",
		},
	}
	m := New(&facts.Facts{OS: "Gentoo", OSFamily: "Gentoo"}, system_mock.NewSystemMock(fixture))

	_, ok, err := m.GenLocale("en_US.UTF-8", false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"locale-gen --generate en_US.UTF-8 UTF-8"}, fixture.Commands)
}

func TestGenLocaleUbuntu(t *testing.T) {
	fixture := &system_mock.Fixture{
		Dirs: map[string][]string{
			"/usr/share/i18n/locales": {"de_DE", "en_US"},
		},
		Executables: map[string]string{
			"locale-gen": "/usr/sbin/locale-gen",
		},
	}
	m := New(&facts.Facts{OS: "Ubuntu", OSFamily: "Debian"}, system_mock.NewSystemMock(fixture))

	_, ok, err := m.GenLocale("en_US.UTF-8", false)
	require.NoError(t, err)
	require.True(t, ok)

	// Registered per language, compiled without naming the locale.
	assert.Equal(t, "en_US.UTF-8\n", fixture.Files["/var/lib/locales/supported.d/en"])
	assert.Equal(t, []string{"locale-gen"}, fixture.Commands)
}

func TestGenLocaleLocaledef(t *testing.T) {
	cases := []struct {
		name    string
		verbose bool
		retcode int
		command string
		wantOK  bool
	}{
		{"quiet", false, 0, "localedef --force -i en_US -f UTF-8 en_US.UTF-8 --quiet", true},
		{"verbose", true, 0, "localedef --force -i en_US -f UTF-8 en_US.UTF-8 --verbose", true},
		{"failed", false, 1, "localedef --force -i en_US -f UTF-8 en_US.UTF-8 --quiet", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fixture := &system_mock.Fixture{
				Dirs: map[string][]string{
					"/usr/share/i18n/locales": {"en_US"},
				},
				Executables: map[string]string{
					"localedef": "/usr/bin/localedef",
				},
				Results: map[string]*system.Result{
					c.command: {Retcode: c.retcode, Stderr: "localedef says no"},
				},
			}
			m := New(&facts.Facts{OS: "Fedora", OSFamily: "RedHat"}, system_mock.NewSystemMock(fixture))

			result, ok, err := m.GenLocale("en_US.UTF-8", c.verbose)
			require.NoError(t, err)
			assert.Equal(t, c.wantOK, ok)
			assert.Equal(t, c.retcode, result.Retcode)
			assert.Equal(t, []string{c.command}, fixture.Commands)
		})
	}
}

func TestGenLocaleDatabaseMissing(t *testing.T) {
	fixture := &system_mock.Fixture{
		Executables: map[string]string{
			"locale-gen": "/usr/sbin/locale-gen",
		},
	}
	m := New(&facts.Facts{OS: "Fedora", OSFamily: "RedHat"}, system_mock.NewSystemMock(fixture))

	result, ok, err := m.GenLocale("en_US.UTF-8", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not available")
	assert.Nil(t, result)
	assert.False(t, ok)
}

func TestGenLocaleCompileUnstartable(t *testing.T) {
	fixture := &system_mock.Fixture{
		Dirs: map[string][]string{
			"/usr/share/i18n/locales": {"en_US"},
		},
		Executables: map[string]string{
			"locale-gen": "/usr/sbin/locale-gen",
		},
		Errors: map[string]error{
			"locale-gen en_US.UTF-8": fmt.Errorf("fork failed"),
		},
	}
	m := New(&facts.Facts{OS: "Fedora", OSFamily: "RedHat"}, system_mock.NewSystemMock(fixture))

	result, ok, err := m.GenLocale("en_US.UTF-8", false)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.False(t, ok)
}
