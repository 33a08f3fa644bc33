package facts

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOSRelease(t *testing.T) {
	input := `NAME="Ubuntu"
VERSION="22.04.4 LTS (Jammy Jellyfish)"
ID=ubuntu
ID_LIKE=debian

# a comment
PRETTY_NAME="Ubuntu 22.04.4 LTS"
`
	osrelease, err := readOSRelease(strings.NewReader(input))
	require.NoError(t, err)

	want := map[string]string{
		"NAME":        "Ubuntu",
		"VERSION":     "22.04.4 LTS (Jammy Jellyfish)",
		"ID":          "ubuntu",
		"ID_LIKE":     "debian",
		"PRETTY_NAME": "Ubuntu 22.04.4 LTS",
	}
	if diff := cmp.Diff(want, osrelease); diff != "" {
		t.Errorf("unexpected os-release (-want +got):\n%s", diff)
	}
}

func TestReadOSReleaseInvalid(t *testing.T) {
	for _, input := range []string{"NAME", `NAME="unterminated`} {
		_, err := readOSRelease(strings.NewReader(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestFromOSRelease(t *testing.T) {
	cases := []struct {
		name       string
		osrelease  map[string]string
		wantOS     string
		wantFamily string
	}{
		{"arch", map[string]string{"ID": "arch"}, "Arch", "Arch"},
		{"fedora", map[string]string{"ID": "fedora"}, "Fedora", "RedHat"},
		{"rhel", map[string]string{"ID": "rhel", "ID_LIKE": "fedora"}, "RedHat", "RedHat"},
		{"centos", map[string]string{"ID": "centos", "ID_LIKE": "rhel fedora"}, "CentOS", "RedHat"},
		{"debian", map[string]string{"ID": "debian"}, "Debian", "Debian"},
		{"ubuntu", map[string]string{"ID": "ubuntu", "ID_LIKE": "debian"}, "Ubuntu", "Debian"},
		{"raspbian", map[string]string{"ID": "raspbian", "ID_LIKE": "debian"}, "Raspbian", "Debian"},
		{"gentoo", map[string]string{"ID": "gentoo"}, "Gentoo", "Gentoo"},
		{"sles", map[string]string{"ID": "sles", "ID_LIKE": "suse"}, "SLES", "Suse"},
		{"leap", map[string]string{"ID": "opensuse-leap", "ID_LIKE": "suse opensuse"}, "Leap", "Suse"},
		{"tumbleweed", map[string]string{"ID": "opensuse-tumbleweed"}, "Tumbleweed", "Suse"},
		{"unknown", map[string]string{"ID": "freebsd"}, "Freebsd", ""},
		{"derivative by id_like", map[string]string{"ID": "linuxmint", "ID_LIKE": "ubuntu debian"}, "Linuxmint", "Debian"},
		{"empty", map[string]string{}, "", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			facts := FromOSRelease(c.osrelease)
			assert.Equal(t, c.wantOS, facts.OS)
			assert.Equal(t, c.wantFamily, facts.OSFamily)
		})
	}
}

func TestReadMachineID(t *testing.T) {
	assert.Equal(t, "", readMachineID("testdata/does-not-exist"))
	assert.Equal(t, "", readMachineID("testdata/malformed-machine-id"))
	assert.Equal(t, "8a22049d158c42b7b509cac561bfaa52", readMachineID("testdata/machine-id"))
}
