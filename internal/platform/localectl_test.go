package platform

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	system_mock "github.com/hostconf/locale-agent/internal/mocks/system"
)

func paramsList(params *orderedmap.OrderedMap[string, string]) [][2]string {
	var list [][2]string
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, [2]string{pair.Key, pair.Value})
	}
	return list
}

func TestParseLocalectl(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   [][2]string
	}{
		{
			name: "full status",
			output: "   System Locale: LANG=en_US.UTF-8\n" +
				"                  LC_TIME=de_DE.UTF-8\n" +
				"       VC Keymap: us\n" +
				"      X11 Layout: us\n",
			want: [][2]string{{"LANG", "en_US.UTF-8"}, {"LC_TIME", "de_DE.UTF-8"}},
		},
		{
			name:   "quoted values",
			output: "System Locale:\n   LANG=\"en_US.UTF-8\"",
			want:   [][2]string{{"LANG", "en_US.UTF-8"}},
		},
		{
			name:   "no locale block",
			output: "VC Keymap: us\nX11 Layout: us",
			want:   nil,
		},
		{
			name:   "odd entries are skipped",
			output: "System Locale: LANG=en_US.UTF-8\n   lang=broken\n   LC_TIME=C",
			want:   [][2]string{{"LANG", "en_US.UTF-8"}, {"LC_TIME", "C"}},
		},
		{
			name:   "empty output",
			output: "",
			want:   nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sys := system_mock.NewSystemMock(&system_mock.Fixture{
				Outputs: map[string]string{"localectl": c.output},
			})

			params := parseLocalectl(sys)
			if diff := cmp.Diff(c.want, paramsList(params)); diff != "" {
				t.Errorf("unexpected parameters (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLocalectlGet(t *testing.T) {
	sys := system_mock.NewSystemMock(&system_mock.Fixture{
		Outputs: map[string]string{"localectl": "System Locale: LANG=en_US.UTF-8"},
	})
	assert.Equal(t, "en_US.UTF-8", localectlGet(sys))

	sys = system_mock.NewSystemMock(&system_mock.Fixture{
		Outputs: map[string]string{"localectl": "System Locale: LC_TIME=C"},
	})
	assert.Equal(t, "", localectlGet(sys))
}

func TestLocalectlSetPreservesParameters(t *testing.T) {
	fixture := &system_mock.Fixture{
		Outputs: map[string]string{
			"localectl": "   System Locale: LANG=en_US.UTF-8\n" +
				"                  LC_TIME=de_DE.UTF-8\n" +
				"       VC Keymap: us\n",
		},
	}
	sys := system_mock.NewSystemMock(fixture)

	ok, err := localectlSet(sys, "C.UTF-8")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t,
		`localectl set-locale LANG="C.UTF-8" LC_TIME="de_DE.UTF-8"`,
		fixture.Commands[len(fixture.Commands)-1])
}

func TestLocalectlSetNoParameters(t *testing.T) {
	fixture := &system_mock.Fixture{}
	sys := system_mock.NewSystemMock(fixture)

	ok, err := localectlSet(sys, "en_US.UTF-8")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t,
		`localectl set-locale LANG="en_US.UTF-8"`,
		fixture.Commands[len(fixture.Commands)-1])
}

func TestLocalectlSetFailure(t *testing.T) {
	sys := system_mock.NewSystemMock(&system_mock.Fixture{
		Retcodes: map[string]int{
			`localectl set-locale LANG="nope"`: 1,
		},
	})

	ok, err := localectlSet(sys, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	sys = system_mock.NewSystemMock(&system_mock.Fixture{
		Errors: map[string]error{
			`localectl set-locale LANG="nope"`: fmt.Errorf("localectl not found"),
		},
	})

	_, err = localectlSet(sys, "nope")
	assert.Error(t, err)
}
