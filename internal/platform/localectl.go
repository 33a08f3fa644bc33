package platform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/hostconf/locale-agent/internal/system"
)

var localeParamRe = regexp.MustCompile(`^([A-Z_]+)=(.*)$`)

// parseLocalectl extracts the "System Locale" parameters from localectl
// output. The output is organized in blocks:
//
//	   System Locale: LANG=en_US.UTF-8
//	                  LC_TIME=de_DE.UTF-8
//	       VC Keymap: us
//
// A line containing a colon starts the block named by the text before
// it; lines without one continue the current block. Only the entries of
// the System Locale block are collected, as KEY=value pairs with double
// quotes stripped from the value, in the order localectl printed them.
// Entries not shaped like KEY=value are logged and skipped, never
// fatal. localectl is the source of truth: the map is rebuilt on every
// call and never cached.
func parseLocalectl(sys system.System) *orderedmap.OrderedMap[string, string] {
	params := orderedmap.New[string, string]()

	var block string
	for _, line := range strings.Split(sys.Output("localectl"), "\n") {
		cols := strings.SplitN(line, ":", 2)
		entry := strings.TrimSpace(cols[0])
		if len(cols) > 1 {
			block = entry
			entry = strings.TrimSpace(cols[1])
		}
		if block != "System Locale" {
			continue
		}

		m := localeParamRe.FindStringSubmatch(entry)
		if m == nil {
			logrus.Errorf("odd locale parameter %q detected in localectl output, ignoring it", entry)
			continue
		}
		params.Set(m[1], strings.ReplaceAll(m[2], `"`, ""))
	}

	return params
}

// localectlGet returns the LANG parameter, or "" when none is set.
func localectlGet(sys system.System) string {
	value, ok := parseLocalectl(sys).Get("LANG")
	if !ok {
		return ""
	}
	return value
}

// localectlSet updates LANG through localectl. The current parameters
// are re-read and passed along so everything set besides LANG survives
// the call.
func localectlSet(sys system.System, locale string) (bool, error) {
	params := parseLocalectl(sys)
	params.Set("LANG", locale)

	args := make([]string, 0, params.Len())
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		args = append(args, fmt.Sprintf("%s=\"%s\"", pair.Key, pair.Value))
	}

	retcode, err := sys.Retcode("localectl set-locale " + strings.Join(args, " "))
	if err != nil {
		return false, err
	}
	return retcode == 0, nil
}
