// Package facts classifies the host operating system. The OS family is
// what every locale operation branches on; the remaining fields only
// feed the agent's status surface.
package facts

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const (
	osReleasePath = "/etc/os-release"
	machineIDPath = "/etc/machine-id"
)

// Facts describes the host. OS is the distribution name ("Debian",
// "Ubuntu", ...) and OSFamily the coarser family ("Arch", "RedHat",
// "Debian", "Gentoo", "Suse"). Hosts outside the known families carry
// an empty family. Facts are read-only input to the operations.
type Facts struct {
	OS            string
	OSFamily      string
	Kernel        string
	KernelRelease string
	MachineID     string
}

// families maps os-release IDs, and the IDs commonly found in ID_LIKE,
// to the family the operations dispatch on.
var families = map[string]string{
	"arch":      "Arch",
	"archarm":   "Arch",
	"fedora":    "RedHat",
	"rhel":      "RedHat",
	"centos":    "RedHat",
	"almalinux": "RedHat",
	"rocky":     "RedHat",
	"debian":    "Debian",
	"ubuntu":    "Debian",
	"raspbian":  "Debian",
	"gentoo":    "Gentoo",
	"suse":      "Suse",
	"sles":      "Suse",
	"opensuse":  "Suse",
}

// osNames maps os-release IDs to the distribution names the operations
// compare against. IDs not listed are capitalized as-is.
var osNames = map[string]string{
	"debian":              "Debian",
	"ubuntu":              "Ubuntu",
	"raspbian":            "Raspbian",
	"arch":                "Arch",
	"fedora":              "Fedora",
	"rhel":                "RedHat",
	"centos":              "CentOS",
	"almalinux":           "AlmaLinux",
	"rocky":               "Rocky",
	"gentoo":              "Gentoo",
	"sles":                "SLES",
	"opensuse-leap":       "Leap",
	"opensuse-tumbleweed": "Tumbleweed",
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func family(id string, idLike []string) string {
	if f, ok := families[id]; ok {
		return f
	}
	for _, like := range idLike {
		if f, ok := families[like]; ok {
			return f
		}
	}
	// opensuse ships IDs like "opensuse-leap" with ID_LIKE "suse"; catch
	// spins that carry neither the plain ID nor an ID_LIKE.
	if strings.HasPrefix(id, "opensuse") {
		return "Suse"
	}
	return ""
}

// FromOSRelease builds the classification from parsed os-release
// values. The ID field decides; ID_LIKE breaks ties for derivatives
// ("raspbian" carries ID_LIKE=debian).
func FromOSRelease(osrelease map[string]string) *Facts {
	id := strings.ToLower(osrelease["ID"])
	idLike := strings.Fields(strings.ToLower(osrelease["ID_LIKE"]))

	name, ok := osNames[id]
	if !ok {
		name = capitalize(id)
	}

	return &Facts{
		OS:       name,
		OSFamily: family(id, idLike),
	}
}

// Detect gathers the facts of the running host. A missing or malformed
// os-release is an error since nothing can be classified without it;
// kernel and machine-id are best effort.
func Detect() (*Facts, error) {
	f, err := os.Open(osReleasePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %v", osReleasePath, err)
	}
	defer f.Close()

	osrelease, err := readOSRelease(f)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %v", osReleasePath, err)
	}

	facts := FromOSRelease(osrelease)

	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		logrus.Warnf("uname failed: %v", err)
	} else {
		facts.Kernel = unix.ByteSliceToString(uts.Sysname[:])
		facts.KernelRelease = unix.ByteSliceToString(uts.Release[:])
	}

	facts.MachineID = readMachineID(machineIDPath)

	return facts, nil
}

// readMachineID returns the host's machine id, or "" when there is none
// or it does not parse as the dashless UUID systemd writes.
func readMachineID(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	id := strings.TrimSpace(string(raw))
	if _, err := uuid.Parse(id); err != nil {
		logrus.Warnf("ignoring malformed machine id in %s: %v", path, err)
		return ""
	}
	return id
}

func readOSRelease(r io.Reader) (map[string]string, error) {
	osrelease := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, errors.New("readOSRelease: invalid input")
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if len(value) > 0 && value[0] == '"' {
			if len(value) < 2 || value[len(value)-1] != '"' {
				return nil, errors.New("readOSRelease: invalid input")
			}
			value = value[1 : len(value)-1]
		}

		osrelease[key] = value
	}

	return osrelease, scanner.Err()
}
