// Package system provides the host collaborators the locale operations
// are built on: external command execution and small line-oriented file
// edits. The operations consume the System interface so tests can swap
// in a scripted fake.
package system

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
)

// Result holds the outcome of running an external command.
type Result struct {
	Retcode int    `json:"retcode"`
	Stdout  string `json:"stdout"`
	Stderr  string `json:"stderr"`
}

type System interface {
	// Output runs a command line and returns its standard output with
	// trailing whitespace stripped. The command line is split without
	// shell interpretation. Commands that cannot be run are logged and
	// yield "", like commands that print nothing.
	Output(command string) string

	// Retcode runs a command line and returns its exit code. An error
	// is returned only when the command could not be started at all.
	Retcode(command string) (int, error)

	// RunAll runs an argument vector and captures exit code, stdout and
	// stderr. A nonzero exit code is not an error.
	RunAll(argv []string) (*Result, error)

	// LookPath searches the OS search path for an executable.
	LookPath(name string) (string, error)

	// FileExists reports whether path is a regular file.
	FileExists(path string) bool

	// Touch creates an empty file at path if there is none and bumps
	// its timestamps otherwise.
	Touch(path string) error

	// Replace rewrites every line of the file at path matching pattern
	// with repl. When nothing matches, appendIfNotFound appends repl as
	// a new line, unless the file already contains it verbatim.
	Replace(path, pattern, repl string, appendIfNotFound bool) error

	// Search reports whether any line of the file at path matches
	// pattern.
	Search(path, pattern string) (bool, error)

	// ListDir returns the names of the entries of the directory at
	// path.
	ListDir(path string) ([]string, error)
}

type hostSystem struct{}

// New returns a System operating on the local host.
func New() System {
	return &hostSystem{}
}

func command(commandLine string) (*exec.Cmd, error) {
	argv, err := shlex.Split(commandLine)
	if err != nil {
		return nil, fmt.Errorf("cannot split command %q: %v", commandLine, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("cannot run an empty command")
	}
	/* #nosec G204 */
	return exec.Command(argv[0], argv[1:]...), nil
}

func (s *hostSystem) Output(commandLine string) string {
	cmd, err := command(commandLine)
	if err != nil {
		logrus.Errorf("%v", err)
		return ""
	}

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err = cmd.Run()
	if err != nil {
		// A command that ran but exited nonzero still produced output
		// worth returning, e.g. grep exits 1 when nothing matched.
		if _, isExitError := err.(*exec.ExitError); !isExitError {
			logrus.Errorf("running %q failed: %v", commandLine, err)
			return ""
		}
	}

	return strings.TrimRightFunc(stdout.String(), unicode.IsSpace)
}

func (s *hostSystem) Retcode(commandLine string) (int, error) {
	cmd, err := command(commandLine)
	if err != nil {
		return -1, err
	}

	err = cmd.Run()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return exitError.ExitCode(), nil
		}
		return -1, fmt.Errorf("running %q failed: %v", commandLine, err)
	}

	return 0, nil
}

func (s *hostSystem) RunAll(argv []string) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("cannot run an empty command")
	}

	var stdout, stderr bytes.Buffer
	/* #nosec G204 */
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout: strings.TrimRightFunc(stdout.String(), unicode.IsSpace),
		Stderr: strings.TrimRightFunc(stderr.String(), unicode.IsSpace),
	}
	if err != nil {
		exitError, ok := err.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("running %q failed: %v", argv[0], err)
		}
		result.Retcode = exitError.ExitCode()
	}

	return result, nil
}

func (s *hostSystem) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (s *hostSystem) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (s *hostSystem) Touch(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("cannot touch %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot touch %s: %v", path, err)
	}

	now := time.Now()
	return os.Chtimes(path, now, now)
}

// ReplaceLines is the edit Replace applies, exposed as a pure function
// over the file content. Replacing an already correct line and
// re-appending a line that is present both leave the content untouched,
// which is what makes the edit idempotent.
func ReplaceLines(content, pattern, repl string, appendIfNotFound bool) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid pattern %q: %v", pattern, err)
	}

	lines := strings.Split(content, "\n")
	found := false
	for i, line := range lines {
		if re.MatchString(line) {
			lines[i] = re.ReplaceAllString(line, repl)
			found = true
		}
	}

	if !found {
		for _, line := range lines {
			if line == repl {
				found = true
				break
			}
		}
	}

	if !found && appendIfNotFound {
		// Keep the file newline-terminated when it already was.
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines[len(lines)-1] = repl
			lines = append(lines, "")
		} else {
			lines = append(lines, repl)
		}
	}

	return strings.Join(lines, "\n"), nil
}

func (s *hostSystem) Replace(path, pattern, repl string, appendIfNotFound bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot replace in %s: %v", path, err)
	}

	content, err := ReplaceLines(string(data), pattern, repl, appendIfNotFound)
	if err != nil {
		return fmt.Errorf("cannot replace in %s: %v", path, err)
	}
	if content == string(data) {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("cannot replace in %s: %v", path, err)
	}
	return nil
}

func (s *hostSystem) Search(path, pattern string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid pattern %q: %v", pattern, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("cannot search %s: %v", path, err)
	}
	defer file.Close()

	// The pattern is tried line by line, so ^ and $ anchor each line and
	// an empty pattern cannot match past the trailing newline.
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if re.MatchString(scanner.Text()) {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("cannot search %s: %v", path, err)
	}
	return false, nil
}

func (s *hostSystem) ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("cannot list %s: %v", path, err)
	}

	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}
	return names, nil
}
