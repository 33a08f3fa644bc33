// Package system_mock provides a scripted, in-memory implementation of
// system.System for tests. Commands return whatever the fixture says,
// file edits run against the Files map with the real edit logic, and
// every command line that would have run is recorded.
package system_mock

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/hostconf/locale-agent/internal/system"
)

// Fixture scripts the fake host. The zero value behaves like a host
// where every command prints nothing and exits 0, no executables are
// installed and no files exist.
type Fixture struct {
	// Outputs maps verbatim command lines to what Output returns.
	Outputs map[string]string
	// Retcodes maps verbatim command lines to exit codes; commands not
	// listed exit 0.
	Retcodes map[string]int
	// Results maps space-joined argument vectors to RunAll results.
	Results map[string]*system.Result
	// Errors maps command lines (or space-joined vectors) to run
	// failures, for commands that cannot be started at all.
	Errors map[string]error
	// Executables maps names to paths for LookPath.
	Executables map[string]string
	// Files maps paths to file contents.
	Files map[string]string
	// Dirs maps directory paths to their entry names.
	Dirs map[string][]string

	// Commands records every command line and argument vector run.
	Commands []string
}

type systemMock struct {
	fixture *Fixture
}

// NewSystemMock returns a system.System scripted by fixture. The
// fixture stays shared with the caller so tests can inspect Commands
// and Files afterwards.
func NewSystemMock(fixture *Fixture) system.System {
	if fixture.Files == nil {
		fixture.Files = make(map[string]string)
	}
	return &systemMock{fixture: fixture}
}

func (s *systemMock) Output(command string) string {
	s.fixture.Commands = append(s.fixture.Commands, command)
	return s.fixture.Outputs[command]
}

func (s *systemMock) Retcode(command string) (int, error) {
	s.fixture.Commands = append(s.fixture.Commands, command)
	if err := s.fixture.Errors[command]; err != nil {
		return -1, err
	}
	return s.fixture.Retcodes[command], nil
}

func (s *systemMock) RunAll(argv []string) (*system.Result, error) {
	command := strings.Join(argv, " ")
	s.fixture.Commands = append(s.fixture.Commands, command)
	if err := s.fixture.Errors[command]; err != nil {
		return nil, err
	}
	if result, ok := s.fixture.Results[command]; ok {
		return result, nil
	}
	return &system.Result{}, nil
}

func (s *systemMock) LookPath(name string) (string, error) {
	if path, ok := s.fixture.Executables[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("executable file %q not found in $PATH", name)
}

func (s *systemMock) FileExists(path string) bool {
	_, ok := s.fixture.Files[path]
	return ok
}

func (s *systemMock) Touch(path string) error {
	if _, ok := s.fixture.Files[path]; !ok {
		s.fixture.Files[path] = ""
	}
	return nil
}

func (s *systemMock) Replace(path, pattern, repl string, appendIfNotFound bool) error {
	content, ok := s.fixture.Files[path]
	if !ok {
		return fmt.Errorf("cannot replace in %s: no such file", path)
	}

	replaced, err := system.ReplaceLines(content, pattern, repl, appendIfNotFound)
	if err != nil {
		return fmt.Errorf("cannot replace in %s: %v", path, err)
	}
	s.fixture.Files[path] = replaced
	return nil
}

func (s *systemMock) Search(path, pattern string) (bool, error) {
	content, ok := s.fixture.Files[path]
	if !ok {
		return false, fmt.Errorf("cannot search %s: no such file", path)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid pattern %q: %v", pattern, err)
	}

	// Line by line, like the host implementation.
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		if re.MatchString(scanner.Text()) {
			return true, nil
		}
	}
	return false, nil
}

func (s *systemMock) ListDir(path string) ([]string, error) {
	entries, ok := s.fixture.Dirs[path]
	if !ok {
		return nil, fmt.Errorf("cannot list %s: no such directory", path)
	}
	return entries, nil
}
