package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/ssargent/tilemaze/pkg/store"
)

const (
	confirmYes     = "y"
	confirmYesLong = "yes"
)

// confirm asks a yes/no question unless --yes was given
func (a *app) confirm(question string) bool {
	if a.yes {
		return true
	}
	fmt.Fprintf(a.out, "%s (y/N): ", question)

	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	response := strings.ToLower(strings.TrimSpace(line))
	return response == confirmYes || response == confirmYesLong
}

// confirmOverwrite asks before an existing save is replaced
func (a *app) confirmOverwrite() store.OverwriteFunc {
	return func(path string) bool {
		return a.confirm(fmt.Sprintf("%s already exists. Overwrite?", path))
	}
}

// printf writes a status message unless --quiet was given
func (a *app) printf(format string, args ...interface{}) {
	if !a.quiet {
		fmt.Fprintf(a.out, format, args...)
	}
}
