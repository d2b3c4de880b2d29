package site

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thatguystone/cdnify/internal"
	"github.com/thatguystone/cog/stringc"
)

// A Error is returned when any pages could not be rewritten
type Error map[string][]error

func (err Error) getError() error {
	if len(err) == 0 {
		return nil
	}

	return err
}

func (err Error) add(path string, e error) {
	err[path] = append(err[path], e)
}

func (err Error) Error() string {
	var paths []string
	for path := range err {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("the following pages have errors:\n")

	for _, path := range paths {
		fmt.Fprintf(&b, internal.Indent+"%q\n", path)

		for _, err := range err[path] {
			b.WriteString(stringc.Indent(err.Error(), internal.Indent+internal.Indent))
			b.WriteString("\n")
		}
	}

	return b.String()
}
