package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoWorldSelected means an empty world reference was given and no world
// has ever been opened, so there is no last world to fall back to.
var ErrNoWorldSelected = errors.New("no world selected")

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// AmbiguousWorldError reports a world id prefix that matches more than one
// world.
type AmbiguousWorldError struct {
	Ref     string
	Matches []string
}

func (e *AmbiguousWorldError) Error() string {
	return fmt.Sprintf("world reference %q is ambiguous: matches %s", e.Ref, strings.Join(e.Matches, ", "))
}
