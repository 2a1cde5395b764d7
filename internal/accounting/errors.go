package accounting

import (
	"errors"
	"fmt"

	"factorybook/internal/catalog"
)

// ErrAlreadyAttached guards InsertChild against nodes that already have a
// parent; detach first with RemoveChild.
var ErrAlreadyAttached = errors.New("node is already attached")

type UnknownNodeError struct {
	ID NodeID
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %s", e.ID)
}

type UnknownRecipeError struct {
	Recipe catalog.RecipeID
}

func (e *UnknownRecipeError) Error() string {
	return fmt.Sprintf("unknown recipe %q", e.Recipe)
}

type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for %d children", e.Index, e.Len)
}

type CycleDetectedError struct {
	Node NodeID
	Dest NodeID
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("moving node %s under %s would create a cycle", e.Node, e.Dest)
}

type InvalidClockSpeedError struct {
	Value float64
}

func (e *InvalidClockSpeedError) Error() string {
	return fmt.Sprintf("invalid clock speed %v: must be finite and not negative", e.Value)
}

type InvalidCopyCountError struct {
	Value float64
}

func (e *InvalidCopyCountError) Error() string {
	return fmt.Sprintf("invalid copy count %v: must be finite and not negative", e.Value)
}

type NotAGroupError struct {
	ID NodeID
}

func (e *NotAGroupError) Error() string {
	return fmt.Sprintf("node %s is not a group", e.ID)
}

type NotABuildingError struct {
	ID NodeID
}

func (e *NotABuildingError) Error() string {
	return fmt.Sprintf("node %s is not a building", e.ID)
}
