package tensor

import "fmt"

// IndexError reports a single-element index outside [-size, size) for its axis.
type IndexError struct {
	Index int64
	Axis  int
	Dim   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d is out of bounds for axis %d with size %d", e.Index, e.Axis, e.Dim)
}

// DTypeError reports an operand whose data type differs from the required one.
type DTypeError struct {
	Op   string
	Want DataType
	Got  DataType
}

func (e *DTypeError) Error() string {
	return fmt.Sprintf("%s: expected dtype %s, got %s", e.Op, e.Want, e.Got)
}

// ShapeError reports an operand whose shape differs from the required one.
// Operations here never broadcast; shapes must match exactly.
type ShapeError struct {
	Op   string
	Want Shape
	Got  Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: shape mismatch: expected %v, got %v", e.Op, e.Want, e.Got)
}

// AxisError reports an axis argument outside [-ndim, ndim).
type AxisError struct {
	Axis int
	Ndim int
}

func (e *AxisError) Error() string {
	return fmt.Sprintf("axis %d is out of bounds for tensor of dimension %d", e.Axis, e.Ndim)
}
