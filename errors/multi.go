package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none or only one non nil error is provided, it is returned untouched.
// Nested multi errors are flattened.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr is a list of errors that occurred together. The first error is
// used as the cause.
type multiErr []error

func (m multiErr) Error() string {
	if len(m) == 1 {
		return m[0].Error()
	}
	points := make([]string, len(m))
	for i, err := range m {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf(
		"%d errors occurred:\n\t%s\n",
		len(m), strings.Join(points, "\n\t"))
}

// Unpack implements the unpacker interface.
func (m multiErr) Unpack() []error {
	return []error(m)
}

// Cause returns the first error so that the error code of a multi error is
// the code of the first error.
func (m multiErr) Cause() error {
	if len(m) == 0 {
		return nil
	}
	return m[0]
}

// unpacker is implemented by errors that club together more than one error.
type unpacker interface {
	Unpack() []error
}

var (
	_ unpacker = multiErr(nil)
	_ causer   = multiErr(nil)
)
