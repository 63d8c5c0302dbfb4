package multierr

import "strings"

// Err collects several errors into one, eg. every problem found in a file
// rather than just the first
type Err []error

func (me Err) Error() string {
	var builder strings.Builder
	for i, err := range me {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(err.Error())
	}
	return builder.String()
}

func (me Err) Len() int {
	return len(me)
}

func (me *Err) Add(err error) {
	if err == nil {
		return
	}
	*me = append(*me, err)
}

func (me Err) Unwrap() []error {
	return me
}

// Or is nil when nothing was added
func (me Err) Or() error {
	if len(me) == 0 {
		return nil
	}
	return me
}
