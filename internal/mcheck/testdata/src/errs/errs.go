package errs

import (
	"errors"
	"fmt"
)

func build() []error {
	return []error{
		fmt.Errorf("oops %d", 1), // want "use xerrors.Errorf instead of fmt.Errorf"
		errors.New("oops"),       // want "use xerrors.New instead of errors.New"
	}
}

func check(err error) bool {
	return errors.Is(err, err)
}
