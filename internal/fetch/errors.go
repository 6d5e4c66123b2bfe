package fetch

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var errEmptyPage = eris.New("fetch: empty page body")

type httpStatusError struct {
	code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("fetch: status %d", e.code)
}

func statusError(code int) error {
	return &httpStatusError{code: code}
}
