package htmldoc

import (
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/user/brand-ingest/internal/repository"
)

// CheckStatus maps the HTTP status of the main document onto the fetch
// errors. A zero status means the browser did not report one and passes.
func CheckStatus(pageURL string, status int) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden,
		status == http.StatusPaymentRequired, status == http.StatusUnavailableForLegalReasons:
		return eris.Wrapf(repository.ErrContentRestricted, "%s answered %d", pageURL, status)
	case status >= http.StatusBadRequest:
		return eris.Wrapf(repository.ErrNavigationFailed, "%s answered %d", pageURL, status)
	}
	return nil
}
