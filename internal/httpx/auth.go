package httpx

import "net/http"

const (
	HeaderAuthorization  = "Authorization"
	HeaderXAuthorization = "X-Authorization"
)

// Credential returns the value of header as sent. Empty means absent.
// Scheme prefixes are left in place; interpreting them is the oracle's job.
func Credential(r *http.Request, header string) string {
	return r.Header.Get(header)
}
