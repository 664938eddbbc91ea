package response

import (
	"encoding/json"
	"net/http"

	"github.com/mrops-br/stock-manager-api/internal/domain"
)

const problemContentType = "application/problem+json"

// ProblemDetails is an RFC 7807 error body. Errors is only set for
// validation failures and maps each error code to its descriptions.
type ProblemDetails struct {
	Type     string              `json:"type"`
	Title    string              `json:"title"`
	Status   int                 `json:"status"`
	Detail   string              `json:"detail,omitempty"`
	Instance string              `json:"instance,omitempty"`
	Code     string              `json:"code,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem maps domain errors onto a problem details response.
//
// A list made only of validation errors becomes a 400 carrying every error.
// Any unexpected error becomes an opaque 500. Otherwise the first error
// decides the status.
func Problem(w http.ResponseWriter, r *http.Request, errs domain.Errors) {
	p := problemFor(errs)
	p.Instance = r.URL.Path

	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func problemFor(errs domain.Errors) ProblemDetails {
	if len(errs) == 0 || errs.AnyOfKind(domain.KindUnexpected) {
		return ProblemDetails{
			Type:   typeFor(http.StatusInternalServerError),
			Title:  "An unexpected error occurred.",
			Status: http.StatusInternalServerError,
		}
	}

	if errs.AllOfKind(domain.KindValidation) {
		grouped := make(map[string][]string, len(errs))
		for _, e := range errs {
			grouped[e.Code] = append(grouped[e.Code], e.Description)
		}
		return ProblemDetails{
			Type:   typeFor(http.StatusBadRequest),
			Title:  "One or more validation errors occurred.",
			Status: http.StatusBadRequest,
			Errors: grouped,
		}
	}

	first := errs[0]
	status := StatusFor(first.Kind)
	return ProblemDetails{
		Type:   typeFor(status),
		Title:  first.Description,
		Status: status,
		Code:   first.Code,
	}
}

// StatusFor returns the HTTP status for an error kind.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation, domain.KindInvalidQuery:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func typeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "https://tools.ietf.org/html/rfc7231#section-6.5.1"
	case http.StatusUnauthorized:
		return "https://tools.ietf.org/html/rfc7235#section-3.1"
	case http.StatusNotFound:
		return "https://tools.ietf.org/html/rfc7231#section-6.5.4"
	case http.StatusConflict:
		return "https://tools.ietf.org/html/rfc7231#section-6.5.8"
	default:
		return "https://tools.ietf.org/html/rfc7231#section-6.6.1"
	}
}
