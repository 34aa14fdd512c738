package errresponse

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/truthledger/truthledger/internal/ledger"
)

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	ErrorText  string `json:"error,omitempty"` // application-level error message, for debugging
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Error rendering response.",
		ErrorText:      err.Error(),
	}
}

// ErrEngine maps a ledger rejection onto an HTTP status. The sentinel
// decides the code; the wrapped message travels in the body.
func ErrEngine(err error) render.Renderer {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, ledger.ErrInvalidID):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrRetracted),
		errors.Is(err, ledger.ErrAlreadyRetracted),
		errors.Is(err, ledger.ErrAlreadyVoted):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
	case errors.Is(err, ledger.ErrEmptyTitle),
		errors.Is(err, ledger.ErrEmptyContentRef),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrOverflow):
		status = http.StatusUnprocessableEntity
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     "Rejected.",
		ErrorText:      err.Error(),
	}
}

var (
	ErrNotFound    = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found."}
	ErrNoCaller    = &ErrResponse{HTTPStatusCode: http.StatusUnauthorized, StatusText: "Missing caller identity."}
	ErrForbidden   = &ErrResponse{HTTPStatusCode: http.StatusForbidden, StatusText: "Forbidden."}
	ErrRateLimited = &ErrResponse{HTTPStatusCode: http.StatusTooManyRequests, StatusText: "Too many requests."}
)
