package dogfinderserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	dogdomain "github.com/Apurer/dog-finder/internal/domains/dogs/domain"
	dogports "github.com/Apurer/dog-finder/internal/domains/dogs/ports"
	favapp "github.com/Apurer/dog-finder/internal/domains/favorites/application"
	matchapp "github.com/Apurer/dog-finder/internal/domains/matching/application"
	searchapp "github.com/Apurer/dog-finder/internal/domains/search/application"
	sessionapp "github.com/Apurer/dog-finder/internal/domains/sessions/application"
	apierrors "github.com/Apurer/dog-finder/internal/shared/errors"
)

// ErrorResponder renders domain errors as RFC 7807 problems. A session
// expiry or an unknown session also clears the portal cookie.
type ErrorResponder struct {
	problems *apierrors.Responder
	cookie   SessionCookie
}

// NewErrorResponder builds the portal's error mapping.
func NewErrorResponder(logger *slog.Logger, cookie SessionCookie) *ErrorResponder {
	problems := apierrors.NewResponder("",
		mapAuthentication,
		apierrors.MapSentinel(apierrors.ErrSessionExpired, dogports.ErrSessionExpired),
		apierrors.MapSentinel(apierrors.ErrUnauthorized, sessionapp.ErrNoSession, favapp.ErrNoUser, matchapp.ErrNotLoggedIn),
		apierrors.MapSentinel(apierrors.ErrValidation,
			sessionapp.ErrInvalidLogin,
			searchapp.ErrInvalidFilters,
			dogdomain.ErrInvalidField,
			dogdomain.ErrInvalidOrder,
			dogdomain.ErrInvalidRange,
			dogdomain.ErrNegativeAge,
			favapp.ErrInvalidDogID,
		),
		apierrors.MapSentinel(apierrors.ErrConflict, searchapp.ErrBusy, matchapp.ErrBusy),
		apierrors.MapSentinel(apierrors.ErrNoFavorites, matchapp.ErrNoFavorites),
		apierrors.MapSentinel(apierrors.ErrNoMatch, matchapp.ErrNoMatch, matchapp.ErrNoMatchDetails),
		apierrors.MapSentinel(apierrors.ErrIncompleteResponse, searchapp.ErrIncompletePage),
		apierrors.MapSentinel(apierrors.ErrUpstream, dogports.ErrUnavailable, matchapp.ErrMatchFailed),
	)
	if logger != nil {
		problems = problems.WithLogger(logger)
	}
	return &ErrorResponder{problems: problems, cookie: cookie}
}

// Respond writes the problem for err and aborts the chain.
func (r *ErrorResponder) Respond(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, dogports.ErrSessionExpired) || errors.Is(err, sessionapp.ErrNoSession) {
		r.cookie.Clear(c)
	}
	r.problems.RespondError(c, err)
}

// BadRequest answers a malformed request. Binding validation failures are
// reported per field.
func (r *ErrorResponder) BadRequest(c *gin.Context, err error) {
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		fields := make(map[string]string, len(invalid))
		for _, fe := range invalid {
			fields[strings.ToLower(fe.Field())] = fe.Tag()
		}
		r.problems.ValidationFailed(c, fields)
		return
	}
	r.problems.BadRequest(c, err.Error())
}

// mapAuthentication reports a failed login as 401 unless the dog service was
// unreachable, which is a 502.
func mapAuthentication(err error) (apierrors.ProblemDetail, bool) {
	if !errors.Is(err, sessionapp.ErrAuthentication) {
		return apierrors.ProblemDetail{}, false
	}
	problem := apierrors.ErrAuthentication.WithDetail(err.Error())
	if errors.Is(err, dogports.ErrUnavailable) {
		problem.Status = http.StatusBadGateway
	}
	return problem, true
}
