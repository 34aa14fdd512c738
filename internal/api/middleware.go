package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/truthledger/truthledger/internal/errresponse"
	"github.com/truthledger/truthledger/internal/model"
)

// HeaderCaller carries the authenticated caller identity, set by the
// fronting auth layer. The engine never sees a request without one.
const HeaderCaller = "X-Ledger-Caller"

type ctxKey int8

const (
	ctxKeyCaller ctxKey = iota
	ctxKeyArticle
)

// CallerCtx middleware extracts the caller identity from the request
// headers. Mutating routes refuse requests without one.
func (a *API) CallerCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := model.Identity(r.Header.Get(HeaderCaller))
		if caller == "" {
			if err := render.Render(w, r, errresponse.ErrNoCaller); err != nil {
				a.log.Errorw(err.Error())
			}

			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyCaller, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ArticleCtx middleware is used to load an Article object from the URL
// parameters passed through as the request. In case the Article could
// not be found, we stop here and return a 404.
func (a *API) ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "articleID"), 10, 64)
		if err != nil {
			if err := render.Render(w, r, errresponse.ErrNotFound); err != nil {
				a.log.Errorw(err.Error())
			}

			return
		}

		article, err := a.engine.ArticleOf(id)
		if err != nil {
			if err := render.Render(w, r, errresponse.ErrNotFound); err != nil {
				a.log.Errorw(err.Error())
			}

			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyArticle, article)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerOnly middleware restricts the admin subrouter to the engine
// owner. The engine re-checks; this just keeps strangers out of
// /admin entirely.
func (a *API) OwnerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if callerFrom(r.Context()) != a.engine.Owner() {
			if err := render.Render(w, r, errresponse.ErrForbidden); err != nil {
				a.log.Errorw(err.Error())
			}

			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimit bounds the whole public surface with a shared token
// bucket.
func (a *API) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.limiter != nil && !a.limiter.Allow() {
			if err := render.Render(w, r, errresponse.ErrRateLimited); err != nil {
				a.log.Errorw(err.Error())
			}

			return
		}

		next.ServeHTTP(w, r)
	})
}

func callerFrom(ctx context.Context) model.Identity {
	caller, _ := ctx.Value(ctxKeyCaller).(model.Identity)

	return caller
}

func articleFrom(ctx context.Context) model.Article {
	article, _ := ctx.Value(ctxKeyArticle).(model.Article)

	return article
}
