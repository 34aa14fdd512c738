package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/truthledger/truthledger/internal/articlepayload"
	"github.com/truthledger/truthledger/internal/errresponse"
	"github.com/truthledger/truthledger/internal/ledger"
	"github.com/truthledger/truthledger/internal/model"
)

const listCacheKey = "articles"

// Options tunes the HTTP surface, not the ledger rules.
type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
	ListCacheTTL   time.Duration
}

// API serves the engine over REST. All ledger rules live in the
// engine; this layer only translates requests, callers and errors.
type API struct {
	engine    *ledger.Engine
	log       *zap.SugaredLogger
	listCache *cache.Cache
	listTTL   time.Duration
	limiter   *rate.Limiter
}

func New(engine *ledger.Engine, log *zap.SugaredLogger, opts Options) *API {
	ttl := opts.ListCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	var limiter *rate.Limiter
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst <= 0 {
			burst = int(opts.RateLimitRPS)
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}

	return &API{
		engine:    engine,
		log:       log,
		listCache: cache.New(ttl, 2*ttl),
		listTTL:   ttl,
		limiter:   limiter,
	}
}

// Router builds the RESTy routes for the ledger resources.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(a.RateLimit)

	r.Route("/articles", func(r chi.Router) {
		r.Get("/", a.ListArticles)
		r.With(a.CallerCtx).Post("/", a.SubmitArticle)

		r.Route("/{articleID}", func(r chi.Router) {
			r.Use(a.ArticleCtx)
			r.Get("/", a.GetArticle)
			r.With(a.CallerCtx).Put("/", a.EditArticle)
			r.With(a.CallerCtx).Delete("/", a.RetractArticle)
			r.With(a.CallerCtx).Post("/votes", a.Vote)
			r.Get("/revisions", a.ListRevisions)
		})
	})

	r.With(a.CallerCtx).Put("/profile", a.SetProfile)
	r.Get("/profiles/{identity}", a.GetProfile)
	r.Get("/balances/{identity}", a.GetBalance)
	r.Get("/events", a.ListEvents)

	r.Mount("/admin", a.adminRouter())

	return r
}

// adminRouter is a completely separate router for owner routes.
func (a *API) adminRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(a.CallerCtx)
	r.Use(a.OwnerOnly)
	r.Post("/airdrop", a.Airdrop)

	return r
}

func (a *API) articleResponse(id uint64) (*articlepayload.ArticleResponse, error) {
	article, err := a.engine.ArticleOf(id)
	if err != nil {
		return nil, err
	}
	revisions, err := a.engine.RevisionCountOf(id)
	if err != nil {
		return nil, err
	}
	votes, err := a.engine.VoteCountOf(id)
	if err != nil {
		return nil, err
	}

	return articlepayload.NewArticleResponse(article, revisions, votes), nil
}

// ListArticles returns every article in submission order. The response
// is cached for a few seconds and invalidated by any mutation.
func (a *API) ListArticles(w http.ResponseWriter, r *http.Request) {
	if cached, ok := a.listCache.Get(listCacheKey); ok {
		if err := render.RenderList(w, r, cached.([]render.Renderer)); err != nil {
			a.renderErr(w, r, errresponse.ErrRender(err))
		}

		return
	}

	responses := make([]*articlepayload.ArticleResponse, 0, a.engine.ArticleCount())
	for _, id := range a.engine.ArticleIDs() {
		resp, err := a.articleResponse(id)
		if err != nil {
			a.renderErr(w, r, errresponse.ErrEngine(err))

			return
		}
		responses = append(responses, resp)
	}

	list := articlepayload.NewArticleListResponse(responses)
	a.listCache.Set(listCacheKey, list, a.listTTL)

	if err := render.RenderList(w, r, list); err != nil {
		a.renderErr(w, r, errresponse.ErrRender(err))
	}
}

// SubmitArticle registers the posted article under the caller's
// authorship and acknowledges with the assigned id.
func (a *API) SubmitArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlepayload.SubmitRequest{}
	if err := render.Bind(r, data); err != nil {
		a.renderErr(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	caller := callerFrom(r.Context())
	id, err := a.engine.SubmitArticle(caller, data.Title, data.Category, data.ContentRef, data.Tags, data.SourceURL)
	if err != nil {
		a.renderErr(w, r, errresponse.ErrEngine(err))

		return
	}

	a.listCache.Delete(listCacheKey)

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, &articlepayload.SubmitResponse{ID: id}); err != nil {
		a.log.Errorw(err.Error())
	}
}

// GetArticle returns the specific Article loaded by ArticleCtx.
func (a *API) GetArticle(w http.ResponseWriter, r *http.Request) {
	article := articleFrom(r.Context())

	resp, err := a.articleResponse(article.ID)
	if err != nil {
		a.renderErr(w, r, errresponse.ErrEngine(err))

		return
	}

	if err := render.Render(w, r, resp); err != nil {
		a.renderErr(w, r, errresponse.ErrRender(err))
	}
}

// EditArticle replaces the article's content reference for EDIT_COST
// HASH and returns the refreshed article.
func (a *API) EditArticle(w http.ResponseWriter, r *http.Request) {
	article := articleFrom(r.Context())

	data := &articlepayload.EditRequest{}
	if err := render.Bind(r, data); err != nil {
		a.renderErr(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	caller := callerFrom(r.Context())
	if err := a.engine.EditArticle(caller, article.ID, data.ContentRef); err != nil {
		a.renderErr(w, r, errresponse.ErrEngine(err))

		return
	}

	a.listCache.Delete(listCacheKey)

	resp, err := a.articleResponse(article.ID)
	if err != nil {
		a.renderErr(w, r, errresponse.ErrEngine(err))

		return
	}

	if err := render.Render(w, r, resp); err != nil {
		a.renderErr(w, r, errresponse.ErrRender(err))
	}
}

// RetractArticle marks the article retracted. One-way; a second
// retraction is rejected with a conflict.
func (a *API) RetractArticle(w http.ResponseWriter, r *http.Request) {
	article := articleFrom(r.Context())
	caller := callerFrom(r.Context())

	if err := a.engine.RetractArticle(caller, article.ID); err != nil {
		a.renderErr(w, r, errresponse.ErrEngine(err))

		return
	}

	a.listCache.Delete(listCacheKey)

	resp, err := a.articleResponse(article.ID)
	if err != nil {
		a.renderErr(w, r, errresponse.ErrEngine(err))

		return
	}

	if err := render.Render(w, r, resp); err != nil {
		a.renderErr(w, r, errresponse.ErrRender(err))
	}
}

// Vote casts the caller's credibility judgement on the article.
func (a *API) Vote(w http.ResponseWriter, r *http.Request) {
	article := articleFrom(r.Context())

	data := &articlepayload.VoteRequest{}
	if err := render.Bind(r, data); err != nil {
		a.renderErr(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	caller := callerFrom(r.Context())
	index, err := a.engine.Vote(caller, article.ID, *data.Credible, data.Comment)
	if err != nil {
		a.renderErr(w, r, errresponse.ErrEngine(err))

		return
	}

	a.listCache.Delete(listCacheKey)

	score, err := a.engine.ScoreOf(article.ID)
	if err != nil {
		a.renderErr(w, r, errresponse.ErrEngine(err))

		return
	}

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, &articlepayload.VoteResponse{
		ArticleID: article.ID,
		Index:     index,
		Score:     score,
	}); err != nil {
		a.log.Errorw(err.Error())
	}
}

// ListRevisions returns the article's revision log, oldest first.
func (a *API) ListRevisions(w http.ResponseWriter, r *http.Request) {
	article := articleFrom(r.Context())

	revs, err := a.engine.RevisionsOf(article.ID)
	if err != nil {
		a.renderErr(w, r, errresponse.ErrEngine(err))

		return
	}

	if err := render.RenderList(w, r, articlepayload.NewRevisionListResponse(revs)); err != nil {
		a.renderErr(w, r, errresponse.ErrRender(err))
	}
}

// SetProfile upserts the caller's own profile. The engine accepts any
// field values; bounds are a client concern.
func (a *API) SetProfile(w http.ResponseWriter, r *http.Request) {
	data := &articlepayload.ProfileRequest{}
	if err := render.Bind(r, data); err != nil {
		a.renderErr(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	caller := callerFrom(r.Context())
	a.engine.SetUserProfile(caller, data.Age, data.Location, data.Nationality)

	if err := render.Render(w, r, &articlepayload.ProfileResponse{
		Identity:    caller,
		UserProfile: a.engine.ProfileOf(caller),
	}); err != nil {
		a.log.Errorw(err.Error())
	}
}

// GetProfile reads any identity's profile; Exists is false for unseen
// identities.
func (a *API) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity := model.Identity(chi.URLParam(r, "identity"))

	if err := render.Render(w, r, &articlepayload.ProfileResponse{
		Identity:    identity,
		UserProfile: a.engine.ProfileOf(identity),
	}); err != nil {
		a.log.Errorw(err.Error())
	}
}

// GetBalance reads any identity's HASH balance, 0 for unseen ones.
func (a *API) GetBalance(w http.ResponseWriter, r *http.Request) {
	identity := model.Identity(chi.URLParam(r, "identity"))

	if err := render.Render(w, r, &articlepayload.BalanceResponse{
		Identity: identity,
		Balance:  a.engine.BalanceOf(identity),
	}); err != nil {
		a.log.Errorw(err.Error())
	}
}

// ListEvents streams the audit log from an optional ?since=N sequence
// number, for indexers catching up.
func (a *API) ListEvents(w http.ResponseWriter, r *http.Request) {
	var since uint64
	if s := r.URL.Query().Get("since"); s != "" {
		parsed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			a.renderErr(w, r, errresponse.ErrInvalidRequest(err))

			return
		}
		since = parsed
	}

	if err := render.RenderList(w, r, articlepayload.NewEventListResponse(a.engine.EventsSince(since))); err != nil {
		a.renderErr(w, r, errresponse.ErrRender(err))
	}
}

// Airdrop issues HASH to a target identity. Owner only, checked both
// by the admin router and by the engine.
func (a *API) Airdrop(w http.ResponseWriter, r *http.Request) {
	data := &articlepayload.AirdropRequest{}
	if err := render.Bind(r, data); err != nil {
		a.renderErr(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	caller := callerFrom(r.Context())
	target := model.Identity(data.Target)
	if err := a.engine.AirdropHash(caller, target, data.Amount); err != nil {
		a.renderErr(w, r, errresponse.ErrEngine(err))

		return
	}

	if err := render.Render(w, r, &articlepayload.BalanceResponse{
		Identity: target,
		Balance:  a.engine.BalanceOf(target),
	}); err != nil {
		a.log.Errorw(err.Error())
	}
}

func (a *API) renderErr(w http.ResponseWriter, r *http.Request, renderer render.Renderer) {
	if err := render.Render(w, r, renderer); err != nil {
		a.log.Errorw(err.Error())
	}
}
