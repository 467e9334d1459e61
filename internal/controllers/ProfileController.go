package controllers

import (
	"net/http"
	"statcache/internal/models"
	"statcache/internal/providers"
	"statcache/internal/services"
	"statcache/internal/storage"
	"statcache/internal/structures"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ProfileController struct {
	conf     *structures.Config
	logger   providers.Logger
	practice services.PracticeServiceInterface
	hosting  services.HostingServiceInterface
	blog     services.BlogServiceInterface
	cache    providers.CacheProviderInterface
	now      func() time.Time
}

type readResponse struct {
	Record     any    `json:"record"`
	NeedsFetch bool   `json:"needsFetch"`
	Error      string `json:"error,omitempty"`

	// freshFor is how long the record stays fresh after the read
	freshFor time.Duration
}

type updatedRecord[T any] interface {
	*T
	Updated() time.Time
}

type visitRequest struct {
	Username  string `json:"username" validate:"required"`
	AvatarURL string `json:"avatarUrl" validate:"fullUrl"`
}

func NewProfileController(conf *structures.Config, logger providers.Logger, practice services.PracticeServiceInterface, hosting services.HostingServiceInterface, blog services.BlogServiceInterface, cache providers.CacheProviderInterface) *ProfileController {
	return &ProfileController{
		conf:     conf,
		logger:   logger,
		practice: practice,
		hosting:  hosting,
		blog:     blog,
		cache:    cache,
		now:      time.Now,
	}
}

func cacheKey(kind models.Kind, key string) string {
	return string(kind) + ":" + key
}

// ttlParam returns the ttl query parameter, or def when it is absent. ok is
// false for a malformed value, isDefault tells whether def was used.
func ttlParam(r *http.Request, def int) (ttl int, ok bool, isDefault bool) {
	raw := r.URL.Query().Get("ttl")
	if raw == "" {
		return def, true, true
	}
	ttl, err := strconv.Atoi(raw)
	if err != nil || ttl < 0 {
		return 0, false, false
	}
	return ttl, true, false
}

func newReadResponse[T any, PT updatedRecord[T]](res services.ReadResult[T], ttl int, now time.Time) readResponse {
	resp := readResponse{NeedsFetch: res.NeedsFetch}
	if res.Record != nil {
		resp.Record = res.Record
		if !res.NeedsFetch {
			resp.freshFor = PT(res.Record).Updated().Add(storage.TTLFromSeconds(ttl)).Sub(now)
		}
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	return resp
}

// serveRead answers a GET. Only fresh results obtained with the default TTL
// go into the response cache, keyed by kind and record key, and an entry
// expires no later than the record's freshness.
func (pc *ProfileController) serveRead(w http.ResponseWriter, r *http.Request, kind models.Kind, param string, defTTL int, read func(key string, ttl int) readResponse) {
	key := r.URL.Query().Get(param)
	if key == "" {
		http.Error(w, "Bad Request: missing "+param, http.StatusBadRequest)
		return
	}
	ttl, ok, isDefault := ttlParam(r, defTTL)
	if !ok {
		http.Error(w, "Bad Request: invalid ttl", http.StatusBadRequest)
		return
	}

	ck := cacheKey(kind, key)
	if isDefault {
		if data, hit := pc.cache.Get(ck); hit {
			writeJSON(w, data)
			return
		}
	}

	resp := read(key, ttl)
	gson, err := json.Marshal(resp)
	if err != nil {
		pc.logger.Errorf(providers.TypeGet, "encode %s response: %s", kind, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if isDefault && !resp.NeedsFetch {
		// whole seconds, rounded down
		pc.cache.Set(ck, gson, int(resp.freshFor/time.Second))
	}
	writeJSON(w, gson)
}

func writeJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (pc *ProfileController) finishWrite(w http.ResponseWriter, kind models.Kind, key string, ok bool) {
	pc.cache.Del(cacheKey(kind, key))
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (pc *ProfileController) GetPractice(w http.ResponseWriter, r *http.Request) {
	pc.serveRead(w, r, models.KindPractice, "username", pc.conf.Freshness.PracticeTTL, func(key string, ttl int) readResponse {
		return newReadResponse(pc.practice.Read(r.Context(), key, ttl), ttl, pc.now())
	})
}

func (pc *ProfileController) PostPractice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.PracticeUser
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		username = payload.Username
	}
	if username == "" {
		http.Error(w, "Bad Request: missing username", http.StatusBadRequest)
		return
	}
	ttl, ok, _ := ttlParam(r, pc.conf.Freshness.PracticeTTL)
	if !ok {
		http.Error(w, "Bad Request: invalid ttl", http.StatusBadRequest)
		return
	}

	pc.finishWrite(w, models.KindPractice, username, pc.practice.Write(r.Context(), username, &payload, ttl))
}

func (pc *ProfileController) GetHosting(w http.ResponseWriter, r *http.Request) {
	pc.serveRead(w, r, models.KindHosting, "username", pc.conf.Freshness.HostingTTL, func(key string, ttl int) readResponse {
		return newReadResponse(pc.hosting.Read(r.Context(), key, ttl), ttl, pc.now())
	})
}

func (pc *ProfileController) PostHosting(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload visitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	v := validate.Struct(&payload)
	if !v.Validate() {
		http.Error(w, "Bad Request: "+v.Errors.One(), http.StatusBadRequest)
		return
	}

	pc.finishWrite(w, models.KindHosting, payload.Username, pc.hosting.Write(r.Context(), payload.Username, payload.AvatarURL))
}

func (pc *ProfileController) GetBlog(w http.ResponseWriter, r *http.Request) {
	pc.serveRead(w, r, models.KindBlog, "userId", pc.conf.Freshness.BlogTTL, func(key string, ttl int) readResponse {
		return newReadResponse(pc.blog.Read(r.Context(), key, ttl), ttl, pc.now())
	})
}

func (pc *ProfileController) PostBlog(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "Bad Request: missing userId", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var patch models.BlogUserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := patch.Validate(); err != nil {
		http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
		return
	}

	pc.finishWrite(w, models.KindBlog, userID, pc.blog.Write(r.Context(), userID, &patch))
}
