// Package printing hands rendered documents to the browser. A document is
// parked under a random id for a limited time and served once requested,
// so the page that triggered printing can open it in a new window.
package printing

import (
	"net/http"
	"sync"
	"time"

	"github.com/diewo77/go-orders/httpx"
	"github.com/diewo77/go-orders/i18n"
	"github.com/diewo77/go-orders/internal/render"
	"github.com/google/uuid"
)

// Jobs is a TTL cache of rendered documents keyed by job id.
type Jobs struct {
	mu   sync.RWMutex
	jobs map[string]*job
	ttl  time.Duration
	now  func() time.Time
}

type job struct {
	doc       *render.Document
	expiresAt time.Time
}

// NewJobs returns a cache keeping documents for ttl.
func NewJobs(ttl time.Duration) *Jobs {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Jobs{jobs: make(map[string]*job), ttl: ttl, now: time.Now}
}

// Submit parks doc and returns its job id. Expired jobs are dropped.
func (j *Jobs) Submit(doc *render.Document) string {
	id := uuid.NewString()
	now := j.now()
	j.mu.Lock()
	for k, v := range j.jobs {
		if !now.Before(v.expiresAt) {
			delete(j.jobs, k)
		}
	}
	j.jobs[id] = &job{doc: doc, expiresAt: now.Add(j.ttl)}
	j.mu.Unlock()
	return id
}

// Get returns the document of a live job.
func (j *Jobs) Get(id string) (*render.Document, bool) {
	j.mu.RLock()
	v, ok := j.jobs[id]
	j.mu.RUnlock()
	if !ok || !j.now().Before(v.expiresAt) {
		return nil, false
	}
	return v.doc, true
}

// Len counts the parked jobs, expired ones included.
func (j *Jobs) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.jobs)
}

// URL is the path serving a job.
func URL(id string) string { return "/print/" + id }

// Serve handles GET /print/{id}.
func (j *Jobs) Serve(w http.ResponseWriter, r *http.Request) {
	if _, err := uuid.Parse(r.PathValue("id")); err != nil {
		http.NotFound(w, r)
		return
	}
	doc, ok := j.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, i18n.T(i18n.LangFromContext(r.Context()), "print_job_expired"), http.StatusNotFound)
		return
	}
	httpx.HTML(w, http.StatusOK, doc.HTML)
}
