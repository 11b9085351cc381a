// internal/github/githubtest/server.go

// Package githubtest provides an in-process fake of the GitHub REST endpoints
// the report pipeline consumes.
package githubtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Commit is the subset of a commit listing entry the fake serves.
type Commit struct {
	CommitterName string
	CommitterDate string
}

// Server is a fake GitHub API. Org repository pages are served verbatim in
// order with a Link header pointing to the next page.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	orgPages  map[string][]json.RawMessage
	tags      map[string][]string
	commits   map[string][]Commit
	raw       map[string]json.RawMessage
	failPaths map[string]int
	requests  map[string]int
	queries   map[string]url.Values
	authz     []string
}

// NewServer starts a fake GitHub API. Call Close when done.
func NewServer() *Server {
	s := &Server{
		orgPages:  map[string][]json.RawMessage{},
		tags:      map[string][]string{},
		commits:   map[string][]Commit{},
		raw:       map[string]json.RawMessage{},
		failPaths: map[string]int{},
		requests:  map[string]int{},
		queries:   map[string]url.Values{},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Get("/orgs/{org}/repos", s.listOrgRepos)
	r.Get("/repos/{owner}/{name}/tags", s.listTags)
	r.Get("/repos/{owner}/{name}/commits", s.listCommits)

	s.Server = httptest.NewServer(r)
	return s
}

// AddOrgPage appends one page of raw repository JSON objects for org.
func (s *Server) AddOrgPage(org string, reposJSON string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgPages[org] = append(s.orgPages[org], json.RawMessage(reposJSON))
}

// SetTags sets the tag names served for fullName ("owner/name").
func (s *Server) SetTags(fullName string, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[fullName] = names
}

// SetCommits sets the commits served for fullName, newest first. An empty
// call makes the repository answer with an empty list.
func (s *Server) SetCommits(fullName string, commits ...Commit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if commits == nil {
		commits = []Commit{}
	}
	s.commits[fullName] = commits
}

// SetRawResponse makes every request to path answer 200 with body verbatim,
// for payloads the typed setters cannot express.
func (s *Server) SetRawResponse(path string, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[path] = json.RawMessage(body)
}

// FailPath makes every request to path answer with status.
func (s *Server) FailPath(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPaths[path] = status
}

// Requests returns how many requests hit path.
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// LastQuery returns the query parameters of the most recent request to path.
func (s *Server) LastQuery(path string) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[path]
}

// AuthorizationHeaders returns the Authorization header of every request seen.
func (s *Server) AuthorizationHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.authz...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		s.queries[r.URL.Path] = r.URL.Query()
		s.authz = append(s.authz, r.Header.Get("Authorization"))
		status, fail := s.failPaths[r.URL.Path]
		body, raw := s.raw[r.URL.Path]
		s.mu.Unlock()

		if fail {
			respondWithError(w, status, http.StatusText(status))
			return
		}
		if raw {
			respondWithJSON(w, http.StatusOK, body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// listOrgRepos serves GET /orgs/{org}/repos?page=N
func (s *Server) listOrgRepos(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")

	s.mu.Lock()
	pages := s.orgPages[org]
	s.mu.Unlock()

	if pages == nil {
		respondWithError(w, http.StatusNotFound, "Not Found")
		return
	}

	page := pageParam(r)
	if page > len(pages) {
		respondWithJSON(w, http.StatusOK, []any{})
		return
	}
	if page < len(pages) {
		setNextLink(w, r, page+1)
	}
	respondWithJSON(w, http.StatusOK, pages[page-1])
}

// listTags serves GET /repos/{owner}/{name}/tags
func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	fullName := chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "name")

	s.mu.Lock()
	names, ok := s.tags[fullName]
	s.mu.Unlock()

	if !ok {
		respondWithError(w, http.StatusNotFound, "Not Found")
		return
	}

	perPage := perPageParam(r, 30)
	start := (pageParam(r) - 1) * perPage
	if start > len(names) {
		start = len(names)
	}
	end := start + perPage
	if end < len(names) {
		setNextLink(w, r, pageParam(r)+1)
	} else {
		end = len(names)
	}

	out := make([]map[string]any, 0, end-start)
	for _, name := range names[start:end] {
		out = append(out, map[string]any{
			"name":   name,
			"commit": map[string]string{"sha": fmt.Sprintf("sha-%s", name)},
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}

// listCommits serves GET /repos/{owner}/{name}/commits?per_page=N
func (s *Server) listCommits(w http.ResponseWriter, r *http.Request) {
	fullName := chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "name")

	s.mu.Lock()
	commits, ok := s.commits[fullName]
	s.mu.Unlock()

	if !ok {
		respondWithError(w, http.StatusNotFound, "Not Found")
		return
	}

	limit := perPageParam(r, 30)
	if limit < len(commits) {
		commits = commits[:limit]
	}

	out := make([]map[string]any, 0, len(commits))
	for i, c := range commits {
		out = append(out, map[string]any{
			"sha": fmt.Sprintf("commit-%d", i),
			"commit": map[string]any{
				"committer": map[string]string{
					"name": c.CommitterName,
					"date": c.CommitterDate,
				},
			},
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func perPageParam(r *http.Request, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func setNextLink(w http.ResponseWriter, r *http.Request, page int) {
	next := *r.URL
	q := next.Query()
	q.Set("page", strconv.Itoa(page))
	next.RawQuery = q.Encode()
	w.Header().Set("Link", fmt.Sprintf(`<http://%s%s>; rel="next"`, r.Host, next.String()))
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"message": message})
}
