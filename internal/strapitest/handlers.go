package strapitest

import (
	"io"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/travel-blog/internal/models"
)

const defaultPageSize = 25

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest(w, "invalid form body")
		return
	}

	identifier, password := r.PostForm.Get("identifier"), r.PostForm.Get("password")
	if identifier == "" || password == "" {
		badRequest(w, "identifier and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		matches := strings.EqualFold(u.Username, identifier) || strings.EqualFold(u.Email, identifier)
		if matches && u.password == password {
			writeJSON(w, http.StatusOK, models.AuthResponse{JWT: u.token, User: u.User})
			return
		}
	}

	badRequest(w, "Invalid identifier or password")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest(w, "invalid form body")
		return
	}

	username, email, password := r.PostForm.Get("username"), r.PostForm.Get("email"), r.PostForm.Get("password")
	if username == "" || email == "" || password == "" {
		badRequest(w, "username, email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, email) {
			writeError(w, http.StatusBadRequest, "ApplicationError", "Email or Username are already taken")
			return
		}
	}

	u := s.addUserLocked(username, email, password, "jwt-"+uuid.NewString())
	writeJSON(w, http.StatusOK, models.AuthResponse{JWT: u.token, User: u.User})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	contains := strings.ToLower(q.Get("filters[title][$containsi]"))
	exact := q.Get("filters[title][$eqi]")
	category := q.Get("filters[category][name][$eqi]")

	s.mu.Lock()
	list := make([]models.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if contains != "" && !strings.Contains(strings.ToLower(a.Title), contains) {
			continue
		}
		if exact != "" && !strings.EqualFold(a.Title, exact) {
			continue
		}
		if category != "" && (a.Category == nil || !strings.EqualFold(a.Category.Name, category)) {
			continue
		}
		list = append(list, s.viewLocked(a))
	}
	s.mu.Unlock()

	sortArticles(list, q.Get("sort[0]"))
	data, p := paginate(list, r, defaultPageSize)

	writeJSON(w, http.StatusOK, models.ArticleList{Data: data, Meta: models.Meta{Pagination: p}})
}

func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	in, err := decodeData[models.ArticleInput](r)
	if err != nil || in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		badRequest(w, "title must be defined")
		return
	}

	author := userFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	a := &models.Article{ID: s.id(), DocumentID: uuid.NewString(), User: &author}
	a.CreatedAt, a.UpdatedAt, a.PublishedAt = s.tick(), s.now, s.now
	if !s.applyArticleLocked(w, a, in) {
		return
	}

	s.articles = append(s.articles, a)
	writeJSON(w, http.StatusCreated, models.ItemResponse[models.Article]{Data: s.viewLocked(a)})
}

func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) {
	in, err := decodeData[models.ArticleInput](r)
	if err != nil {
		badRequest(w, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.articles, func(a *models.Article) bool { return a.DocumentID == chi.URLParam(r, "documentID") })
	if i < 0 {
		writeNotFound(w)
		return
	}

	a := s.articles[i]
	if !s.applyArticleLocked(w, a, in) {
		return
	}
	a.UpdatedAt = s.tick()

	writeJSON(w, http.StatusOK, models.ItemResponse[models.Article]{Data: s.viewLocked(a)})
}

func (s *Server) applyArticleLocked(w http.ResponseWriter, a *models.Article, in models.ArticleInput) bool {
	if in.Title != nil {
		a.Title = *in.Title
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.CoverImageURL != nil {
		u := *in.CoverImageURL
		a.CoverImageURL = &u
	}
	if in.Category != nil {
		i := slices.IndexFunc(s.categories, func(c *models.Category) bool { return c.ID == *in.Category })
		if i < 0 {
			badRequest(w, "category %s not found", in.Category.String())
			return false
		}
		c := *s.categories[i]
		a.Category = &c
	}

	return true
}

func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.articles, func(a *models.Article) bool { return a.DocumentID == chi.URLParam(r, "documentID") })
	if i < 0 {
		writeNotFound(w)
		return
	}

	id := s.articles[i].ID
	s.articles = slices.Delete(s.articles, i, i+1)
	s.comments = slices.DeleteFunc(s.comments, func(c *comment) bool { return c.articleID == id })

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		list = append(list, *c)
	}
	s.mu.Unlock()

	data, p := paginate(list, r, defaultPageSize)
	writeJSON(w, http.StatusOK, models.CategoryList{Data: data, Meta: models.Meta{Pagination: p}})
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	in, err := decodeData[models.CategoryInput](r)
	if err != nil || strings.TrimSpace(in.Name) == "" {
		badRequest(w, "name must be defined")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if strings.EqualFold(c.Name, in.Name) {
			badRequest(w, "This attribute must be unique")
			return
		}
	}

	c := s.addCategoryLocked(in)
	writeJSON(w, http.StatusCreated, models.ItemResponse[models.Category]{Data: *c})
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	in, err := decodeData[models.CategoryInput](r)
	if err != nil || strings.TrimSpace(in.Name) == "" {
		badRequest(w, "name must be defined")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.categories, func(c *models.Category) bool { return c.DocumentID == chi.URLParam(r, "documentID") })
	if i < 0 {
		writeNotFound(w)
		return
	}

	c := s.categories[i]
	c.Name = in.Name
	if in.Description != nil {
		c.Description = in.Description
	}
	c.UpdatedAt = s.tick()

	writeJSON(w, http.StatusOK, models.ItemResponse[models.Category]{Data: *c})
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.categories, func(c *models.Category) bool { return c.DocumentID == chi.URLParam(r, "documentID") })
	if i < 0 {
		writeNotFound(w)
		return
	}

	s.categories = slices.Delete(s.categories, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	articleID, err := models.ParseID(q.Get("filters[article][id][$eq]"))
	filtered := err == nil && q.Get("filters[article][id][$eq]") != ""

	s.mu.Lock()
	list := make([]models.Comment, 0, len(s.comments))
	for _, c := range s.comments {
		if filtered && c.articleID != articleID {
			continue
		}
		list = append(list, c.Comment)
	}
	s.mu.Unlock()

	if q.Get("sort") == "createdAt:desc" {
		slices.Reverse(list)
	}

	data, p := paginate(list, r, defaultPageSize)
	writeJSON(w, http.StatusOK, models.CommentList{Data: data, Meta: models.Meta{Pagination: p}})
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	in, err := decodeData[struct {
		Content string    `json:"content"`
		Article models.ID `json:"article"`
	}](r)
	if err != nil || strings.TrimSpace(in.Content) == "" {
		badRequest(w, "content must be defined")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.ContainsFunc(s.articles, func(a *models.Article) bool { return a.ID == in.Article }) {
		badRequest(w, "article %s not found", in.Article.String())
		return
	}

	c := &comment{Comment: models.Comment{ID: s.id(), DocumentID: uuid.NewString(), Content: in.Content}, articleID: in.Article}
	c.CreatedAt, c.UpdatedAt, c.PublishedAt = s.tick(), s.now, s.now
	s.comments = append(s.comments, c)

	writeJSON(w, http.StatusCreated, models.ItemResponse[models.Comment]{Data: c.Comment})
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request) {
	in, err := decodeData[struct {
		Content string `json:"content"`
	}](r)
	if err != nil || strings.TrimSpace(in.Content) == "" {
		badRequest(w, "content must be defined")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.comments, func(c *comment) bool { return c.DocumentID == chi.URLParam(r, "documentID") })
	if i < 0 {
		writeNotFound(w)
		return
	}

	c := s.comments[i]
	c.Content = in.Content
	c.UpdatedAt = s.tick()

	writeJSON(w, http.StatusOK, models.ItemResponse[models.Comment]{Data: c.Comment})
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.comments, func(c *comment) bool { return c.DocumentID == chi.URLParam(r, "documentID") })
	if i < 0 {
		writeNotFound(w)
		return
	}

	s.comments = slices.Delete(s.comments, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		badRequest(w, "invalid multipart body")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "ValidationError", "Files are empty")
		return
	}

	out := make([]models.UploadedFile, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			badRequest(w, "unreadable file %s", h.Filename)
			return
		}
		n, err := io.Copy(io.Discard, f)
		_ = f.Close()
		if err != nil {
			badRequest(w, "unreadable file %s", h.Filename)
			return
		}

		s.mu.Lock()
		uf := models.UploadedFile{
			ID:   s.id(),
			Name: h.Filename,
			URL:  "/uploads/" + uuid.NewString() + strings.ToLower(path.Ext(h.Filename)),
			Mime: h.Header.Get("Content-Type"),
			Size: float64(n) / 1024,
		}
		s.uploads = append(s.uploads, uf)
		s.mu.Unlock()

		out = append(out, uf)
	}

	writeJSON(w, http.StatusCreated, out)
}
