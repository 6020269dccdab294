package handler

import (
	"net/http"

	"bookshelf/internal/service"
)

// Services bundles what the router needs to build its handlers
type Services struct {
	Books     *service.BookService
	Students  *service.StudentService
	Posts     *service.PostService
	Catalogue *service.CatalogueService
	Store     Pinger
	// Events serves the change stream; nil leaves /events unregistered
	Events http.Handler
}

// NewRouter registers every API route and wraps the mux in the middleware
// chain
func NewRouter(svc Services, cors CORSConfig) http.Handler {
	books := NewBookHandler(svc.Books)
	students := NewStudentHandler(svc.Students)
	posts := NewPostHandler(svc.Posts)
	export := NewExportHandler(svc.Catalogue)
	health := NewHealthHandler(svc.Store)

	mux := http.NewServeMux()

	// Books API
	mux.HandleFunc("GET /api/books", books.List)
	mux.HandleFunc("POST /api/books", books.Create)
	mux.HandleFunc("GET /api/books/{id}", books.Get)
	mux.HandleFunc("PUT /api/books/{id}", books.Update)
	mux.HandleFunc("DELETE /api/books/{id}", books.Delete)

	// Students API
	mux.HandleFunc("GET /api/students", students.List)
	mux.HandleFunc("POST /api/students", students.Create)
	mux.HandleFunc("GET /api/students/{id}", students.Get)
	mux.HandleFunc("PUT /api/students/{id}", students.Update)
	mux.HandleFunc("DELETE /api/students/{id}", students.Delete)

	// Posts API
	mux.HandleFunc("GET /api/posts", posts.List)
	mux.HandleFunc("POST /api/posts", posts.Create)
	mux.HandleFunc("GET /api/posts/{id}", posts.Get)
	mux.HandleFunc("GET /api/posts/slug/{slug}", posts.GetBySlug)
	mux.HandleFunc("PUT /api/posts/{id}", posts.Update)
	mux.HandleFunc("DELETE /api/posts/{id}", posts.Delete)

	// Export API
	mux.HandleFunc("GET /api/export/json", export.JSON)
	mux.HandleFunc("GET /api/export/yaml", export.YAML)

	if svc.Events != nil {
		mux.Handle("GET /events", svc.Events)
	}
	mux.HandleFunc("GET /healthz", health.Check)

	return Chain(mux, Recover, CORS(cors), RequestID, Logger)
}
