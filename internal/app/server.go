package app

import (
	"log"
	"net/http"
	"time"

	"go-arsip/internal/handler"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	router *mux.Router
}

func NewServer(
	fileHandler *handler.FileHandler,
	activityHandler *handler.ActivityHandler,
	dashboardHandler *handler.DashboardHandler,
	categoryHandler *handler.CategoryHandler,
	userHandler *handler.UserHandler,
) *Server {
	router := mux.NewRouter()

	router.HandleFunc("/ping", handler.Ping).Methods("GET", "OPTIONS")

	// Лента активности вне /api: апгрейд соединения идёт мимо CORS-мидлвари
	dashboardHandler.RegisterFeedRoutes(router)

	api := router.PathPrefix("/api").Subrouter()
	fileHandler.RegisterRoutes(api)
	activityHandler.RegisterRoutes(api)
	dashboardHandler.RegisterRoutes(api)
	categoryHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)

	// Настройка Swagger
	swaggerHandler := httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	)

	router.PathPrefix("/swagger/").Handler(swaggerHandler)

	return &Server{router: router}
}

func (s *Server) Run(port string) {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
	)

	srv := &http.Server{
		Handler:      cors(s.router),
		Addr:         ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(srv.ListenAndServe())
}
