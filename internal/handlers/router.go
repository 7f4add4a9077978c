package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/qcom/passguard/internal/middleware"
	"github.com/sirupsen/logrus"
)

type Router struct {
	Sessions          *SessionHandlers
	Passwords         *PasswordHandlers
	OTP               *OTPHandlers
	SessionMiddleware *middleware.SessionMiddleware
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

func (rt *Router) Build(logger *logrus.Logger) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.LoggingMiddleware(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "OPTIONS")

	if rt.Metrics != nil {
		router.Handle("/metrics", rt.Metrics).Methods("GET")
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/sessions", rt.Sessions.Create).Methods("POST", "OPTIONS")

	pw := api.PathPrefix("/password").Subrouter()
	pw.HandleFunc("/evaluate", rt.Passwords.Evaluate).Methods("POST", "OPTIONS")
	pw.HandleFunc("/generate", rt.Passwords.Generate).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("/").Subrouter()
	protected.Use(rt.SessionMiddleware.RequireSession)
	protected.HandleFunc("/sessions", rt.Sessions.End).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/otp/send", rt.OTP.Send).Methods("POST", "OPTIONS")
	protected.HandleFunc("/otp/verify", rt.OTP.Verify).Methods("POST", "OPTIONS")
	protected.HandleFunc("/otp/status", rt.OTP.Status).Methods("GET", "OPTIONS")

	return router
}
