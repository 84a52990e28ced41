package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMw, s.maxBytesMw)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/search", s.search()).Methods(http.MethodPost)
	api.HandleFunc("/item/details", s.itemDetails()).Methods(http.MethodPost)
	api.HandleFunc("/alerts", s.alertsWithItems()).Methods(http.MethodGet)
	api.HandleFunc("/alert/save", s.alertSave()).Methods(http.MethodPost)
	api.HandleFunc("/alert/delete", s.alertDelete()).Methods(http.MethodPost)
	api.HandleFunc("/settings", s.settingsGet()).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.settingsSave()).Methods(http.MethodPost)
	api.HandleFunc("/exchangerates", s.exchangeRates()).Methods(http.MethodGet)
	api.HandleFunc("/refresh", s.refresh()).Methods(http.MethodPost)
	api.PathPrefix("").Handler(s.notFoundHandler())

	r.PathPrefix("").Handler(s.notFoundHandler())
	return r
}
