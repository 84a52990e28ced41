package server

import (
	"context"
	"encoding/json"
	"net/http"

	"sneakwatch/internal/client"
	"sneakwatch/internal/misc"
	"sneakwatch/internal/model"
	"sneakwatch/internal/proxyparser"
)

func (s Server) apiConfig() client.APIConfig {
	return client.NewAPIConfig(s.DB.Settings(), s.DB.ExchangeRates(), s.DevLogging)
}

func (s Server) search() http.HandlerFunc {
	type request struct {
		SearchTerm string `json:"searchTerm"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("search: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if req.SearchTerm == "" {
			s.Logger.Debug("search: searchTerm not supplied")
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		items, err := s.Client.SearchItems(r.Context(), req.SearchTerm, s.apiConfig())
		if err != nil {
			s.Logger.Errorf("search: Error searching with term: %s, err: %v", req.SearchTerm, err)
			s.writeJsonResponse(w, []model.Item{}, http.StatusOK)
			return
		}
		s.writeJsonResponse(w, append([]model.Item{}, items...), http.StatusOK)
	}
}

func (s Server) itemDetails() http.HandlerFunc {
	type request struct {
		Item         model.Item `json:"item"`
		ForceRefresh bool       `json:"forceRefresh"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("itemDetails: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if err := req.Item.Validate(); err != nil {
			s.Logger.Debugf("itemDetails: Invalid item, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		item, err := s.Scheduler.GetItemDetails(r.Context(), req.Item, req.ForceRefresh)
		if err != nil {
			s.Logger.Errorf("itemDetails: Error getting details for Item with ID: %s, err: %v", req.Item.ID, err)
			s.writeJsonResponse(w, nil, http.StatusOK)
			return
		}
		s.writeJsonResponse(w, item, http.StatusOK)
	}
}

func (s Server) alertsWithItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pairs := s.DB.AlertsWithItems()
		s.writeJsonResponse(w, pairs, http.StatusOK)
	}
}

func (s Server) alertSave() http.HandlerFunc {
	type request struct {
		Alert model.PriceAlert `json:"alert"`
		Item  model.Item       `json:"item"`
	}
	type response struct {
		Refresh    bool `json:"refresh"`
		FirstAlert bool `json:"firstAlert"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("alertSave: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		if err := s.DB.SaveAlert(req.Alert, req.Item); err != nil {
			s.Logger.Debugf("alertSave: Error saving alert for Item with ID: %s, err: %v", req.Item.ID, err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		firstAlert := s.DB.IsFirstAlert()

		go s.Scheduler.RunCycle(context.Background(), false)
		s.writeJsonResponse(w, response{Refresh: true, FirstAlert: firstAlert}, http.StatusOK)
	}
}

func (s Server) alertDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var alert model.PriceAlert
		if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
			s.Logger.Debugf("alertDelete: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		// Fire-and-forget: failures are logged, never reported.
		if err := s.DB.DeleteAlert(alert); err != nil {
			s.Logger.Errorf("alertDelete: Error deleting Alert with ID: %s, err: %v", alert.ID, err)
		}
		s.writeJsonResponse(w, struct{}{}, http.StatusOK)
	}
}

func (s Server) settingsGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJsonResponse(w, s.DB.Settings(), http.StatusOK)
	}
}

func (s Server) settingsSave() http.HandlerFunc {
	type request struct {
		Settings    model.Settings `json:"settings"`
		ProxyString string         `json:"proxyString"`
	}
	type errorResponse struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("settingsSave: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		// A bad proxy string is a partial failure: the proxies are
		// reset, everything else is still saved.
		var saveError *errorResponse
		if req.ProxyString != "" {
			proxies, err := proxyparser.Parse(req.ProxyString)
			if err != nil {
				s.Logger.Debugf("settingsSave: Error parsing proxy string, err: %v", err)
				req.Settings.Proxies = []model.Proxy{}
				saveError = &errorResponse{Title: "Invalid proxy format", Message: err.Error()}
			} else {
				req.Settings.Proxies = proxies
			}
		}
		req.Settings.UpdateInterval = misc.Clamp(req.Settings.UpdateInterval, model.MinUpdateInterval, model.MaxUpdateInterval)

		if err := req.Settings.Validate(); err != nil {
			s.Logger.Debugf("settingsSave: Invalid settings, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if err := s.DB.SaveSettings(req.Settings); err != nil {
			s.Logger.Errorf("settingsSave: Error saving settings, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, saveError, http.StatusOK)
	}
}

func (s Server) exchangeRates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJsonResponse(w, s.DB.ExchangeRates(), http.StatusOK)
	}
}

func (s Server) refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Scheduler.RunCycle(r.Context(), false)
		s.writeJsonResponse(w, struct{}{}, http.StatusOK)
	}
}
