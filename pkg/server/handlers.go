package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	errs "github.com/matzehuels/situationroom/pkg/errors"
	"github.com/matzehuels/situationroom/pkg/share"
	"github.com/matzehuels/situationroom/pkg/widget"
)

type createDashboardRequest struct {
	Name string `json:"name"`
}

type addWidgetRequest struct {
	Type widget.Type `json:"type"`
}

type shareResponse struct {
	Token  string `json:"token"`
	URL    string `json:"url"`
	Length int    `json:"length"`
}

func (s *Server) lookupDashboard(id string) (dashboard.Dashboard, error) {
	d, ok := s.store.State().Dashboard(id)
	if !ok {
		return dashboard.Dashboard{}, errs.DashboardNotFound(id)
	}
	return d, nil
}

func (s *Server) lookupWidget(dashboardID, widgetID string) (widget.Instance, error) {
	d, err := s.lookupDashboard(dashboardID)
	if err != nil {
		return widget.Instance{}, err
	}
	w, ok := d.Widget(widgetID)
	if !ok {
		return widget.Instance{}, errs.WidgetNotFound(widgetID)
	}
	return w, nil
}

func (s *Server) listWidgets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.GetAllMetadata())
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State())
}

func (s *Server) putState(w http.ResponseWriter, r *http.Request) {
	var st dashboard.State
	if err := decodeBody(w, r, &st); err != nil {
		s.writeError(w, err)
		return
	}
	if err := validateState(st); err != nil {
		s.writeError(w, err)
		return
	}
	s.store.Replace(st)
	s.persist(r.Context(), st)
	writeJSON(w, http.StatusOK, s.store.State())
}

func validateState(st dashboard.State) error {
	seen := make(map[string]bool, len(st.Dashboards))
	for _, d := range st.Dashboards {
		if d.ID == "" {
			return errs.New(errs.ErrCodeInvalidInput, "dashboard without id")
		}
		if seen[d.ID] {
			return errs.New(errs.ErrCodeInvalidInput, "duplicate dashboard id: %s", d.ID)
		}
		seen[d.ID] = true
		if err := errs.ValidateGrid(d.Settings.GridCols, d.Settings.GridRows); err != nil {
			return err
		}
		for _, in := range d.Widgets {
			if in.Layout.I != in.ID() {
				return errs.New(errs.ErrCodeInvalidLayout, "layout %q does not match widget %q", in.Layout.I, in.ID())
			}
		}
	}
	if st.ActiveDashboardID != nil && !seen[*st.ActiveDashboardID] {
		return errs.New(errs.ErrCodeDashboardNotFound, "active dashboard not found: %s", *st.ActiveDashboardID)
	}
	return nil
}

func (s *Server) createDashboard(w http.ResponseWriter, r *http.Request) {
	var req createDashboardRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errs.ValidateDashboardName(req.Name); err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.dispatch(r.Context(), dashboard.CreateDashboard{Name: req.Name})
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, _ := st.Active()
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) deleteDashboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.lookupDashboard(id); err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.dispatch(r.Context(), dashboard.DeleteDashboard{ID: id}); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) activateDashboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.lookupDashboard(id); err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.dispatch(r.Context(), dashboard.SetActiveDashboard{ID: id})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch dashboard.SettingsPatch
	if err := decodeBody(w, r, &patch); err != nil {
		s.writeError(w, err)
		return
	}
	if err := patch.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.lookupDashboard(id); err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.dispatch(r.Context(), dashboard.UpdateSettings{ID: id, Patch: patch})
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, _ := st.Dashboard(id)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) addWidget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req addWidgetRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	before, err := s.lookupDashboard(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.dispatch(r.Context(), dashboard.AddWidget{DashboardID: id, Type: req.Type})
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, _ := st.Dashboard(id)
	if len(d.Widgets) <= len(before.Widgets) {
		s.writeError(w, errs.New(errs.ErrCodeInternal, "widget was not added"))
		return
	}
	writeJSON(w, http.StatusCreated, d.Widgets[len(d.Widgets)-1])
}

func (s *Server) removeWidget(w http.ResponseWriter, r *http.Request) {
	id, widgetID := chi.URLParam(r, "id"), chi.URLParam(r, "widgetID")
	if _, err := s.lookupWidget(id, widgetID); err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.dispatch(r.Context(), dashboard.RemoveWidget{DashboardID: id, WidgetID: widgetID}); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateWidget(w http.ResponseWriter, r *http.Request) {
	id, widgetID := chi.URLParam(r, "id"), chi.URLParam(r, "widgetID")
	var patch map[string]any
	if err := decodeBody(w, r, &patch); err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.lookupWidget(id, widgetID); err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.dispatch(r.Context(), dashboard.UpdateWidgetConfig{DashboardID: id, WidgetID: widgetID, Patch: patch})
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, _ := st.Dashboard(id)
	in, _ := d.Widget(widgetID)
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) updateLayouts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var layouts []widget.Layout
	if err := decodeBody(w, r, &layouts); err != nil {
		s.writeError(w, err)
		return
	}
	for _, l := range layouts {
		if l.X < 0 || l.Y < 0 || l.W < 1 || l.H < 1 {
			s.writeError(w, errs.New(errs.ErrCodeInvalidLayout, "invalid layout for %q: %dx%d at (%d,%d)", l.I, l.W, l.H, l.X, l.Y))
			return
		}
	}
	if _, err := s.lookupDashboard(id); err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.dispatch(r.Context(), dashboard.UpdateLayouts{DashboardID: id, Layouts: layouts})
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, _ := st.Dashboard(id)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) shareDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.lookupDashboard(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	token, err := s.codec.Encode(d)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{
		Token:  token,
		URL:    share.URL(s.baseURL, token),
		Length: share.EstimateURLLength(s.baseURL, token),
	})
}

func (s *Server) decodeToken(r *http.Request) (*share.Decoded, error) {
	decoded := s.codec.Decode(chi.URLParam(r, "token"))
	if decoded == nil {
		return nil, errs.New(errs.ErrCodeInvalidToken, "share token could not be decoded")
	}
	return decoded, nil
}

func (s *Server) decodeShare(w http.ResponseWriter, r *http.Request) {
	decoded, err := s.decodeToken(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decoded)
}

func (s *Server) loadShare(w http.ResponseWriter, r *http.Request) {
	decoded, err := s.decodeToken(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.dispatch(r.Context(), dashboard.LoadShared{Widgets: decoded.Widgets, Settings: decoded.Settings})
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, _ := st.Active()
	writeJSON(w, http.StatusCreated, d)
}
