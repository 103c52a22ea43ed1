package handlers

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/Aakash768/imf-gadget-api/internal/api/httpx"
	"github.com/Aakash768/imf-gadget-api/internal/models"
	"github.com/Aakash768/imf-gadget-api/internal/services"
	"github.com/go-chi/chi/v5"
)

// displayZone is the fixed zone for human-readable timestamps on read paths.
var displayZone = loadDisplayZone()

func loadDisplayZone() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.UTC
	}
	return loc
}

// gadgetView is the serialization boundary: persisted fields plus the derived
// mission-success probability, regenerated on every read and never stored.
type gadgetView struct {
	ID                        string  `json:"id"`
	Name                      string  `json:"name"`
	Codename                  string  `json:"codename"`
	Status                    string  `json:"status"`
	CreatedAt                 string  `json:"created_at"`
	UpdatedAt                 string  `json:"updated_at"`
	DecommissionedAt          *string `json:"decommissioned_at"`
	MissionSuccessProbability string  `json:"missionSuccessProbability"`
}

func newGadgetView(g models.Gadget) gadgetView {
	v := gadgetView{
		ID:                        g.ID,
		Name:                      g.Name,
		Codename:                  g.Codename,
		Status:                    string(g.Status),
		CreatedAt:                 g.CreatedAt.In(displayZone).Format(time.RFC3339),
		UpdatedAt:                 g.UpdatedAt.In(displayZone).Format(time.RFC3339),
		MissionSuccessProbability: fmt.Sprintf("%.2f%%", rand.Float64()*100),
	}
	if g.DecommissionedAt != nil {
		s := g.DecommissionedAt.In(displayZone).Format(time.RFC3339)
		v.DecommissionedAt = &s
	}
	return v
}

type GadgetHandler struct {
	Svc *services.GadgetService
}

func NewGadgetHandler(svc *services.GadgetService) *GadgetHandler {
	return &GadgetHandler{Svc: svc}
}

func identifierParam(r *http.Request) string {
	raw := chi.URLParam(r, "identifier")
	if dec, err := url.PathUnescape(raw); err == nil {
		return dec
	}
	return raw
}

func (h *GadgetHandler) List(w http.ResponseWriter, r *http.Request) {
	gadgets, err := h.Svc.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	views := make([]gadgetView, 0, len(gadgets))
	for _, g := range gadgets {
		views = append(views, newGadgetView(g))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}

func (h *GadgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := h.Svc.Create(r.Context(), req.Name, req.Status)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newGadgetView(g))
}

func (h *GadgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   *string `json:"name"`
		Status *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := h.Svc.Update(r.Context(), identifierParam(r), req.Name, req.Status)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newGadgetView(g))
}

func (h *GadgetHandler) Decommission(w http.ResponseWriter, r *http.Request) {
	g, err := h.Svc.Decommission(r.Context(), identifierParam(r))
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newGadgetView(g))
}

func (h *GadgetHandler) SelfDestruct(w http.ResponseWriter, r *http.Request) {
	g, code, err := h.Svc.SelfDestruct(r.Context(), identifierParam(r))
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":          "Self-destruct sequence initiated",
		"confirmationCode": code,
		"gadget":           newGadgetView(g),
	})
}
