package care

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-care-simulator/internal/domain/pets"
	"pet-care-simulator/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/pets/{petID}/status", statusHandler(svc))
	r.Get("/pets/{petID}/activity", listActivityHandler(svc))

	r.Route("/pets/{petID}/care", func(cr chi.Router) {
		cr.Post("/feed", feedHandler(svc))
		cr.Post("/walk", walkHandler(svc))
		cr.Post("/play", playHandler(svc))
		cr.Post("/bath", bathHandler(svc))
		cr.Post("/heal", healHandler(svc))
		cr.Post("/medicine", medicineHandler(svc))
		cr.Post("/sleep", sleepHandler(svc))
		cr.Post("/customize", customizeHandler(svc))

		// Acciones administrativas / de prueba
		cr.Post("/sick", sickHandler(svc))
		cr.Post("/decay", decayHandler(svc))
	})
}

type feedRequest struct {
	Food string `json:"food"` // opcional, "default" o "premium"
}

type healRequest struct {
	Disease string `json:"disease"` // vacío o "all" cura todo
}

type medicineRequest struct {
	Medicine string `json:"medicine"`
}

type sickRequest struct {
	Disease string `json:"disease"`
}

type decayRequest struct {
	Hours *int `json:"hours"` // opcional, por defecto 1
}

type customizeRequest struct {
	Item string    `json:"item"`
	Type pets.Tier `json:"type" enums:"free,paid"`
}

// actionResponse es el resumen de una acción de cuidado.
// Solo se incluyen los campos que la acción reporta.
type actionResponse struct {
	Message       string              `json:"message"`
	Health        *int                `json:"health,omitempty"`
	Happiness     *int                `json:"happiness,omitempty"`
	Diseases      *[]string           `json:"diseases,omitempty"`
	Cured         []string            `json:"cured,omitempty"`
	MedicineUsed  string              `json:"medicineUsed,omitempty"`
	Customization *pets.Customization `json:"customization,omitempty"`
	SideEffect    string              `json:"side_effect,omitempty"`
	Dead          bool                `json:"dead,omitempty"`
}

// statusResponse es la foto completa de la mascota.
type statusResponse struct {
	ID            string             `json:"id"`
	OwnerUserID   string             `json:"owner_user_id"`
	Name          string             `json:"name"`
	Type          string             `json:"type"`
	SuperPower    string             `json:"super_power,omitempty"`
	Personality   pets.Personality   `json:"personality"`
	Health        int                `json:"health"`
	Happiness     int                `json:"happiness"`
	Diseases      []string           `json:"diseases"`
	Status        pets.Status        `json:"status"`
	DeathAt       *time.Time         `json:"death_at,omitempty"`
	History       []pets.Activity    `json:"activity_history"`
	LastCareAt    *time.Time         `json:"last_care_at,omitempty"`
	Customization pets.Customization `json:"customization"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// feedHandler godoc
// @Summary Alimentar mascota
// @Description Alimenta a la mascota. Con salud completa puede causar indigestión; más de 3 comidas en 10 minutos causan empacho.
// @Tags care
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body feedRequest false "Comida (default | premium)"
// @Success 200 {object} actionResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /pets/{petID}/care/feed [post]
func feedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req feedRequest
		if err := decodeOptional(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.Feed(r.Context(), chi.URLParam(r, "petID"), userID, req.Food)
		writeResult(w, res, err)
	}
}

// walkHandler godoc
// @Summary Pasear mascota
// @Tags care
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} actionResponse
// @Failure 400,401,403,404,409 {object} errorResponse
// @Router /pets/{petID}/care/walk [post]
func walkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		res, err := svc.Walk(r.Context(), chi.URLParam(r, "petID"), userID)
		writeResult(w, res, err)
	}
}

// playHandler godoc
// @Summary Jugar con la mascota
// @Description Más de 3 juegos en 10 minutos dejan a la mascota cansada.
// @Tags care
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} actionResponse
// @Failure 400,401,403,404,409 {object} errorResponse
// @Router /pets/{petID}/care/play [post]
func playHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		res, err := svc.Play(r.Context(), chi.URLParam(r, "petID"), userID)
		writeResult(w, res, err)
	}
}

// bathHandler godoc
// @Summary Bañar mascota
// @Description Más de 2 baños en 30 minutos causan resfriado.
// @Tags care
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} actionResponse
// @Failure 400,401,403,404,409 {object} errorResponse
// @Router /pets/{petID}/care/bath [post]
func bathHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		res, err := svc.Bathe(r.Context(), chi.URLParam(r, "petID"), userID)
		writeResult(w, res, err)
	}
}

// healHandler godoc
// @Summary Curar enfermedad
// @Description Cura una enfermedad puntual o todas (disease vacío o "all").
// @Tags care
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body healRequest false "Enfermedad a curar"
// @Success 200 {object} actionResponse
// @Failure 400,401,403,404,409 {object} errorResponse
// @Router /pets/{petID}/care/heal [post]
func healHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req healRequest
		if err := decodeOptional(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.Heal(r.Context(), chi.URLParam(r, "petID"), userID, req.Disease)
		writeResult(w, res, err)
	}
}

// medicineHandler godoc
// @Summary Curar con medicina
// @Description Aplica una medicina del catálogo (Parazetamol cura empacho e indigestión).
// @Tags care
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body medicineRequest true "Medicina"
// @Success 200 {object} actionResponse
// @Failure 400,401,403,404,409 {object} errorResponse
// @Router /pets/{petID}/care/medicine [post]
func medicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req medicineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.HealWithMedicine(r.Context(), chi.URLParam(r, "petID"), userID, req.Medicine)
		writeResult(w, res, err)
	}
}

// sleepHandler godoc
// @Summary Hacer dormir a la mascota
// @Description Solo si está cansada. Cura el cansancio.
// @Tags care
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} actionResponse
// @Failure 400,401,403,404,409 {object} errorResponse
// @Router /pets/{petID}/care/sleep [post]
func sleepHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		res, err := svc.Sleep(r.Context(), chi.URLParam(r, "petID"), userID)
		writeResult(w, res, err)
	}
}

// customizeHandler godoc
// @Summary Customizar mascota
// @Description Agrega un item cosmético. El tipo paid requiere la feature customization:paid.
// @Tags care
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body customizeRequest true "Item y tipo"
// @Success 200 {object} actionResponse
// @Failure 400,401,403,404,409 {object} errorResponse
// @Router /pets/{petID}/care/customize [post]
func customizeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req customizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.Customize(r.Context(), chi.URLParam(r, "petID"), userID, req.Item, req.Type)
		writeResult(w, res, err)
	}
}

// sickHandler godoc
// @Summary Enfermar mascota (admin/test)
// @Tags care
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body sickRequest true "Enfermedad"
// @Success 200 {object} actionResponse
// @Failure 400,401,403,404,409 {object} errorResponse
// @Router /pets/{petID}/care/sick [post]
func sickHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req sickRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.MakeSick(r.Context(), chi.URLParam(r, "petID"), userID, req.Disease)
		writeResult(w, res, err)
	}
}

// decayHandler godoc
// @Summary Simular abandono (admin/test)
// @Description Aplica el decaimiento de hours horas. Con 24h o más puede causar tristeza.
// @Tags care
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body decayRequest false "Horas (por defecto 1)"
// @Success 200 {object} actionResponse
// @Failure 400,401,403,404,409 {object} errorResponse
// @Router /pets/{petID}/care/decay [post]
func decayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req decayRequest
		if err := decodeOptional(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		hours := 1
		if req.Hours != nil {
			hours = *req.Hours
		}

		res, err := svc.Decay(r.Context(), chi.URLParam(r, "petID"), userID, hours)
		writeResult(w, res, err)
	}
}

// statusHandler godoc
// @Summary Estado de la mascota
// @Description Devuelve la foto completa de la mascota (solo el dueño).
// @Tags care
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} statusResponse
// @Failure 401,403,404 {object} errorResponse
// @Router /pets/{petID}/status [get]
func statusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		p, err := svc.GetStatus(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toStatusResponse(p))
	}
}

// listActivityHandler godoc
// @Summary Historial de actividad
// @Description Lista el historial de la mascota, más reciente primero. Permite filtrar por tipos, rango de fechas y texto.
// @Tags care
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param limit query int false "Máximo de entradas (1-200). Por defecto 50"
// @Param kinds query string false "Lista CSV de acciones (ej: feed,sick)"
// @Param from query string false "Fecha/hora mínima (RFC3339)"
// @Param to query string false "Fecha/hora máxima (RFC3339)"
// @Param q query string false "Texto libre en comida/enfermedad/medicina/item"
// @Success 200 {array} pets.Activity
// @Failure 400,401,403,404 {object} errorResponse
// @Router /pets/{petID}/activity [get]
func listActivityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		filter, err := parseActivityFilter(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		items, err := svc.ListActivity(r.Context(), chi.URLParam(r, "petID"), userID, filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}

func parseActivityFilter(r *http.Request) (ActivityFilter, error) {
	limit := DefaultActivityLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxActivityLimit {
			limit = n
		}
	}

	filter := ActivityFilter{Limit: limit}

	// kinds=feed,sick
	if v := strings.TrimSpace(r.URL.Query().Get("kinds")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if k := pets.ActivityKind(strings.TrimSpace(p)); k != "" {
				filter.Kinds = append(filter.Kinds, k)
			}
		}
	}

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ActivityFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ActivityFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}

	filter.Query = strings.TrimSpace(r.URL.Query().Get("q"))

	return filter, nil
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return claims.UserID, true
}

// decodeOptional acepta un body vacío.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeResult(w http.ResponseWriter, res Result, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toActionResponse(res))
}

func toActionResponse(res Result) actionResponse {
	out := actionResponse{
		Message:      res.Message,
		Cured:        res.Cured,
		MedicineUsed: res.MedicineUsed,
		SideEffect:   res.SideEffect,
		Dead:         res.Died,
	}
	if res.Has(FieldHealth) {
		h := res.Health
		out.Health = &h
	}
	if res.Has(FieldHappiness) {
		h := res.Happiness
		out.Happiness = &h
	}
	if res.Has(FieldDiseases) {
		d := res.Diseases
		if d == nil {
			d = []string{}
		}
		out.Diseases = &d
	}
	if res.Has(FieldCustomization) {
		c := nonNilCustomization(res.Customization)
		out.Customization = &c
	}
	return out
}

func toStatusResponse(p pets.Pet) statusResponse {
	out := statusResponse{
		ID:            p.ID,
		OwnerUserID:   p.OwnerUserID,
		Name:          p.Name,
		Type:          p.Type,
		SuperPower:    p.SuperPower,
		Personality:   p.Personality,
		Health:        p.Health,
		Happiness:     p.Happiness,
		Diseases:      p.Diseases,
		Status:        p.Status,
		DeathAt:       p.DeathAt,
		History:       p.History,
		LastCareAt:    p.LastCareAt,
		Customization: nonNilCustomization(p.Customization),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if out.Diseases == nil {
		out.Diseases = []string{}
	}
	if out.History == nil {
		out.History = []pets.Activity{}
	}
	return out
}

func nonNilCustomization(c pets.Customization) pets.Customization {
	if c.Free == nil {
		c.Free = []string{}
	}
	if c.Paid == nil {
		c.Paid = []string{}
	}
	return c
}

// StatusFor traduce el tipo de error del motor a un código HTTP.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyDead), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage evita filtrar detalles internos en errores 500.
func publicMessage(err error) string {
	var ve *validationError
	switch {
	case errors.As(err, &ve):
		return ve.msg
	case errors.Is(err, ErrNotFound):
		return ErrNotFound.Error()
	case errors.Is(err, ErrForbidden):
		return ErrForbidden.Error()
	case errors.Is(err, ErrAlreadyDead):
		return ErrAlreadyDead.Error()
	case errors.Is(err, ErrConflict):
		return ErrConflict.Error()
	default:
		return "internal error"
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, StatusFor(err), publicMessage(err))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
