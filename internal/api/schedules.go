package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/marcus/hours/internal/serverdb"
	"github.com/marcus/hours/internal/timeofday"
)

// Names of the schedules created on an empty database.
var builtinNames = []string{"Study", "Work"}

type frameRequest struct {
	StartAt string `json:"start_at" validate:"required"`
	EndAt   string `json:"end_at" validate:"required"`
}

type dayRequest struct {
	DayIndex   *int           `json:"day_index" validate:"required,min=0,max=6"`
	TimeFrames []frameRequest `json:"time_frames" validate:"required,min=1,dive"`
}

// CreateScheduleRequest is the body for POST /schedulingHours. A missing
// days_of_week gets the Monday to Friday 9:00 to 17:00 default.
type CreateScheduleRequest struct {
	Name        string       `json:"name" validate:"required,max=200"`
	Description string       `json:"description" validate:"max=2000"`
	DaysOfWeek  []dayRequest `json:"days_of_week" validate:"omitempty,max=7,dive"`
}

// UpdateScheduleRequest is the body for PUT /schedulingHours/{id}. Absent
// fields keep their stored value.
type UpdateScheduleRequest struct {
	Name        *string      `json:"name" validate:"omitempty,max=200"`
	Description *string      `json:"description" validate:"omitempty,max=2000"`
	DaysOfWeek  []dayRequest `json:"days_of_week" validate:"omitempty,max=7,dive"`
}

// FrameResponse is a stored frame on the wire.
type FrameResponse struct {
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

// DayResponse is a stored day on the wire.
type DayResponse struct {
	DayIndex   int             `json:"day_index"`
	TimeFrames []FrameResponse `json:"time_frames"`
}

// ScheduleResponse is a stored schedule on the wire.
type ScheduleResponse struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	DaysOfWeek  []DayResponse `json:"days_of_week"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

func toScheduleResponse(s *serverdb.Schedule) ScheduleResponse {
	resp := ScheduleResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		DaysOfWeek:  make([]DayResponse, 0, len(s.Days)),
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.UTC().Format(time.RFC3339),
	}
	for _, d := range s.Days {
		day := DayResponse{DayIndex: d.DayIndex, TimeFrames: make([]FrameResponse, 0, len(d.TimeFrames))}
		for _, f := range d.TimeFrames {
			day.TimeFrames = append(day.TimeFrames, FrameResponse(f))
		}
		resp.DaysOfWeek = append(resp.DaysOfWeek, day)
	}
	return resp
}

// requestValidator checks request bodies and renders the first failure as
// an English sentence.
type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() (*requestValidator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("register translations: %w", err)
	}
	return &requestValidator{validate: validate, trans: trans}, nil
}

func (v *requestValidator) check(req any) error {
	err := v.validate.Struct(req)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.New(verrs[0].Translate(v.trans))
	}
	return err
}

// normalizeDays parses every wire time, stores it as a pinned UTC datetime
// and rejects repeated day indexes. Frame order is not checked: a valid
// local frame can straddle midnight once converted to UTC.
func normalizeDays(days []dayRequest) ([]serverdb.Day, error) {
	out := make([]serverdb.Day, 0, len(days))
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		idx := *d.DayIndex
		if seen[idx] {
			return nil, fmt.Errorf("day_index %d appears more than once", idx)
		}
		seen[idx] = true
		day := serverdb.Day{DayIndex: idx, TimeFrames: make([]serverdb.Frame, 0, len(d.TimeFrames))}
		for i, f := range d.TimeFrames {
			start, err := timeofday.FromWire(f.StartAt, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("day %d frame %d: invalid start_at %q", idx, i, f.StartAt)
			}
			end, err := timeofday.FromWire(f.EndAt, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("day %d frame %d: invalid end_at %q", idx, i, f.EndAt)
			}
			day.TimeFrames = append(day.TimeFrames, serverdb.Frame{
				StartAt: timeofday.ToDatetime(start),
				EndAt:   timeofday.ToDatetime(end),
			})
		}
		out = append(out, day)
	}
	return out, nil
}

// defaultDays is Monday to Friday, 9:00 to 17:00 UTC.
func defaultDays() []serverdb.Day {
	frame := serverdb.Frame{
		StartAt: timeofday.ToDatetime(timeofday.MustNew(9, 0)),
		EndAt:   timeofday.ToDatetime(timeofday.MustNew(17, 0)),
	}
	days := make([]serverdb.Day, 0, 5)
	for i := 0; i < 5; i++ {
		days = append(days, serverdb.Day{DayIndex: i, TimeFrames: []serverdb.Frame{frame}})
	}
	return days
}

// SeedBuiltins creates the built-in schedules when the store is empty. It
// returns how many schedules were inserted.
func SeedBuiltins(store *serverdb.ServerDB) (int, error) {
	seed := make([]serverdb.Schedule, 0, len(builtinNames))
	for _, name := range builtinNames {
		seed = append(seed, serverdb.Schedule{Name: name, Days: defaultDays()})
	}
	return store.SeedSchedules(seed)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.store.ListSchedules()
	if err != nil {
		writeStoreError(w, r, "list", err)
		return
	}
	resp := make([]ScheduleResponse, 0, len(schedules))
	for _, sc := range schedules {
		resp = append(resp, toScheduleResponse(sc))
	}
	s.metrics.RecordRead(int64(len(resp)))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	sc, err := s.store.GetSchedule(r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, "get", err)
		return
	}
	s.metrics.RecordRead(1)
	writeJSON(w, http.StatusOK, toScheduleResponse(sc))
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req CreateScheduleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	if err := s.validator.check(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, "name is required")
		return
	}

	days := defaultDays()
	if req.DaysOfWeek != nil {
		var err error
		if days, err = normalizeDays(req.DaysOfWeek); err != nil {
			writeError(w, http.StatusUnprocessableEntity, ErrCodeInvalidSchedule, err.Error())
			return
		}
	}

	sc, err := s.store.CreateSchedule(req.Name, req.Description, days)
	if err != nil {
		writeStoreError(w, r, "create", err)
		return
	}
	s.metrics.RecordWrite()
	logFor(r.Context()).Info("schedule created", "id", sc.ID, "name", sc.Name)
	writeJSON(w, http.StatusCreated, toScheduleResponse(sc))
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateScheduleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	if err := s.validator.check(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, "name must not be empty")
		return
	}

	patch := serverdb.SchedulePatch{Name: req.Name, Description: req.Description}
	if req.DaysOfWeek != nil {
		days, err := normalizeDays(req.DaysOfWeek)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, ErrCodeInvalidSchedule, err.Error())
			return
		}
		patch.Days = days
	}

	sc, err := s.store.UpdateSchedule(id, patch)
	if err != nil {
		writeStoreError(w, r, "update", err)
		return
	}
	s.metrics.RecordWrite()
	writeJSON(w, http.StatusOK, toScheduleResponse(sc))
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	sc, err := s.store.DeleteSchedule(r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, "delete", err)
		return
	}
	s.metrics.RecordWrite()
	logFor(r.Context()).Info("schedule deleted", "id", sc.ID, "name", sc.Name)
	writeJSON(w, http.StatusOK, toScheduleResponse(sc))
}
