package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/handwash-service/internal/model"
	"github.com/iliyamo/handwash-service/internal/repository"
)

// RecordedHook runs after an observation has been stored.  Errors are
// logged and do not affect the submit response.
type RecordedHook func(ctx context.Context, o model.Observation) error

// rawStatsLimit bounds the deprecated raw stats response.
const rawStatsLimit = 100

// ObservationHandler bundles the store and the read policies for the
// observation endpoints.
type ObservationHandler struct {
	Store        repository.ObservationStore // Store persists and queries observations
	RecordsLimit int                        // RecordsLimit bounds /api/records; 0 returns every row
	RawStats     bool                       // RawStats serves recent rows instead of grouped counts (deprecated)
	Now          func() time.Time           // Now is the server clock used for missing timestamps
	OnRecorded   []RecordedHook             // OnRecorded runs after each successful insert
}

// NewObservationHandler constructs an ObservationHandler and panics if the
// store is nil.
func NewObservationHandler(store repository.ObservationStore, recordsLimit int, rawStats bool, hooks ...RecordedHook) *ObservationHandler {
	if store == nil {
		panic("nil store passed to NewObservationHandler")
	}
	return &ObservationHandler{
		Store:        store,
		RecordsLimit: recordsLimit,
		RawStats:     rawStats,
		Now:          time.Now,
		OnRecorded:   hooks,
	}
}

// Submit handles POST /api/submit.  Required fields are checked before any
// storage access; a valid body becomes exactly one new row.
func (h *ObservationHandler) Submit(c echo.Context) error {
	var in model.SubmitInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := in.Validate(); err != nil {
		c.Logger().Debugf("submit rejected: %v", err)
		return fail(c, http.StatusBadRequest, err.Error())
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	obs := in.Observation(now())

	ctx := c.Request().Context()
	if err := h.Store.InsertObservation(ctx, &obs); err != nil {
		c.Logger().Errorf("submit failed: %v", err)
		return fail(c, http.StatusInternalServerError, "failed to save observation: "+err.Error())
	}
	c.Logger().Infof("observation %d recorded", obs.ID)

	for _, hook := range h.OnRecorded {
		if err := hook(ctx, obs); err != nil {
			c.Logger().Warnf("post-submit hook failed for observation %d: %v", obs.ID, err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":     StatusSuccess,
		"message":    "observation recorded",
		"insertedId": obs.ID,
		"data":       obs,
	})
}

// Records handles GET /api/records and returns observations newest first.
func (h *ObservationHandler) Records(c echo.Context) error {
	rows, err := h.Store.ListObservations(c.Request().Context(), h.RecordsLimit)
	if err != nil {
		c.Logger().Errorf("records failed: %v", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	if rows == nil {
		rows = []model.Observation{}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": StatusSuccess, "data": rows})
}

// Stats handles GET /api/stats.  The three groupings are queried
// independently; if any one fails the whole request fails.
func (h *ObservationHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	if h.RawStats {
		rows, err := h.Store.ListObservations(ctx, rawStatsLimit)
		if err != nil {
			c.Logger().Errorf("stats failed: %v", err)
			return fail(c, http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{"status": StatusSuccess, "data": rows})
	}

	var stats model.Stats
	groupings := []struct {
		field string
		dst   *[]model.GroupCount
	}{
		{"status", &stats.ByStatus},
		{"method", &stats.ByMethod},
		{"quality", &stats.ByQuality},
	}
	for _, g := range groupings {
		counts, err := h.Store.GroupCounts(ctx, g.field)
		if err != nil {
			c.Logger().Errorf("stats failed: %v", err)
			return fail(c, http.StatusInternalServerError, err.Error())
		}
		if counts == nil {
			counts = []model.GroupCount{}
		}
		*g.dst = counts
	}
	return c.JSON(http.StatusOK, echo.Map{"status": StatusSuccess, "data": stats})
}
