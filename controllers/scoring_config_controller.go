package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atlascrm/atlas_backend/config"
	"github.com/atlascrm/atlas_backend/models"
	"github.com/atlascrm/atlas_backend/repositories"
)

// ScoringConfigController is the admin surface for the per-kind weight
// and threshold maps the scoring pipelines read.
type ScoringConfigController struct {
	DB      *mongo.Client
	configs *repositories.ScoringConfigRepository
}

func NewScoringConfigController(db *mongo.Client) *ScoringConfigController {
	return &ScoringConfigController{
		DB:      db,
		configs: repositories.NewScoringConfigRepository(db.Database(config.DatabaseName())),
	}
}

// Get returns the active config for one scoring kind.
func (cc *ScoringConfigController) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kind := c.Param("kind")
	if kind != models.ScoringKindClientHealth && kind != models.ScoringKindSquadHealth {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown scoring kind",
		})
	}

	cfg, err := cc.configs.FindByKind(ctx, kind)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch scoring configuration",
		})
	}
	if cfg == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No scoring configuration found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Scoring configuration retrieved successfully",
		Data:    cfg,
	})
}

// Put replaces the config for one scoring kind. Weights must be
// non-negative and sum above zero so the next run cannot be wedged by a
// config that rejects every combination.
func (cc *ScoringConfigController) Put(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kind := c.Param("kind")
	if kind != models.ScoringKindClientHealth && kind != models.ScoringKindSquadHealth {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown scoring kind",
		})
	}

	var cfg models.ScoringConfig
	if err := c.Bind(&cfg); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var total float64
	for name, w := range cfg.Weights {
		if w < 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Weight for factor " + name + " cannot be negative",
			})
		}
		total += w
	}
	if total == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Weights must sum above zero",
		})
	}

	cfg.Kind = kind
	if cfg.Status == "" {
		cfg.Status = "active"
	}

	if err := cc.configs.Upsert(ctx, &cfg); err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store scoring configuration",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Scoring configuration updated successfully",
		Data:    cfg,
	})
}
