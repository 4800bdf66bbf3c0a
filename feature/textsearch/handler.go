package textsearch

import (
	"errors"
	"strconv"

	"search-indexer/core/logger"
	"search-indexer/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultRunsLimit = 20

// Handler handles HTTP requests for the text search index.
type Handler struct {
	service  *Service
	registry *reconcile.Registry
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, registry *reconcile.Registry) *Handler {
	return &Handler{service: service, registry: registry}
}

// RegisterRoutes registers the text search routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/textsearch")
	group.Post("/refresh", h.HandleRefresh)
	group.Get("/diff", h.HandleDiff)
	group.Get("/status", h.HandleStatus)
	group.Get("/runs", h.HandleListRuns)
	group.Get("/runs/:id", h.HandleGetRun)
	group.Get("/items/:type/:id", h.HandleGetItem)
}

// HandleRefresh runs a reconciliation and returns its report.
// @Summary Refresh Text Search Index
// @Description Reconcile the text search index with the CMS tables. Returns a skipped report when another run holds the lock.
// @Tags textsearch
// @Produce json
// @Param dry_run query bool false "Compute the diff without applying it"
// @Success 200 {object} reconcile.RunReport "Run report"
// @Failure 500 {object} map[string]interface{} "Run failed"
// @Router /textsearch/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	dryRun := c.QueryBool("dry_run", false)

	report, err := h.service.Refresh(c.UserContext(), dryRun)
	if err != nil {
		l.Error("Text search refresh failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"report": report,
		})
	}

	return c.JSON(report)
}

// HandleDiff returns the pending mutations without applying them.
// @Summary Preview Text Search Diff
// @Description Compute the add, update and delete sets of the next run.
// @Tags textsearch
// @Produce json
// @Success 200 {object} textsearch.Preview "Pending diff"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /textsearch/diff [get]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	preview, err := h.service.Preview(c.UserContext())
	if err != nil {
		l.Error("Text search diff failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(preview)
}

// HandleStatus returns the coordinator state.
// @Summary Text Search Status
// @Description Current run state and the report of the last run.
// @Tags textsearch
// @Produce json
// @Success 200 {object} textsearch.Status "Status"
// @Router /textsearch/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleListRuns lists archived run reports.
// @Summary List Run Reports
// @Description List archived run reports, newest first.
// @Tags textsearch
// @Produce json
// @Param limit query int false "Maximum number of reports" default(20)
// @Success 200 {array} textsearch.ReportObject "Archived reports"
// @Failure 404 {object} map[string]string "Archive disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /textsearch/runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	runs, err := h.service.Runs(c.UserContext(), c.QueryInt("limit", defaultRunsLimit))
	if err != nil {
		return h.fail(c, l, "Listing run reports failed", err)
	}

	return c.JSON(runs)
}

// HandleGetRun returns one archived run report.
// @Summary Get Run Report
// @Description Download an archived run report.
// @Tags textsearch
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} reconcile.RunReport "Run report"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /textsearch/runs/{id} [get]
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Run(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, l, "Fetching run report failed", err)
	}

	return c.JSON(report)
}

// HandleGetItem returns the index row of one entity.
// @Summary Get Index Item
// @Description Get the stored text search row of an entity.
// @Tags textsearch
// @Produce json
// @Param type path string true "Base type (e.g. 'Webpage')"
// @Param id path int true "Entity ID"
// @Success 200 {object} models.TextSearchItem "Index row"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /textsearch/items/{type}/{id} [get]
func (h *Handler) HandleGetItem(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	base := reconcile.BaseType(c.Params("type"))
	if !h.registry.Tracks(base) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown base type: " + base.String(),
		})
	}
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid entity id",
		})
	}

	item, err := h.service.Entry(c.UserContext(), base, uint(id))
	if err != nil {
		return h.fail(c, l, "Fetching index item failed", err)
	}

	return c.JSON(item)
}

// fail maps lookup errors to 404 and everything else to 500.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrReportNotFound), errors.Is(err, ErrArchiveDisabled), errors.Is(err, gorm.ErrRecordNotFound):
		status = fiber.StatusNotFound
	default:
		l.Error(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
