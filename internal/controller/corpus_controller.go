package controller

import (
	"ai-docqa-be/internal/dto"
	"ai-docqa-be/internal/pkg/serverutils"
	"ai-docqa-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICorpusController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	QueueIngest(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	ListDocuments(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Purge(ctx *fiber.Ctx) error
}

type corpusController struct {
	corpusService service.ICorpusService
}

func NewCorpusController(corpusService service.ICorpusService) ICorpusController {
	return &corpusController{
		corpusService: corpusService,
	}
}

func (c *corpusController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/corpus/v1")
	h.Post("documents", c.Ingest)
	h.Post("documents/async", c.QueueIngest)
	h.Post("ask", c.Ask)
	h.Get("namespaces/:namespace/documents", c.ListDocuments)
	h.Get("namespaces/:namespace/stats", c.Stats)
	h.Delete("namespaces/:namespace", c.Purge)
}

func (c *corpusController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.corpusService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success ingest document", res))
}

func (c *corpusController) QueueIngest(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.corpusService.QueueIngest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Document queued for ingestion", res))
}

func (c *corpusController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.corpusService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer query", res))
}

func (c *corpusController) ListDocuments(ctx *fiber.Ctx) error {
	namespace := ctx.Params("namespace")

	res, err := c.corpusService.ListDocuments(ctx.Context(), namespace)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *corpusController) Stats(ctx *fiber.Ctx) error {
	namespace := ctx.Params("namespace")

	res, err := c.corpusService.Stats(ctx.Context(), namespace)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success namespace stats", res))
}

func (c *corpusController) Purge(ctx *fiber.Ctx) error {
	namespace := ctx.Params("namespace")

	res, err := c.corpusService.Purge(ctx.Context(), namespace)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success purge namespace", res))
}
