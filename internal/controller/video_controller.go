package controller

import (
	"tubemind-be/internal/dto"
	"tubemind-be/internal/pkg/serverutils"
	"tubemind-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVideoController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type videoController struct {
	videoService service.IVideoService
}

func NewVideoController(videoService service.IVideoService) IVideoController {
	return &videoController{
		videoService: videoService,
	}
}

func (c *videoController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/video/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("ingest", c.Ingest)
	h.Get(":id/status", c.Status)
}

func (c *videoController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestVideoRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.videoService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest video", res))
}

func (c *videoController) Status(ctx *fiber.Ctx) error {
	videoId := ctx.Params("id")
	if videoId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing video id")
	}

	res, err := c.videoService.Status(ctx.Context(), videoId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get video status", res))
}
