package http_handler

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/anthanhphan/go-image-host/internal/api/config"
	"github.com/anthanhphan/go-image-host/internal/api/domain"
	"github.com/anthanhphan/go-image-host/internal/api/port"
	"github.com/anthanhphan/go-image-host/pkg/formfield"
	sdklogger "github.com/anthanhphan/gosdk/logger"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
)

const (
	// ImageFieldName is the multipart field carrying the uploaded image.
	ImageFieldName = "img"
	// ImageContentType is the media type pattern accepted for uploads.
	ImageContentType = "image/*"

	uploadedView = "uploaded"
	cacheForever = "public, max-age=31536000, immutable"
)

//go:embed views/*.html
var viewsFS embed.FS

type Server struct {
	app     *fiber.App
	cfg     *config.Config
	service port.ImageService
}

func NewServer(cfg *config.Config, service port.ImageService) *Server {
	views, err := fs.Sub(viewsFS, "views")
	if err != nil {
		// embed guarantees the directory exists
		panic(err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit:                    cfg.Server.BodyLimit,
		StreamRequestBody:            true, // larger bodies are streamed; the field size cap is enforced by formfield
		// fasthttp would otherwise buffer and parse the whole form before the handler runs
		DisablePreParseMultipartForm: true,
		Views:                        html.NewFileSystem(http.FS(views), ".html"),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New())

	s := &Server{
		app:     app,
		cfg:     cfg,
		service: service,
	}

	// Routes
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.handleHealth)

	images := s.app.Group("/i")
	images.Post("/upload", s.handleUpload)
	images.Get("/:filename", s.handleImage)

	// Static assets go last so they never shadow the image routes.
	s.app.Static("/", s.cfg.Server.StaticDir)
}

func (s *Server) Start() error {
	return s.app.Listen(s.cfg.Addr())
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) sendJSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	host := c.Get(fiber.HeaderHost)
	if host == "" {
		// Not ours to answer without a host to build the URL from.
		return c.Next()
	}

	// Use raw request body stream
	bodyStream := c.Context().RequestBodyStream()
	if bodyStream == nil {
		bodyStream = bytes.NewReader(c.Body())
	}

	field, err := formfield.Extract(c.Get(fiber.HeaderContentType), bodyStream, formfield.Options{
		Name:        ImageFieldName,
		MaxSize:     s.cfg.App.MaxImageSize,
		ContentType: ImageContentType,
	})
	if err != nil {
		sdklogger.Warnw("Upload rejected", "error", err.Error())
		return s.sendJSONError(c, uploadErrorStatus(err), uploadErrorMessage(err))
	}

	img, err := s.service.UploadImage(c.UserContext(), domain.UploadRequest{
		Host:     host,
		FileName: field.FileName,
		Data:     bytes.NewReader(field.Data),
	})
	if err != nil {
		return s.sendJSONError(c, uploadErrorStatus(err), uploadErrorMessage(err))
	}

	if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
		return c.JSON(img)
	}
	return c.Render(uploadedView, fiber.Map{
		"URL":  img.URL,
		"Name": img.Name,
	})
}

func (s *Server) handleImage(c *fiber.Ctx) error {
	// Stored names may carry escaped characters in their public URL.
	name, err := url.PathUnescape(c.Params("filename"))
	if err != nil {
		return s.sendJSONError(c, fiber.StatusNotFound, "Image not found")
	}

	img, err := s.service.OpenImage(c.UserContext(), name)
	if err != nil {
		if errors.Is(err, port.ErrImageNotFound) || errors.Is(err, port.ErrInvalidImageName) {
			return s.sendJSONError(c, fiber.StatusNotFound, "Image not found")
		}
		sdklogger.Errorw("Image read failed", "name", name, "error", err.Error())
		return s.sendJSONError(c, fiber.StatusInternalServerError, "Failed to read image")
	}

	c.Set(fiber.HeaderContentType, img.ContentType)
	c.Set(fiber.HeaderCacheControl, cacheForever)
	if !img.ModTime.IsZero() {
		c.Set(fiber.HeaderLastModified, img.ModTime.UTC().Format(http.TimeFormat))
	}

	// fasthttp closes the body once it has been sent.
	return c.SendStream(img.Body, int(img.Size))
}

// uploadErrorStatus maps upload failures to HTTP status codes.
func uploadErrorStatus(err error) int {
	switch {
	case errors.Is(err, formfield.ErrPayloadTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, formfield.ErrUnsupportedMediaType):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, formfield.ErrMissingField),
		errors.Is(err, formfield.ErrMalformedForm),
		errors.Is(err, port.ErrInvalidImageName),
		errors.Is(err, port.ErrMissingHost):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, formfield.ErrPayloadTooLarge):
		return "Image too large"
	case errors.Is(err, formfield.ErrUnsupportedMediaType):
		return "Data not an image"
	case errors.Is(err, formfield.ErrMissingField):
		return "Missing field '" + ImageFieldName + "'"
	case errors.Is(err, formfield.ErrMalformedForm):
		return "Malformed multipart form"
	case errors.Is(err, port.ErrInvalidImageName):
		return "Invalid file name"
	case errors.Is(err, port.ErrMissingHost):
		return "Missing Host header"
	default:
		return "Failed to store image"
	}
}
