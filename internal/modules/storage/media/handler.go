package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/debtprotection/blog-core/internal/middleware"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
	"github.com/debtprotection/blog-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts /upload and /media. Every route needs a signed-in user.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/upload", authMW, h.uploadImage)

	g := rg.Group("/media", authMW)
	g.GET("", h.list)
	g.GET("/stats", h.stats)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Media not found")
	case errors.Is(err, ErrForbidden):
		response.ForbiddenMsg(c, "You can only modify your own uploads")
	case errors.Is(err, ErrTooLarge):
		response.PayloadTooLarge(c, err.Error())
	case errors.Is(err, ErrNoFile), errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrInvalidURL), errors.Is(err, ErrFetch):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// readForm loads the multipart file under field, if one was sent.
func (h *Handler) readForm(c *gin.Context, field string) (*File, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFile, err)
	}
	if limit := h.svc.MaxBytes(); limit > 0 && fh.Size > limit {
		return nil, fmt.Errorf("%w: limit is %dMB", ErrTooLarge, limit>>20)
	}
	data, err := readAll(fh)
	if err != nil {
		return nil, err
	}
	return &File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
		AltText:     c.PostForm("altText"),
		Caption:     c.PostForm("caption"),
	}, nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

type urlUpload struct {
	ImageURL string `json:"imageUrl" form:"imageUrl"`
	AltText  string `json:"altText"  form:"altText"`
	Caption  string `json:"caption"  form:"caption"`
}

// uploadImage POST /upload
// Accepts a multipart "image" file or an imageUrl to download.
func (h *Handler) uploadImage(c *gin.Context) {
	ctx := c.Request.Context()
	actor := middleware.CurrentUser(c)

	file, err := h.readForm(c, "image")
	if err != nil {
		writeError(c, err)
		return
	}
	if file != nil {
		m, err := h.svc.Upload(ctx, actor, *file, AcceptImages)
		if err != nil {
			writeError(c, err)
			return
		}
		response.Created(c, gin.H{"success": true, "media": m, "imageUrl": m.URL, "message": "Image uploaded successfully"})
		return
	}

	var in urlUpload
	if err := c.ShouldBind(&in); err != nil || in.ImageURL == "" {
		writeError(c, ErrNoFile)
		return
	}
	m, err := h.svc.UploadFromURL(ctx, actor, in.ImageURL, in.AltText, in.Caption)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, gin.H{"success": true, "media": m, "imageUrl": m.URL, "message": "Image uploaded successfully from URL"})
}

// list GET /media?q=&type=images|videos|documents
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	f := ListFilter{Search: c.Query("q"), Kind: ParseKind(c.Query("type"))}
	rows, total, err := h.svc.List(c.Request.Context(), f, q)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paged(c, rows, pagination.Meta(q, total))
}

// stats GET /media/stats
func (h *Handler) stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, st)
}

// create POST /media
func (h *Handler) create(c *gin.Context) {
	file, err := h.readForm(c, "file")
	if err != nil {
		writeError(c, err)
		return
	}
	if file == nil {
		response.BadRequest(c, "Please select a file to upload")
		return
	}
	m, err := h.svc.Upload(c.Request.Context(), middleware.CurrentUser(c), *file, AcceptLibrary)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, m)
}

// update PUT /media/:id
func (h *Handler) update(c *gin.Context) {
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, m)
}

// delete DELETE /media/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Media deleted successfully"})
}
