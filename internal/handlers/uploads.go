package handlers

import (
	stdErrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/sitecms/internal/blob"
	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/pkg/errors"
	"github.com/charlesng35/sitecms/pkg/response"
)

const (
	uploadField       = "file"
	immutableCache    = "public, max-age=31536000, immutable"
	multipartOverhead = 1 << 20
)

// BlobHandler accepts image uploads and serves stored blobs.
type BlobHandler struct {
	store *blob.Store
}

func NewBlobHandler(store *blob.Store) *BlobHandler {
	return &BlobHandler{store: store}
}

type uploadResponse struct {
	FileID   string        `json:"file_id"`
	URL      string        `json:"url"`
	Filename string        `json:"filename"`
	Media    *models.Media `json:"media"`
}

// POST /api/admin/upload
func (h *BlobHandler) Upload(c *gin.Context) {
	maxSize := h.store.MaxSize()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stdErrors.As(err, &tooLarge) {
			respondError(c, errors.ErrPayloadTooLarge)
			return
		}
		respondError(c, errors.NewBadRequest("no file provided"))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, errors.NewBadRequest("unable to read uploaded file"))
		return
	}
	defer file.Close()

	// One byte past the limit is enough for the store to refuse the payload.
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		respondError(c, errors.NewBadRequest("unable to read uploaded file"))
		return
	}

	media, err := h.store.Put(requestContext(c), blob.PutInput{
		Data:       data,
		Filename:   header.Filename,
		MimeType:   header.Header.Get("Content-Type"),
		UploadedBy: currentUserID(c),
		Alt:        c.PostForm("alt"),
		Title:      c.PostForm("title"),
		Folder:     c.PostForm("folder"),
	})
	if err != nil {
		respondError(c, blobError(err))
		return
	}

	response.Success(c, http.StatusCreated, uploadResponse{
		FileID:   media.ID,
		URL:      media.URL(),
		Filename: media.OriginalName,
		Media:    media,
	})
}

// GET /api/files/:id
func (h *BlobHandler) File(c *gin.Context) {
	ctx := requestContext(c)
	id := c.Param("id")

	meta, err := h.store.Stat(ctx, id)
	if err != nil {
		respondError(c, blobError(err))
		return
	}

	etag := strconv.Quote(meta.Checksum)
	if meta.Checksum != "" && c.GetHeader("If-None-Match") == etag {
		c.Header("ETag", etag)
		c.Header("Cache-Control", immutableCache)
		c.Status(http.StatusNotModified)
		return
	}

	obj, err := h.store.Get(ctx, id)
	if err != nil {
		respondError(c, blobError(err))
		return
	}

	c.Header("Cache-Control", immutableCache)
	if meta.Checksum != "" {
		c.Header("ETag", etag)
	}
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": obj.Media.OriginalName}))
	c.Data(http.StatusOK, obj.Media.MimeType, obj.Data)
}

// blobError maps blob store failures onto API errors. Storage causes stay internal.
func blobError(err error) error {
	var invalid *blob.ValidationError
	if stdErrors.As(err, &invalid) {
		switch invalid.Reason {
		case blob.ReasonTooLarge:
			return errors.ErrPayloadTooLarge.WithMessage(invalid.Message)
		case blob.ReasonUnsupportedType, blob.ReasonContentMismatch:
			return errors.ErrUnsupportedMediaType.WithMessage(invalid.Message)
		default:
			return errors.NewBadRequest(invalid.Message)
		}
	}
	if stdErrors.Is(err, blob.ErrNotFound) {
		return errors.ErrNotFound.WithMessage("file not found")
	}
	return errors.ErrInternalServer.WithInternal(err)
}
