package recordings

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/JaimeStill/callvault/internal/locator"
	"github.com/JaimeStill/callvault/pkg/auth"
	"github.com/JaimeStill/callvault/pkg/handlers"
	"github.com/JaimeStill/callvault/pkg/routes"
)

// Response headers describing the delivered recording.
const (
	HeaderKey       = "X-Recording-Key"
	HeaderAmbiguous = "X-Recording-Ambiguous"
)

// ArchiveName is the attachment name of batch downloads.
const ArchiveName = "recordings.zip"

// Handler provides HTTP endpoints for recording operations.
type Handler struct {
	sys          System
	logger       *slog.Logger
	maxBodySize  int64
	maxBatchSize int
}

// NewHandler creates a Handler. maxBodySize bounds JSON request bodies and
// maxBatchSize the number of requests in one download.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64, maxBatchSize int) *Handler {
	return &Handler{
		sys:          sys,
		logger:       logger.With("handler", "recordings"),
		maxBodySize:  maxBodySize,
		maxBatchSize: maxBatchSize,
	}
}

// Routes returns the route group definition for recording endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/recordings",
		Tags:   []string{"Recordings"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: searchOp},
			{Method: "POST", Pattern: "/metadata", Handler: h.Metadata, OpenAPI: metadataOp},
			{Method: "POST", Pattern: "/resolve", Handler: h.Resolve, OpenAPI: resolveOp},
			{Method: "POST", Pattern: "/audio", Handler: h.Audio, OpenAPI: audioOp},
			{Method: "POST", Pattern: "/download", Handler: h.Download, OpenAPI: downloadOp},
		},
	}
}

// Search returns a page of catalog rows matching the request.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[SearchRequest](w, r, h.maxBodySize)
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.sys.Search(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Metadata returns the catalog row for one recorder file.
func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[MetadataRequest](w, r, h.maxBodySize)
	if err != nil {
		h.fail(w, err)
		return
	}

	rec, err := h.sys.Metadata(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// Resolve reports which object a request resolves to without fetching it.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[locator.Request](w, r, h.maxBodySize)
	if err != nil {
		h.fail(w, err)
		return
	}

	resolved, err := h.sys.Resolve(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resolved)
}

// Audio streams one recording as an MP3 attachment.
func (h *Handler) Audio(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[locator.Request](w, r, h.maxBodySize)
	if err != nil {
		h.fail(w, err)
		return
	}

	audio, err := h.sys.Audio(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.logger.Info("audio requested", "key", audio.Resolved.Key, "requester", requester(r))

	hdr := w.Header()
	hdr.Set("Content-Type", "audio/mpeg")
	hdr.Set("Content-Disposition", attachment(audio.FileName))
	hdr.Set("Content-Length", strconv.Itoa(len(audio.Data)))
	hdr.Set(HeaderKey, audio.Resolved.Key)
	hdr.Set(HeaderAmbiguous, strconv.FormatBool(audio.Resolved.Ambiguous))

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio.Data); err != nil {
		h.logger.Warn("audio write failed", "key", audio.Resolved.Key, "error", err)
	}
}

// Download bundles a list of requests into a ZIP archive. Responds 204 when
// no request produced audio.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	reqs, err := handlers.DecodeJSON[[]locator.Request](w, r, h.maxBodySize)
	if err != nil {
		h.fail(w, err)
		return
	}

	if h.maxBatchSize > 0 && len(reqs) > h.maxBatchSize {
		h.fail(w, fmt.Errorf("%w: %d requests, limit %d", ErrBatchTooLarge, len(reqs), h.maxBatchSize))
		return
	}

	result, err := h.sys.Download(r.Context(), reqs)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.logger.Info("archive requested", "requests", len(reqs), "requester", requester(r))

	if !result.HasContent() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "application/zip")
	hdr.Set("Content-Disposition", attachment(ArchiveName))
	hdr.Set("Content-Length", strconv.Itoa(len(result.Archive)))

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Archive); err != nil {
		h.logger.Warn("archive write failed", "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}

// requester names the authenticated caller, or "anonymous" when
// authentication is disabled.
func requester(r *http.Request) string {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		return "anonymous"
	}
	if claims.PreferredUsername != "" {
		return claims.PreferredUsername
	}
	return claims.Subject
}

func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
